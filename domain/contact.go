package domain

import "time"

// Subjects ofrecidos por el formulario de contacto
const (
	ContactSubjectSearch      = "recherche"
	ContactSubjectSale        = "vente"
	ContactSubjectValuation   = "estimation"
	ContactSubjectInformation = "information"
)

// Contact es un mensaje enviado desde el formulario de contacto.
// CreatedAt se fija al crearlo y no cambia nunca.
type Contact struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"not null" json:"email"`
	Phone      *string   `json:"phone"`
	Subject    string    `gorm:"not null" json:"subject"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	PropertyID *string   `gorm:"column:property_id;type:varchar(36)" json:"propertyId"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Contact) TableName() string {
	return "contacts"
}
