package dto

import "hors-serie-api/domain"

// CreateContactRequest es lo que envía el formulario de contacto
type CreateContactRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone" binding:"omitempty"`
	Subject    string  `json:"subject" binding:"required"`
	Message    string  `json:"message" binding:"required"`
	PropertyID *string `json:"propertyId" binding:"omitempty"`
}

// ToDomain convierte el request en un contacto sin ID ni fecha
func (r CreateContactRequest) ToDomain() domain.Contact {
	return domain.Contact{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      emptyToNil(r.Phone),
		Subject:    r.Subject,
		Message:    r.Message,
		PropertyID: emptyToNil(r.PropertyID),
	}
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}
