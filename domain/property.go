package domain

import "strings"

// PropertyStatus define el estado comercial de una propiedad
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available" // En venta
	PropertyStatusSold      PropertyStatus = "sold"      // Vendida
	PropertyStatusReserved  PropertyStatus = "reserved"  // Reservada
)

// AllTypesSentinels son los valores de "tipo" que significan "sin filtro"
var AllTypesSentinels = []string{"tous", "all"}

// Property representa un bien del catálogo de la agencia
type Property struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Type         string         `gorm:"type:varchar(64);not null;index" json:"type"`
	Price        int            `gorm:"not null" json:"price"` // en euros
	City         string         `gorm:"type:varchar(128);not null" json:"city"`
	Address      string         `gorm:"not null" json:"address"`
	Latitude     string         `gorm:"type:varchar(32);not null" json:"latitude"`
	Longitude    string         `gorm:"type:varchar(32);not null" json:"longitude"`
	Surface      int            `gorm:"not null" json:"surface"` // m²
	Bedrooms     int            `gorm:"not null" json:"bedrooms"`
	Bathrooms    int            `gorm:"not null" json:"bathrooms"`
	LandSize     int            `gorm:"column:land_size;not null" json:"landSize"` // m²
	Images       []string       `gorm:"serializer:json;type:json;not null" json:"images"`
	Features     []string       `gorm:"serializer:json;type:json" json:"features"`
	Status       PropertyStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	DPEValue     *int           `gorm:"column:dpe_value" json:"dpeValue"`
	DPEClass     *string        `gorm:"column:dpe_class;type:varchar(1)" json:"dpeClass"`
	GESValue     *int           `gorm:"column:ges_value" json:"gesValue"`
	GESClass     *string        `gorm:"column:ges_class;type:varchar(1)" json:"gesClass"`
	DisplayOrder int            `gorm:"column:display_order;not null;default:0;index" json:"displayOrder"`
	// Sequence desempata displayOrder con el orden de inserción
	Sequence int64 `gorm:"column:insert_seq;not null;default:0" json:"-"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Property) TableName() string {
	return "properties"
}

// PropertyPatch contiene los campos de una actualización parcial.
// nil significa "no tocar". DisplayOrder no está: solo lo cambia el reordenamiento.
// Los Clear* borran el campo (el cliente mandó null) y ganan sobre el valor.
type PropertyPatch struct {
	Title       *string
	Description *string
	Type        *string
	Price       *int
	City        *string
	Address     *string
	Latitude    *string
	Longitude   *string
	Surface     *int
	Bedrooms    *int
	Bathrooms   *int
	LandSize    *int
	Images      *[]string
	Features    *[]string
	Status      *PropertyStatus
	DPEValue    *int
	GESValue    *int

	ClearFeatures bool
	ClearDPEValue bool
	ClearGESValue bool
}

// SearchFilters son los filtros de la búsqueda avanzada (AND lógico).
// Un filtro nil no restringe nada.
type SearchFilters struct {
	Type       *string
	City       *string
	MinPrice   *int
	MaxPrice   *int
	MinSurface *int
}

// IsAllTypes indica si el tipo pedido es el centinela "todos"
func IsAllTypes(propertyType string) bool {
	for _, sentinel := range AllTypesSentinels {
		if strings.EqualFold(propertyType, sentinel) {
			return true
		}
	}
	return false
}

// IsValidStatus valida el estado
func IsValidStatus(status PropertyStatus) bool {
	switch status {
	case PropertyStatusAvailable, PropertyStatusSold, PropertyStatusReserved:
		return true
	default:
		return false
	}
}

// Normalize aplica los valores por defecto y recalcula las clases energéticas
func (p Property) Normalize() Property {
	if p.Status == "" {
		p.Status = PropertyStatusAvailable
	}
	p.DPEValue = normalizeEnergyValue(p.DPEValue)
	p.GESValue = normalizeEnergyValue(p.GESValue)
	p.DPEClass = ClassifyDPE(p.DPEValue)
	p.GESClass = ClassifyGES(p.GESValue)
	return p
}

// ApplyPatch fusiona los campos presentes del patch sobre la propiedad.
// El ID y el DisplayOrder nunca cambian acá.
func (p Property) ApplyPatch(patch PropertyPatch) Property {
	updated := p.Clone()

	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.City != nil {
		updated.City = *patch.City
	}
	if patch.Address != nil {
		updated.Address = *patch.Address
	}
	if patch.Latitude != nil {
		updated.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		updated.Longitude = *patch.Longitude
	}
	if patch.Surface != nil {
		updated.Surface = *patch.Surface
	}
	if patch.Bedrooms != nil {
		updated.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		updated.Bathrooms = *patch.Bathrooms
	}
	if patch.LandSize != nil {
		updated.LandSize = *patch.LandSize
	}
	if patch.Images != nil {
		updated.Images = cloneStrings(*patch.Images)
	}
	if patch.ClearFeatures {
		updated.Features = nil
	} else if patch.Features != nil {
		updated.Features = cloneStrings(*patch.Features)
	}
	if patch.Status != nil && *patch.Status != "" {
		updated.Status = *patch.Status
	}
	if patch.ClearDPEValue {
		updated.DPEValue = nil
	} else if patch.DPEValue != nil {
		updated.DPEValue = cloneInt(patch.DPEValue)
	}
	if patch.ClearGESValue {
		updated.GESValue = nil
	} else if patch.GESValue != nil {
		updated.GESValue = cloneInt(patch.GESValue)
	}

	updated.ID = p.ID
	updated.DisplayOrder = p.DisplayOrder
	updated.Sequence = p.Sequence
	return updated.Normalize()
}

// Clone devuelve una copia profunda (slices y punteros incluidos)
func (p Property) Clone() Property {
	clone := p
	clone.Images = cloneStrings(p.Images)
	clone.Features = cloneStrings(p.Features)
	clone.DPEValue = cloneInt(p.DPEValue)
	clone.GESValue = cloneInt(p.GESValue)
	clone.DPEClass = cloneString(p.DPEClass)
	clone.GESClass = cloneString(p.GESClass)
	return clone
}

// Energy arma la etiqueta energética con sus colores
func (p Property) Energy() EnergyLabel {
	return EnergyLabel{
		PropertyID: p.ID,
		DPE: EnergyRating{
			Value: cloneInt(p.DPEValue),
			Class: cloneString(p.DPEClass),
			Color: EnergyColor(EnergyKindDPE, p.DPEClass),
		},
		GES: EnergyRating{
			Value: cloneInt(p.GESValue),
			Class: cloneString(p.GESClass),
			Color: EnergyColor(EnergyKindGES, p.GESClass),
		},
	}
}

// MatchesType compara el tipo sin distinguir mayúsculas; el centinela acepta todo
func (p Property) MatchesType(propertyType string) bool {
	return IsAllTypes(propertyType) || strings.EqualFold(p.Type, propertyType)
}

// MatchesCity busca la subcadena en la ciudad sin distinguir mayúsculas
func (p Property) MatchesCity(city string) bool {
	return strings.Contains(strings.ToLower(p.City), strings.ToLower(city))
}

// Matches evalúa todos los filtros presentes
func (p Property) Matches(filters SearchFilters) bool {
	if filters.Type != nil && *filters.Type != "" && !p.MatchesType(*filters.Type) {
		return false
	}
	if filters.City != nil && *filters.City != "" && !p.MatchesCity(*filters.City) {
		return false
	}
	if filters.MinPrice != nil && p.Price < *filters.MinPrice {
		return false
	}
	if filters.MaxPrice != nil && p.Price > *filters.MaxPrice {
		return false
	}
	if filters.MinSurface != nil && p.Surface < *filters.MinSurface {
		return false
	}
	return true
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
