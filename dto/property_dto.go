package dto

import (
	"bytes"
	"encoding/json"

	"hors-serie-api/domain"
)

// clearableFields son los campos opcionales que un PUT puede borrar mandando null
var clearableFields = []string{"features", "dpeValue", "gesValue"}

// CreatePropertyRequest es el body de POST /api/admin/properties.
// dpeClass, gesClass y displayOrder se ignoran: los calcula el servidor.
type CreatePropertyRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Price       *int     `json:"price" binding:"required,min=0"`
	City        string   `json:"city" binding:"required"`
	Address     string   `json:"address" binding:"required"`
	Latitude    string   `json:"latitude" binding:"required,latitude"`
	Longitude   string   `json:"longitude" binding:"required,longitude"`
	Surface     *int     `json:"surface" binding:"required,min=0"`
	Bedrooms    *int     `json:"bedrooms" binding:"required,min=0"`
	Bathrooms   *int     `json:"bathrooms" binding:"required,min=0"`
	LandSize    *int     `json:"landSize" binding:"required,min=0"`
	Images      []string `json:"images" binding:"required,min=1,dive,required"`
	Features    []string `json:"features" binding:"omitempty,dive,required"`
	Status      string   `json:"status" binding:"omitempty,oneof=available sold reserved"`
	DPEValue    *int     `json:"dpeValue"`
	GESValue    *int     `json:"gesValue"`
}

// ToDomain convierte el request en una propiedad sin ID ni orden
func (r CreatePropertyRequest) ToDomain() domain.Property {
	return domain.Property{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Price:       derefInt(r.Price),
		City:        r.City,
		Address:     r.Address,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Surface:     derefInt(r.Surface),
		Bedrooms:    derefInt(r.Bedrooms),
		Bathrooms:   derefInt(r.Bathrooms),
		LandSize:    derefInt(r.LandSize),
		Images:      r.Images,
		Features:    r.Features,
		Status:      domain.PropertyStatus(r.Status),
		DPEValue:    r.DPEValue,
		GESValue:    r.GESValue,
	}
}

// UpdatePropertyRequest es el body de PUT /api/admin/properties/:id.
// Todos los campos son opcionales. Un campo ausente no cambia; null en
// features, dpeValue o gesValue lo borra.
type UpdatePropertyRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1"`
	Description *string   `json:"description" binding:"omitempty,min=1"`
	Type        *string   `json:"type" binding:"omitempty,min=1"`
	Price       *int      `json:"price" binding:"omitempty,min=0"`
	City        *string   `json:"city" binding:"omitempty,min=1"`
	Address     *string   `json:"address" binding:"omitempty,min=1"`
	Latitude    *string   `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *string   `json:"longitude" binding:"omitempty,longitude"`
	Surface     *int      `json:"surface" binding:"omitempty,min=0"`
	Bedrooms    *int      `json:"bedrooms" binding:"omitempty,min=0"`
	Bathrooms   *int      `json:"bathrooms" binding:"omitempty,min=0"`
	LandSize    *int      `json:"landSize" binding:"omitempty,min=0"`
	Images      *[]string `json:"images" binding:"omitempty,min=1,dive,required"`
	Features    *[]string `json:"features" binding:"omitempty,dive,required"`
	Status      *string   `json:"status" binding:"omitempty,oneof=available sold reserved"`
	DPEValue    *int      `json:"dpeValue"`
	GESValue    *int      `json:"gesValue"`

	nulls map[string]bool
}

// UnmarshalJSON decodifica el body y recuerda qué campos llegaron como null
func (r *UpdatePropertyRequest) UnmarshalJSON(data []byte) error {
	type plain UpdatePropertyRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = UpdatePropertyRequest(decoded)
	r.nulls = make(map[string]bool)
	for _, field := range clearableFields {
		if value, ok := raw[field]; ok && bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			r.nulls[field] = true
		}
	}
	return nil
}

// ToPatch convierte el request en un patch de dominio
func (r UpdatePropertyRequest) ToPatch() domain.PropertyPatch {
	patch := domain.PropertyPatch{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Price:       r.Price,
		City:        r.City,
		Address:     r.Address,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Surface:     r.Surface,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		LandSize:    r.LandSize,
		Images:      r.Images,
		Features:    r.Features,
		DPEValue:    r.DPEValue,
		GESValue:    r.GESValue,

		ClearFeatures: r.nulls["features"],
		ClearDPEValue: r.nulls["dpeValue"],
		ClearGESValue: r.nulls["gesValue"],
	}
	if r.Status != nil {
		status := domain.PropertyStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// ReorderPropertiesRequest es el body de PATCH /api/admin/properties/order.
// El puntero permite distinguir "ausente" de "lista vacía".
type ReorderPropertiesRequest struct {
	PropertyIDs *[]string `json:"propertyIds"`
}

// SearchPropertiesRequest son los query params de GET /api/properties/search
type SearchPropertiesRequest struct {
	Type       string `form:"type"`
	City       string `form:"city"`
	MinPrice   *int   `form:"minPrice"`
	MaxPrice   *int   `form:"maxPrice"`
	MinSurface *int   `form:"minSurface"`
}

// ToFilters convierte el request en filtros de dominio
func (r SearchPropertiesRequest) ToFilters() domain.SearchFilters {
	filters := domain.SearchFilters{
		MinPrice:   r.MinPrice,
		MaxPrice:   r.MaxPrice,
		MinSurface: r.MinSurface,
	}
	if r.Type != "" {
		propertyType := r.Type
		filters.Type = &propertyType
	}
	if r.City != "" {
		city := r.City
		filters.City = &city
	}
	return filters
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
