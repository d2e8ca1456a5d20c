package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hors-serie-api/dto"
	"hors-serie-api/services"
)

// PropertyController maneja los endpoints del catálogo
type PropertyController struct {
	service services.PropertyService
	log     logrus.FieldLogger
}

// NewPropertyController crea una nueva instancia del controlador
func NewPropertyController(service services.PropertyService, log logrus.FieldLogger) *PropertyController {
	return &PropertyController{service: service, log: log}
}

// ListProperties maneja GET /api/properties
func (ctrl *PropertyController) ListProperties(c *gin.Context) {
	properties, err := ctrl.service.ListProperties(c.Request.Context())
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to fetch properties", err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ListPropertiesByType maneja GET /api/properties/type/:type
// Ejemplo: GET /api/properties/type/château, o /type/tous para todas
func (ctrl *PropertyController) ListPropertiesByType(c *gin.Context) {
	properties, err := ctrl.service.ListPropertiesByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to fetch properties by type", err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ListPropertiesByCity maneja GET /api/properties/city/:city
func (ctrl *PropertyController) ListPropertiesByCity(c *gin.Context) {
	properties, err := ctrl.service.ListPropertiesByCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to fetch properties by city", err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// SearchProperties maneja GET /api/properties/search?type=&city=&minPrice=&maxPrice=&minSurface=
func (ctrl *PropertyController) SearchProperties(c *gin.Context) {
	request, errs := parseSearchRequest(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid search parameters",
			Errors:  errs,
		})
		return
	}

	properties, err := ctrl.service.SearchProperties(c.Request.Context(), request.ToFilters())
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to search properties", err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetProperty maneja GET /api/properties/:id
func (ctrl *PropertyController) GetProperty(c *gin.Context) {
	property, err := ctrl.service.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			writeNotFound(c, "Property not found")
			return
		}
		writeInternalError(c, ctrl.log, "Failed to fetch property", err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// GetEnergyLabel maneja GET /api/properties/:id/energy
func (ctrl *PropertyController) GetEnergyLabel(c *gin.Context) {
	label, err := ctrl.service.GetEnergyLabel(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			writeNotFound(c, "Property not found")
			return
		}
		writeInternalError(c, ctrl.log, "Failed to fetch energy label", err)
		return
	}
	c.JSON(http.StatusOK, label)
}

// CreateProperty maneja POST /api/admin/properties
func (ctrl *PropertyController) CreateProperty(c *gin.Context) {
	// 1. Leer y validar el JSON del body
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, "Invalid property data", err)
		return
	}

	// 2. Guardar (el store asigna ID, orden y clases energéticas)
	property, err := ctrl.service.CreateProperty(c.Request.Context(), req.ToDomain())
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to create property", err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

// UpdateProperty maneja PUT /api/admin/properties/:id (actualización parcial)
func (ctrl *PropertyController) UpdateProperty(c *gin.Context) {
	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, "Invalid property data", err)
		return
	}

	property, err := ctrl.service.UpdateProperty(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			writeNotFound(c, "Property not found")
			return
		}
		writeInternalError(c, ctrl.log, "Failed to update property", err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// DeleteProperty maneja DELETE /api/admin/properties/:id
func (ctrl *PropertyController) DeleteProperty(c *gin.Context) {
	err := ctrl.service.DeleteProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			writeNotFound(c, "Property not found")
			return
		}
		writeInternalError(c, ctrl.log, "Failed to delete property", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Property deleted successfully"})
}

// ReorderProperties maneja PATCH /api/admin/properties/order
// Body: {"propertyIds": ["id3", "id1", "id2"]}
func (ctrl *PropertyController) ReorderProperties(c *gin.Context) {
	var req dto.ReorderPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PropertyIDs == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "propertyIds must be an array",
		})
		return
	}

	if err := ctrl.service.ReorderProperties(c.Request.Context(), *req.PropertyIDs); err != nil {
		writeInternalError(c, ctrl.log, "Failed to update property order", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Property order updated successfully"})
}

// parseSearchRequest parsea los query parameters; un parámetro vacío es ausente
func parseSearchRequest(c *gin.Context) (dto.SearchPropertiesRequest, []dto.FieldError) {
	request := dto.SearchPropertiesRequest{
		Type: strings.TrimSpace(c.Query("type")),
		City: strings.TrimSpace(c.Query("city")),
	}

	var errs []dto.FieldError
	parseInt := func(name string) *int {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			return nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, dto.FieldError{Field: name, Message: "must be an integer"})
			return nil
		}
		return &value
	}

	request.MinPrice = parseInt("minPrice")
	request.MaxPrice = parseInt("maxPrice")
	request.MinSurface = parseInt("minSurface")
	return request, errs
}
