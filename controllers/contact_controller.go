package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hors-serie-api/dto"
	"hors-serie-api/services"
)

// ContactController maneja el formulario de contacto
type ContactController struct {
	service services.ContactService
	log     logrus.FieldLogger
}

// NewContactController crea una nueva instancia del controlador
func NewContactController(service services.ContactService, log logrus.FieldLogger) *ContactController {
	return &ContactController{service: service, log: log}
}

// CreateContact maneja POST /api/contacts (público)
func (ctrl *ContactController) CreateContact(c *gin.Context) {
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, "Invalid contact data", err)
		return
	}

	contact, err := ctrl.service.CreateContact(c.Request.Context(), req.ToDomain())
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to create contact", err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// ListContacts maneja GET /api/contacts (admin)
func (ctrl *ContactController) ListContacts(c *gin.Context) {
	contacts, err := ctrl.service.ListContacts(c.Request.Context())
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to fetch contacts", err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}
