package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hors-serie-api/dto"
	"hors-serie-api/repositories"
	"hors-serie-api/services"
)

// ObjectController maneja la subida y descarga de imágenes
type ObjectController struct {
	service services.ObjectService
	log     logrus.FieldLogger
}

// NewObjectController crea una nueva instancia del controlador
func NewObjectController(service services.ObjectService, log logrus.FieldLogger) *ObjectController {
	return &ObjectController{service: service, log: log}
}

// UploadURL maneja POST /api/admin/upload-url
func (ctrl *ObjectController) UploadURL(c *gin.Context) {
	uploadURL, err := ctrl.service.UploadURL(c.Request.Context())
	if err != nil {
		writeInternalError(c, ctrl.log, "Failed to generate upload URL", err)
		return
	}
	c.JSON(http.StatusOK, dto.UploadURLResponse{UploadURL: uploadURL})
}

// Upload maneja PUT /objects/upload/:token; el body es el archivo
func (ctrl *ObjectController) Upload(c *gin.Context) {
	objectPath, err := ctrl.service.Upload(c.Request.Context(), c.Param("token"), c.Request.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUploadToken):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "invalid_upload_token",
				Message: "Upload URL is invalid or expired",
			})
		case errors.Is(err, services.ErrObjectTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error:   "object_too_large",
				Message: "File is too large",
			})
		default:
			writeInternalError(c, ctrl.log, "Failed to store file", err)
		}
		return
	}
	c.JSON(http.StatusOK, dto.ObjectResponse{ObjectPath: objectPath})
}

// Serve maneja GET /objects/*objectPath
func (ctrl *ObjectController) Serve(c *gin.Context) {
	file, err := ctrl.service.Open(c.Request.Context(), c.Param("objectPath"))
	if err != nil {
		if !errors.Is(err, repositories.ErrObjectNotFound) {
			ctrl.log.WithError(err).Error("Error serving object")
		}
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "File not found",
			Message: "File not found",
		})
		return
	}
	defer file.Content.Close()

	c.Header("Cache-Control", "public, max-age=3600")
	http.ServeContent(c.Writer, c.Request, file.Name, file.ModTime, file.Content)
}
