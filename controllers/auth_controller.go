package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hors-serie-api/dto"
	"hors-serie-api/middleware"
	"hors-serie-api/services"
)

// CookieConfig describe la cookie de sesión
type CookieConfig struct {
	Name   string
	MaxAge int // segundos
	Secure bool
}

// AuthController maneja login, logout y sesión actual
type AuthController struct {
	service services.AuthService
	cookie  CookieConfig
	log     logrus.FieldLogger
}

// NewAuthController crea una nueva instancia del controlador
func NewAuthController(service services.AuthService, cookie CookieConfig, log logrus.FieldLogger) *AuthController {
	return &AuthController{service: service, cookie: cookie, log: log}
}

// Login maneja POST /api/admin/login
func (ctrl *AuthController) Login(c *gin.Context) {
	// 1. Leer el JSON del body
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, "Invalid request data", err)
		return
	}

	// 2. Validar credenciales y abrir la sesión
	result, err := ctrl.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Mismo mensaje para usuario inexistente y password incorrecto
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Invalid credentials",
			})
			return
		}
		writeInternalError(c, ctrl.log, "Internal server error", err)
		return
	}

	// 3. El token viaja en una cookie HttpOnly
	ctrl.setSessionCookie(c, result.Token, ctrl.cookie.MaxAge)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    dto.NewUserResponse(result.User),
	})
}

// Logout maneja POST /api/admin/logout; funciona con o sin sesión
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, _ := c.Cookie(ctrl.cookie.Name)
	if err := ctrl.service.Logout(c.Request.Context(), token); err != nil {
		writeInternalError(c, ctrl.log, "Failed to logout", err)
		return
	}

	ctrl.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}

// Me maneja GET /api/admin/me
func (ctrl *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "not_authenticated",
			Message: "Not authenticated",
		})
		return
	}
	c.JSON(http.StatusOK, dto.MeResponse{User: dto.NewUserResponse(user)})
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.Name, value, maxAge, "/", "", ctrl.cookie.Secure, true)
}
