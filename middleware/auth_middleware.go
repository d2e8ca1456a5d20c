package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hors-serie-api/domain"
	"hors-serie-api/dto"
	"hors-serie-api/services"
)

const currentUserKey = "current_user"

// SessionMiddleware resuelve la cookie de sesión en cada request.
// Si la sesión es válida guarda el usuario en el contexto; nunca corta la cadena.
func SessionMiddleware(auth services.AuthService, cookieName string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrAuthRequired) {
				log.WithError(err).Error("Error resolving session")
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAuth corta con 401 si la request no tiene un usuario autenticado.
// No hay roles: cualquier usuario autenticado es administrador.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "auth_required",
				Message: "Authentication required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser devuelve el usuario resuelto por SessionMiddleware
func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}
