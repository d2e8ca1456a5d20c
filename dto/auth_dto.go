package dto

import "hors-serie-api/domain"

// LoginRequest representa el request para login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse es la vista pública de un usuario (sin password)
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NewUserResponse arma la vista pública
func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username}
}

// LoginResponse representa la respuesta del login.
// El token viaja en la cookie, no en el body.
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MeResponse es la respuesta de GET /api/admin/me
type MeResponse struct {
	User UserResponse `json:"user"`
}
