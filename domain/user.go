package domain

import "time"

// User es un administrador del back-office.
// Cualquier usuario autenticado tiene todos los permisos.
type User struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username string `gorm:"type:varchar(64);unique;not null" json:"username"`
	Password string `gorm:"not null" json:"-"` // hash bcrypt, nunca en JSON
}

// TableName especifica el nombre de la tabla en MySQL
func (User) TableName() string {
	return "users"
}

// Session asocia un token de sesión opaco con un usuario
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired indica si la sesión superó su vida absoluta
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
