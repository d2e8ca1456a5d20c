package services

import "errors"

var (
	// ErrPropertyNotFound indica que no existe una propiedad con ese ID
	ErrPropertyNotFound = errors.New("services: property not found")
	// ErrInvalidCredentials no distingue usuario inexistente de password incorrecto
	ErrInvalidCredentials = errors.New("services: invalid credentials")
	// ErrAuthRequired indica que la request no tiene una sesión válida
	ErrAuthRequired = errors.New("services: authentication required")
	// ErrInvalidUploadToken indica un token de subida inválido o vencido
	ErrInvalidUploadToken = errors.New("services: invalid upload token")
	// ErrObjectTooLarge indica que el archivo supera el límite de subida
	ErrObjectTooLarge = errors.New("services: object too large")
)
