package dto

// ErrorResponse representa una respuesta de error.
// Errors solo aparece en errores de validación.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describe un campo inválido del body o de la query
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse representa una respuesta exitosa sin datos
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadURLResponse es la respuesta de POST /api/admin/upload-url
type UploadURLResponse struct {
	UploadURL string `json:"uploadURL"`
}

// ObjectResponse es la respuesta de una subida exitosa
type ObjectResponse struct {
	ObjectPath string `json:"objectPath"`
}
