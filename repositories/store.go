package repositories

import (
	"context"
	"errors"

	"hors-serie-api/domain"
)

var (
	// ErrDuplicateUsername indica que el username ya está registrado
	ErrDuplicateUsername = errors.New("repositories: username already exists")
)

// PropertyRepository define las operaciones sobre el catálogo.
// "No encontrado" no es un error: se informa con el bool.
type PropertyRepository interface {
	ListProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id string) (domain.Property, bool, error)
	ListPropertiesByType(ctx context.Context, propertyType string) ([]domain.Property, error)
	ListPropertiesByCity(ctx context.Context, city string) ([]domain.Property, error)
	SearchProperties(ctx context.Context, filters domain.SearchFilters) ([]domain.Property, error)
	CreateProperty(ctx context.Context, property domain.Property) (domain.Property, error)
	UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, bool, error)
	ReorderProperties(ctx context.Context, ids []string) error
	DeleteProperty(ctx context.Context, id string) (bool, error)
	CountProperties(ctx context.Context) (int, error)
}

// ContactRepository guarda los mensajes de contacto (solo agregar)
type ContactRepository interface {
	CreateContact(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
}

// UserRepository guarda los administradores (solo agregar)
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (domain.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
}

// Store agrupa los tres repositorios con un ciclo de vida explícito
type Store interface {
	PropertyRepository
	ContactRepository
	UserRepository
	Close() error
}
