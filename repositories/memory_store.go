package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"hors-serie-api/domain"
)

// MemoryStore guarda todo en memoria durante la vida del proceso.
// Las escrituras concurrentes sobre el mismo registro ganan por orden de llegada.
type MemoryStore struct {
	mu         sync.RWMutex
	properties map[string]domain.Property
	contacts   map[string]domain.Contact
	contactIDs []string
	users      map[string]domain.User
	sequence   int64

	now   func() time.Time
	newID func() string
}

// MemoryStoreOption configura un MemoryStore
type MemoryStoreOption func(*MemoryStore)

// WithClock reemplaza el reloj (útil en tests)
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator reemplaza el generador de IDs (útil en tests)
func WithIDGenerator(newID func() string) MemoryStoreOption {
	return func(s *MemoryStore) { s.newID = newID }
}

// NewMemoryStore crea un store vacío
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		properties: make(map[string]domain.Property),
		contacts:   make(map[string]domain.Contact),
		users:      make(map[string]domain.User),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListProperties devuelve el catálogo ordenado por displayOrder
func (s *MemoryStore) ListProperties(ctx context.Context) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(domain.Property) bool { return true }), nil
}

// GetProperty busca una propiedad por ID
func (s *MemoryStore) GetProperty(ctx context.Context, id string) (domain.Property, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	property, ok := s.properties[id]
	if !ok {
		return domain.Property{}, false, nil
	}
	return property.Clone(), true, nil
}

// ListPropertiesByType filtra por tipo; "tous" devuelve todo
func (s *MemoryStore) ListPropertiesByType(ctx context.Context, propertyType string) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(p domain.Property) bool { return p.MatchesType(propertyType) }), nil
}

// ListPropertiesByCity filtra por subcadena de ciudad
func (s *MemoryStore) ListPropertiesByCity(ctx context.Context, city string) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(p domain.Property) bool { return p.MatchesCity(city) }), nil
}

// SearchProperties aplica todos los filtros presentes
func (s *MemoryStore) SearchProperties(ctx context.Context, filters domain.SearchFilters) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(p domain.Property) bool { return p.Matches(filters) }), nil
}

// CreateProperty asigna ID, valores por defecto y displayOrder = max+1
func (s *MemoryStore) CreateProperty(ctx context.Context, property domain.Property) (domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := property.Clone().Normalize()
	created.ID = s.newID()
	created.DisplayOrder = s.nextDisplayOrderLocked()
	s.sequence++
	created.Sequence = s.sequence

	s.properties[created.ID] = created
	return created.Clone(), nil
}

// UpdateProperty fusiona el patch sobre la propiedad existente
func (s *MemoryStore) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.properties[id]
	if !ok {
		return domain.Property{}, false, nil
	}

	updated := existing.ApplyPatch(patch)
	s.properties[id] = updated
	return updated.Clone(), true, nil
}

// ReorderProperties asigna displayOrder = posición a cada ID conocido.
// Los IDs desconocidos se ignoran.
func (s *MemoryStore) ReorderProperties(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index, id := range ids {
		property, ok := s.properties[id]
		if !ok {
			continue
		}
		property.DisplayOrder = index
		s.properties[id] = property
	}
	return nil
}

// DeleteProperty elimina una propiedad; false si no existía
func (s *MemoryStore) DeleteProperty(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return false, nil
	}
	delete(s.properties, id)
	return true, nil
}

// CountProperties devuelve la cantidad de propiedades
func (s *MemoryStore) CountProperties(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.properties), nil
}

// CreateContact asigna ID y fecha de creación
func (s *MemoryStore) CreateContact(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact.ID = s.newID()
	contact.CreatedAt = s.now()
	s.contacts[contact.ID] = contact
	s.contactIDs = append(s.contactIDs, contact.ID)
	return contact, nil
}

// ListContacts devuelve los contactos en orden de inserción
func (s *MemoryStore) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]domain.Contact, 0, len(s.contactIDs))
	for _, id := range s.contactIDs {
		contacts = append(contacts, s.contacts[id])
	}
	return contacts, nil
}

// GetUserByID busca un usuario por ID
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	return user, ok, nil
}

// GetUserByUsername busca un usuario por username (exacto)
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, true, nil
		}
	}
	return domain.User{}, false, nil
}

// CreateUser guarda un usuario con el password ya hasheado
func (s *MemoryStore) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.User{}, ErrDuplicateUsername
		}
	}

	user.ID = s.newID()
	s.users[user.ID] = user
	return user, nil
}

// Close libera el contenido del store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.properties = make(map[string]domain.Property)
	s.contacts = make(map[string]domain.Contact)
	s.contactIDs = nil
	s.users = make(map[string]domain.User)
	return nil
}

func (s *MemoryStore) filterLocked(keep func(domain.Property) bool) []domain.Property {
	out := make([]domain.Property, 0, len(s.properties))
	for _, property := range s.properties {
		if keep(property) {
			out = append(out, property.Clone())
		}
	}
	sortProperties(out)
	return out
}

func (s *MemoryStore) nextDisplayOrderLocked() int {
	if len(s.properties) == 0 {
		return 0
	}
	highest := -1
	for _, property := range s.properties {
		if property.DisplayOrder > highest {
			highest = property.DisplayOrder
		}
	}
	return highest + 1
}

// sortProperties ordena por displayOrder y desempata por orden de inserción
func sortProperties(properties []domain.Property) {
	sort.SliceStable(properties, func(i, j int) bool {
		if properties[i].DisplayOrder != properties[j].DisplayOrder {
			return properties[i].DisplayOrder < properties[j].DisplayOrder
		}
		return properties[i].Sequence < properties[j].Sequence
	})
}
