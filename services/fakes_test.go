package services

import (
	"context"
	"errors"
	"sync"

	"hors-serie-api/domain"
	"hors-serie-api/repositories"
)

// ============================================
// FAKES compartidos por los tests del paquete
// ============================================

type publishedEvent struct {
	queue   string
	payload interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{queue: queue, payload: payload})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// countingStore cuenta las lecturas de listas que llegan al store
type countingStore struct {
	*repositories.MemoryStore
	mu    sync.Mutex
	lists int
}

func (s *countingStore) ListProperties(ctx context.Context) ([]domain.Property, error) {
	s.mu.Lock()
	s.lists++
	s.mu.Unlock()
	return s.MemoryStore.ListProperties(ctx)
}

func (s *countingStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

// failingStore falla en todas las operaciones del catálogo
type failingStore struct {
	*repositories.MemoryStore
}

var errStoreDown = errors.New("store down")

func (failingStore) ListProperties(context.Context) ([]domain.Property, error) {
	return nil, errStoreDown
}

func (failingStore) GetProperty(context.Context, string) (domain.Property, bool, error) {
	return domain.Property{}, false, errStoreDown
}

func (failingStore) CreateContact(context.Context, domain.Contact) (domain.Contact, error) {
	return domain.Contact{}, errStoreDown
}

// fakeUsers permite borrar usuarios, cosa que el store no expone
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]domain.User)}
	for _, user := range users {
		f.users[user.ID] = user
	}
	return f
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	return user, ok, nil
}

func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return user, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (f *fakeUsers) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsers) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sampleProperty(title, propertyType, city string, price int) domain.Property {
	return domain.Property{
		Title:       title,
		Description: "Belle propriété",
		Type:        propertyType,
		Price:       price,
		City:        city,
		Address:     "1 Rue Test",
		Latitude:    "47.47",
		Longitude:   "-0.55",
		Surface:     150,
		Bedrooms:    3,
		Bathrooms:   1,
		LandSize:    300,
		Images:      []string{"/objects/uploads/x"},
	}
}
