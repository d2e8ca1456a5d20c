package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"hors-serie-api/domain"
	"hors-serie-api/events"
	"hors-serie-api/repositories"
)

// ContactService define las operaciones sobre los mensajes de contacto
type ContactService interface {
	CreateContact(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
}

type contactService struct {
	repo      repositories.ContactRepository
	publisher events.Publisher
	log       logrus.FieldLogger
}

// NewContactService crea una nueva instancia de ContactService
func NewContactService(repo repositories.ContactRepository, publisher events.Publisher, log logrus.FieldLogger) ContactService {
	return &contactService{repo: repo, publisher: publisher, log: log}
}

// CreateContact guarda el mensaje y avisa por la cola de contactos
func (s *contactService) CreateContact(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	created, err := s.repo.CreateContact(ctx, contact)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("services: create contact: %w", err)
	}

	message := events.ContactMessage{
		Action:     events.ActionCreate,
		ContactID:  created.ID,
		PropertyID: created.PropertyID,
	}
	if err := s.publisher.Publish(ctx, events.ContactsQueue, message); err != nil {
		s.log.WithError(err).WithField("contact_id", created.ID).Warn("Failed to publish contact event")
	}
	return created, nil
}

// ListContacts devuelve todos los mensajes recibidos
func (s *contactService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: list contacts: %w", err)
	}
	return contacts, nil
}
