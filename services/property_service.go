package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"hors-serie-api/domain"
	"hors-serie-api/events"
	"hors-serie-api/repositories"
)

// PropertyService define las operaciones sobre el catálogo
type PropertyService interface {
	ListProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id string) (domain.Property, error)
	GetEnergyLabel(ctx context.Context, id string) (domain.EnergyLabel, error)
	ListPropertiesByType(ctx context.Context, propertyType string) ([]domain.Property, error)
	ListPropertiesByCity(ctx context.Context, city string) ([]domain.Property, error)
	SearchProperties(ctx context.Context, filters domain.SearchFilters) ([]domain.Property, error)
	CreateProperty(ctx context.Context, property domain.Property) (domain.Property, error)
	UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error)
	DeleteProperty(ctx context.Context, id string) error
	ReorderProperties(ctx context.Context, ids []string) error
}

// propertyService implementa PropertyService con caché de consultas
// y publicación de cambios
type propertyService struct {
	repo      repositories.PropertyRepository
	cache     repositories.CacheRepository
	publisher events.Publisher
	log       logrus.FieldLogger
}

// NewPropertyService crea una nueva instancia de PropertyService
func NewPropertyService(repo repositories.PropertyRepository, cache repositories.CacheRepository, publisher events.Publisher, log logrus.FieldLogger) PropertyService {
	return &propertyService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// ListProperties devuelve el catálogo completo en orden manual
func (s *propertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.cached(ctx, "list", func() ([]domain.Property, error) {
		return s.repo.ListProperties(ctx)
	})
}

// GetProperty busca una propiedad; ErrPropertyNotFound si no existe
func (s *propertyService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	property, found, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, fmt.Errorf("services: get property: %w", err)
	}
	if !found {
		return domain.Property{}, ErrPropertyNotFound
	}
	return property, nil
}

// GetEnergyLabel devuelve la etiqueta DPE/GES con sus colores
func (s *propertyService) GetEnergyLabel(ctx context.Context, id string) (domain.EnergyLabel, error) {
	property, err := s.GetProperty(ctx, id)
	if err != nil {
		return domain.EnergyLabel{}, err
	}
	return property.Energy(), nil
}

// ListPropertiesByType filtra por tipo; "tous" devuelve todo
func (s *propertyService) ListPropertiesByType(ctx context.Context, propertyType string) ([]domain.Property, error) {
	if domain.IsAllTypes(propertyType) {
		return s.ListProperties(ctx)
	}
	return s.cached(ctx, "type:"+strings.ToLower(propertyType), func() ([]domain.Property, error) {
		return s.repo.ListPropertiesByType(ctx, propertyType)
	})
}

// ListPropertiesByCity filtra por subcadena de ciudad
func (s *propertyService) ListPropertiesByCity(ctx context.Context, city string) ([]domain.Property, error) {
	return s.cached(ctx, "city:"+strings.ToLower(city), func() ([]domain.Property, error) {
		return s.repo.ListPropertiesByCity(ctx, city)
	})
}

// SearchProperties aplica todos los filtros presentes
func (s *propertyService) SearchProperties(ctx context.Context, filters domain.SearchFilters) ([]domain.Property, error) {
	return s.cached(ctx, searchCacheQuery(filters), func() ([]domain.Property, error) {
		return s.repo.SearchProperties(ctx, filters)
	})
}

// CreateProperty guarda una propiedad nueva al final del orden manual
func (s *propertyService) CreateProperty(ctx context.Context, property domain.Property) (domain.Property, error) {
	created, err := s.repo.CreateProperty(ctx, property)
	if err != nil {
		return domain.Property{}, fmt.Errorf("services: create property: %w", err)
	}

	s.changed(ctx, events.ActionCreate, created.ID)
	return created, nil
}

// UpdateProperty aplica una actualización parcial
func (s *propertyService) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	updated, found, err := s.repo.UpdateProperty(ctx, id, patch)
	if err != nil {
		return domain.Property{}, fmt.Errorf("services: update property: %w", err)
	}
	if !found {
		return domain.Property{}, ErrPropertyNotFound
	}

	s.changed(ctx, events.ActionUpdate, updated.ID)
	return updated, nil
}

// DeleteProperty elimina una propiedad; ErrPropertyNotFound si no existía
func (s *propertyService) DeleteProperty(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteProperty(ctx, id)
	if err != nil {
		return fmt.Errorf("services: delete property: %w", err)
	}
	if !deleted {
		return ErrPropertyNotFound
	}

	s.changed(ctx, events.ActionDelete, id)
	return nil
}

// ReorderProperties asigna el orden manual; los IDs desconocidos se ignoran
func (s *propertyService) ReorderProperties(ctx context.Context, ids []string) error {
	if err := s.repo.ReorderProperties(ctx, ids); err != nil {
		return fmt.Errorf("services: reorder properties: %w", err)
	}

	s.changed(ctx, events.ActionReorder, "")
	return nil
}

// cached resuelve una consulta desde el caché o la carga y la guarda
func (s *propertyService) cached(ctx context.Context, query string, load func() ([]domain.Property, error)) ([]domain.Property, error) {
	key := repositories.PropertyCacheKey(s.cache.Generation(ctx), query)
	if properties, ok := s.cache.Get(ctx, key); ok {
		return properties, nil
	}

	properties, err := load()
	if err != nil {
		return nil, fmt.Errorf("services: list properties: %w", err)
	}

	s.cache.Set(ctx, key, properties)
	return properties, nil
}

// changed invalida el caché y publica el evento; un fallo al publicar solo se loguea
func (s *propertyService) changed(ctx context.Context, action, propertyID string) {
	s.cache.Invalidate(ctx)

	message := events.PropertyMessage{Action: action, PropertyID: propertyID}
	if err := s.publisher.Publish(ctx, events.PropertiesQueue, message); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"property_id": propertyID,
		}).Warn("Failed to publish property event")
	}
}

// searchCacheQuery normaliza los filtros para armar la clave de caché.
// url.Values escapa los valores, así "|" o "&" en un filtro no chocan con otra búsqueda.
func searchCacheQuery(filters domain.SearchFilters) string {
	values := url.Values{}

	if filters.Type != nil && *filters.Type != "" && !domain.IsAllTypes(*filters.Type) {
		values.Set("type", strings.ToLower(*filters.Type))
	}
	if filters.City != nil && *filters.City != "" {
		values.Set("city", strings.ToLower(*filters.City))
	}
	if filters.MinPrice != nil {
		values.Set("min_price", strconv.Itoa(*filters.MinPrice))
	}
	if filters.MaxPrice != nil {
		values.Set("max_price", strconv.Itoa(*filters.MaxPrice))
	}
	if filters.MinSurface != nil {
		values.Set("min_surface", strconv.Itoa(*filters.MinSurface))
	}
	return "search?" + values.Encode()
}
