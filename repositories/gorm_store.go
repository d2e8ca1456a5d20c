package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"hors-serie-api/domain"
)

// MySQLConfig contiene los datos de conexión a MySQL
type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN arma el Data Source Name
// Formato: usuario:password@tcp(host:puerto)/base_de_datos?opciones
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// GormStore implementa Store sobre gorm (MySQL)
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore conecta a MySQL y migra las tablas
func OpenGormStore(cfg MySQLConfig) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("repositories: open mysql: %w", err)
	}

	store := NewGormStore(db)
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// NewGormStore envuelve una conexión gorm existente
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate crea o actualiza las tablas
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&domain.Property{}, &domain.Contact{}, &domain.User{}); err != nil {
		return fmt.Errorf("repositories: migrate: %w", err)
	}
	return nil
}

// ListProperties devuelve el catálogo ordenado por displayOrder
func (s *GormStore) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.findProperties(s.db.WithContext(ctx))
}

// GetProperty busca una propiedad por ID
func (s *GormStore) GetProperty(ctx context.Context, id string) (domain.Property, bool, error) {
	var property domain.Property
	err := s.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Property{}, false, nil
		}
		return domain.Property{}, false, fmt.Errorf("repositories: get property: %w", err)
	}
	return property, true, nil
}

// ListPropertiesByType filtra por tipo; "tous" devuelve todo
func (s *GormStore) ListPropertiesByType(ctx context.Context, propertyType string) ([]domain.Property, error) {
	if domain.IsAllTypes(propertyType) {
		return s.ListProperties(ctx)
	}
	return s.findProperties(s.db.WithContext(ctx).Where("LOWER(type) = LOWER(?)", propertyType))
}

// ListPropertiesByCity filtra por subcadena de ciudad
func (s *GormStore) ListPropertiesByCity(ctx context.Context, city string) ([]domain.Property, error) {
	return s.findProperties(s.db.WithContext(ctx).Where("LOWER(city) LIKE ? ESCAPE '!'", likePattern(city)))
}

// SearchProperties aplica todos los filtros presentes
func (s *GormStore) SearchProperties(ctx context.Context, filters domain.SearchFilters) ([]domain.Property, error) {
	query := s.db.WithContext(ctx)

	if filters.Type != nil && *filters.Type != "" && !domain.IsAllTypes(*filters.Type) {
		query = query.Where("LOWER(type) = LOWER(?)", *filters.Type)
	}
	if filters.City != nil && *filters.City != "" {
		query = query.Where("LOWER(city) LIKE ? ESCAPE '!'", likePattern(*filters.City))
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.MinSurface != nil {
		query = query.Where("surface >= ?", *filters.MinSurface)
	}

	return s.findProperties(query)
}

// CreateProperty asigna ID, valores por defecto y displayOrder = max+1
func (s *GormStore) CreateProperty(ctx context.Context, property domain.Property) (domain.Property, error) {
	created := property.Clone().Normalize()
	created.ID = uuid.NewString()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next struct {
			DisplayOrder int
			InsertSeq    int64
		}
		err := tx.Model(&domain.Property{}).
			Select("COALESCE(MAX(display_order), -1) + 1 AS display_order, COALESCE(MAX(insert_seq), 0) + 1 AS insert_seq").
			Scan(&next).Error
		if err != nil {
			return err
		}
		created.DisplayOrder = next.DisplayOrder
		created.Sequence = next.InsertSeq
		return tx.Create(&created).Error
	})
	if err != nil {
		return domain.Property{}, fmt.Errorf("repositories: create property: %w", err)
	}
	return created, nil
}

// UpdateProperty fusiona el patch sobre la propiedad existente
func (s *GormStore) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, bool, error) {
	var (
		updated domain.Property
		found   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Property
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		updated = existing.ApplyPatch(patch)
		// Save escribe todos los campos, incluidos los nil (clases energéticas borradas)
		return tx.Save(&updated).Error
	})
	if err != nil {
		return domain.Property{}, false, fmt.Errorf("repositories: update property: %w", err)
	}
	return updated, found, nil
}

// ReorderProperties asigna displayOrder = posición a cada ID conocido
func (s *GormStore) ReorderProperties(ctx context.Context, ids []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index, id := range ids {
			err := tx.Model(&domain.Property{}).Where("id = ?", id).Update("display_order", index).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repositories: reorder properties: %w", err)
	}
	return nil
}

// DeleteProperty elimina una propiedad; false si no existía
func (s *GormStore) DeleteProperty(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&domain.Property{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("repositories: delete property: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountProperties devuelve la cantidad de propiedades
func (s *GormStore) CountProperties(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Property{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("repositories: count properties: %w", err)
	}
	return int(count), nil
}

// CreateContact asigna ID y fecha de creación
func (s *GormStore) CreateContact(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	contact.ID = uuid.NewString()
	contact.CreatedAt = s.db.NowFunc().UTC()
	if err := s.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return domain.Contact{}, fmt.Errorf("repositories: create contact: %w", err)
	}
	return contact, nil
}

// ListContacts devuelve los contactos por fecha de creación
func (s *GormStore) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0)
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("repositories: list contacts: %w", err)
	}
	return contacts, nil
}

// GetUserByID busca un usuario por ID
func (s *GormStore) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	return s.findUser(s.db.WithContext(ctx).Where("id = ?", id))
}

// GetUserByUsername busca un usuario por username
func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return s.findUser(s.db.WithContext(ctx).Where("username = ?", username))
}

// CreateUser guarda un usuario con el password ya hasheado
func (s *GormStore) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if _, exists, err := s.GetUserByUsername(ctx, user.Username); err != nil {
		return domain.User{}, err
	} else if exists {
		return domain.User{}, ErrDuplicateUsername
	}

	user.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return domain.User{}, fmt.Errorf("repositories: create user: %w", err)
	}
	return user, nil
}

// Close cierra la conexión subyacente
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("repositories: close: %w", err)
	}
	return sqlDB.Close()
}

func (s *GormStore) findProperties(query *gorm.DB) ([]domain.Property, error) {
	properties := make([]domain.Property, 0)
	if err := query.Order("display_order ASC, insert_seq ASC").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("repositories: list properties: %w", err)
	}
	return properties, nil
}

func (s *GormStore) findUser(query *gorm.DB) (domain.User, bool, error) {
	var user domain.User
	err := query.First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("repositories: get user: %w", err)
	}
	return user, true, nil
}

// likePattern escapa los comodines de LIKE con "!" (el ESCAPE de cada consulta)
// y envuelve en %...%
func likePattern(value string) string {
	replacer := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + replacer.Replace(strings.ToLower(value)) + "%"
}
