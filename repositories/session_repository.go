package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"hors-serie-api/domain"
)

const sessionKeyPrefix = "session:"

// SessionRepository guarda las sesiones del panel de administración
type SessionRepository interface {
	SaveSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, bool, error)
	DeleteSession(ctx context.Context, id string) error
}

// localSessionRepository guarda las sesiones en memoria del proceso
type localSessionRepository struct {
	cache *ccache.Cache[domain.Session]
	now   func() time.Time
}

// NewLocalSessionRepository crea un store de sesiones local (una sola instancia)
func NewLocalSessionRepository() SessionRepository {
	return newLocalSessionRepository(time.Now)
}

func newLocalSessionRepository(now func() time.Time) *localSessionRepository {
	return &localSessionRepository{
		cache: ccache.New(ccache.Configure[domain.Session]().MaxSize(10000)),
		now:   now,
	}
}

// SaveSession guarda la sesión hasta su vencimiento
func (r *localSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(session.ID, session, ttl)
	return nil
}

// GetSession busca una sesión vigente
func (r *localSessionRepository) GetSession(ctx context.Context, id string) (domain.Session, bool, error) {
	item := r.cache.Get(id)
	if item == nil || item.Expired() {
		return domain.Session{}, false, nil
	}
	return item.Value(), true, nil
}

// DeleteSession elimina la sesión; no falla si no existe
func (r *localSessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

// memcachedSessionRepository comparte las sesiones entre instancias vía Memcached
type memcachedSessionRepository struct {
	client memcacheClient
	now    func() time.Time
}

// NewMemcachedSessionRepository crea un store de sesiones sobre Memcached
func NewMemcachedSessionRepository(memcachedHost string) SessionRepository {
	return newMemcachedSessionRepository(memcache.New(memcachedHost), time.Now)
}

func newMemcachedSessionRepository(client memcacheClient, now func() time.Time) *memcachedSessionRepository {
	return &memcachedSessionRepository{client: client, now: now}
}

// SaveSession serializa la sesión a JSON con expiración en segundos
func (r *memcachedSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("repositories: save session: %w", err)
	}

	seconds := int32(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	err = r.client.Set(&memcache.Item{
		Key:        sessionKeyPrefix + session.ID,
		Value:      data,
		Expiration: seconds,
	})
	if err != nil {
		return fmt.Errorf("repositories: save session: %w", err)
	}
	return nil
}

// GetSession busca una sesión; ErrCacheMiss no es un error
func (r *memcachedSessionRepository) GetSession(ctx context.Context, id string) (domain.Session, bool, error) {
	item, err := r.client.Get(sessionKeyPrefix + id)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, fmt.Errorf("repositories: get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(item.Value, &session); err != nil {
		return domain.Session{}, false, fmt.Errorf("repositories: get session: %w", err)
	}
	return session, true, nil
}

// DeleteSession elimina la sesión; no falla si no existe
func (r *memcachedSessionRepository) DeleteSession(ctx context.Context, id string) error {
	err := r.client.Delete(sessionKeyPrefix + id)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("repositories: delete session: %w", err)
	}
	return nil
}
