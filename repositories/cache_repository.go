package repositories

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"github.com/sirupsen/logrus"
	"hors-serie-api/domain"
)

const (
	// LocalCacheTTL es la vida de una entrada en el caché local
	LocalCacheTTL = 5 * time.Minute
	// RemoteCacheTTL es la vida de una entrada en Memcached
	RemoteCacheTTL = 15 * time.Minute

	generationKey = "properties:generation"
)

// CacheRepository cachea resultados de consultas sobre el catálogo.
// Las claves incluyen una generación: invalidar sube la generación y
// las entradas viejas dejan de leerse.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]domain.Property, bool)
	Set(ctx context.Context, key string, properties []domain.Property)
	Generation(ctx context.Context) uint64
	Invalidate(ctx context.Context)
}

// memcacheClient es el subconjunto de *memcache.Client que usamos
type memcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
	Delete(key string) error
}

// cacheRepository implementa CacheRepository con dos niveles:
// ccache en el proceso y, opcionalmente, Memcached compartido
type cacheRepository struct {
	localCache      *ccache.Cache[[]domain.Property]
	memcachedClient memcacheClient
	generation      atomic.Uint64
	now             func() time.Time
	log             logrus.FieldLogger
}

// NewCacheRepository crea el caché. Si memcachedHost está vacío solo se usa el nivel local.
func NewCacheRepository(memcachedHost string, log logrus.FieldLogger) CacheRepository {
	var client memcacheClient
	if memcachedHost != "" {
		client = memcache.New(memcachedHost)
		log.WithField("host", memcachedHost).Info("Cache repository initialized with Memcached")
	} else {
		log.Info("Cache repository initialized (local only)")
	}
	return newCacheRepository(client, log)
}

func newCacheRepository(client memcacheClient, log logrus.FieldLogger) *cacheRepository {
	return &cacheRepository{
		localCache:      ccache.New(ccache.Configure[[]domain.Property]().MaxSize(1000)),
		memcachedClient: client,
		now:             time.Now,
		log:             log,
	}
}

// PropertyCacheKey arma la clave de una consulta para una generación dada
func PropertyCacheKey(generation uint64, query string) string {
	sum := md5.Sum([]byte(query))
	return fmt.Sprintf("properties:v%d:%s", generation, hex.EncodeToString(sum[:]))
}

// Get obtiene datos del caché (primero local, luego Memcached)
func (r *cacheRepository) Get(ctx context.Context, key string) ([]domain.Property, bool) {
	// 1. Buscar en caché local primero
	item := r.localCache.Get(key)
	if item != nil && !item.Expired() {
		r.log.WithField("key", key).Debug("Cache HIT (local)")
		return cloneProperties(item.Value()), true
	}

	if r.memcachedClient == nil {
		r.log.WithField("key", key).Debug("Cache MISS")
		return nil, false
	}

	// 2. Si no está en local, buscar en Memcached
	memcachedItem, err := r.memcachedClient.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			r.log.WithError(err).WithField("key", key).Warn("Error getting from Memcached")
		}
		r.log.WithField("key", key).Debug("Cache MISS")
		return nil, false
	}

	// 3. Parsear datos de Memcached
	var properties []domain.Property
	if err := json.Unmarshal(memcachedItem.Value, &properties); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("Error unmarshaling cache data from Memcached")
		return nil, false
	}

	// 4. Guardar en caché local para próximas consultas
	r.localCache.Set(key, properties, LocalCacheTTL)
	r.log.WithField("key", key).Debug("Cache HIT (Memcached)")
	return cloneProperties(properties), true
}

// Set guarda datos en ambos niveles de caché
func (r *cacheRepository) Set(ctx context.Context, key string, properties []domain.Property) {
	stored := cloneProperties(properties)
	r.localCache.Set(key, stored, LocalCacheTTL)

	if r.memcachedClient == nil {
		return
	}

	jsonData, err := json.Marshal(stored)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("Error marshaling cache data for Memcached")
		return
	}

	err = r.memcachedClient.Set(&memcache.Item{
		Key:        key,
		Value:      jsonData,
		Expiration: int32(RemoteCacheTTL / time.Second),
	})
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("Error setting cache in Memcached")
	}
}

// Generation devuelve la generación vigente. Con Memcached la generación es compartida
// entre instancias; si Memcached falla se usa la local.
func (r *cacheRepository) Generation(ctx context.Context) uint64 {
	if r.memcachedClient == nil {
		return r.generation.Load()
	}

	item, err := r.memcachedClient.Get(generationKey)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return r.seedGeneration()
		}
		r.log.WithError(err).Warn("Error reading cache generation from Memcached")
		return r.generation.Load()
	}

	generation, err := strconv.ParseUint(string(item.Value), 10, 64)
	if err != nil {
		r.log.WithError(err).Warn("Invalid cache generation in Memcached")
		return r.generation.Load()
	}
	return r.observe(generation)
}

// Invalidate sube la generación y vacía el nivel local
func (r *cacheRepository) Invalidate(ctx context.Context) {
	r.generation.Add(1)
	r.localCache.Clear()

	if r.memcachedClient == nil {
		return
	}

	generation, err := r.memcachedClient.Increment(generationKey, 1)
	switch {
	case err == nil:
		r.observe(generation)
	case errors.Is(err, memcache.ErrCacheMiss):
		r.seedGeneration()
	default:
		r.log.WithError(err).Warn("Error incrementing cache generation in Memcached")
	}
}

// seedGeneration recrea la clave compartida cuando Memcached la perdió.
// El valor sale del reloj, así nunca vuelve a una generación ya usada.
func (r *cacheRepository) seedGeneration() uint64 {
	seed := uint64(r.now().UnixNano())
	if local := r.generation.Load() + 1; local > seed {
		seed = local
	}

	err := r.memcachedClient.Add(&memcache.Item{Key: generationKey, Value: []byte(strconv.FormatUint(seed, 10))})
	if err == nil {
		return r.observe(seed)
	}
	if !errors.Is(err, memcache.ErrNotStored) {
		r.log.WithError(err).Warn("Error storing cache generation in Memcached")
		return r.generation.Load()
	}

	// Otra instancia la creó entre medio
	item, err := r.memcachedClient.Get(generationKey)
	if err != nil {
		r.log.WithError(err).Warn("Error reading cache generation from Memcached")
		return r.generation.Load()
	}
	generation, err := strconv.ParseUint(string(item.Value), 10, 64)
	if err != nil {
		r.log.WithError(err).Warn("Invalid cache generation in Memcached")
		return r.generation.Load()
	}
	return r.observe(generation)
}

// observe sube la generación local hasta la remota y devuelve la mayor de las dos
func (r *cacheRepository) observe(generation uint64) uint64 {
	for {
		local := r.generation.Load()
		if local >= generation {
			return local
		}
		if r.generation.CompareAndSwap(local, generation) {
			return generation
		}
	}
}

// noopCacheRepository no guarda nada; se usa con CACHE_ENABLED=false
type noopCacheRepository struct{}

// NewNoopCacheRepository devuelve un caché que nunca encuentra nada
func NewNoopCacheRepository() CacheRepository {
	return noopCacheRepository{}
}

func (noopCacheRepository) Get(context.Context, string) ([]domain.Property, bool) { return nil, false }
func (noopCacheRepository) Set(context.Context, string, []domain.Property) {}
func (noopCacheRepository) Generation(context.Context) uint64 { return 0 }
func (noopCacheRepository) Invalidate(context.Context) {}

func cloneProperties(properties []domain.Property) []domain.Property {
	out := make([]domain.Property, len(properties))
	for i, property := range properties {
		out[i] = property.Clone()
	}
	return out
}
