package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Drivers de almacenamiento
const (
	StoreDriverMemory = "memory"
	StoreDriverMySQL  = "mysql"
)

// Stores de sesiones
const (
	SessionStoreLocal     = "local"
	SessionStoreMemcached = "memcached"
)

// Config contiene la configuración de la aplicación
type Config struct {
	Port       string
	GinMode    string
	LogLevel   string
	LogFormat  string
	CORSOrigin string

	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration
	SessionStore      string
	CookieSecure      bool

	AdminUsername string
	AdminPassword string

	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	CacheEnabled  bool
	MemcachedHost string

	RabbitMQURL string

	ObjectsDir     string
	PublicBaseURL  string
	MaxUploadBytes int64

	ShutdownTimeout time.Duration
}

// LoadConfig carga la configuración desde variables de entorno con valores por defecto.
// Si existe un archivo .env se carga antes (sin pisar variables ya definidas).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	port := getEnv("SERVER_PORT", "8080")
	cfg := &Config{
		Port:       port,
		GinMode:    getEnv("GIN_MODE", "release"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		SessionSecret:     getEnv("SESSION_SECRET", "hors-serie-secret-key-2024"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "hs_session"),
		SessionStore:      strings.ToLower(getEnv("SESSION_STORE", SessionStoreLocal)),

		AdminUsername: getEnv("ADMIN_USERNAME", "luc"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "Menard1983!!"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
		DBHost:      getEnv("DB_HOST", ""),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBUser:      getEnv("DB_USER", "hors_serie"),
		DBPassword:  getEnv("DB_PASSWORD", "hors_serie"),
		DBName:      getEnv("DB_NAME", "hors_serie"),

		MemcachedHost: getEnv("MEMCACHED_HOST", ""),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),

		ObjectsDir:    getEnv("OBJECTS_DIR", "./data/objects"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.CacheEnabled, err = getBool("CACHE_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverMySQL:
		if c.DBHost == "" {
			return errors.New("config: STORE_DRIVER=mysql requires DB_HOST")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionStore {
	case SessionStoreLocal:
	case SessionStoreMemcached:
		if c.MemcachedHost == "" {
			return errors.New("config: SESSION_STORE=memcached requires MEMCACHED_HOST")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return parsed, nil
}
