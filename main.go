package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"hors-serie-api/config"
	"hors-serie-api/controllers"
	"hors-serie-api/events"
	"hors-serie-api/repositories"
	"hors-serie-api/routes"
	"hors-serie-api/services"
	"hors-serie-api/utils"
)

func main() {
	// ============================================
	// 1. CONFIGURACIÓN - Leer variables de entorno
	// ============================================
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)
	log.WithFields(logrus.Fields{
		"port":          cfg.Port,
		"store":         cfg.StoreDriver,
		"session_store": cfg.SessionStore,
		"cache":         cfg.CacheEnabled,
	}).Info("Configuration loaded")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Hors Série API stopped with error")
	}
	log.Info("Hors Série API shut down complete")
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================
	// 2. STORE - memoria (por defecto) o MySQL
	// ============================================
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Error closing store")
		}
	}()

	seedCtx, cancelSeed := context.WithTimeout(ctx, 30*time.Second)
	err = repositories.Seed(seedCtx, store, repositories.AdminSeed{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, utils.HashPassword, log)
	cancelSeed()
	if err != nil {
		return err
	}

	// ============================================
	// 3. INFRAESTRUCTURA - caché, sesiones, objetos, eventos
	// ============================================
	var cache repositories.CacheRepository
	if cfg.CacheEnabled {
		cache = repositories.NewCacheRepository(cfg.MemcachedHost, log)
	} else {
		cache = repositories.NewNoopCacheRepository()
		log.Info("Query cache disabled")
	}

	var sessions repositories.SessionRepository
	if cfg.SessionStore == config.SessionStoreMemcached {
		sessions = repositories.NewMemcachedSessionRepository(cfg.MemcachedHost)
		log.WithField("host", cfg.MemcachedHost).Info("Sessions stored in Memcached")
	} else {
		sessions = repositories.NewLocalSessionRepository()
	}

	objects, err := repositories.NewLocalObjectRepository(cfg.ObjectsDir)
	if err != nil {
		return err
	}

	publisher := openPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("Error closing publisher")
		}
	}()

	// ============================================
	// 4. INICIALIZAR CAPAS
	// ============================================
	signer := utils.NewTokenSigner(cfg.SessionSecret, nil)

	propertyService := services.NewPropertyService(store, cache, publisher, log)
	contactService := services.NewContactService(store, publisher, log)
	authService := services.NewAuthService(store, sessions, signer, services.AuthOptions{SessionTTL: cfg.SessionTTL}, log)
	objectService := services.NewObjectService(objects, signer, services.ObjectOptions{
		PublicBaseURL:  cfg.PublicBaseURL,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	router := routes.NewRouter(routes.Dependencies{
		Properties: propertyService,
		Contacts:   contactService,
		Auth:       authService,
		Objects:    objectService,
		Cookie: controllers.CookieConfig{
			Name:   cfg.SessionCookieName,
			MaxAge: int(cfg.SessionTTL / time.Second),
			Secure: cfg.CookieSecure,
		},
		CORSOrigin: cfg.CORSOrigin,
		Log:        log,
	})

	// ============================================
	// 5. ARRANCAR EL SERVIDOR
	// ============================================
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.WithField("port", cfg.Port).Info("Hors Série API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// ============================================
	// 6. GRACEFUL SHUTDOWN
	// ============================================
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// openStore elige la implementación del store según STORE_DRIVER
func openStore(cfg *config.Config, log logrus.FieldLogger) (repositories.Store, error) {
	if cfg.StoreDriver != config.StoreDriverMySQL {
		log.Info("Using in-memory store")
		return repositories.NewMemoryStore(), nil
	}

	log.WithFields(logrus.Fields{"host": cfg.DBHost, "db": cfg.DBName}).Info("Connecting to MySQL...")
	store, err := repositories.OpenGormStore(repositories.MySQLConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
	})
	if err != nil {
		return nil, err
	}
	log.Info("MySQL store ready")
	return store, nil
}

// openPublisher conecta con RabbitMQ si está configurado.
// Sin broker los eventos se descartan y la API sigue funcionando.
func openPublisher(cfg *config.Config, log logrus.FieldLogger) events.Publisher {
	if cfg.RabbitMQURL == "" {
		log.Info("RABBITMQ_URL not set, change events disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, log)
	if err != nil {
		log.WithError(err).Warn("RabbitMQ unavailable, change events disabled")
		return events.NoopPublisher{}
	}
	return publisher
}
