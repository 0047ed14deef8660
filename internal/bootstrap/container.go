package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/astrotrack/astrotrack/internal/infra/cache"
	"github.com/astrotrack/astrotrack/internal/infra/db"
	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/infra/identity"
	"github.com/astrotrack/astrotrack/internal/infra/logger"
	mq "github.com/astrotrack/astrotrack/internal/infra/queue"
	"github.com/astrotrack/astrotrack/internal/modules/handler"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/router"
	"github.com/gin-gonic/gin"
)

// Cleanup collects close functions of infrastructure clients. The injector
// shuts it down last, so clients close in reverse order of construction.
type Cleanup struct {
	mu  sync.Mutex
	fns []func() error
}

func (c *Cleanup) Add(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

// Shutdown implements do.Shutdownable.
func (c *Cleanup) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var first error
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i](); err != nil && first == nil {
			first = err
		}
	}
	c.fns = nil
	return first
}

// BuildContainer wires the application. cfg is loaded by the caller so
// commands can adjust it before anything is constructed.
func BuildContainer(cfg *config.Config) *do.Injector {
	inj := do.New()

	do.ProvideValue(inj, cfg)
	do.ProvideValue(inj, &Cleanup{})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		if cfg.App.Env == "development" {
			return logger.NewDevelopment(cfg.Log.Level)
		}
		return logger.New(cfg.Log.Level)
	})

	// DB, only for the postgres backend
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		if cfg.Database.Backend != config.BackendPostgres {
			return nil, fmt.Errorf("database backend is %q, not postgres", cfg.Database.Backend)
		}
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		do.MustInvoke[*Cleanup](i).Add(func() error { return db.Close(d) })

		if cfg.Telemetry.Enabled {
			if err := db.RegisterOpenTelemetryPlugin(d); err != nil {
				return nil, err
			}
		}
		if cfg.Database.AutoMigrate {
			if err := docstore.Migrate(d); err != nil {
				return nil, fmt.Errorf("migrate documents table: %w", err)
			}
		}
		return d, nil
	})

	// Firestore
	do.Provide(inj, func(i *do.Injector) (*firestore.Client, error) {
		client, err := docstore.NewFirestoreClient(context.Background(), cfg.Firestore)
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	// document store
	do.Provide(inj, func(i *do.Injector) (docstore.Store, error) {
		var store docstore.Store
		switch cfg.Database.Backend {
		case config.BackendPostgres:
			store = docstore.NewPostgres(do.MustInvoke[*gorm.DB](i))
			// the gorm provider already registered the pool for closing
			return store, nil
		case config.BackendFirestore:
			store = docstore.NewFirestore(do.MustInvoke[*firestore.Client](i))
		case config.BackendMemory:
			store = docstore.NewMemory()
		default:
			return nil, fmt.Errorf("unknown database backend %q", cfg.Database.Backend)
		}
		do.MustInvoke[*Cleanup](i).Add(store.Close)
		return store, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		rdb, err := cache.New(cfg)
		if err != nil {
			return nil, err
		}
		do.MustInvoke[*Cleanup](i).Add(func() error { return cache.Close(rdb) })
		if cfg.Telemetry.Enabled {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				return nil, err
			}
		}
		return rdb, nil
	})

	// read cache; a nil interface disables caching
	do.Provide(inj, func(i *do.Injector) (service.Cache, error) {
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		return cache.NewCache(do.MustInvoke[*redis.Client](i), cfg.Cache.TTL), nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		conn, err := mq.Dial(cfg)
		if err != nil {
			return nil, err
		}
		do.MustInvoke[*Cleanup](i).Add(conn.Close)
		return conn, nil
	})

	// event publisher; a nil interface disables events
	do.Provide(inj, func(i *do.Injector) (service.EventPublisher, error) {
		if !cfg.RabbitMQ.Enabled {
			return nil, nil
		}
		p, err := mq.NewPublisher(
			do.MustInvoke[*amqp.Connection](i),
			do.MustInvoke[*zap.Logger](i),
			cfg,
		)
		if err != nil {
			return nil, err
		}
		do.MustInvoke[*Cleanup](i).Add(p.Close)
		return p, nil
	})

	// identity provider
	do.Provide(inj, func(i *do.Injector) (identity.Verifier, error) {
		return identity.New(context.Background(), cfg.Auth)
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.SessionRepo, error) {
		return repo.NewSessionRepo(do.MustInvoke[docstore.Store](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(
			do.MustInvoke[docstore.Store](i),
			do.MustInvoke[repo.SessionRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[docstore.Store](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.AuthSessionRepo, error) {
		return repo.NewAuthSessionRepo(do.MustInvoke[docstore.Store](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.EquipmentRepo, error) {
		return repo.NewEquipmentRepo(do.MustInvoke[docstore.Store](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CatalogueRepo, error) {
		return repo.NewCatalogueRepo(do.MustInvoke[docstore.Store](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CollectionRepo, error) {
		return repo.NewCollectionRepo(do.MustInvoke[docstore.Store](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		return service.NewUserService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		return service.NewAuthService(
			do.MustInvoke[repo.AuthSessionRepo](i),
			do.MustInvoke[service.UserService](i),
			do.MustInvoke[identity.Verifier](i),
			cfg.Auth,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[service.Cache](i),
			do.MustInvoke[service.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SessionService, error) {
		return service.NewSessionService(
			do.MustInvoke[repo.SessionRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[service.Cache](i),
			do.MustInvoke[service.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.EquipmentService, error) {
		return service.NewEquipmentService(
			do.MustInvoke[repo.EquipmentRepo](i),
			do.MustInvoke[service.Cache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CatalogueService, error) {
		return service.NewCatalogueService(
			do.MustInvoke[repo.CatalogueRepo](i),
			do.MustInvoke[service.Cache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CollectionService, error) {
		return service.NewCollectionService(
			do.MustInvoke[repo.CollectionRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		return handler.NewAuthHandler(do.MustInvoke[service.AuthService](i), cfg), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SessionHandler, error) {
		return handler.NewSessionHandler(do.MustInvoke[service.SessionService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.EquipmentHandler, error) {
		return handler.NewEquipmentHandler(do.MustInvoke[service.EquipmentService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CatalogueHandler, error) {
		return handler.NewCatalogueHandler(do.MustInvoke[service.CatalogueService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CollectionHandler, error) {
		return handler.NewCollectionHandler(do.MustInvoke[service.CollectionService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UserHandler, error) {
		return handler.NewUserHandler(do.MustInvoke[service.UserService](i)), nil
	})

	// Router
	do.Provide(inj, func(i *do.Injector) (*gin.Engine, error) {
		return router.NewRouter(router.RouterDeps{
			Config:            cfg,
			Log:               do.MustInvoke[*zap.Logger](i),
			Sessions:          do.MustInvoke[service.AuthService](i),
			AuthHandler:       do.MustInvoke[*handler.AuthHandler](i),
			ProjectHandler:    do.MustInvoke[*handler.ProjectHandler](i),
			SessionHandler:    do.MustInvoke[*handler.SessionHandler](i),
			EquipmentHandler:  do.MustInvoke[*handler.EquipmentHandler](i),
			CatalogueHandler:  do.MustInvoke[*handler.CatalogueHandler](i),
			CollectionHandler: do.MustInvoke[*handler.CollectionHandler](i),
			UserHandler:       do.MustInvoke[*handler.UserHandler](i),
		}), nil
	})

	return inj
}
