package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"systemuser/internal/systemuser/client"
	"systemuser/internal/systemuser/config"
	"systemuser/internal/systemuser/handler"
	"systemuser/internal/systemuser/registry"
	"systemuser/internal/systemuser/repository"
	"systemuser/internal/systemuser/router"
	"systemuser/internal/systemuser/service"
	"systemuser/internal/systemuser/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stores struct {
	requests    repository.RequestRepository
	systemUsers repository.SystemUserRepository
	registry    registry.SystemRegistry
	mongo       *mongo.Client
}

func main() {
	// 0. Init Logger
	util.InitLogger()
	logger := util.GetLogger()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	util.InitLoggerWithLevel(cfg.LogLevel)
	logger = util.GetLogger()

	// 2. Storage
	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("Failed to open stores", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	// 3. Init Layers
	deps := service.Deps{
		Requests:         st.requests,
		SystemUsers:      st.systemUsers,
		Registry:         st.registry,
		Parties:          newPartyResolver(cfg),
		Access:           newAccessClient(cfg),
		CheckConcurrency: cfg.DelegationCheckConcurrency,
		Logger:           logger,
	}
	if cfg.ValidateRedirectURL {
		deps.RedirectValidator = service.AllowListRedirectValidator{}
	}
	svc := service.NewService(deps)
	h := handler.NewSystemUserHandler(svc)

	// 4. Init Echo & Routes
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", v.RequestID,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h)

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	if st.mongo != nil {
		if err := st.mongo.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect DB", "error", err)
		}
	}

	logger.Info("Server exited properly")
}

func openStores(cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		reg, err := registry.LoadFileRegistry(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		mem := repository.NewMemoryStore()
		logger.Warn("Using in-memory store, data is lost on restart")
		return &stores{requests: mem.Requests(), systemUsers: mem.SystemUsers(), registry: reg}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "connect to MongoDB")
	}
	if err := mc.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping MongoDB")
	}

	db := mc.Database(cfg.DBName)
	requests := repository.NewMongoRequestRepository(db, cfg.RequestsCollection)
	systemUsers := repository.NewMongoSystemUserRepository(db, cfg.SystemUsersCollection, cfg.RequestsCollection)

	// Uniqueness of external ids depends on these indexes.
	if err := requests.EnsureIndexes(ctx); err != nil {
		return nil, errors.Wrap(err, "ensure request indexes")
	}
	if err := systemUsers.EnsureIndexes(ctx); err != nil {
		return nil, errors.Wrap(err, "ensure system user indexes")
	}

	var reg registry.SystemRegistry = registry.NewMongoRegistry(db, cfg.SystemRegisterCollection)
	if cfg.RegistryFile != "" {
		fileReg, err := registry.LoadFileRegistry(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		reg = fileReg
	}

	return &stores{requests: requests, systemUsers: systemUsers, registry: reg, mongo: mc}, nil
}

func newPartyResolver(cfg *config.Config) client.PartyResolver {
	if cfg.PartiesBaseURL == client.LocalBaseURL {
		return client.NewStaticPartyResolver(cfg.LocalParties)
	}
	return client.NewPartyClient(cfg.PartiesBaseURL, cfg.ClientTimeout)
}

func newAccessClient(cfg *config.Config) client.DelegationAccessClient {
	if cfg.AccessManagementBaseURL == client.LocalBaseURL {
		return client.NewLocalAccessAdapter()
	}
	return client.NewAccessManagementClient(cfg.AccessManagementBaseURL, cfg.ClientTimeout)
}
