package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/HSouheill/admarket_backend/config"
	"github.com/HSouheill/admarket_backend/controllers"
	"github.com/HSouheill/admarket_backend/metrics"
	"github.com/HSouheill/admarket_backend/middleware"
	"github.com/HSouheill/admarket_backend/repositories"
	"github.com/HSouheill/admarket_backend/routes"
	"github.com/HSouheill/admarket_backend/services"
	"github.com/HSouheill/admarket_backend/utils"
	"github.com/HSouheill/admarket_backend/websocket"
)

type stores struct {
	applications   services.ApplicationStore
	advertisements services.AdvertisementStore
	accounts       services.AccountStore
	close          func(context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutput,
		Format:     cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open stores", zap.Error(err))
	}

	// Revoked tokens live in Redis when it is reachable
	var blacklist middleware.TokenBlacklist
	redisClient := config.ConnectRedis(cfg, logger)
	if redisClient != nil {
		blacklist = middleware.NewRedisBlacklist(redisClient)
		defer redisClient.Close()
	} else {
		memoryBlacklist := middleware.NewMemoryBlacklist()
		go memoryBlacklist.Cleanup(ctx, 10*time.Minute)
		blacklist = memoryBlacklist
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub(logger.Named("websocket"))
	go wsHub.Run(ctx)

	applicationService := services.NewApplicationService(services.Dependencies{
		Applications:   st.applications,
		Advertisements: st.advertisements,
		Accounts:       st.accounts,
		Notifier:       wsHub,
		Logger:         logger.Named("applications"),
	})
	advertisementService := services.NewAdvertisementService(st.advertisements, logger.Named("advertisements"))
	adminService := services.NewAdminService(services.Dependencies{
		Applications:   st.applications,
		Advertisements: st.advertisements,
		Accounts:       st.accounts,
		Logger:         logger.Named("admin"),
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()
	e.HTTPErrorHandler = controllers.NewHTTPErrorHandler(logger)

	rateLimiter := middleware.NewRateLimiter()
	go rateLimiter.Cleanup(ctx, time.Hour)

	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(logger.Named("http")))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.CORS(cfg.AllowedOrigins()))
	e.Use(middleware.SecurityHeaders())
	e.Use(metrics.Middleware())
	e.Use(rateLimiter.RateLimit())

	routes.SetupRoutes(e, routes.Handlers{
		Applications:   controllers.NewApplicationController(applicationService, cfg.RequestTimeout),
		Advertisements: controllers.NewAdvertisementController(advertisementService, cfg.RequestTimeout),
		Auth:           controllers.NewAuthController(blacklist, logger.Named("auth")),
		Admin:          controllers.NewAdminController(adminService, applicationService, cfg.RequestTimeout),
		Hub:            wsHub,
		Authenticate:   middleware.JWTMiddleware(cfg.JWTSecret, blacklist, logger.Named("auth")),
	})

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env), zap.String("store", cfg.Store))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.Error("Closing stores failed", zap.Error(err))
	}
}

// openStores selects MongoDB or the process-local stores
func openStores(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("Using in-memory stores, data is lost on restart")
		return &stores{
			applications:   repositories.NewMemoryApplicationStore(),
			advertisements: repositories.NewMemoryAdvertisementStore(),
			accounts:       repositories.NewMemoryAccountStore(),
			close:          func(context.Context) error { return nil },
		}, nil
	}

	client, err := config.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.DBName)
	return &stores{
		applications:   repositories.NewApplicationRepository(db),
		advertisements: repositories.NewAdvertisementRepository(db),
		accounts:       repositories.NewAccountRepository(db),
		close:          client.Disconnect,
	}, nil
}
