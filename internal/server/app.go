// Package server wires the application together: configuration, logging,
// the user store, the core services, and the HTTP endpoint lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avilov/authgate/internal/logging"
	"github.com/avilov/authgate/internal/server/auth"
	"github.com/avilov/authgate/internal/server/config"
	"github.com/avilov/authgate/internal/server/httpapi"
	"github.com/avilov/authgate/internal/server/ratelimit"
	"github.com/avilov/authgate/internal/server/repositories/users"
	"github.com/avilov/authgate/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	tokens      *auth.Service
	authService *services.AuthService
}

// NewApp builds the object graph from configuration. The storage backend is
// chosen here; everything downstream sees only the Blob contract.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var blob users.Blob
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3blob, err := users.NewS3Blob(ctx, users.S3Options{
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Key:          cfg.S3Key,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		blob = s3blob
	case config.StorageFile:
		blob = users.NewFileBlob(cfg.UsersFilePath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}

	store := users.NewStore(blob, cfg.HashIterations)
	tokens := auth.NewService(cfg.SecretKey, cfg.TokenValidity)
	limiter := ratelimit.New(cfg.ThrottleLimit, cfg.ThrottleWindow)
	authService := services.NewAuthService(store, tokens, limiter, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		tokens:      tokens,
		authService: authService,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	handler := httpapi.NewHandler(app.authService, app.logger)
	router := httpapi.NewRouter(handler, app.tokens, app.config.CORSOrigins)
	srv := httpapi.NewServer(app.config.ListenAddr, router, app.logger)

	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
