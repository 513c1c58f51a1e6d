package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"newsAggregator/internal/config"
	"newsAggregator/internal/database"
	handlers "newsAggregator/internal/handler"
	"newsAggregator/internal/middleware"
	"newsAggregator/internal/password"
	"newsAggregator/internal/service"
)

// Stores opens and migrates the three stores named in cfg.
func Stores(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*database.Router, error) {
	// connection stores
	router, err := database.Open(ctx, cfg.Stores, cfg.Pool, log)
	if err != nil {
		return nil, err
	}

	if err := router.Migrate(ctx); err != nil {
		router.Close()
		return nil, fmt.Errorf("migrate stores: %w", err)
	}

	return router, nil
}

// App wires the stores, services and handlers into the served handler chain.
func App(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*database.Router, http.Handler, error) {
	router, err := Stores(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// enabling dependencies
	services := service.NewService(service.Options{
		Origin:           cfg.Origin,
		RegisterAttempts: cfg.RegisterAttempts,
		Hasher:           password.NewArgon2(cfg.Argon2),
	})
	handler := handlers.NewHandlers(router, services)

	chain := middleware.Chain(
		handler.Routes(),
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
		middleware.RecoverMiddleware,
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(log),
	)

	return router, chain, nil
}
