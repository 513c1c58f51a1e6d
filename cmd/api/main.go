package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"newsAggregator/cmd/app"
	"newsAggregator/internal/config"
	"newsAggregator/internal/logging"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

func run() error {
	// setting up config
	bootstrap := logging.New("info", "text", os.Stderr)
	cfg := config.LoadConfig(bootstrap)

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	logger.Info("application initializing")

	stores, handler, err := app.App(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Error("error initialising stores")
		return err
	}
	defer stores.Close()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: handler,
	}

	go func() {
		logger.Infof("API listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		// outstanding requests get a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			if err := server.Close(); err != nil {
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}
	}

	return nil
}
