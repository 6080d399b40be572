// Command apistub runs the in-memory fake of the restaurant API for local
// development. State is seeded with a demo account and resets on restart.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgconfig "github.com/yuvi-2309/Foodie-Finder/pkg/config"
	"github.com/yuvi-2309/Foodie-Finder/pkg/logger"

	"github.com/yuvi-2309/Foodie-Finder/internal/stub"
)

type config struct {
	Port      int    `env:"STUB_PORT" envDefault:"8000"`
	Secret    string `env:"STUB_JWT_SECRET" envDefault:"local-development-secret"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	SeedState bool   `env:"STUB_SEED" envDefault:"true"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg := &config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return fmt.Errorf("load stub config: %w", err)
	}

	log := logger.New("apistub", cfg.LogLevel)

	server := stub.New(cfg.Secret, log)
	if cfg.SeedState {
		userID := server.Seed()
		log.Info("seeded demo account",
			slog.String("email", "demo@foodiefinder.dev"),
			slog.String("user_id", userID),
		)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info("stub API listening", slog.Int("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("stub API stopped")
	return nil
}
