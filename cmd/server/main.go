package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunr/upitrack/internal/config"
	"github.com/arjunr/upitrack/internal/ledger"
	"github.com/arjunr/upitrack/internal/metrics"
	"github.com/arjunr/upitrack/internal/payment"
	"github.com/arjunr/upitrack/internal/service"
	"github.com/arjunr/upitrack/internal/storage"
	"github.com/arjunr/upitrack/internal/storage/postgres"
	"github.com/arjunr/upitrack/internal/storage/sqlite"
	"github.com/arjunr/upitrack/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not an error: containers set the environment directly.
		slog.Debug("no .env file found, using environment variables")
	}
	logging.Setup()

	cfg := config.FromEnv()

	var (
		store storage.Store
		err   error
	)
	if cfg.DatabaseURL != "" {
		store, err = postgres.New(cfg.DatabaseURL)
	} else {
		store, err = sqlite.New(cfg.DBPath)
	}
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	led := loadLedger(store)

	m := metrics.New(prometheus.DefaultRegisterer)
	coordinator := payment.NewCoordinator(led, store, payment.LogLauncher{}, m)
	session := service.NewSession(led, coordinator, store, m)

	router := service.NewRouter(session)
	router.Handle("/metrics", promhttp.Handler())

	slog.Info("server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// loadLedger restores prior state when it exists. Absent or unusable
// state is never fatal; tracking starts fresh.
func loadLedger(store storage.Store) *ledger.Ledger {
	state, err := store.Load(context.Background())
	switch {
	case err == nil:
		slog.Info("state loaded",
			"budget", state.Budget,
			"transactions", len(state.Transactions),
		)
		return ledger.Restore(state)
	case errors.Is(err, storage.ErrNoState):
		slog.Info("no prior state, starting fresh")
	default:
		slog.Warn("state load failed, starting fresh", "error", err)
	}
	return ledger.New()
}
