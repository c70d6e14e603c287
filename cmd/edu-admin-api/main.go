// main is the entry point of the education portal admin API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the Record Store (in-memory or SQLite)
//  4. Build the admin services and register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/edu-admin-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/edu-admin-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aanand-mishra/edu-admin-api/internal/admin"
	"github.com/aanand-mishra/edu-admin-api/internal/auth"
	"github.com/aanand-mishra/edu-admin-api/internal/config"
	"github.com/aanand-mishra/edu-admin-api/internal/http/router"
	"github.com/aanand-mishra/edu-admin-api/internal/notify"
	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/storage/memory"
	"github.com/aanand-mishra/edu-admin-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the package-level slog functions, so the logger
	// is installed as the default as well.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting edu-admin-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The rest of the code only knows about the storage.Storage interface.
	store, err := openStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.Bool("seeded", !cfg.Storage.SkipSeed))

	// ── 4. Services and Routes ────────────────────────────────────────────
	deps := router.Deps{
		Users:    admin.NewUsers(store),
		Payments: admin.NewPayments(store, notify.NewLogNotifier(log, cfg.Reminder.Delay)),
	}
	if cfg.Auth.Secret != "" {
		deps.Tokens = auth.NewTokenManager([]byte(cfg.Auth.Secret), cfg.Auth.Issuer, cfg.Auth.TTL)
	} else {
		log.Warn("auth.secret is empty: admin and payment routes are not protected")
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router.New(deps),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks, so it runs in its own goroutine and main moves
	// on to wait for a shutdown signal.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage builds the Record Store selected by cfg.Driver.
func openStorage(cfg config.Storage) (storage.Storage, error) {
	var seed *storage.Seed
	if !cfg.SkipSeed {
		s := storage.DefaultSeed()
		seed = &s
	}

	switch cfg.Driver {
	case config.DriverMemory, "":
		if seed == nil {
			return memory.New(storage.Seed{}), nil
		}
		return memory.New(*seed), nil
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		db, err := sqlite.New(cfg.Path, seed)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
