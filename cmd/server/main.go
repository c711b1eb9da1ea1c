package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hakwonlab/homework-backend/internal/config"
	"github.com/hakwonlab/homework-backend/internal/database"
	"github.com/hakwonlab/homework-backend/internal/handler"
	"github.com/hakwonlab/homework-backend/internal/logger"
	"github.com/hakwonlab/homework-backend/internal/router"
	"github.com/hakwonlab/homework-backend/internal/service"
	"github.com/hakwonlab/homework-backend/internal/store"
	"github.com/hakwonlab/homework-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("store_driver", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Homework Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Select Storage Backend ────────────────────────────────────────
	// The driver is chosen once per process. A postgres initialization
	// failure is caught exactly here and converted into a fallback to the
	// memory store; the durable store being down must never leave the
	// system unusable.
	st := openStore(ctx, cfg, log)
	defer st.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	classService := service.NewClassService(st)
	studentService := service.NewStudentService(st)
	homeworkService := service.NewHomeworkService(st, log)
	statsService := service.NewStatsService(st)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Class:    handler.NewClassHandler(classService),
		Student:  handler.NewStudentHandler(studentService),
		Homework: handler.NewHomeworkHandler(homeworkService),
		Stats:    handler.NewStatsHandler(statsService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// openStore resolves the configured backend, falling back to the memory
// store when postgres cannot be initialized.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) store.Store {
	if cfg.StoreDriver != "memory" {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err == nil {
			st, serr := store.NewPostgresStore(ctx, pool, log)
			if serr == nil {
				return st
			}
			pool.Close()
			err = serr
		}
		log.Warn().Err(err).Msg("PostgreSQL unavailable, falling back to in-memory store")
	}
	return openMemoryStore(ctx, cfg, log)
}

// openMemoryStore builds the memory store with a Redis snapshot slot, or
// without durability when Redis is unreachable.
func openMemoryStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) store.Store {
	var snaps store.SnapshotStore
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, memory store will not persist snapshots")
		snaps = store.NopSnapshotStore{}
	} else {
		snaps = store.NewRedisSnapshotStore(rdb, cfg.SnapshotKey)
	}

	st, err := store.NewMemoryStore(ctx, snaps, log)
	if err != nil {
		// A broken snapshot payload must not leave the system unusable.
		log.Warn().Err(err).Msg("Snapshot restore failed, starting memory store without durability")
		st, err = store.NewMemoryStore(ctx, store.NopSnapshotStore{}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize memory store")
		}
	}
	return st
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
