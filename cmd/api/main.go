package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qsim/internal/config"
	"github.com/jaskrrish/go-qsim/internal/handlers"
	"github.com/jaskrrish/go-qsim/internal/logger"
	"github.com/jaskrrish/go-qsim/internal/qsim"
	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
	"github.com/jaskrrish/go-qsim/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// One source for the whole process so a fixed seed reproduces every run
	source := quantum.NewSource(cfg.SeedValue())
	log.Info().Int64("seed", source.Seed()).Msg("Random source initialized")

	runs := qsim.NewRunManager(source, qsim.Options{
		Limits: cfg.Limits(),
		TTL:    cfg.RunTTL(),
		Log:    log,
	})

	sched := scheduler.New(log)
	cleanup := scheduler.FuncJob{
		JobName: "cleanup_expired_runs",
		Fn: func() error {
			runs.CleanupExpiredRuns()
			return nil
		},
	}
	if err := sched.AddJob(cfg.CleanupSchedule, cleanup); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule run cleanup")
	}
	sched.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      newRouter(runs, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func newRouter(runs *qsim.RunManager, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger(log))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", handlers.HomeHandler)
	r.Get("/health", handlers.HealthHandler)

	simHandler := handlers.NewSimHandler(runs, log)
	r.Route("/api/v1", simHandler.RegisterRoutes)

	return r
}
