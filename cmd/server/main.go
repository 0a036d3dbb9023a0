package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugompham/marginalia/internal/api"
	"github.com/hugompham/marginalia/internal/config"
	"github.com/hugompham/marginalia/internal/db"
	"github.com/hugompham/marginalia/internal/fsrs"
	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/repository/sqlite"
	"github.com/hugompham/marginalia/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Marginalia Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("desired_retention=%.2f", cfg.DesiredRetention)
	log.Debug("max_interval_days=%d", cfg.MaxIntervalDays)
	log.Debug("disable_fuzz=%t", cfg.DisableFuzz)
	log.Debug("review_batch_size=%d", cfg.ReviewBatchSize)
	log.Debug("quiz_size=%d", cfg.QuizSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize scheduler
	scheduler, err := fsrs.New(fsrs.Config{
		DesiredRetention: cfg.DesiredRetention,
		MaximumInterval:  cfg.MaxIntervalDays,
		DisableFuzz:      cfg.DisableFuzz,
	})
	if err != nil {
		log.Error("failed to initialize scheduler: %v", err)
		os.Exit(1)
	}

	// Initialize repositories
	collectionRepo := sqlite.NewCollectionRepository(database.DB)
	highlightRepo := sqlite.NewHighlightRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	quizRepo := sqlite.NewQuizRepository(database.DB)

	// Initialize services
	libraryService := services.NewLibraryService(collectionRepo, highlightRepo)
	cardService := services.NewCardService(cardRepo, highlightRepo)
	reviewService := services.NewReviewService(cardRepo, scheduler, cfg.ReviewBatchSize)
	quizService := services.NewQuizService(cardRepo, collectionRepo, quizRepo, cfg.QuizSize)

	srv := &api.Server{
		Library: libraryService,
		Cards:   cardService,
		Review:  reviewService,
		Quiz:    quizService,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Marginalia Server Stopped")
	log.Info("===========================================")
}
