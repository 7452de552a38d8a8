package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/stemsi/qna-backend/internal/config"
	"github.com/stemsi/qna-backend/internal/database"
	"github.com/stemsi/qna-backend/internal/feed"
	"github.com/stemsi/qna-backend/internal/handler"
	"github.com/stemsi/qna-backend/internal/logger"
	"github.com/stemsi/qna-backend/internal/repository"
	"github.com/stemsi/qna-backend/internal/router"
	"github.com/stemsi/qna-backend/internal/seed"
	"github.com/stemsi/qna-backend/internal/service"
	"github.com/stemsi/qna-backend/internal/validator"
	"github.com/stemsi/qna-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	instanceID := uuid.New().String()
	log.Info().
		Str("addr", cfg.Addr()).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("instance", instanceID).
		Msg("Starting Q&A Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	if err := validator.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validator translations")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Seed Data ────────────────────────────────────────────────
	questions, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load seed questions")
	}
	store := repository.NewQuestionStore(questions)
	log.Info().
		Int("questions", store.Count(ctx)).
		Str("source", seedSource(cfg.SeedFile)).
		Msg("Question store seeded")

	// ─── Question Feed ─────────────────────────────────────────────────
	hub := feed.NewHub(log)
	var publisher feed.Publisher = hub

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	workersDone := make(chan struct{})
	if rdb != nil {
		defer rdb.Close()
		publisher = feed.NewRedisPublisher(rdb, cfg.FeedChannel)

		relay := worker.NewFeedRelayWorker(rdb, hub, cfg.FeedChannel, log)
		go func() {
			defer close(workersDone)
			relay.Start(workerCtx)
		}()
	} else {
		close(workersDone)
	}

	// ─── Initialize Services & Handlers ───────────────────────────────
	questionService := service.NewQuestionService(store, publisher, instanceID, log)

	handlers := &router.Handlers{
		Question: handler.NewQuestionHandler(questionService),
		System:   handler.NewSystemHandler(questionService, hub),
		WS:       handler.NewWSHandler(hub, questionService, log, cfg.AllowedOrigins),
	}

	writeLimiter := router.NewWriteLimiter(cfg.WriteRateLimit)
	stopSweeper := make(chan struct{})
	if writeLimiter != nil {
		go writeLimiter.RunSweeper(stopSweeper)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, writeLimiter, log)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	close(stopSweeper)
	workerCancel()
	<-workersDone

	log.Info().Msg("Shutdown complete")
}

func seedSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
