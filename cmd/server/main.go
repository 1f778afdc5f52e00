package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"interviewhub/internal/config"
	"interviewhub/internal/handlers"
	"interviewhub/internal/metrics"
	repomongo "interviewhub/internal/repositories/mongo"
	"interviewhub/internal/routers"
	"interviewhub/internal/store"
	"interviewhub/internal/sweeper"
	"interviewhub/internal/sync"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	bus := store.NewBus(rdb, logger)

	sessionStore := store.NewSessionStore(db, bus, logger)
	if err := sessionStore.Migrate(); err != nil {
		logger.Fatal("failed to migrate sessions table", zap.Error(err))
	}

	mongoClient, err := repomongo.NewClient(context.Background())
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	questionRepo, err := repomongo.NewQuestionRepo(mongoClient)
	if err != nil {
		logger.Fatal("failed to initialise question repository", zap.Error(err))
	}

	sw := sweeper.New(sessionStore, cfg.SweepSchedule, logger)
	if err := sw.Start(); err != nil {
		logger.Fatal("failed to start sweeper", zap.Error(err))
	}
	defer sw.Stop()

	hub := sync.NewHub()
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	dispatcher := sync.NewDispatcher(hub, sessionStore, questionRepo, bus, logger)
	go dispatcher.Run(dispatcherCtx)

	sessionHandler := handlers.NewSessionHandler(sessionStore, questionRepo, sw, logger)
	questionHandler := handlers.NewQuestionHandler(questionRepo)
	liveHandler := handlers.NewLiveHandler(hub, sessionStore, questionRepo, cfg.JWTSecret, logger)
	healthHandler := handlers.NewHealthHandler()

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(metrics.Middleware)
	router.Handle("/metrics", metrics.Handler())

	routers.Register(router, cfg.JWTSecret, sessionHandler, questionHandler, liveHandler, healthHandler)

	// No Read/WriteTimeout: they would cut off long-lived websocket
	// connections on the live-session endpoint.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("interviewhub starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("interviewhub shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("interviewhub exited")
}
