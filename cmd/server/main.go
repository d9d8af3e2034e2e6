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

	"github.com/bazarly/backend/internal/adapter/httpapi"
	natsadapter "github.com/bazarly/backend/internal/adapter/messaging/nats"
	"github.com/bazarly/backend/internal/adapter/repository/cache"
	"github.com/bazarly/backend/internal/adapter/repository/mongodb"
	"github.com/bazarly/backend/internal/adapter/storage/s3"
	"github.com/bazarly/backend/internal/config"
	"github.com/bazarly/backend/internal/discovery"
	"github.com/bazarly/backend/internal/mailer"
	"github.com/bazarly/backend/internal/marketplace/usecase"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/bazarly/backend/internal/platform/metrics"
	"github.com/bazarly/backend/internal/platform/tracer"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	appLogger := logger.New()
	defer appLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp := tracer.Init("bazarly-backend", cfg.OTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	// MongoDB
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()
	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDB))

	// Redis
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(connectCtx).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()
	appLogger.Info("Connected to NATS", zap.String("url", cfg.NATSURL))

	// MinIO
	photoStorage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize photo storage", zap.Error(err))
	}

	// Repositories
	listingRepo := mongodb.NewListingRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)
	chatRepo := mongodb.NewChatRepository(db, appLogger)
	reviewRepo := mongodb.NewReviewRepository(db, appLogger)
	listingCache := cache.NewListingCache(redisClient)
	tokenStore := cache.NewTokenStore(redisClient, usecase.TokenTTL)

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	// Usecases
	listingUC := usecase.NewListingUsecase(listingRepo, userRepo, publisher, smtpMailer, appLogger)
	userUC := usecase.NewUserUsecase(userRepo, tokenStore, cfg.JWTSecret, appLogger)
	photoUC := usecase.NewPhotoUsecase(photoStorage, listingRepo, appLogger)
	chatUC := usecase.NewChatUsecase(chatRepo, listingRepo, publisher, appLogger)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, listingRepo, publisher, appLogger)

	engine := discovery.NewEngine(listingRepo, userRepo, appLogger)

	// Metrics
	metricsManager := metrics.NewManager("bazarly_backend")
	if cfg.MetricsPort != "" {
		go func() {
			if err := metrics.StartServer(cfg.MetricsPort, appLogger, metricsManager); err != nil {
				appLogger.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	handlers := httpapi.Handlers{
		Listings:  httpapi.NewListingHandler(listingUC, photoUC, listingCache, appLogger),
		Discovery: httpapi.NewDiscoveryHandler(engine, metricsManager, appLogger),
		Users:     httpapi.NewUserHandler(userUC, appLogger),
		Chat:      httpapi.NewChatHandler(chatUC, appLogger),
		Reviews:   httpapi.NewReviewHandler(reviewUC, appLogger),
	}
	router := httpapi.NewRouter(handlers, cfg.JWTSecret, tokenStore, metricsManager, appLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server starting", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
