package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraud-review-system/internal/api/rest"
	"fraud-review-system/internal/config"
	"fraud-review-system/internal/features"
	grpcserver "fraud-review-system/internal/grpc"
	"fraud-review-system/internal/history"
	"fraud-review-system/internal/kafka"
	"fraud-review-system/internal/lifecycle"
	"fraud-review-system/internal/pipeline"
	"fraud-review-system/internal/redis"
	"fraud-review-system/internal/scoring"
	"fraud-review-system/internal/services"
	"fraud-review-system/internal/storage/sqlite"
)

// StartReviewService runs the risk-review service: the Kafka ingestion loop
// (history, features, scoring, lifecycle) plus the analyst console API and
// the gRPC health endpoint.
func StartReviewService() {
	cfg := config.Load()

	storageConn, err := sqlite.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer storageConn.Close()

	storageRepo := sqlite.NewRepository(storageConn)

	log.Println("Connecting to Redis...")
	var redisClient redis.ClientInterface
	rc, err := redis.NewClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, caching disabled: %v", err)
	} else {
		log.Println("Redis connection established")
		redisClient = rc
		defer rc.Close()
	}

	historyStore := history.NewStore(cfg.History)
	extractor := features.NewExtractor(cfg.History)
	scorer := scoring.NewScorer(cfg.Risk)
	engine := lifecycle.NewEngine(storageRepo)

	processor := pipeline.NewProcessor(storageRepo, historyStore, extractor, scorer, engine, redisClient)

	log.Println("Connecting to Kafka...")
	consumer, err := kafka.NewConsumer(cfg, processor.Handle)
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()
	log.Println("Kafka consumer connected successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		log.Println("Starting Kafka consumer...")
		if err := consumer.Start(ctx); err != nil {
			log.Fatalf("Kafka consumer error: %v", err)
		}
	}()

	transactionService := services.NewTransactionServiceWithRedis(storageRepo, nil, redisClient)

	handlers := rest.NewHandlers(transactionService, engine, redisClient)
	router := rest.SetupReviewRouter(handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.ReviewPort),
		Handler: router,
	}

	go func() {
		log.Printf("Risk Review Service starting on port %d", cfg.Server.ReviewPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	grpcSrv := grpcserver.NewServer()
	grpcSrv.SetServing("risk-review-service", true)
	go func() {
		if err := grpcSrv.Start(cfg); err != nil {
			log.Fatalf("Failed to start gRPC server: %v", err)
		}
	}()

	// Graceful shutdown: cancel the consumer first so in-flight events
	// either finish fully or stay uncommitted.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down services...")
	cancel()
	grpcSrv.Stop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Services exited")
}
