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

	_ "fraud-review-system/docs" // Swagger docs

	"fraud-review-system/internal/api/rest"
	"fraud-review-system/internal/config"
	"fraud-review-system/internal/kafka"
	"fraud-review-system/internal/services"
	"fraud-review-system/internal/storage/sqlite"
)

// StartIngestionService runs the transaction intake service: REST in,
// SQLite record, Kafka event out.
func StartIngestionService() {
	cfg := config.Load()

	storageConn, err := sqlite.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer storageConn.Close()

	storageRepo := sqlite.NewRepository(storageConn)

	log.Println("Connecting to Kafka...")
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer producer.Close()
	log.Println("Kafka producer connected successfully")

	transactionService := services.NewTransactionService(storageRepo, producer)

	handlers := rest.NewHandlers(transactionService, nil, nil)
	router := rest.SetupIngestionRouter(handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.IngestionPort),
		Handler: router,
	}

	go func() {
		log.Printf("Transaction Ingestion Service starting on port %d", cfg.Server.IngestionPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
