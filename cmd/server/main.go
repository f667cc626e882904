package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkirylau/vinylmarket/internal/api"
	"github.com/mkirylau/vinylmarket/internal/config"
	"github.com/mkirylau/vinylmarket/internal/handler"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/kafka"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/payments"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/redis"
	"github.com/mkirylau/vinylmarket/internal/notify"
	"github.com/mkirylau/vinylmarket/internal/observability"
	core "github.com/mkirylau/vinylmarket/internal/repository/postgres"
	service "github.com/mkirylau/vinylmarket/internal/services"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	shutdown, metricsHandler := observability.Setup("vinyl-market")
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	userRepo := core.NewPostgresUserRepository(db)
	recordRepo := core.NewPostgresRecordRepository(db)
	purchaseRepo := core.NewPostgresPurchaseRepository(db)

	redisClient, err := redis.NewClient(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()
	notifier := notify.NewKafkaNotifier(producer)

	payClient := payments.NewStripeClient(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.StripeSuccessURL,
		cfg.StripeCancelURL,
	)

	authService := service.NewAuthService(userRepo, redisClient, cfg.JWTSecret)
	userService := service.NewUserService(userRepo)
	recordService := service.NewRecordService(recordRepo, redisClient)
	purchaseService := service.NewPurchaseService(recordService, purchaseRepo, payClient, notifier)

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	notificationConsumer := notify.NewConsumer(cfg.KafkaBrokers, "vinyl-market-notifications", notify.LogSender{})
	go notificationConsumer.Consume(consumerCtx)
	defer notificationConsumer.Close()
	defer cancelConsumer()

	h := handler.NewHandler(authService, userService, purchaseService, payClient)
	router := api.SetupRouter(h, redisClient, cfg.JWTSecret, metricsHandler)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
