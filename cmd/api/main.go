package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/playroom-api/internal/application/event"
	"github.com/playroom-api/internal/application/notification"
	"github.com/playroom-api/internal/config"
	"github.com/playroom-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/playroom-api/internal/infrastructure/jwt"
	snsinfra "github.com/playroom-api/internal/infrastructure/sns"
	transporthttp "github.com/playroom-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT verifier (optional — graceful fallback if the public key is missing).
	var jwtVerifier *jwtinfra.Verifier
	if v, err := jwtinfra.NewVerifier(cfg); err == nil {
		jwtVerifier = v
	} else {
		log.Printf("WARN: JWT verifier not available, auth disabled: %v", err)
	}

	// SNS offline-push publisher (optional — graceful fallback).
	var offlinePublisher snsinfra.Publisher
	if cfg.SNSTopicARN != "" {
		if p, err := snsinfra.NewPublisher(cfg); err == nil {
			offlinePublisher = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	followRepo := dynamo.NewFollowRepo(dynamoClient, cfg.DynamoTables.Follows)
	subscriptionRepo := dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions)
	playlistRepo := dynamo.NewPlaylistRepo(dynamoClient, cfg.DynamoTables.Playlists)

	notificationSvc := notification.NewService(notificationRepo, notification.Options{
		ConnectionLifetime: cfg.ConnectionLifetime,
		HeartbeatInterval:  cfg.HeartbeatInterval,
		EventBufferSize:    cfg.EventBufferSize,
		OfflinePublisher:   offlinePublisher,
	})

	// Domain events ride the bus; the bridge turns them into notifications
	// strictly after the originating write has committed.
	bus := event.NewBus(cfg.EventBusBufferSize)
	bridge := event.NewBridge(notificationSvc, followRepo, subscriptionRepo)
	bridge.Register(bus)
	bus.Start(context.Background())

	deps := &transporthttp.Deps{
		NotificationSvc:  notificationSvc,
		Bus:              bus,
		FollowRepo:       followRepo,
		SubscriptionRepo: subscriptionRepo,
		PlaylistRepo:     playlistRepo,
		JWTVerifier:      jwtVerifier,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.AppPort),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: SSE streams stay open for the full connection
		// lifetime; the delivery service enforces its own hard timeout.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	notificationSvc.Close() // wakes every SSE writer so Shutdown can finish
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	bus.Stop()
	log.Println("Server stopped")
}
