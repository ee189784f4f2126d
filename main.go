package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hotel-server/cache"
	"hotel-server/confs"
	"hotel-server/db"
	"hotel-server/events"
	"hotel-server/logger"
	"hotel-server/mailer"
	"hotel-server/server"
	"hotel-server/services"
	"hotel-server/storage"
	"hotel-server/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// connect to database
	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	deps := server.Dependencies{Manager: ws.NewManager()}

	// verification codes: Redis when shared, otherwise in memory with a sweeper
	if cfg.Redis.URL != "" {
		store, err := cache.NewRedisStoreFromURL(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer store.Close()
		deps.Codes = store
		logger.Info("Using Redis for verification codes")
	} else {
		store := cache.NewMemoryStore()
		deps.Codes = store
		deps.Sweeper = services.NewCodeSweeper(store, cfg.Auth.CodeSweepInterval)
		deps.Sweeper.Start(ctx)
		logger.Info("Using in-memory cache for verification codes")
	}

	deps.Mailer, err = mailer.New(cfg.Email, cfg.Auth.CodeTTL)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}

	deps.Images, err = storage.NewLocalStore(cfg.Server.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}

	publishers := events.Multi{deps.Manager}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsPublisher.Close()
		publishers = append(publishers, natsPublisher)
	}
	deps.Publisher = publishers

	// run server
	srv := server.NewServer(cfg, database, deps)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
