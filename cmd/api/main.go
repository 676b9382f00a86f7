package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardclub/gacha-backend/api/routes"
	"github.com/cardclub/gacha-backend/internal/config"
	"github.com/cardclub/gacha-backend/internal/gacha"
	"github.com/cardclub/gacha-backend/internal/handlers"
	"github.com/cardclub/gacha-backend/internal/repositories"
	mongorepo "github.com/cardclub/gacha-backend/internal/repositories/mongodb"
	"github.com/cardclub/gacha-backend/internal/services"
	"github.com/cardclub/gacha-backend/pkg/mongodb"
	"github.com/cardclub/gacha-backend/pkg/signer"
	"github.com/cardclub/gacha-backend/pkg/storage"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Media.SigningSecret == "" {
		log.Fatal("MEDIA_SIGNINGSECRET is not configured")
	}

	// A malformed rarity table must never serve traffic
	registry, err := services.NewVersionRegistry(cfg.Gacha)
	if err != nil {
		log.Fatalf("Invalid gacha configuration: %v", err)
	}

	location, err := time.LoadLocation(cfg.Gacha.Timezone)
	if err != nil {
		log.Fatalf("Invalid gacha timezone %q: %v", cfg.Gacha.Timezone, err)
	}

	mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	quotaRepoImpl := mongorepo.NewQuotaRepository(db)
	if err := quotaRepoImpl.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create quota indexes: %v", err)
	}
	var quotaRepo repositories.QuotaRepository = quotaRepoImpl
	var collectionRepo repositories.CollectionRepository = mongorepo.NewCollectionRepository(db)

	// Shared collaborators
	tokenSigner := signer.New(cfg.Media.SigningSecret)
	storageClient := storage.NewClient(cfg.Storage.BaseURL, cfg.Storage.ServiceKey, cfg.Storage.Bucket, cfg.Storage.MockStorage)

	// Services
	authService := services.NewAuthService(cfg)
	drawService := services.NewDrawService(registry, quotaRepo, collectionRepo, gacha.DefaultRNG(), cfg.Gacha.MaxDrawsPerDay, location)
	collectionService := services.NewCollectionService(collectionRepo)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		GachaHandler:      handlers.NewGachaHandler(drawService, registry, tokenSigner, cfg.Media.TokenTTL),
		CollectionHandler: handlers.NewCollectionHandler(collectionService, tokenSigner, cfg.Media.TokenTTL),
		MediaHandler:      handlers.NewMediaHandler(tokenSigner, storageClient),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
