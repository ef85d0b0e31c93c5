package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"questline/internal/cache"
	"questline/internal/config"
	"questline/internal/repository"
	"questline/internal/service"
	"questline/internal/transport/rest"
)

// @title Questline Questionnaire API
// @version 1.0
// @description Branching questionnaire engine with classic and paged flows
// @host localhost:8080
// @BasePath /api
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	clusterRepo := repository.NewClusterRepo(db)
	answerRepo := repository.NewAnswerRepo(db)

	// Initialize caches
	clusterCache := cache.NewClusterCache(rdb, cfg.ClusterCacheTTL)
	progressCache := cache.NewProgressCache(rdb, cfg.ProgressCacheTTL)

	// Initialize services
	contentSvc := service.NewContentService(clusterRepo, clusterCache)
	answerSvc := service.NewAnswerService(contentSvc, answerRepo, progressCache)
	progressSvc := service.NewProgressService(clusterRepo, answerRepo, progressCache)

	// Create router with container
	container := &rest.Container{
		ContentService:  contentSvc,
		AnswerService:   answerSvc,
		ProgressService: progressSvc,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET/POST /api/cms")
		log.Println("  GET  /api/questionnaire/{cluster}")
		log.Println("  GET  /api/pages/{cluster}")
		log.Println("  GET/POST /api/userAnswers/{userId}/{cluster}")
		log.Println("  POST /api/userAnswers/{userId}/{cluster}/answer")
		log.Println("  GET/POST /api/pageAnswers/{userId}/{cluster}/{pageId}")
		log.Println("  GET  /api/progress/{userId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
