// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-notes-api/config"
	"go-notes-api/db"
	"go-notes-api/handler"
	"go-notes-api/logger"
	"go-notes-api/repository"
	"go-notes-api/router"
	"go-notes-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestApp bundles the wired router with the raw connections so
// integration tests can seed and inspect state directly.
type TestApp struct {
	Router http.Handler
	DB     *sql.DB
	Redis  *redis.Client
}

// NewTestApp wires the full handler stack on top of the given
// connections, skipping config loading and migrations.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	return &TestApp{
		Router: buildRouter(database, redisClient),
		DB:     database,
		Redis:  redisClient,
	}
}

func buildRouter(database *sql.DB, redisClient *redis.Client) http.Handler {
	cfg := config.AppConfig

	tokenService := service.NewTokenService(
		cfg.JWT.SecretKey,
		time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenTTLMin)*time.Minute,
		cfg.JWT.EnforceExpiry,
	)

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	noteRepo := repository.NewNoteRepository(database)

	authService := service.NewAuthService(database, userRepo, tokenRepo, tokenService)
	userService := service.NewUserService(userRepo)
	noteService := service.NewNoteService(noteRepo, redisClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	noteHandler := handler.NewNoteHandler(noteService)

	return router.NewRouter(tokenService, cfg.Security.PublicEndpoints, authHandler, userHandler, noteHandler)
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r := buildRouter(database, redisClient)

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
