// File: app/app.go
package app

import (
	"context"
	"go-auth-api/config"
	"go-auth-api/db"
	"go-auth-api/handler"
	"go-auth-api/logger"
	"go-auth-api/repository"
	"go-auth-api/router"
	"go-auth-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	logger.Init()
	logger.Log.Info("Logger initialized")

	cfg, err := config.Load(".")
	if err != nil {
		logger.Log.Fatalf("Configuration error: %v", err)
	}
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(cfg, "file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	credRepo := repository.NewCredentialRepository(database)

	authService := service.NewAuthService(cfg.Security.BcryptCost)
	tokenService := service.NewTokenService(cfg)
	sessionService := service.NewSessionService(tokenService, credRepo)
	userService := service.NewUserService(userRepo, redisClient)

	sessionHandler := handler.NewSessionHandler(userRepo, authService, sessionService, cfg.JWT.RefreshLifetime)
	userHandler := handler.NewUserHandler(userService)
	authMW := handler.NewAuthMiddleware(tokenService)

	r := router.NewRouter(sessionHandler, userHandler, authMW, cfg.Server.AllowedOrigin)

	// The sweeper shares the credential store with the request
	// handlers but runs under its own error boundary; its context is
	// cancelled during shutdown.
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := service.NewSweeper(credRepo, cfg)
	go sweeper.Run(sweeperCtx)

	// --- Start the Server with Graceful Shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
