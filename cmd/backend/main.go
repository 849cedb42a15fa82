// Package main provides the entry point for the TaskLink backend service.
//
//	@title			TaskLink Backend API
//	@version		1.0.0
//	@description	Task management and URL shortening service with JWT authentication.
//
//	@host		localhost:3000
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"TaskLink-Backend/internal/auth"
	"TaskLink-Backend/internal/config"
	"TaskLink-Backend/internal/database"
	httpHandler "TaskLink-Backend/internal/handler/http"
	"TaskLink-Backend/internal/repository/postgres"
	"TaskLink-Backend/internal/service"
	"TaskLink-Backend/pkg/logger"
	"TaskLink-Backend/pkg/useragent"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting TaskLink backend", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	tokenTTL, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("invalid TOKEN_TTL value", zap.String("token_ttl", cfg.Auth.TokenTTL), zap.Error(err))
	}

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:     []byte(cfg.Auth.JWTSecret),
		TokenDuration: tokenTTL,
		Issuer:        "TaskLink-Backend",
	})

	storage := postgres.New(db, log)
	shortenerService := service.NewShortener(storage, &cfg.Shortener)
	uaParser := useragent.NewParser()

	server := httpHandler.NewServer(cfg, storage, shortenerService, jwtService, uaParser, log)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down TaskLink backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}
