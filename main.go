package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authService "taskmanager/internal/application/auth"
	categoryService "taskmanager/internal/application/category"
	tagService "taskmanager/internal/application/tag"
	taskService "taskmanager/internal/application/task"
	"taskmanager/internal/delivery/http/handler"
	"taskmanager/internal/delivery/http/router"
	"taskmanager/internal/infrastructure/config"
	"taskmanager/internal/infrastructure/database"
	"taskmanager/internal/infrastructure/logging"
	"taskmanager/internal/infrastructure/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Prefix:    "taskmanager",
		Timestamp: true,
	})
	if cfg.IsDevelopment() && cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", "err", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	authSvc := authService.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	taskSvc := taskService.NewService(taskRepo, categoryRepo, tagRepo)
	categorySvc := categoryService.NewService(categoryRepo)
	tagSvc := tagService.NewService(tagRepo)

	// Setup routes
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, logger),
		Task:     handler.NewTaskHandler(taskSvc, logger),
		Category: handler.NewCategoryHandler(categorySvc, logger),
		Tag:      handler.NewTagHandler(tagSvc, logger),
	}
	mux := router.Setup(handlers, authSvc, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"database", cfg.DatabasePath,
			"environment", cfg.Environment,
			"origins", cfg.AllowedOrigins,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
