package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/message-service/internal/auth"
	"github.com/Dan9191/message-service/internal/config"
	"github.com/Dan9191/message-service/internal/handler"
	"github.com/Dan9191/message-service/internal/repository"
	"github.com/Dan9191/message-service/internal/service"
	"github.com/Dan9191/message-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type store interface {
	repository.UserRepository
	repository.MessageRepository
}

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize storage
	var repo store
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		repo = repository.NewMemoryRepository()
	default:
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		if cfg.MigrationsOnStart {
			m, err := repository.NewMigrator(db, logger)
			if err != nil {
				logger.Fatalf("Failed to prepare migrations: %v", err)
			}
			if err := m.Up(context.Background()); err != nil {
				logger.Fatalf("Failed to migrate database: %v", err)
			}
		}
		repo = repository.NewRepository(db)
	}

	// Initialize layers
	codec := auth.NewTokenCodec(cfg.JWTSecret)
	var mailer service.Mailer
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, repo, codec, mailer, logger)
	h := handler.NewHandler(svc, logger)
	authn := auth.NewAuthenticator(codec, repo)

	// Setup router
	r := handler.NewRouter(h, authn, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
