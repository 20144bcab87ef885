package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"github.com/Dan9191/message-service/internal/repository"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Migrations only need the database DSN, not the full service config.
	dsn := os.Getenv("DB_CONN")
	if dsn == "" {
		logger.Fatal("DB_CONN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	m, err := repository.NewMigrator(db, logger)
	if err != nil {
		logger.Fatalf("Failed to prepare migrations: %v", err)
	}

	switch *command {
	case "up":
		err = m.Up(ctx)
	case "status":
		err = m.Status(ctx)
	case "down":
		err = m.Down(ctx, *target)
	default:
		logger.Fatalf("Unsupported command %q", *command)
	}
	if err != nil {
		logger.Fatalf("Migration command %s failed: %v", *command, err)
	}
	logger.Infof("Migration command %s completed", *command)
}
