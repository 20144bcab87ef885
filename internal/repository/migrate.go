package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/message-service/internal/repository/migrations"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

// seams for tests
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseStatusContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.StatusContext(ctx, db, dir, opts...)
	}
	gooseDownContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.DownContext(ctx, db, dir, opts...)
	}
	gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		return goose.DownToContext(ctx, db, dir, version, opts...)
	}
)

// Migrator applies the embedded schema migrations.
type Migrator struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewMigrator prepares goose to read the embedded migrations.
func NewMigrator(db *sql.DB, log *logrus.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to configure goose: %w", err)
	}
	return &Migrator{db: db, log: log}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	m.log.Info("Applying migrations")
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	m.log.Info("Migrations applied")
	return nil
}

// Status prints applied and pending migrations through the logger.
func (m *Migrator) Status(ctx context.Context) error {
	if err := gooseStatusContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}

// Down rolls back the latest migration, or down to target when target > 0.
func (m *Migrator) Down(ctx context.Context, target int64) error {
	if target > 0 {
		m.log.Infof("Rolling back migrations to version %d", target)
		if err := gooseDownToContext(ctx, m.db, ".", target); err != nil {
			return fmt.Errorf("failed to roll back to version %d: %w", target, err)
		}
		return nil
	}
	m.log.Info("Rolling back latest migration")
	if err := gooseDownContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to roll back latest migration: %w", err)
	}
	return nil
}
