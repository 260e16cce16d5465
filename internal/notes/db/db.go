// Package db поднимает базу данных сервиса заметок: миграции и пул соединений.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/resilience"
	"notekeeper/pkg/db/postgres"
	"notekeeper/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogDBInitializing    = "initializing notes database"
	LogDBInitialized     = "notes database initialized successfully"
	LogMigrationStarting = "starting database migrations for notes service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations      = "failed to apply notes database migrations"
	ErrDBConnection      = "failed to connect to notes database"
	ErrDBCheckConnection = "error checking the database connection"
)

// DB представляет соединение с базой данных сервиса заметок.
type DB struct {
	database *postgres.Database
}

// New применяет миграции и открывает пул соединений. Недоступность базы
// возвращается как entities.ErrConnectivity.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	migrationsPath, err := postgres.SourceURL(cfg.Migrations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	// База может подниматься одновременно с сервисом, поэтому подключение повторяется.
	retry := resilience.NewRetry("notes-db", resilience.RetryConfig{
		MaxAttempts:    cfg.ConnectAttempts,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	})

	var database *postgres.Database
	err = retry.Execute(ctx, func(ctx context.Context) error {
		log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
		if err := postgres.MigrateDSN(ctx, cfg.GetConnectionURL(), migrationsPath); err != nil {
			return fmt.Errorf("%s: %w: %w", ErrDBMigrations, entities.ErrConnectivity, err)
		}

		var err error
		database, err = postgres.New(ctx, cfg.GetDSN(), cfg.PoolOptions())
		if err != nil {
			return fmt.Errorf("%s: %w: %w", ErrDBConnection, entities.ErrConnectivity, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.database.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", ErrDBCheckConnection, entities.ErrConnectivity, err)
	}
	return nil
}
