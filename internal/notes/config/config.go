// Package config содержит конфигурацию сервиса заметок.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	pkgconfig "notekeeper/pkg/config"
	"notekeeper/pkg/logger"
)

// ServiceName - имя сервиса в логах конфигурации.
const ServiceName = "notes"

// Уровни логирования по умолчанию. Локальный режим пишет в лог только
// предупреждения, чтобы не мешать выводу команд.
const (
	DefaultLogLevel      = "info"
	DefaultLocalLogLevel = "warn"
)

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigSummary    = "notes configuration"
	ErrFailedLoadConfig = "failed to load notes configuration"
)

// Config представляет полную конфигурацию сервиса заметок.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// Load загружает конфигурацию из envFile (если он есть) и переменных окружения.
func Load(ctx context.Context, envFile string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Debug(ctx, LogConfigSummary,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.String("snapshot_path", cfg.Snapshot.Path))

	return cfg, nil
}

// ShutdownConfig содержит настройки корректного завершения.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"NOTES_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5"`
}

// GetTimeout возвращает таймаут завершения.
func (s *ShutdownConfig) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// LoggingConfig задает режим и уровень логирования. Пустой Level заменяется
// уровнем по умолчанию того бинарника, который читает конфигурацию.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development"`
}

// LevelOr возвращает заданный уровень или fallback, если уровень не задан.
func (l *LoggingConfig) LevelOr(fallback string) string {
	if strings.TrimSpace(l.Level) == "" {
		return fallback
	}
	return l.Level
}

// GetEnvironment переводит режим в окружение логгера.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(strings.TrimSpace(l.Mode), "production") {
		return logger.Production
	}
	return logger.Development
}

// NewLogger создает логгер по настройкам.
func (l *LoggingConfig) NewLogger(fallbackLevel string) (*logger.Logger, error) {
	return logger.NewLogger(l.GetEnvironment(), l.LevelOr(fallbackLevel))
}
