package config

import (
	"fmt"
	"time"

	"notekeeper/pkg/db/postgres"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host            string        `yaml:"host" env:"NOTES_POSTGRES_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"NOTES_POSTGRES_PORT" env-default:"5433"`
	User            string        `yaml:"user" env:"NOTES_POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"NOTES_POSTGRES_PASSWORD" env-default:"postgres"`
	Database        string        `yaml:"database" env:"NOTES_POSTGRES_DB" env-default:"notes"`
	MinConn         int           `yaml:"min_conn" env:"NOTES_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn         int           `yaml:"max_conn" env:"NOTES_POSTGRES_MAX_CONN" env-default:"10"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"NOTES_POSTGRES_CONNECT_TIMEOUT" env-default:"5s"`
	ConnectAttempts int           `yaml:"connect_attempts" env:"NOTES_POSTGRES_CONNECT_ATTEMPTS" env-default:"5"`
	Migrations      string        `yaml:"migrations" env:"NOTES_POSTGRES_MIGRATIONS" env-default:"migrations/notes"`
}

// GetDSN возвращает строку подключения к Postgres.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

// PoolOptions возвращает параметры пула соединений.
func (p *PostgresConfig) PoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MinConns:       p.MinConn,
		MaxConns:       p.MaxConn,
		ConnectTimeout: p.ConnectTimeout,
	}
}
