// Package main реализует локальный режим: записная книжка в одном файле снимка.
package main

import (
	"context"
	"fmt"
	"os"

	"notekeeper/internal/notes/cli"
	"notekeeper/internal/notes/config"
	"notekeeper/pkg/logger"
)

// EnvFile - переменная окружения с путем к .env файлу.
const EnvFile = "NOTES_ENV_FILE"

// Константы для сообщений об ошибках.
const (
	ErrInitLogger = "failed to initialize logger"
	ErrLoadConfig = "failed to load configuration"
)

func main() {
	ctx := context.Background()

	// До загрузки конфигурации действует резервный логгер уровня warn.
	cfg, err := config.Load(ctx, os.Getenv(EnvFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ErrLoadConfig, err)
		os.Exit(1)
	}

	log, err := cfg.Logging.NewLogger(config.DefaultLocalLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ErrInitLogger, err)
		os.Exit(1)
	}
	logger.SetGlobalLogger(log)

	if err := cli.NewRootCommand(cfg.Snapshot).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}
