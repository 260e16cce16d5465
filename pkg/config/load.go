// Package config загружает конфигурацию сервисов из окружения и необязательного .env файла.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgEnvFileSkipped          = "env file not found, using process environment"
	msgFailedLoadConfiguration = "failed to load configuration"

	errFailedReadEnvFile       = "failed to read env file"
	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает envFile (если он существует) в окружение процесса и заполняет T
// по тегам cleanenv. Переменные, уже заданные в окружении, не перезаписываются.
func Load[T any](ctx context.Context, serviceName, envFile string) (*T, error) {
	log := logger.Log(ctx)

	log.Info(ctx, msgLoadingConfiguration,
		zap.String(attrService, serviceName),
		zap.String(attrPath, envFile))

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
				log.Error(ctx, errFailedReadEnvFile, zap.String(attrPath, envFile), zap.Error(err))
				return nil, fmt.Errorf("%s: %w", errFailedReadEnvFile, err)
			}
			log.Debug(ctx, msgEnvFileSkipped, zap.String(attrPath, envFile))
		}
	}

	var cfg T
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, msgFailedLoadConfiguration,
			zap.String(attrService, serviceName),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded, zap.String(attrService, serviceName))
	return &cfg, nil
}
