package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/pkg/config"
	"notekeeper/pkg/logger"
)

type sample struct {
	Name  string `env:"PKGCFG_TEST_NAME" env-default:"fallback"`
	Limit int    `env:"PKGCFG_TEST_LIMIT" env-default:"3"`
}

func TestLoad(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	t.Run("defaults without env file", func(t *testing.T) {
		cfg, err := config.Load[sample](ctx, "test", filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "fallback", cfg.Name)
		assert.Equal(t, 3, cfg.Limit)
	})

	t.Run("values from env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PKGCFG_TEST_NAME=from-file\nPKGCFG_TEST_LIMIT=9\n"), 0o600))
		t.Cleanup(func() {
			_ = os.Unsetenv("PKGCFG_TEST_NAME")
			_ = os.Unsetenv("PKGCFG_TEST_LIMIT")
		})

		cfg, err := config.Load[sample](ctx, "test", path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Name)
		assert.Equal(t, 9, cfg.Limit)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("PKGCFG_TEST_LIMIT", "many")

		cfg, err := config.Load[sample](ctx, "test", "")
		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}
