package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "foodgram")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RECIPE_CREATE_WINDOW", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.RecipeCreateWindow)
	assert.Contains(t, cfg.DSN(), "host=db port=5433")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "dev-secret")
	for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_PORT", "SERVER_PORT", "REDIS_URL", "REDIS_HOST", "STORAGE_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, 30, cfg.RecipeCreateLimit)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigProductionReadsSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "ignored-in-production")

	for name, value := range map[string]string{
		"db_password": "prodpass\n",
		"jwt_secret":  "prod-jwt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value), 0o600))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prodpass", cfg.DBPassword)
	assert.Equal(t, "prod-jwt", cfg.JWTSecret)
}

func TestValidateConfigReportsAllProblems(t *testing.T) {
	cfg := &Config{
		Environment:       Production,
		DBDriver:          "mysql",
		StorageBackend:    "ftp",
		RecipeCreateLimit: 0,
		TokenTTL:          time.Hour,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"DB_DRIVER", "STORAGE_BACKEND", "RECIPE_CREATE_LIMIT", "JWT_SECRET"}, fields)
}
