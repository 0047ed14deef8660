package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "astrotrack", cfg.App.Name)
	assert.Equal(t, BackendPostgres, cfg.Database.Backend)
	assert.Equal(t, ProviderGoogle, cfg.Auth.Provider)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*24*time.Hour, cfg.Auth.SessionMaxAge())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ASTRO_DATABASE_BACKEND", "memory")
	t.Setenv("DATABASE_URL", "postgres://example/astro")
	t.Setenv("FIREBASE_PROJECT_ID", "astro-prod")
	t.Setenv("ASTRO_AUTH_PROVIDER", "supabase")
	t.Setenv("ASTRO_CACHE_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Database.Backend)
	assert.Equal(t, "postgres://example/astro", cfg.Database.DSN)
	assert.Equal(t, "astro-prod", cfg.Firestore.ProjectID)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 28*24*time.Hour, cfg.Auth.SessionMaxAge())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
database:
  backend: memory
auth:
  secret_pepper: pepper
  cookie_max_age: 48h
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 48*time.Hour, cfg.Auth.SessionMaxAge())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"ASTRO_DATABASE_BACKEND": "mongo"}},
		{name: "firestore without project", env: map[string]string{"ASTRO_DATABASE_BACKEND": "firestore"}},
		{name: "unknown provider", env: map[string]string{"ASTRO_AUTH_PROVIDER": "github"}},
		{name: "production without pepper", env: map[string]string{"ASTRO_APP_ENV": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
