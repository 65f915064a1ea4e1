package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", raw: "1200", want: 20 * time.Minute},
		{name: "padded seconds", raw: " 90 ", want: 90 * time.Second},
		{name: "minutes", raw: "20m", want: 20 * time.Minute},
		{name: "compound", raw: "1h30m", want: 90 * time.Minute},
		{name: "garbage", raw: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.Equal(t, "sqlite://quizfarm.db", cfg.DatabaseURL)
	assert.Equal(t, 20*time.Minute, cfg.QuizTimeLimit)
	assert.Equal(t, 20, cfg.QuizQuestionCount)
	assert.Equal(t, SessionStoreFilesystem, cfg.SessionStore)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.NotEmpty(t, cfg.SessionDir)
	assert.Empty(t, cfg.SeedFile)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QUIZ_TIME_LIMIT", "5m")
	t.Setenv("QUIZ_QUESTION_COUNT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.QuizTimeLimit)
	assert.Equal(t, 3, cfg.QuizQuestionCount)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("time limit", func(t *testing.T) {
		t.Setenv("QUIZ_TIME_LIMIT", "0")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("session store", func(t *testing.T) {
		viper.Set(SessionStore, "redis")
		defer viper.Set(SessionStore, SessionStoreFilesystem)
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QUIZFARM_DOTENV_CHECK=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QUIZFARM_DOTENV_CHECK") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("QUIZFARM_DOTENV_CHECK"))
}
