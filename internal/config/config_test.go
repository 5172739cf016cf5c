package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{Port: "8000"},
		Storage: StorageConfig{
			DataPath:      "/data",
			TranscriptDir: "/data/transcripts",
		},
		RateLimit: RateLimitConfig{AuthRPS: 1, AuthBurst: 5},
	}
}

// clearEnv blanks every variable LoadConfig and LoadClientConfig read.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "CORS_ORIGINS", "DATA_PATH", "TRANSCRIPT_DIR", "WATCH_TRANSCRIPTS",
		"AUTH_RPS", "AUTH_BURST", "YTNB_LOG_LEVEL", "YTNB_API_URL", "YTNB_STATE_DIR",
		"YTNB_RPS", "YTNB_REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_BadPortAndRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = "http"
	assert.ErrorContains(t, cfg.Validate(), "invalid server port")

	cfg = validConfig()
	cfg.RateLimit.AuthBurst = 0
	assert.ErrorContains(t, cfg.Validate(), "auth rate limit")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := LoadConfig([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, filepath.Join(home, ".ytnotebook", "data"), cfg.Storage.DataPath)
	assert.Equal(t, filepath.Join(cfg.Storage.DataPath, "transcripts"), cfg.Storage.TranscriptDir)
	assert.True(t, cfg.Storage.WatchTranscripts)
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=9000\nLOG_LEVEL=debug\nCORS_ORIGINS=http://a, http://b\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig([]string{
		"-env-file", envFile,
		"-data-path", dir,
		"-write-timeout", "2m",
	})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port, ".env fills unset variables")
	assert.Equal(t, "warn", cfg.Logger.Level, "environment beats .env")
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout, "flag beats default")
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)
	assert.Equal(t, dir, cfg.Storage.DataPath)
}

func TestLoadConfig_EnvFileFillsEmptyVariables(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=9100\nAUTH_BURST=7\n"), 0o600))
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AUTH_BURST", "3")

	cfg, err := LoadConfig([]string{"-env-file", envFile, "-data-path", t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 3, cfg.RateLimit.AuthBurst)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	assert.Error(t, loadEnvFile(t.TempDir()))
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig([]string{"-read-timeout", "soon", "-env-file", filepath.Join(t.TempDir(), "x")})
	assert.ErrorContains(t, err, "invalid read timeout")
}

func TestLoadClientConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("YTNB_API_URL", "http://api.example:8000/")

	cfg, err := LoadClientConfig(ClientOverrides{
		StateDir: "~/nb-state",
		EnvFile:  filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)

	home, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, "http://api.example:8000", cfg.APIURL)
	assert.Equal(t, filepath.Join(home, "nb-state"), cfg.StateDir)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadClientConfig_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("YTNB_API_URL=http://from-file:9000\nYTNB_REQUEST_TIMEOUT=5s\n"), 0o600))

	cfg, err := LoadClientConfig(ClientOverrides{
		RequestTimeout: "2s",
		StateDir:       t.TempDir(),
		EnvFile:        envFile,
	})
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:9000", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoadClientConfig_RejectsBadURL(t *testing.T) {
	clearEnv(t)
	_, err := LoadClientConfig(ClientOverrides{
		APIURL:  "localhost:8000",
		EnvFile: filepath.Join(t.TempDir(), "missing.env"),
	})
	assert.ErrorContains(t, err, "invalid API URL")
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir() //nolint:errcheck // Test setup

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/x", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), got)

	got, err = expandPath("relative/path", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Contains(t, got, "relative/path")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY_YTNB", "default-value"))
}
