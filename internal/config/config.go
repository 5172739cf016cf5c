// Package config loads server and client configuration from command-line
// flags, environment variables and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the API server configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // default: 8000
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 60s, chat answers can be slow
	IdleTimeout  time.Duration // default: 60s
	CORSOrigins  []string
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	// DataPath holds the SQLite database and the search index.
	DataPath string
	// TranscriptDir holds <video_id>.srt files and optional <video_id>.json descriptions.
	TranscriptDir string
	// WatchTranscripts re-indexes transcripts when files change.
	WatchTranscripts bool
}

// RateLimitConfig limits /login and /signup per client IP.
type RateLimitConfig struct {
	AuthRPS   float64
	AuthBurst int
}

// LoadConfig loads the server configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	port := fs.String("port", "", "Server port (default: 8000)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")
	dataPath := fs.String("data-path", "", "Directory for the database and search index")
	transcriptDir := fs.String("transcript-dir", "", "Directory of transcript files")
	watch := fs.String("watch-transcripts", "", "Re-index transcripts on change (default: true)")
	authRPS := fs.String("auth-rps", "", "Login/signup requests per second per IP (default: 1)")
	authBurst := fs.String("auth-burst", "", "Login/signup burst per IP (default: 5)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*port, "SERVER_PORT", "8000"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "http://localhost:5173")),
		},
		Storage: StorageConfig{
			DataPath:         getConfigValue(*dataPath, "DATA_PATH", ""),
			TranscriptDir:    getConfigValue(*transcriptDir, "TRANSCRIPT_DIR", ""),
			WatchTranscripts: getBoolConfigValue(*watch, "WATCH_TRANSCRIPTS", true),
		},
		RateLimit: RateLimitConfig{
			AuthRPS:   getFloatConfigValue(*authRPS, "AUTH_RPS", 1),
			AuthBurst: getIntConfigValue(*authBurst, "AUTH_BURST", 5),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	if cfg.Storage.DataPath, err = expandPath(cfg.Storage.DataPath, filepath.Join(homeDir, ".ytnotebook", "data")); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Storage.TranscriptDir, err = expandPath(cfg.Storage.TranscriptDir, filepath.Join(cfg.Storage.DataPath, "transcripts")); err != nil {
		return nil, fmt.Errorf("invalid transcript dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if err := validateEnvironment(c.App.Environment); err != nil {
		return err
	}
	if err := validateLogLevel(c.Logger.Level); err != nil {
		return err
	}

	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Storage.TranscriptDir == "" {
		return errors.New("transcript dir cannot be empty after expansion")
	}

	if c.RateLimit.AuthRPS <= 0 || c.RateLimit.AuthBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}

	return nil
}

// ClientConfig holds the command-line client configuration.
type ClientConfig struct {
	Environment string
	LogLevel    string
	// APIURL is the backend base URL.
	APIURL string
	// StateDir holds the persisted login identity.
	StateDir string
	// RequestTimeout bounds a single backend call.
	RequestTimeout time.Duration
	// RequestsPerSecond throttles calls to the backend host.
	RequestsPerSecond float64
}

// ClientOverrides carries values given on the client command line.
// Empty fields fall through to the environment and defaults.
type ClientOverrides struct {
	APIURL         string
	StateDir       string
	RequestTimeout string
	LogLevel       string
	EnvFile        string
}

// LoadClientConfig loads the client configuration with the same precedence
// as LoadConfig: overrides, environment, .env file, defaults.
func LoadClientConfig(o ClientOverrides) (*ClientConfig, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		Environment:       getConfigValue("", "ENV", "development"),
		LogLevel:          getConfigValue(o.LogLevel, "YTNB_LOG_LEVEL", "warn"),
		APIURL:            strings.TrimRight(getConfigValue(o.APIURL, "YTNB_API_URL", "http://localhost:8000"), "/"),
		StateDir:          getConfigValue(o.StateDir, "YTNB_STATE_DIR", ""),
		RequestsPerSecond: getFloatConfigValue("", "YTNB_RPS", 10),
	}

	var err error
	if cfg.RequestTimeout, err = getDurationConfigValue(o.RequestTimeout, "YTNB_REQUEST_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	if cfg.StateDir, err = expandPath(cfg.StateDir, filepath.Join(homeDir, ".ytnotebook", "client")); err != nil {
		return nil, fmt.Errorf("invalid state dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	if err := validateEnvironment(c.Environment); err != nil {
		return err
	}
	if err := validateLogLevel(c.LogLevel); err != nil {
		return err
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid API URL: %q", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("requests per second must be positive")
	}
	return nil
}

func validateEnvironment(env string) error {
	if env == "" {
		return errors.New("ENV is required")
	}
	switch env {
	case "development", "staging", "production":
		return nil
	}
	return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", env)
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is used as given.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// loadEnvFile copies values from a .env file into the environment for keys
// that are unset or empty. A missing file is not an error.
func loadEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	for key, value := range values {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", strValue, err)
	}
	return d, nil
}
