package cli

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/questrade/pkg/qtsdk"
)

type Config struct {
	RefreshToken string        // QUESTRADE_REFRESH_TOKEN: refresh token from the API hub
	AccessToken  string        // QUESTRADE_ACCESS_TOKEN: optional, reused while QUESTRADE_EXPIRES_AT is in the future
	APIServer    string        // QUESTRADE_API_SERVER: required with an access token
	ExpiresAt    time.Time     // QUESTRADE_EXPIRES_AT: RFC 3339 expiry of the access token (default: unknown)
	LoginURL     string        // QUESTRADE_LOGIN_URL (default: qtsdk.DefaultLoginURL)
	HTTPTimeout  time.Duration // HTTP_TIMEOUT (default: 10s)
	Env          string        // Environment (dev, prod) (default: dev)
	LogLevel     string        // Log level (debug, info, warn, error) (default: info)
	LogFormat    string        // Log format (json, text) (default: text)
	NoColor      bool          // NO_COLOR: disable highlighted error output
}

// LoadDotEnv seeds the process environment from path. Variables already set
// win over the file, and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func LoadConfig() Config {
	return Config{
		RefreshToken: os.Getenv("QUESTRADE_REFRESH_TOKEN"),
		AccessToken:  os.Getenv("QUESTRADE_ACCESS_TOKEN"),
		APIServer:    os.Getenv("QUESTRADE_API_SERVER"),
		ExpiresAt:    getEnvTimeOrDefault("QUESTRADE_EXPIRES_AT", time.Time{}),
		LoginURL:     getEnvOrDefault("QUESTRADE_LOGIN_URL", qtsdk.DefaultLoginURL),
		HTTPTimeout:  getEnvDurationOrDefault("HTTP_TIMEOUT", 10*time.Second),
		Env:          getEnvOrDefault("ENV", "dev"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "text"),
		NoColor:      os.Getenv("NO_COLOR") != "",
	}
}

// Credentials returns the session seed described by the configuration.
func (c Config) Credentials() qtsdk.Credentials {
	return qtsdk.Credentials{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		APIServer:    c.APIServer,
		ExpiresAt:    c.ExpiresAt,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "30s", "1m")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func getEnvTimeOrDefault(key string, defaultValue time.Time) time.Time {
	t, err := time.Parse(time.RFC3339, os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return t
}
