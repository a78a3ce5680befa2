// Package config provides configuration management for the cinetrack application.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem found while loading is collected
// and reported in a single error so an operator can fix them all at once.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// MetadataConfig holds settings for the external movie metadata provider.
type MetadataConfig struct {
	BaseURL      string        // e.g. https://api.themoviedb.org/3
	APIKey       string        // provider API key, sent as a query parameter
	Language     string        // locale sent with every request, e.g. "en-US"
	ImageBaseURL string        // base for poster/backdrop paths
	Timeout      time.Duration // per-request HTTP timeout
}

// StoreConfig holds settings for the mock CRUD store that owns all
// user-generated data (the users, watchlist, reviews and movie_cache
// collections).
type StoreConfig struct {
	BaseURL string        // e.g. http://localhost:3000
	Timeout time.Duration // per-request HTTP timeout
}

// SessionConfig holds settings for durable session storage.
type SessionConfig struct {
	FilePath string // path of the JSON file holding the current session user
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Metadata *MetadataConfig
	Store    *StoreConfig
	Session  *SessionConfig
	Server   *ServerConfig
}

// getRequiredEnv reads a required environment variable, appending to the
// errors slice if it is not set. This promotes a "fail fast" approach for
// critical missing configuration.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return "" // error is collected, caller aggregates
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvDuration reads an optional environment variable parsed as a
// time.Duration ("15s", "1m30s", ...). Uses defaultValue if not set;
// appends an error if parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Metadata provider configuration. The API key is the only hard
	// requirement; everything else has a sensible default.
	metadata := &MetadataConfig{
		BaseURL:      getOptionalEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		APIKey:       getRequiredEnv("TMDB_API_KEY", &errors),
		Language:     getOptionalEnv("TMDB_LANGUAGE", "en-US"),
		ImageBaseURL: getOptionalEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/original"),
		Timeout:      getOptionalEnvDuration("TMDB_TIMEOUT", 10*time.Second, &errors),
	}

	storeCfg := &StoreConfig{
		BaseURL: getOptionalEnv("STORE_BASE_URL", "http://localhost:3000"),
		Timeout: getOptionalEnvDuration("STORE_TIMEOUT", 10*time.Second, &errors),
	}

	// The session file is the durable equivalent of the single "current
	// user" record a browser client keeps in local storage.
	sessionCfg := &SessionConfig{
		FilePath: getOptionalEnv("SESSION_FILE", "cinetrack-session.json"),
	}

	serverCfg := &ServerConfig{
		// Kept as a string because it is used directly in the listen
		// address (":8080").
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Metadata: metadata,
		Store:    storeCfg,
		Session:  sessionCfg,
		Server:   serverCfg,
	}, nil
}
