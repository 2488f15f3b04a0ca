// Package config provides configuration management for the Elo advisor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Ranking    RankingConfig    `mapstructure:"ranking" validate:"required"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	UI         UIConfig         `mapstructure:"ui"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	RequestTimeoutSeconds  int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
}

// RankingConfig represents the ranking source and cache configuration
type RankingConfig struct {
	SourceURL       string `mapstructure:"source_url" validate:"required,url"`
	UserAgent       string `mapstructure:"user_agent" validate:"required"`
	AcceptLanguage  string `mapstructure:"accept_language" validate:"required"`
	RowSelector     string `mapstructure:"row_selector" validate:"required"`
	RankColumn      int    `mapstructure:"rank_column" validate:"gte=0"`
	NameColumn      int    `mapstructure:"name_column" validate:"gte=0"`
	RatingColumn    int    `mapstructure:"rating_column" validate:"gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	RefreshEnabled  bool   `mapstructure:"refresh_enabled"`
	RefreshSchedule string `mapstructure:"refresh_schedule" validate:"omitempty,cronspec"`
}

// HTTPClientConfig represents the outbound HTTP client configuration
type HTTPClientConfig struct {
	TimeoutSeconds                int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries                    int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryWaitMinMillis            int     `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMillis            int     `mapstructure:"retry_wait_max_ms" validate:"gte=0"`
	RateLimit                     float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CircuitBreakerMax             int     `mapstructure:"circuit_breaker_max" validate:"gte=0"`
	CircuitBreakerCooldownSeconds int     `mapstructure:"circuit_breaker_cooldown_seconds" validate:"gte=0"`
}

// AnalysisConfig represents match analysis configuration
type AnalysisConfig struct {
	ValueThreshold float64 `mapstructure:"value_threshold" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// UIConfig represents terminal rendering configuration
type UIConfig struct {
	Theme string `mapstructure:"theme" validate:"omitempty,theme"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddress returns the address the API server binds to
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CacheTTL returns the ranking cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Ranking.CacheTTLSeconds) * time.Second
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration { return seconds(s.ReadTimeoutSeconds) }

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration { return seconds(s.WriteTimeoutSeconds) }

// ShutdownTimeout returns the graceful shutdown deadline
func (s ServerConfig) ShutdownTimeout() time.Duration { return seconds(s.ShutdownTimeoutSeconds) }

// RequestTimeout returns the per-request handler deadline
func (s ServerConfig) RequestTimeout() time.Duration { return seconds(s.RequestTimeoutSeconds) }
