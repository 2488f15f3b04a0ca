// Package config provides configuration management for the Elo advisor.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for an empty tag name
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("theme", validateTheme)
	_ = v.RegisterValidation("cronspec", validateCronSpec)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateTheme validates the terminal theme
func validateTheme(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "dark", "light", "plain":
		return true
	default:
		return false
	}
}

// validateCronSpec validates a cron expression or descriptor such as "@every 1h"
func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Ranking.RefreshEnabled && cfg.Ranking.RefreshSchedule == "" {
		return fmt.Errorf("ranking refresh_schedule is required when refresh_enabled is true")
	}

	cols := cfg.Ranking
	if cols.RankColumn == cols.NameColumn || cols.RankColumn == cols.RatingColumn || cols.NameColumn == cols.RatingColumn {
		return fmt.Errorf("ranking rank_column, name_column and rating_column must be distinct")
	}

	hc := cfg.HTTPClient
	if hc.RetryWaitMinMillis > hc.RetryWaitMaxMillis {
		return fmt.Errorf("http_client retry_wait_min_ms cannot exceed retry_wait_max_ms")
	}
	if hc.CircuitBreakerMax > 0 && hc.CircuitBreakerCooldownSeconds == 0 {
		return fmt.Errorf("http_client circuit_breaker_cooldown_seconds must be set when the circuit breaker is enabled")
	}

	// The handler deadline has to fit inside the write timeout
	if cfg.Server.RequestTimeoutSeconds > cfg.Server.WriteTimeoutSeconds {
		return fmt.Errorf("server request_timeout_seconds cannot exceed write_timeout_seconds")
	}

	if cfg.IsProduction() && cfg.App.LogLevel == "debug" {
		return fmt.Errorf("production environment should not run with debug logging")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "theme":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: dark, light, plain\n", field)
		case "cronspec":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid cron schedule, got '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
