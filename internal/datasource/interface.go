package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/elo-advisor/internal/models"
)

// RankingSource defines the interface for fetching ranking tables from external providers
type RankingSource interface {
	// FetchRanking retrieves one full ranking snapshot
	FetchRanking(ctx context.Context) (*models.RankingSnapshot, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "service_unavailable")
	Message string // Error message
	Status  int    // Upstream HTTP status, 0 when no response was received
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by code
func (e DataSourceError) Is(target error) bool {
	switch target {
	case ErrServiceUnavailable:
		return e.Code == ErrCodeServiceUnavailable
	case ErrParseFailure:
		return e.Code == ErrCodeParseFailure
	case ErrInternalFailure:
		return e.Code == ErrCodeInternalFailure
	}
	return false
}

// Error codes
const (
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeParseFailure       = "parse_failure"
	ErrCodeInternalFailure    = "internal_failure"
)

var (
	ErrServiceUnavailable = errors.New("ranking service unavailable")
	ErrParseFailure       = errors.New("ranking table could not be parsed")
	ErrInternalFailure    = errors.New("internal failure")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewUpstreamStatusError creates a service unavailable error for a non-success upstream status
func NewUpstreamStatusError(source string, status int) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    ErrCodeServiceUnavailable,
		Message: fmt.Sprintf("upstream returned status %d", status),
		Status:  status,
	}
}

// CodeOf returns the error code carried by err. Errors that are not
// DataSourceErrors are reported as internal failures.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeInternalFailure
}

// StatusOf returns the upstream HTTP status carried by err, or 0
func StatusOf(err error) int {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Status
	}
	return 0
}
