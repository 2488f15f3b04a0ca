package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/elo-advisor/internal/config"
)

// Factory creates RankingSource implementations based on configuration
type Factory struct {
	config *config.Config
	logger logrus.FieldLogger
}

// NewFactory creates a new ranking source factory
func NewFactory(cfg *config.Config, logger logrus.FieldLogger) *Factory {
	return &Factory{
		config: cfg,
		logger: logger,
	}
}

// NewHTTPClient creates the upstream HTTP client from the http_client section
func (f *Factory) NewHTTPClient() *RateLimitedHTTPClient {
	hc := f.config.HTTPClient
	return NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:                time.Duration(hc.TimeoutSeconds) * time.Second,
		MaxRetries:             hc.MaxRetries,
		RetryWaitMin:           time.Duration(hc.RetryWaitMinMillis) * time.Millisecond,
		RetryWaitMax:           time.Duration(hc.RetryWaitMaxMillis) * time.Millisecond,
		RateLimit:              hc.RateLimit,
		CircuitBreakerMax:      hc.CircuitBreakerMax,
		CircuitBreakerCooldown: time.Duration(hc.CircuitBreakerCooldownSeconds) * time.Second,
	}, f.logger)
}

// NewRankingSource creates the ranking scraper from the ranking section
func (f *Factory) NewRankingSource(httpClient *RateLimitedHTTPClient) (RankingSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	rc := f.config.Ranking
	if rc.SourceURL == "" {
		return nil, fmt.Errorf("ranking source_url is required")
	}
	if rc.RowSelector == "" {
		return nil, fmt.Errorf("ranking row_selector is required")
	}

	return NewTennisAbstractClient(httpClient, TennisAbstractConfig{
		URL:            rc.SourceURL,
		UserAgent:      rc.UserAgent,
		AcceptLanguage: rc.AcceptLanguage,
		Extractor: TableExtractor{
			RowSelector: rc.RowSelector,
			Columns: ColumnMapping{
				Rank:   rc.RankColumn,
				Name:   rc.NameColumn,
				Rating: rc.RatingColumn,
			},
			Admit: ValidEntity,
		},
	}, f.logger), nil
}
