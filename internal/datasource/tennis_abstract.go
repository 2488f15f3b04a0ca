package datasource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/elo-advisor/internal/models"
)

const (
	// DefaultTennisAbstractURL is the ATP Elo report scraped by default
	DefaultTennisAbstractURL = "https://tennisabstract.com/reports/atp_elo_ratings.html"

	// DefaultUserAgent mimics a desktop browser; the source blocks obvious bots
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36"

	// DefaultAcceptLanguage is sent with every upstream request
	DefaultAcceptLanguage = "en-US,en;q=0.9"

	tennisAbstractName = "tennis_abstract"

	// maxDocumentBytes bounds how much of the upstream page is read
	maxDocumentBytes = 16 << 20
)

// TennisAbstractConfig configures the Tennis Abstract ranking client
type TennisAbstractConfig struct {
	URL            string
	UserAgent      string
	AcceptLanguage string
	Extractor      TableExtractor
}

// DefaultTennisAbstractConfig returns the configuration for the public ATP Elo report
func DefaultTennisAbstractConfig() TennisAbstractConfig {
	return TennisAbstractConfig{
		URL:            DefaultTennisAbstractURL,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		Extractor:      DefaultTableExtractor(),
	}
}

// TennisAbstractClient implements RankingSource by scraping the Tennis Abstract Elo report
type TennisAbstractClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        TennisAbstractConfig
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewTennisAbstractClient creates a new Tennis Abstract client
func NewTennisAbstractClient(httpClient *RateLimitedHTTPClient, cfg TennisAbstractConfig, logger logrus.FieldLogger) *TennisAbstractClient {
	if cfg.URL == "" {
		cfg.URL = DefaultTennisAbstractURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}
	if cfg.Extractor.RowSelector == "" {
		cfg.Extractor = DefaultTableExtractor()
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &TennisAbstractClient{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger.WithField("source", tennisAbstractName),
		now:        time.Now,
	}
}

// Name returns the data source name
func (c *TennisAbstractClient) Name() string {
	return tennisAbstractName
}

// URL returns the page this client scrapes
func (c *TennisAbstractClient) URL() string {
	return c.cfg.URL
}

// FetchRanking downloads the report and extracts the ranking table
func (c *TennisAbstractClient) FetchRanking(ctx context.Context) (*models.RankingSnapshot, error) {
	resp, err := c.httpClient.Get(ctx, c.cfg.URL, map[string]string{
		"User-Agent":      c.cfg.UserAgent,
		"Accept-Language": c.cfg.AcceptLanguage,
		"Accept":          "text/html,application/xhtml+xml",
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, NewDataSourceError(tennisAbstractName, ErrCodeServiceUnavailable, "request cancelled or timed out", err)
		}
		return nil, NewDataSourceError(tennisAbstractName, ErrCodeServiceUnavailable, "failed to reach ranking source", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WithFields(logrus.Fields{
			"url":    c.cfg.URL,
			"status": resp.StatusCode,
		}).Warn("Ranking source returned non-success status")
		return nil, NewUpstreamStatusError(tennisAbstractName, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, NewDataSourceError(tennisAbstractName, ErrCodeInternalFailure, "failed to read response body", err)
	}

	entities, stats, err := c.cfg.Extractor.Extract(bytes.NewReader(body))
	if err != nil {
		return nil, NewDataSourceError(tennisAbstractName, ErrCodeInternalFailure, "failed to process document", err)
	}

	if len(entities) == 0 {
		return nil, NewDataSourceError(tennisAbstractName, ErrCodeParseFailure,
			fmt.Sprintf("selector %q matched no usable rows (%d seen); the page layout may have changed",
				c.cfg.Extractor.RowSelector, stats.RowsSeen), nil)
	}

	c.logger.WithFields(logrus.Fields{
		"rows_seen":    stats.RowsSeen,
		"rows_skipped": stats.RowsSkipped,
		"entities":     len(entities),
	}).Debug("Ranking table extracted")

	return models.NewRankingSnapshot(tennisAbstractName, entities, c.now().UTC()), nil
}
