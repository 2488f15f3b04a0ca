// Package logger provides ranking-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RankingLogger provides dedicated logging for ranking retrieval.
type RankingLogger struct {
	*logrus.Entry
}

// NewRankingLogger creates a new ranking logger.
func NewRankingLogger(baseLogger *logrus.Logger) *RankingLogger {
	return &RankingLogger{
		Entry: baseLogger.WithField("component", "ranking"),
	}
}

// LogFetchStarted logs the start of an upstream fetch.
func (rl *RankingLogger) LogFetchStarted(source, url string) {
	rl.WithFields(logrus.Fields{
		"source": source,
		"url":    url,
	}).Debug("Ranking fetch started")
}

// LogFetchCompleted logs a successful upstream fetch.
func (rl *RankingLogger) LogFetchCompleted(source string, entities int, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"source":      source,
		"entities":    entities,
		"duration_ms": duration.Milliseconds(),
	}).Info("Ranking fetch completed")
}

// LogFetchFailed logs a failed upstream fetch.
func (rl *RankingLogger) LogFetchFailed(source, code string, upstreamStatus int, err error) {
	rl.WithFields(logrus.Fields{
		"source":          source,
		"error_code":      code,
		"upstream_status": upstreamStatus,
	}).WithError(err).Error("Ranking fetch failed")
}

// LogCacheHit logs a ranking served from cache.
func (rl *RankingLogger) LogCacheHit(entities int, age time.Duration) {
	rl.WithFields(logrus.Fields{
		"event_type": "cache_hit",
		"entities":   entities,
		"age_s":      int64(age.Seconds()),
	}).Debug("Ranking served from cache")
}

// LogCacheMiss logs a cache miss that triggers an upstream fetch.
func (rl *RankingLogger) LogCacheMiss() {
	rl.WithField("event_type", "cache_miss").Debug("Ranking cache miss")
}

// LogRefresh logs a scheduled cache refresh.
func (rl *RankingLogger) LogRefresh(trigger string, entities int) {
	rl.WithFields(logrus.Fields{
		"event_type": "refresh",
		"trigger":    trigger,
		"entities":   entities,
	}).Info("Ranking cache refreshed")
}
