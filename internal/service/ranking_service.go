// Package service composes the ranking source, snapshot cache and analyzer.
package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/elo-advisor/internal/datasource"
	"github.com/yourusername/elo-advisor/internal/logger"
	"github.com/yourusername/elo-advisor/internal/metrics"
	"github.com/yourusername/elo-advisor/internal/models"
)

const (
	snapshotKey = "ranking"

	// DefaultCacheTTL is how long a fetched snapshot is served before refetching
	DefaultCacheTTL = time.Hour
)

// RankingService serves ranking snapshots from an in-memory cache, fetching
// from the source on a miss. Failed fetches are never cached.
type RankingService struct {
	source datasource.RankingSource
	cache  *cache.Cache
	ttl    time.Duration
	logger *logger.RankingLogger
	now    func() time.Time

	hitCount  uint64
	missCount uint64
}

// NewRankingService creates a ranking service with the given cache TTL
func NewRankingService(source datasource.RankingSource, ttl time.Duration, log *logrus.Logger) *RankingService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Discard()
	}

	return &RankingService{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
		logger: logger.NewRankingLogger(log),
		now:    time.Now,
	}
}

// TTL returns the snapshot cache lifetime
func (s *RankingService) TTL() time.Duration {
	return s.ttl
}

// Snapshot returns the cached snapshot, fetching it when absent. cached
// reports whether the snapshot came from the cache.
func (s *RankingService) Snapshot(ctx context.Context) (snapshot *models.RankingSnapshot, cached bool, err error) {
	if snap, ok := s.Cached(); ok {
		atomic.AddUint64(&s.hitCount, 1)
		metrics.RecordCacheHit()
		s.logger.LogCacheHit(snap.Len(), snap.Age(s.now()))
		return snap, true, nil
	}

	atomic.AddUint64(&s.missCount, 1)
	metrics.RecordCacheMiss()
	s.logger.LogCacheMiss()

	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	return snap, false, nil
}

// Refresh fetches a new snapshot and overwrites the cached one. On failure
// the previous snapshot stays in place.
func (s *RankingService) Refresh(ctx context.Context) (*models.RankingSnapshot, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.LogRefresh("refresh", snap.Len())
	return snap, nil
}

// Lookup resolves a player name against the current snapshot
func (s *RankingService) Lookup(ctx context.Context, name string) (models.RankedEntity, bool, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return models.RankedEntity{}, false, err
	}
	entity, found := snap.Find(name)
	return entity, found, nil
}

// ResolveRating adapts Lookup to the analysis rating resolver signature
func (s *RankingService) ResolveRating(ctx context.Context) func(name string) (float64, bool, error) {
	return func(name string) (float64, bool, error) {
		entity, found, err := s.Lookup(ctx, name)
		if err != nil || !found {
			return 0, found, err
		}
		return entity.Rating, true, nil
	}
}

// Cached returns the cached snapshot without fetching
func (s *RankingService) Cached() (*models.RankingSnapshot, bool) {
	item, found := s.cache.Get(snapshotKey)
	if !found {
		return nil, false
	}
	snap, ok := item.(*models.RankingSnapshot)
	return snap, ok
}

// Stats returns cache statistics
func (s *RankingService) Stats() (hits, misses uint64, ratio float64) {
	hits = atomic.LoadUint64(&s.hitCount)
	misses = atomic.LoadUint64(&s.missCount)
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (s *RankingService) fetch(ctx context.Context) (*models.RankingSnapshot, error) {
	source := s.source.Name()
	s.logger.LogFetchStarted(source, sourceURL(s.source))

	start := s.now()
	snap, err := s.source.FetchRanking(ctx)
	elapsed := s.now().Sub(start)

	if err != nil {
		code := datasource.CodeOf(err)
		if errors.Is(err, datasource.ErrCircuitOpen) {
			metrics.RecordCircuitBreakerRejection()
		}
		metrics.RecordRankingFetch(source, code, elapsed.Seconds())
		s.logger.LogFetchFailed(source, code, datasource.StatusOf(err), err)
		return nil, err
	}

	metrics.RecordRankingFetch(source, "success", elapsed.Seconds())
	metrics.UpdateSnapshot(snap.Len(), float64(snap.FetchedAt.Unix()))
	s.logger.LogFetchCompleted(source, snap.Len(), elapsed)

	s.cache.Set(snapshotKey, snap, s.ttl)
	return snap, nil
}

// sourceURL returns the URL of sources that expose one
func sourceURL(src datasource.RankingSource) string {
	if u, ok := src.(interface{ URL() string }); ok {
		return u.URL()
	}
	return ""
}
