package models

import (
	"strings"
	"time"
)

// RankedEntity is one row of a published rating table
type RankedEntity struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// RankingSnapshot is one full ordered retrieval of a ranking table
type RankingSnapshot struct {
	Entities  []RankedEntity `json:"ranking"`
	Source    string         `json:"source"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// NewRankingSnapshot wraps entities retrieved from source at the given time
func NewRankingSnapshot(source string, entities []RankedEntity, fetchedAt time.Time) *RankingSnapshot {
	return &RankingSnapshot{
		Entities:  entities,
		Source:    source,
		FetchedAt: fetchedAt,
	}
}

// Len returns the number of entities in the snapshot
func (s *RankingSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entities)
}

// Top returns the first n entities in published order
func (s *RankingSnapshot) Top(n int) []RankedEntity {
	if s == nil || n <= 0 {
		return nil
	}
	if n > len(s.Entities) {
		n = len(s.Entities)
	}
	return s.Entities[:n]
}

// Find returns the first entity whose name matches, ignoring case and
// surrounding whitespace. Names are not unique, so the best ranked match wins.
func (s *RankingSnapshot) Find(name string) (RankedEntity, bool) {
	if s == nil {
		return RankedEntity{}, false
	}
	want := strings.TrimSpace(name)
	if want == "" {
		return RankedEntity{}, false
	}
	for _, e := range s.Entities {
		if strings.EqualFold(strings.TrimSpace(e.Name), want) {
			return e, true
		}
	}
	return RankedEntity{}, false
}

// Age returns how long ago the snapshot was fetched
func (s *RankingSnapshot) Age(now time.Time) time.Duration {
	if s == nil || s.FetchedAt.IsZero() {
		return 0
	}
	return now.Sub(s.FetchedAt)
}
