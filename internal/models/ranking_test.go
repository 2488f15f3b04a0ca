package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *RankingSnapshot {
	return NewRankingSnapshot("test", []RankedEntity{
		{Rank: 1, Name: "Jannik Sinner", Rating: 2210.4},
		{Rank: 2, Name: "Carlos Alcaraz", Rating: 2185.9},
		{Rank: 3, Name: "Novak Djokovic", Rating: 2101.2},
		{Rank: 4, Name: "Carlos Alcaraz", Rating: 1500.0},
	}, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func TestSnapshotTop(t *testing.T) {
	s := sampleSnapshot()

	assert.Len(t, s.Top(2), 2)
	assert.Equal(t, "Jannik Sinner", s.Top(2)[0].Name)
	assert.Len(t, s.Top(25), 4)
	assert.Nil(t, s.Top(0))

	var empty *RankingSnapshot
	assert.Nil(t, empty.Top(5))
	assert.Equal(t, 0, empty.Len())
}

func TestSnapshotFind(t *testing.T) {
	s := sampleSnapshot()

	tests := []struct {
		name   string
		query  string
		found  bool
		rating float64
	}{
		{"exact", "Novak Djokovic", true, 2101.2},
		{"case insensitive", "jannik sinner", true, 2210.4},
		{"padded", "  Novak Djokovic ", true, 2101.2},
		{"duplicate name picks best rank", "Carlos Alcaraz", true, 2185.9},
		{"unknown", "Roger Federer", false, 0},
		{"blank", "   ", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := s.Find(tt.query)
			require.Equal(t, tt.found, ok)
			assert.Equal(t, tt.rating, e.Rating)
		})
	}
}

func TestSnapshotAge(t *testing.T) {
	s := sampleSnapshot()
	now := s.FetchedAt.Add(30 * time.Minute)
	assert.Equal(t, 30*time.Minute, s.Age(now))
}
