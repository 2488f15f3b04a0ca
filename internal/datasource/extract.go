package datasource

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yourusername/elo-advisor/internal/models"
)

// ColumnMapping maps zero-based table columns to RankedEntity fields
type ColumnMapping struct {
	Rank   int
	Name   int
	Rating int
}

// RowPredicate decides whether a parsed row is admitted into a snapshot
type RowPredicate func(models.RankedEntity) bool

// TableExtractor pulls ranked rows out of an HTML document. It is the only
// piece that knows about the source markup.
type TableExtractor struct {
	RowSelector string
	Columns     ColumnMapping
	Admit       RowPredicate
}

// DefaultTableExtractor returns the extractor for the Tennis Abstract Elo report:
// rank in the 1st column, name in the 2nd, Elo in the 4th.
func DefaultTableExtractor() TableExtractor {
	return TableExtractor{
		RowSelector: "table#reportable tbody tr",
		Columns:     ColumnMapping{Rank: 0, Name: 1, Rating: 3},
		Admit:       ValidEntity,
	}
}

// ValidEntity admits rows with a non-negative rank, a name and a positive finite rating
func ValidEntity(e models.RankedEntity) bool {
	return e.Rank >= 0 && e.Name != "" && e.Rating > 0 && !math.IsInf(e.Rating, 0)
}

// ExtractStats summarizes one extraction run
type ExtractStats struct {
	RowsSeen    int
	RowsSkipped int
}

// Extract parses the document and returns admitted rows in document order.
// Rows that fail to parse or are not admitted are skipped.
func (e TableExtractor) Extract(r io.Reader) ([]models.RankedEntity, ExtractStats, error) {
	var stats ExtractStats

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to parse HTML: %w", err)
	}

	admit := e.Admit
	if admit == nil {
		admit = ValidEntity
	}

	entities := make([]models.RankedEntity, 0)
	doc.Find(e.RowSelector).Each(func(_ int, row *goquery.Selection) {
		stats.RowsSeen++

		entity, ok := e.parseRow(row.Find("td"))
		if !ok || !admit(entity) {
			stats.RowsSkipped++
			return
		}
		entities = append(entities, entity)
	})

	return entities, stats, nil
}

func (e TableExtractor) parseRow(cells *goquery.Selection) (models.RankedEntity, bool) {
	rank, err := strconv.Atoi(cellText(cells, e.Columns.Rank))
	if err != nil {
		return models.RankedEntity{}, false
	}

	rating, err := strconv.ParseFloat(cellText(cells, e.Columns.Rating), 64)
	if err != nil || math.IsNaN(rating) {
		return models.RankedEntity{}, false
	}

	return models.RankedEntity{
		Rank:   rank,
		Name:   cellText(cells, e.Columns.Name),
		Rating: rating,
	}, true
}

// cellText returns the trimmed text of the i-th cell, or "" when absent
func cellText(cells *goquery.Selection, i int) string {
	if i < 0 || i >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(i).Text())
}
