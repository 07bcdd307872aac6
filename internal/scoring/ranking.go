package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/lookup"
)

// DuplicateMode decides what happens when a run carries more than one final
// score for the same product.
type DuplicateMode string

const (
	// DuplicatesFirst keeps the first record seen per product and drops the rest.
	DuplicatesFirst DuplicateMode = "first"
	// DuplicatesLatest keeps the record with the newest created_at per product.
	DuplicatesLatest DuplicateMode = "latest"
	// DuplicatesAll keeps every record as its own row.
	DuplicatesAll DuplicateMode = "all"
)

func ParseDuplicateMode(s string) (DuplicateMode, error) {
	switch DuplicateMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicatesFirst:
		return DuplicatesFirst, nil
	case DuplicatesLatest:
		return DuplicatesLatest, nil
	case DuplicatesAll:
		return DuplicatesAll, nil
	}
	return "", fmt.Errorf("unknown duplicate mode %q (want first, latest or all)", s)
}

type RankedRow struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	FinalScore float64    `json:"final_score"`
	Display    string     `json:"final_score_display"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// RankEntry is a RankedRow with its 1-based position.
type RankEntry struct {
	Rank int `json:"rank"`
	RankedRow
}

// Rank orders final scores best to worst. The sort is stable, so equal scores
// keep their input order. NaN scores sort last.
func Rank(records []backend.FinalScoreRecord, productNames lookup.Index, mode DuplicateMode) []RankedRow {
	rows := make([]RankedRow, 0, len(records))
	pos := make(map[int64]int)
	var created []time.Time

	for _, rec := range records {
		row := RankedRow{
			ID:         rec.ProductID,
			Name:       productNames.Label(rec.ProductID, lookup.KindProduct),
			FinalScore: rec.FinalScore.Float(),
			Display:    FormatScore(rec.FinalScore.Float()),
		}
		if !rec.CreatedAt.IsZero() {
			t := rec.CreatedAt
			row.CreatedAt = &t
		}

		if mode == DuplicatesAll {
			rows = append(rows, row)
			continue
		}
		i, seen := pos[rec.ProductID]
		if !seen {
			pos[rec.ProductID] = len(rows)
			rows = append(rows, row)
			created = append(created, rec.CreatedAt)
			continue
		}
		if mode == DuplicatesLatest && rec.CreatedAt.After(created[i]) {
			rows[i] = row
			created[i] = rec.CreatedAt
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return scoreGreater(rows[i].FinalScore, rows[j].FinalScore)
	})
	return rows
}

func scoreGreater(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

type rankedRowJSON struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	FinalScore *float64   `json:"final_score"`
	Display    string     `json:"final_score_display"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

func (r RankedRow) wire() rankedRowJSON {
	out := rankedRowJSON{ID: r.ID, Name: r.Name, Display: r.Display, CreatedAt: r.CreatedAt}
	if !math.IsNaN(r.FinalScore) && !math.IsInf(r.FinalScore, 0) {
		score := r.FinalScore
		out.FinalScore = &score
	}
	return out
}

// MarshalJSON emits a null final_score for NaN and ±Inf; Display still
// carries the raw text.
func (r RankedRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

func (e RankEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rank int `json:"rank"`
		rankedRowJSON
	}{e.Rank, e.RankedRow.wire()})
}

// WithRanks attaches positional ranks to already ordered rows.
func WithRanks(rows []RankedRow) []RankEntry {
	out := make([]RankEntry, len(rows))
	for i, r := range rows {
		out[i] = RankEntry{Rank: i + 1, RankedRow: r}
	}
	return out
}
