package scoring

import "github.com/MikeSquared-Agency/Rankboard/internal/backend"

// ReportEntry is one report line with its 1-based position.
type ReportEntry struct {
	Rank       int             `json:"rank"`
	FinalScore string          `json:"final_score"`
	Product    backend.Product `json:"product"`
}

// RankReport numbers report rows in the order the backend returned them.
func RankReport(rows []backend.ReportRow) []ReportEntry {
	out := make([]ReportEntry, len(rows))
	for i, r := range rows {
		out[i] = ReportEntry{
			Rank:       i + 1,
			FinalScore: FormatScore(r.FinalScore.Float()),
			Product:    r.Product,
		}
	}
	return out
}
