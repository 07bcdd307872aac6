package scoring

import (
	"strconv"
	"strings"
)

// ScorePrecision is the number of fractional digits scores are rendered with
// before trailing zeros are stripped.
const ScorePrecision = 9

// FormatScore renders v with ScorePrecision fractional digits, then strips
// trailing zeros and a bare trailing decimal point. Interior zeros are kept:
// 0.123 -> "0.123", 5 -> "5", 1e-9 -> "0.000000001".
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', ScorePrecision, 64)
	if strings.IndexByte(s, '.') < 0 {
		// NaN and Inf have no fractional part to strip.
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
