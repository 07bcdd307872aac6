package scoring

import (
	"math"
	"testing"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"trailing zeros", 0.123, "0.123"},
		{"whole number", 5, "5"},
		{"smallest digit", 0.000000001, "0.000000001"},
		{"zero", 0, "0"},
		{"one and a half", 1.5, "1.5"},
		{"two", 2.0, "2"},
		{"interior zeros kept", 10.05, "10.05"},
		{"hundred", 100, "100"},
		{"rounds to nine digits", 0.1234567891, "0.123456789"},
		{"below precision", 1e-10, "0"},
		{"negative", -0.25, "-0.25"},
		{"negative zero", math.Copysign(0, -1), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatScore(tt.in); got != tt.want {
				t.Errorf("FormatScore(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatScoreNonFinite(t *testing.T) {
	if got := FormatScore(math.NaN()); got != "NaN" {
		t.Errorf("expected NaN, got %q", got)
	}
	if got := FormatScore(math.Inf(1)); got != "+Inf" {
		t.Errorf("expected +Inf, got %q", got)
	}
}
