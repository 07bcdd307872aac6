package scoring

import (
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
)

const weightTolerance = 0.001

// WeightTotal returns the sum of all criterion weights.
func WeightTotal(criteria []backend.Criterion) float64 {
	var total float64
	for _, c := range criteria {
		if w := c.Weight.Float(); !math.IsNaN(w) && !math.IsInf(w, 0) {
			total += w
		}
	}
	return total
}

// ValidateWeights checks that every weight lies in [0,1] and that together
// they sum to 1.0. The backend computations assume both; the dashboard only
// reports a violation.
func ValidateWeights(criteria []backend.Criterion) error {
	if len(criteria) == 0 {
		return nil
	}
	for _, c := range criteria {
		w := c.Weight.Float()
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("criterion %d (%s): weight %f outside [0,1]", c.ID, c.Name, w)
		}
	}
	if total := WeightTotal(criteria); math.Abs(total-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", total)
	}
	return nil
}
