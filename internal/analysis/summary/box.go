package summary

import (
	"fmt"
	"math"
	"sort"

	"covidash/domain/core"

	"github.com/montanaflynn/stats"
)

// BoxStats is the five-number summary used by box plots
type BoxStats struct {
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// IQR returns the interquartile range
func (b BoxStats) IQR() float64 { return b.Q3 - b.Q1 }

// Quantile interpolates linearly between the order statistics bracketing
// index p*(n-1). sorted must be ascending.
func Quantile(sorted []float64, p float64) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return 0, core.ErrInsufficientData
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: quantile %v outside [0, 1]", core.ErrInvalidInput, p)
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}

// Box computes min, quartiles and max of values in any order
func Box(values []float64) (BoxStats, error) {
	if len(values) == 0 {
		return BoxStats{}, core.ErrInsufficientData
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BoxStats{}, fmt.Errorf("%w: non-finite value", core.ErrInvalidInput)
		}
	}

	lo, err := stats.Min(values)
	if err != nil {
		return BoxStats{}, fmt.Errorf("computing min: %w", err)
	}
	hi, err := stats.Max(values)
	if err != nil {
		return BoxStats{}, fmt.Errorf("computing max: %w", err)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	box := BoxStats{N: len(sorted), Min: lo, Max: hi}
	// errors are impossible here: data is non-empty and p is in range
	box.Q1, _ = Quantile(sorted, 0.25)
	box.Median, _ = Quantile(sorted, 0.5)
	box.Q3, _ = Quantile(sorted, 0.75)
	return box, nil
}
