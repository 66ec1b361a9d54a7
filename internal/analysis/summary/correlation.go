package summary

import (
	"fmt"
	"math"

	"covidash/domain/core"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CorrelationCell is one Pearson coefficient. Value and PValue are nil when
// the coefficient is undefined.
type CorrelationCell struct {
	X      string   `json:"x"`
	Y      string   `json:"y"`
	Value  *float64 `json:"value"`
	PValue *float64 `json:"p_value,omitempty"`
	N      int      `json:"n"`
}

// CorrelationMatrix computes every pairwise coefficient of the named columns,
// row-major, including the diagonal. Columns must have equal length.
func CorrelationMatrix(names []string, columns [][]float64) ([]CorrelationCell, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%w: %d names for %d columns", core.ErrInvalidInput, len(names), len(columns))
	}
	if len(columns) == 0 {
		return nil, core.ErrInsufficientData
	}
	n := len(columns[0])
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("%w: column %s has %d values, want %d", core.ErrInvalidInput, names[i], len(col), n)
		}
	}

	cells := make([]CorrelationCell, 0, len(columns)*len(columns))
	for i := range columns {
		for j := range columns {
			cell := CorrelationCell{X: names[i], Y: names[j], N: n}
			if r, ok := pearson(columns[i], columns[j]); ok {
				cell.Value = &r
				cell.PValue = pValue(r, n)
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

func pearson(x, y []float64) (float64, bool) {
	if len(x) < 2 {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// pValue is the two-sided significance of r under a Student's t with n-2 dof
func pValue(r float64, n int) *float64 {
	if n < 3 || math.Abs(r) >= 1 {
		return nil
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	return &p
}
