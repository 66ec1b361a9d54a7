package summary

import (
	"fmt"
	"math"

	"covidash/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Regression is a least-squares fit of ln y on ln x
type Regression struct {
	N         int     `json:"n"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// Predict evaluates y = exp(intercept) * x^slope
func (r Regression) Predict(x float64) float64 {
	return math.Exp(r.Intercept) * math.Pow(x, r.Slope)
}

// Point is one (x, y) pair of a trend line
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LogLogFit fits ln y = intercept + slope * ln x. All inputs must be positive;
// identical x values make the slope undefined and return ErrDegenerateInput.
func LogLogFit(x, y []float64) (Regression, error) {
	if len(x) != len(y) {
		return Regression{}, fmt.Errorf("%w: %d x values but %d y values", core.ErrInvalidInput, len(x), len(y))
	}
	if len(x) == 0 {
		return Regression{}, core.ErrInsufficientData
	}

	lx := make([]float64, len(x))
	ly := make([]float64, len(y))
	for i := range x {
		if !(x[i] > 0) || !(y[i] > 0) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			return Regression{}, fmt.Errorf("%w: point %d is not strictly positive", core.ErrInvalidInput, i)
		}
		lx[i] = math.Log(x[i])
		ly[i] = math.Log(y[i])
	}

	if floats.Max(lx) == floats.Min(lx) {
		return Regression{}, fmt.Errorf("%w: all x values are equal", core.ErrDegenerateInput)
	}

	intercept, slope := stat.LinearRegression(lx, ly, nil, false)
	return Regression{
		N:         len(x),
		Slope:     slope,
		Intercept: intercept,
		RSquared:  stat.RSquared(lx, ly, nil, intercept, slope),
	}, nil
}

// TrendLine samples the fitted curve log-uniformly between lo and hi
func TrendLine(reg Regression, lo, hi float64, steps int) ([]Point, error) {
	if !(lo > 0) || !(hi >= lo) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("%w: trend range [%v, %v] must be positive and ascending", core.ErrInvalidInput, lo, hi)
	}
	if steps < 2 {
		steps = 2
	}

	logs := make([]float64, steps)
	floats.Span(logs, math.Log(lo), math.Log(hi))

	points := make([]Point, steps)
	for i, l := range logs {
		x := math.Exp(l)
		points[i] = Point{X: x, Y: reg.Predict(x)}
	}
	return points, nil
}
