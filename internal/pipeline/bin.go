package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"covidash/domain/core"
	"covidash/domain/dataset"
)

// Bin is the half-open interval [Lo, Hi). Hi is +Inf for an open top bucket.
type Bin struct {
	Lo    float64
	Hi    float64
	Label string
}

// MarshalJSON writes hi as null for the open top bucket
func (b Bin) MarshalJSON() ([]byte, error) {
	var hi *float64
	if !b.OpenTop() {
		hi = &b.Hi
	}
	return json.Marshal(struct {
		Lo    float64  `json:"lo"`
		Hi    *float64 `json:"hi"`
		Label string   `json:"label"`
	}{b.Lo, hi, b.Label})
}

// OpenTop reports whether the bin has no upper bound
func (b Bin) OpenTop() bool { return math.IsInf(b.Hi, 1) }

// Contains reports whether v lies in [Lo, Hi)
func (b Bin) Contains(v float64) bool { return v >= b.Lo && v < b.Hi }

// Binned is the partition of a record set. Every input record appears in
// exactly one of Members or Unknown.
type Binned struct {
	Bins         []Bin
	Members      [][]dataset.Record
	Unknown      []dataset.Record
	UnknownLabel string
}

// Counts returns the member count per bin
func (b Binned) Counts() []int {
	counts := make([]int, len(b.Members))
	for i, m := range b.Members {
		counts[i] = len(m)
	}
	return counts
}

// Total returns the number of records partitioned, unknown included
func (b Binned) Total() int {
	total := len(b.Unknown)
	for _, m := range b.Members {
		total += len(m)
	}
	return total
}

// Binner assigns numeric values to bins by threshold or fixed width
type Binner struct {
	thresholds   []Bin
	width        float64
	unknownLabel string
}

// NewThresholdBinner builds bins [t_i, t_i+1). With openTop a trailing
// [t_last, +Inf) bin labelled "t_last+" is added. Values outside the
// covered range clamp to the first or last bin.
func NewThresholdBinner(thresholds []float64, openTop bool) (*Binner, error) {
	for i, t := range thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: threshold %d is not finite", core.ErrInvalidInput, i)
		}
		if i > 0 && t <= thresholds[i-1] {
			return nil, fmt.Errorf("%w: %v follows %v", core.ErrInvalidThresholds, t, thresholds[i-1])
		}
	}

	var bins []Bin
	for i := 0; i+1 < len(thresholds); i++ {
		lo, hi := thresholds[i], thresholds[i+1]
		bins = append(bins, Bin{Lo: lo, Hi: hi, Label: rangeLabel(lo, hi)})
	}
	if openTop && len(thresholds) > 0 {
		last := thresholds[len(thresholds)-1]
		bins = append(bins, Bin{Lo: last, Hi: math.Inf(1), Label: formatBound(last) + "+"})
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: at least one bin is required", core.ErrInvalidInput)
	}
	return &Binner{thresholds: bins}, nil
}

// MaxWidthBins caps the dense bins a width binner lays out. Wider observed
// ranges get one bin per occupied step only.
const MaxWidthBins = 1000

// NewWidthBinner builds bins [k*w, (k+1)*w) spanning the observed range.
// Ranges wider than MaxWidthBins steps keep only the occupied bins.
func NewWidthBinner(width float64) (*Binner, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w: bin width must be positive, got %v", core.ErrInvalidInput, width)
	}
	return &Binner{width: width}, nil
}

// WithUnknown exposes missing values under the given label
func (b *Binner) WithUnknown(label string) *Binner {
	b.unknownLabel = label
	return b
}

// Bin partitions records by the numeric value of field
func (b *Binner) Bin(records []dataset.Record, field string) Binned {
	if b.width > 0 {
		return b.binByWidth(records, field)
	}

	out := Binned{
		Bins:         b.thresholds,
		Members:      make([][]dataset.Record, len(b.thresholds)),
		UnknownLabel: b.unknownLabel,
	}
	for _, r := range records {
		v, ok := r.Number(field)
		if !ok {
			out.Unknown = append(out.Unknown, r)
			continue
		}
		i := searchBins(b.thresholds, v)
		out.Members[i] = append(out.Members[i], r)
	}
	return out
}

// Index returns the bin a value falls into. Width binners lay out bins per
// record set, so they report false.
func (b *Binner) Index(v float64) (int, bool) {
	if b.width > 0 || len(b.thresholds) == 0 || math.IsNaN(v) {
		return 0, false
	}
	return searchBins(b.thresholds, v), true
}

func searchBins(bins []Bin, v float64) int {
	// first bin whose upper bound is above v
	i := sort.Search(len(bins), func(i int) bool { return v < bins[i].Hi })
	return clamp(i, len(bins))
}

func (b *Binner) binByWidth(records []dataset.Record, field string) Binned {
	out := Binned{UnknownLabel: b.unknownLabel}

	steps := make([]float64, len(records))
	var occupied []float64
	seen := make(map[float64]bool)
	for i, r := range records {
		steps[i] = math.NaN()
		v, ok := r.Number(field)
		if !ok {
			continue
		}
		k := math.Floor(v / b.width)
		if math.IsInf(k, 0) {
			continue
		}
		steps[i] = k
		if !seen[k] {
			seen[k] = true
			occupied = append(occupied, k)
		}
	}
	sort.Float64s(occupied)

	if n := len(occupied); n > 0 && exactStep(occupied[0]) && exactStep(occupied[n-1]) &&
		occupied[n-1]-occupied[0] < MaxWidthBins {
		first, count := occupied[0], int(occupied[n-1]-occupied[0])+1
		occupied = make([]float64, count)
		for i := range occupied {
			occupied[i] = first + float64(i)
		}
	}

	index := make(map[float64]int, len(occupied))
	out.Bins = make([]Bin, len(occupied))
	for i, k := range occupied {
		start, end := k*b.width, (k+1)*b.width
		out.Bins[i] = Bin{Lo: start, Hi: end, Label: rangeLabel(start, end)}
		index[k] = i
	}

	out.Members = make([][]dataset.Record, len(out.Bins))
	for i, r := range records {
		if math.IsNaN(steps[i]) {
			out.Unknown = append(out.Unknown, r)
			continue
		}
		j := index[steps[i]]
		out.Members[j] = append(out.Members[j], r)
	}
	return out
}

// exactStep reports whether consecutive steps around k are distinct floats
func exactStep(k float64) bool { return math.Abs(k) < 1<<53 }

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func rangeLabel(lo, hi float64) string {
	return formatBound(lo) + "-" + formatBound(hi)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
