package coercer

import (
	"math"
	"strconv"
	"strings"

	"covidash/domain/dataset"
)

// DefaultCatchAll is the category for empty and unmapped labels
const DefaultCatchAll = "Other"

// TypeCoercer converts raw rows into cleaned records according to a schema
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64 `json:"numeric_threshold"` // % of values that must parse as numbers
	RepairPrecision  int     `json:"repair_precision"`  // decimals kept after multi-dot repair
	CatchAll         string  `json:"catch_all"`         // fallback category label
	ThousandsSep     string  `json:"thousands_sep"`     // separator stripped from numbers
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8, // 80% must parse as numbers
		RepairPrecision:  2,
		CatchAll:         DefaultCatchAll,
		ThousandsSep:     ",",
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.CatchAll == "" {
		config.CatchAll = DefaultCatchAll
	}
	if config.RepairPrecision < 0 {
		config.RepairPrecision = 0
	}
	return &TypeCoercer{config: config}
}

// Coerce converts one raw row into a cleaned record. It never fails:
// malformed cells become the missing sentinel or the catch-all category.
func (c *TypeCoercer) Coerce(raw dataset.RawRecord, schema dataset.Schema) dataset.Record {
	out := make(dataset.Record, len(schema.Fields))
	for _, field := range schema.Fields {
		cell, ok := raw[field.SourceColumn()]
		if !ok {
			cell = ""
		}
		out[field.Name] = c.CoerceField(cell, field)
	}
	return out
}

// CoerceAll coerces a batch, preserving order
func (c *TypeCoercer) CoerceAll(rows []dataset.RawRecord, schema dataset.Schema) []dataset.Record {
	records := make([]dataset.Record, len(rows))
	for i, row := range rows {
		records[i] = c.Coerce(row, schema)
	}
	return records
}

// CoerceField applies the field's kind to a single raw cell
func (c *TypeCoercer) CoerceField(cell string, field dataset.FieldSpec) dataset.Value {
	switch field.Kind {
	case dataset.KindNumeric:
		return c.CoerceNumeric(cell)
	case dataset.KindFlag:
		return c.CoerceFlag(cell)
	case dataset.KindCategorical:
		return c.CoerceCategorical(cell, field)
	case dataset.KindIdentity:
		return dataset.NewStringValue(strings.TrimSpace(cell))
	}
	return dataset.NewStringValue(strings.TrimSpace(cell))
}

// CoerceNumeric parses a number, stripping thousands separators and
// repairing values with more than one decimal point.
func (c *TypeCoercer) CoerceNumeric(cell string) dataset.Value {
	if n, ok := c.tryParseNumeric(cell); ok {
		return dataset.NewNumericValue(n)
	}
	return dataset.NewMissingValue()
}

// CoerceFlag parses boolean-like cells as 1 or 0
func (c *TypeCoercer) CoerceFlag(cell string) dataset.Value {
	if b, ok := c.tryParseBoolean(cell); ok {
		if b {
			return dataset.NewNumericValue(1)
		}
		return dataset.NewNumericValue(0)
	}
	return dataset.NewMissingValue()
}

// CoerceCategorical trims and normalizes a label
func (c *TypeCoercer) CoerceCategorical(cell string, field dataset.FieldSpec) dataset.Value {
	fallback := field.Fallback
	if fallback == "" {
		fallback = c.config.CatchAll
	}

	label := strings.TrimSpace(cell)
	if label == "" {
		return dataset.NewStringValue(fallback)
	}
	if field.Normalize == nil {
		return dataset.NewStringValue(label)
	}
	if canonical, ok := field.Normalize[label]; ok {
		return dataset.NewStringValue(canonical)
	}
	return dataset.NewStringValue(fallback)
}

// tryParseNumeric attempts to parse a cleaned numeric string
func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	if c.config.ThousandsSep != "" {
		cleanVal = strings.ReplaceAll(cleanVal, c.config.ThousandsSep, "")
	}

	repaired := false
	if strings.Count(cleanVal, ".") > 1 {
		// Concatenation artifact like "6.392.393.639.805.820": keep the
		// integer part and the first fractional segment only.
		parts := strings.SplitN(cleanVal, ".", 3)
		cleanVal = parts[0] + "." + parts[1]
		repaired = true
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	if repaired {
		val = roundTo(val, c.config.RepairPrecision)
	}
	return val, true
}

// tryParseBoolean attempts to parse as boolean with strict rules
func (c *TypeCoercer) tryParseBoolean(strVal string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(strVal)) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// InferNumericColumns reports, in header order, the columns whose non-empty
// cells parse as numbers at or above the configured threshold.
func (c *TypeCoercer) InferNumericColumns(headers []string, rows []dataset.RawRecord) []string {
	var numeric []string
	for _, header := range headers {
		analysis := c.AnalyzeColumn(header, rows)
		if analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold {
			numeric = append(numeric, header)
		}
	}
	return numeric
}

// AnalyzeColumn counts how many cells of a column parse as numbers
func (c *TypeCoercer) AnalyzeColumn(header string, rows []dataset.RawRecord) TypeAnalysis {
	analysis := TypeAnalysis{Column: header, TotalCount: len(rows)}
	for _, row := range rows {
		cell := strings.TrimSpace(row[header])
		if cell == "" {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.tryParseNumeric(cell); ok {
			analysis.NumericCount++
		}
	}
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	return analysis
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	Column       string  `json:"column"`
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"`
	NumericCount int     `json:"numeric_count"`
	NumericRatio float64 `json:"numeric_ratio"`
}
