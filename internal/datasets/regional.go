package datasets

import (
	"math"

	"covidash/domain/dataset"
)

// DefaultMissingStates are the states absent from the source table
var DefaultMissingStates = []string{"Odisha", "Uttarakhand", "Mizoram"}

// ImputedMetrics are estimated for missing states from per-capita rates
var ImputedMetrics = []string{FieldConfirmed, FieldActive, FieldDeaths}

// StatePopulation holds 2021 estimates for the 36 states and union territories
var StatePopulation = map[string]float64{
	"Andhra Pradesh":              53903393,
	"Arunachal Pradesh":           1570458,
	"Assam":                       35607039,
	"Bihar":                       124799926,
	"Chhattisgarh":                29436231,
	"Goa":                         1569923,
	"Gujarat":                     63872399,
	"Haryana":                     28672000,
	"Himachal Pradesh":            7400000,
	"Jharkhand":                   38593948,
	"Karnataka":                   67562686,
	"Kerala":                      35699443,
	"Madhya Pradesh":              85358965,
	"Maharashtra":                 123144223,
	"Manipur":                     3091545,
	"Meghalaya":                   3366710,
	"Mizoram":                     1239244,
	"Nagaland":                    2249695,
	"Odisha":                      46356334,
	"Punjab":                      30141373,
	"Rajasthan":                   81032689,
	"Sikkim":                      690251,
	"Tamil Nadu":                  77841267,
	"Telangana":                   39362732,
	"Tripura":                     4169794,
	"Uttar Pradesh":               241066874,
	"Uttarakhand":                 11250858,
	"West Bengal":                 99609303,
	"Delhi":                       19814000,
	"Jammu and Kashmir":           13606320,
	"Ladakh":                      307000,
	"Puducherry":                  1627603,
	"Chandigarh":                  1189200,
	"Andaman and Nicobar Islands": 434000,
	"Dadra and Nagar Haveli and Daman and Diu": 837000,
	"Lakshadweep": 64473,
}

// AttachPopulation fills Population from the table for rows that lack it.
// Records are copied, never mutated in place.
func AttachPopulation(records []dataset.Record, populations map[string]float64) []dataset.Record {
	out := make([]dataset.Record, len(records))
	for i, r := range records {
		if r.Has(FieldPopulation) {
			out[i] = r
			continue
		}
		pop, ok := populations[r.Text(FieldState)]
		if !ok {
			out[i] = r
			continue
		}
		clone := r.Clone()
		clone[FieldPopulation] = dataset.NewNumericValue(pop)
		out[i] = clone
	}
	return out
}

// ImputeMissingStates replaces the rows of the missing states with estimates
// derived from the per-capita rates of every other state that has a
// population. Estimates are truncated to whole numbers. States without a
// known population are skipped.
func ImputeMissingStates(records []dataset.Record, populations map[string]float64, missing []string) ([]dataset.Record, int) {
	if len(missing) == 0 {
		return records, 0
	}
	isMissing := make(map[string]bool, len(missing))
	for _, state := range missing {
		isMissing[state] = true
	}

	known := make([]dataset.Record, 0, len(records))
	var knownPopulation float64
	totals := make(map[string]float64, len(ImputedMetrics))
	for _, r := range records {
		if isMissing[r.Text(FieldState)] {
			continue
		}
		known = append(known, r)

		pop, ok := r.Number(FieldPopulation)
		if !ok || pop <= 0 {
			continue
		}
		knownPopulation += pop
		for _, metric := range ImputedMetrics {
			if v, ok := r.Number(metric); ok {
				totals[metric] += v
			}
		}
	}
	if knownPopulation == 0 {
		return known, 0
	}

	imputed := 0
	for _, state := range missing {
		pop, ok := populations[state]
		if !ok {
			continue
		}
		row := dataset.Record{
			FieldState:      dataset.NewStringValue(state),
			FieldPopulation: dataset.NewNumericValue(pop),
		}
		for _, metric := range ImputedMetrics {
			rate := totals[metric] / knownPopulation
			row[metric] = dataset.NewNumericValue(math.Trunc(pop * rate))
		}
		known = append(known, row)
		imputed++
	}
	return known, imputed
}
