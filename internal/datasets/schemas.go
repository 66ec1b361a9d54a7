package datasets

import (
	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal/pipeline"
)

// Dataset names
const (
	Professionals core.DatasetName = "professionals"
	Global        core.DatasetName = "global"
	Regional      core.DatasetName = "regional"
)

// Professionals fields
const (
	FieldHours        = "Hours_Worked_Per_Day"
	FieldMeetings     = "Meetings_Per_Day"
	FieldProductivity = "Productivity_Change"
	FieldSector       = "Sector"
	FieldStress       = "Stress_Level"
	FieldWorkFromHome = "Work_From_Home"
	FieldHealthIssue  = "Health_Issue"
)

// Global fields
const (
	FieldCountry          = "Country"
	FieldContinent        = "Continent"
	FieldWHORegion        = "WHORegion"
	FieldPopulation       = "Population"
	FieldTotalCases       = "TotalCases"
	FieldNewCases         = "NewCases"
	FieldTotalDeaths      = "TotalDeaths"
	FieldNewDeaths        = "NewDeaths"
	FieldTotalRecovered   = "TotalRecovered"
	FieldNewRecovered     = "NewRecovered"
	FieldActiveCases      = "ActiveCases"
	FieldSeriousCritical  = "SeriousCritical"
	FieldCasesPerMillion  = "CasesPerMillion"
	FieldDeathsPerMillion = "DeathsPerMillion"
	FieldTotalTests       = "TotalTests"
	FieldTestsPerMillion  = "TestsPerMillion"
)

// Regional fields
const (
	FieldState         = "State"
	FieldStateCode     = "StateCode"
	FieldConfirmed     = "Confirmed"
	FieldRecovered     = "Recovered"
	FieldDeaths        = "Deaths"
	FieldActive        = "Active"
	FieldMigratedOther = "MigratedOther"
	FieldLastUpdated   = "LastUpdated"
)

// TotalRow is the national aggregate line some state tables carry
const TotalRow = "Total"

// StressLevels is the canonical order of Stress_Level
var StressLevels = []string{"Low", "Medium", "High"}

// WHORegionMap folds the spelling variants found in the global dataset
var WHORegionMap = map[string]string{
	"EasternMediterranean":  "Eastern Mediterranean",
	"Eastern Mediterranean": "Eastern Mediterranean",
	"South-EastAsia":        "South-East Asia",
	"South-East Asia":       "South-East Asia",
	"WesternPacific":        "Western Pacific",
	"Western Pacific":       "Western Pacific",
	"Europe":                "Europe",
	"Africa":                "Africa",
	"Americas":              "Americas",
}

// Spec describes how one dataset is cleaned
type Spec struct {
	Name       core.DatasetName
	Schema     dataset.Schema
	Predicates []pipeline.Predicate
	Enrich     Enricher
}

// Enricher post-processes filtered records; it returns the new records and
// the number of rows it synthesized
type Enricher func(records []dataset.Record) ([]dataset.Record, int)

func stressNormalization() map[string]string {
	m := make(map[string]string, len(StressLevels))
	for _, level := range StressLevels {
		m[level] = level
	}
	return m
}

// ProfessionalsSpec cleans the remote work survey
func ProfessionalsSpec() Spec {
	return Spec{
		Name: Professionals,
		Schema: dataset.Schema{
			Name: string(Professionals),
			Fields: []dataset.FieldSpec{
				{Name: FieldHours, Kind: dataset.KindNumeric},
				{Name: FieldMeetings, Kind: dataset.KindNumeric},
				{Name: FieldProductivity, Kind: dataset.KindNumeric},
				{Name: FieldSector, Kind: dataset.KindCategorical},
				{Name: FieldStress, Kind: dataset.KindCategorical, Normalize: stressNormalization()},
				{Name: FieldWorkFromHome, Kind: dataset.KindFlag},
				{Name: FieldHealthIssue, Kind: dataset.KindFlag},
			},
		},
		Predicates: []pipeline.Predicate{pipeline.Present(FieldHours)},
	}
}

// GlobalSpec cleans the per-country worldometer table
func GlobalSpec() Spec {
	numeric := func(name, column string) dataset.FieldSpec {
		return dataset.FieldSpec{Name: name, Column: column, Kind: dataset.KindNumeric}
	}
	return Spec{
		Name: Global,
		Schema: dataset.Schema{
			Name: string(Global),
			Fields: []dataset.FieldSpec{
				{Name: FieldCountry, Column: "Country/Region", Kind: dataset.KindIdentity},
				{Name: FieldContinent, Kind: dataset.KindCategorical},
				{Name: FieldWHORegion, Column: "WHO Region", Kind: dataset.KindCategorical, Normalize: WHORegionMap},
				numeric(FieldPopulation, ""),
				numeric(FieldTotalCases, ""),
				numeric(FieldNewCases, ""),
				numeric(FieldTotalDeaths, ""),
				numeric(FieldNewDeaths, ""),
				numeric(FieldTotalRecovered, ""),
				numeric(FieldNewRecovered, ""),
				numeric(FieldActiveCases, ""),
				numeric(FieldSeriousCritical, "Serious,Critical"),
				numeric(FieldCasesPerMillion, "Tot Cases/1M pop"),
				numeric(FieldDeathsPerMillion, "Deaths/1M pop"),
				numeric(FieldTotalTests, ""),
				numeric(FieldTestsPerMillion, "Tests/1M pop"),
			},
		},
		Predicates: []pipeline.Predicate{
			pipeline.Present(FieldCountry),
			pipeline.Positive(FieldPopulation),
		},
	}
}

// RegionalSpec cleans the India state table and imputes the configured
// missing states. A nil missing list uses DefaultMissingStates.
func RegionalSpec(missing []string) Spec {
	if missing == nil {
		missing = DefaultMissingStates
	}
	numeric := func(name, column string) dataset.FieldSpec {
		return dataset.FieldSpec{Name: name, Column: column, Kind: dataset.KindNumeric}
	}
	return Spec{
		Name: Regional,
		Schema: dataset.Schema{
			Name: string(Regional),
			Fields: []dataset.FieldSpec{
				{Name: FieldState, Kind: dataset.KindIdentity},
				{Name: FieldStateCode, Column: "State_code", Kind: dataset.KindIdentity},
				numeric(FieldConfirmed, ""),
				numeric(FieldRecovered, ""),
				numeric(FieldDeaths, ""),
				numeric(FieldActive, ""),
				numeric(FieldMigratedOther, "Migrated_Other"),
				numeric(FieldPopulation, ""),
				{Name: FieldLastUpdated, Column: "Last_Updated_Time", Kind: dataset.KindIdentity},
			},
		},
		Predicates: []pipeline.Predicate{
			pipeline.Present(FieldState),
			pipeline.NonNegative(FieldConfirmed),
			pipeline.Not(pipeline.Equals(FieldState, TotalRow)),
		},
		Enrich: func(records []dataset.Record) ([]dataset.Record, int) {
			return ImputeMissingStates(AttachPopulation(records, StatePopulation), StatePopulation, missing)
		},
	}
}

// DefaultSpecs returns the specs of every built-in dataset
func DefaultSpecs(missingStates []string) []Spec {
	return []Spec{ProfessionalsSpec(), GlobalSpec(), RegionalSpec(missingStates)}
}
