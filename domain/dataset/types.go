package dataset

import (
	"time"

	"covidash/domain/core"
)

// DatasetStatus represents the processing state of a dataset
type DatasetStatus string

const (
	StatusLoading DatasetStatus = "loading"
	StatusReady   DatasetStatus = "ready"
	StatusFailed  DatasetStatus = "failed"
)

// IngestionStats counts rows through the ingestion pipeline
type IngestionStats struct {
	RowsRead    int `json:"rows_read"`
	RowsKept    int `json:"rows_kept"`
	RowsDropped int `json:"rows_dropped"`
	// RowsImputed counts rows synthesized by dataset enrichment
	RowsImputed int `json:"rows_imputed,omitempty"`
}

// Dataset is an immutable, cleaned, filtered table ready for chart building
type Dataset struct {
	Name        core.DatasetName `json:"name"`
	Version     core.ID          `json:"version"`
	Fingerprint core.Hash        `json:"fingerprint"`
	Source      string           `json:"source"`
	Headers     []string         `json:"headers"`
	// NumericColumns are the schema fields whose source column held numbers
	NumericColumns []string       `json:"numeric_columns,omitempty"`
	Schema         Schema         `json:"-"`
	Records        []Record       `json:"-"`
	Stats          IngestionStats `json:"stats"`
	LoadedAt       time.Time      `json:"loaded_at"`
}

// Len returns the number of cleaned records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Summary is the read model exposed by the API
type Summary struct {
	Name        core.DatasetName `json:"name"`
	Status      DatasetStatus    `json:"status"`
	Version     core.ID          `json:"version,omitempty"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Source      string           `json:"source"`
	Records     int              `json:"records"`
	Stats       IngestionStats   `json:"stats"`
	LoadedAt    *time.Time       `json:"loaded_at,omitempty"`
	Error       string           `json:"error,omitempty"`
}
