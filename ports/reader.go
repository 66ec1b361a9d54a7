package ports

import (
	"context"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
)

// TableReader reads one tabular source into raw rows
type TableReader interface {
	ReadData(ctx context.Context) (*dataset.Table, error)
	Path() string
}

// TableReaderFactory opens a reader for a source path
type TableReaderFactory func(path string) TableReader

// RegionReader loads region names for the choropleth join
type RegionReader func(ctx context.Context, path, nameProperty string) (*dataset.Regions, error)

// LoadRecorder observes dataset ingestion
type LoadRecorder interface {
	RecordLoad(name core.DatasetName, rowsRead, rowsKept, rowsDropped int, duration time.Duration)
	RecordLoadFailure(name core.DatasetName)
}

// ChartRecorder observes chart building
type ChartRecorder interface {
	RecordChart(chart core.ChartID, cached bool, duration time.Duration, err error)
}
