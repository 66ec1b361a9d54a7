package ports

import (
	"covidash/domain/core"
	"covidash/domain/dataset"
)

// DatasetSource gives read access to the currently loaded datasets
type DatasetSource interface {
	Dataset(name core.DatasetName) (*dataset.Dataset, error)
	Regions() *dataset.Regions
}
