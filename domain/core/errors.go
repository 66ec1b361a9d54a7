package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrUnknownDataset  = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrUnknownChart    = fmt.Errorf("%w: chart", ErrNotFound)
	ErrDatasetNotReady = errors.New("dataset not loaded")

	// Input errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidThresholds = fmt.Errorf("%w: thresholds must be strictly ascending", ErrInvalidInput)
	ErrUnknownMetric     = fmt.Errorf("%w: unknown metric", ErrInvalidInput)

	// Statistical errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateInput  = errors.New("degenerate input: zero variance")

	// Ingestion errors
	ErrIngestion = errors.New("ingestion failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

func NewIngestionError(source string, err error) error {
	return fmt.Errorf("%w for %s: %w", ErrIngestion, source, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsStatisticalError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateInput)
}
