package datasets

import (
	"context"
	"fmt"
	"time"

	"covidash/adapters/datareadiness/coercer"
	"covidash/adapters/tabular"
	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal"
	"covidash/internal/pipeline"
	"covidash/ports"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many datasets load at once
const DefaultConcurrency = 4

// Source names the file backing one dataset
type Source struct {
	Name core.DatasetName `json:"name" yaml:"name"`
	Path string           `json:"path" yaml:"path"`
}

// Result is the outcome of loading one source
type Result struct {
	Name     core.DatasetName
	Source   string
	Dataset  *dataset.Dataset
	Err      error
	Duration time.Duration
}

// Loader reads, coerces, filters and enriches datasets
type Loader struct {
	specs       map[core.DatasetName]Spec
	coercer     *coercer.TypeCoercer
	open        ports.TableReaderFactory
	recorder    ports.LoadRecorder
	logger      *internal.Logger
	concurrency int
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithReaderFactory replaces the file reader, mainly for tests
func WithReaderFactory(open ports.TableReaderFactory) LoaderOption {
	return func(l *Loader) { l.open = open }
}

// WithRecorder reports load metrics
func WithRecorder(recorder ports.LoadRecorder) LoaderOption {
	return func(l *Loader) { l.recorder = recorder }
}

// WithLogger sets the logger
func WithLogger(logger *internal.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithConcurrency bounds parallel loads; values below 1 are ignored
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader creates a loader for the given dataset specs
func NewLoader(specs []Spec, typeCoercer *coercer.TypeCoercer, opts ...LoaderOption) *Loader {
	l := &Loader{
		specs:   make(map[core.DatasetName]Spec, len(specs)),
		coercer: typeCoercer,
		open: func(path string) ports.TableReader {
			return tabular.NewDataReader(path)
		},
		logger:      internal.DefaultLogger,
		concurrency: DefaultConcurrency,
	}
	for _, spec := range specs {
		l.specs[spec.Name] = spec
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.coercer == nil {
		l.coercer = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return l
}

// Load reads every source concurrently. Each load writes only its own
// result slot; one failure never affects the others. Loads not yet started
// when ctx is cancelled fail with the context error.
func (l *Loader) Load(ctx context.Context, sources []Source) []Result {
	results := make([]Result, len(sources))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			ds, err := l.LoadOne(ctx, src)
			results[i] = Result{
				Name:     src.Name,
				Source:   src.Path,
				Dataset:  ds,
				Err:      err,
				Duration: time.Since(start),
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			l.logger.Error("[Loader] dataset %s failed: %v", r.Name, r.Err)
			if l.recorder != nil {
				l.recorder.RecordLoadFailure(r.Name)
			}
			continue
		}
		stats := r.Dataset.Stats
		l.logger.Info("[Loader] dataset %s loaded in %s (%d read, %d kept, %d dropped, %d imputed)",
			r.Name, r.Duration.Round(time.Millisecond), stats.RowsRead, stats.RowsKept, stats.RowsDropped, stats.RowsImputed)
		if l.recorder != nil {
			l.recorder.RecordLoad(r.Name, stats.RowsRead, stats.RowsKept, stats.RowsDropped, r.Duration)
		}
	}
	return results
}

// LoadOne runs the ingestion pipeline for a single source
func (l *Loader) LoadOne(ctx context.Context, src Source) (*dataset.Dataset, error) {
	spec, ok := l.specs[src.Name]
	if !ok {
		return nil, fmt.Errorf("%w %s", core.ErrUnknownDataset, src.Name)
	}
	if src.Path == "" {
		return nil, core.NewIngestionError(string(src.Name), fmt.Errorf("no source path configured"))
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewIngestionError(src.Path, err)
	}

	table, err := l.open(src.Path).ReadData(ctx)
	if err != nil {
		return nil, core.NewIngestionError(src.Path, err)
	}

	records := l.coercer.CoerceAll(table.Rows, spec.Schema)
	kept := pipeline.Filter(records, spec.Predicates...)
	stats := dataset.IngestionStats{
		RowsRead:    len(records),
		RowsKept:    len(kept),
		RowsDropped: len(records) - len(kept),
	}
	if spec.Enrich != nil {
		kept, stats.RowsImputed = spec.Enrich(kept)
	}

	l.logger.Debug("[Loader] %s: %d columns, fingerprint %s", src.Name, len(table.Headers), table.Fingerprint.Short())

	return &dataset.Dataset{
		Name:           src.Name,
		Version:        core.NewID(),
		Fingerprint:    table.Fingerprint,
		Source:         src.Path,
		Headers:        table.Headers,
		NumericColumns: l.numericFields(spec.Schema, table),
		Schema:         spec.Schema,
		Records:        kept,
		Stats:          stats,
		LoadedAt:       time.Now().UTC(),
	}, nil
}

// numericFields maps the columns that parse as numbers back to schema fields
func (l *Loader) numericFields(schema dataset.Schema, table *dataset.Table) []string {
	inferred := make(map[string]bool)
	for _, column := range l.coercer.InferNumericColumns(table.Headers, table.Rows) {
		inferred[column] = true
	}

	var fields []string
	for _, field := range schema.Fields {
		if field.Kind == dataset.KindNumeric && inferred[field.SourceColumn()] {
			fields = append(fields, field.Name)
		}
	}
	return fields
}
