package datasets

import (
	"fmt"
	"sync"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
)

type slot struct {
	source  string
	status  dataset.DatasetStatus
	dataset *dataset.Dataset
	err     error
}

// Store holds the current version of every dataset. Datasets are replaced
// wholesale and never mutated after publication.
type Store struct {
	mu      sync.RWMutex
	order   []core.DatasetName
	slots   map[core.DatasetName]*slot
	regions *dataset.Regions
}

// NewStore registers the known dataset names in display order
func NewStore(names ...core.DatasetName) *Store {
	s := &Store{slots: make(map[core.DatasetName]*slot, len(names))}
	for _, name := range names {
		s.register(name)
	}
	return s
}

func (s *Store) register(name core.DatasetName) *slot {
	if sl, ok := s.slots[name]; ok {
		return sl
	}
	sl := &slot{status: dataset.StatusLoading}
	s.slots[name] = sl
	s.order = append(s.order, name)
	return sl
}

// MarkLoading flags sources as being (re)loaded
func (s *Store) MarkLoading(sources []Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range sources {
		sl := s.register(src.Name)
		sl.source = src.Path
		sl.status = dataset.StatusLoading
	}
}

// Publish swaps in load results. A dataset whose content fingerprint is
// unchanged keeps its version; a failed load keeps serving the previous data.
func (s *Store) Publish(results []Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range results {
		sl := s.register(r.Name)
		sl.source = r.Source
		if r.Err != nil {
			sl.status = dataset.StatusFailed
			sl.err = r.Err
			continue
		}

		next := r.Dataset
		if prev := sl.dataset; prev != nil && prev.Fingerprint.Equals(next.Fingerprint) {
			copied := *next
			copied.Version = prev.Version
			next = &copied
		}
		sl.dataset = next
		sl.status = dataset.StatusReady
		sl.err = nil
	}
}

// SetRegions replaces the choropleth region set
func (s *Store) SetRegions(regions *dataset.Regions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = regions
}

// Regions returns the region set, nil when none is loaded
func (s *Store) Regions() *dataset.Regions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regions
}

// Dataset returns the current version of a dataset
func (s *Store) Dataset(name core.DatasetName) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", core.ErrUnknownDataset, name)
	}
	if sl.dataset == nil {
		if sl.err != nil {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrDatasetNotReady, name, sl.err)
		}
		return nil, fmt.Errorf("%w: %s", core.ErrDatasetNotReady, name)
	}
	return sl.dataset, nil
}

// Names returns the registered datasets in display order
func (s *Store) Names() []core.DatasetName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.DatasetName(nil), s.order...)
}

// Summaries describes every registered dataset
func (s *Store) Summaries() []dataset.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dataset.Summary, 0, len(s.order))
	for _, name := range s.order {
		sl := s.slots[name]
		summary := dataset.Summary{Name: name, Status: sl.status, Source: sl.source}
		if sl.err != nil {
			summary.Error = sl.err.Error()
		}
		if ds := sl.dataset; ds != nil {
			loadedAt := ds.LoadedAt.Truncate(time.Second)
			summary.Version = ds.Version
			summary.Fingerprint = ds.Fingerprint.Short()
			summary.Records = ds.Len()
			summary.Stats = ds.Stats
			summary.LoadedAt = &loadedAt
		}
		out = append(out, summary)
	}
	return out
}
