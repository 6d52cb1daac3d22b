package webapp

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/storage"
)

const forecastRemedy = "run `go run ./cmd/forecast` to produce the forecast file"

// ForecastStore serves the latest forecast run from the forecast CSV. The
// file is re-read when its modification time changes, so a fresh inference
// run shows up without restarting the server.
type ForecastStore struct {
	path    string
	metrics *observability.Metrics

	mu      sync.RWMutex
	records []domain.ForecastRecord
	byState map[string]domain.ForecastRecord
	modTime time.Time
	loaded  bool
}

// NewForecastStore creates a store over the forecast CSV at path. The first
// load is lazy; a missing file surfaces on first access, not construction.
func NewForecastStore(path string, metrics *observability.Metrics) *ForecastStore {
	return &ForecastStore{path: path, metrics: metrics}
}

// refresh re-reads the file if it changed since the last load.
func (s *ForecastStore) refresh() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &storage.MissingInputError{Path: s.path, Remedy: forecastRemedy}
		}
		return err
	}

	s.mu.RLock()
	current := s.loaded && info.ModTime().Equal(s.modTime)
	s.mu.RUnlock()
	if current {
		return nil
	}

	records, err := storage.ReadForecasts(s.path, forecastRemedy)
	if err != nil {
		return err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CriticalProba > records[j].CriticalProba
	})
	byState := make(map[string]domain.ForecastRecord, len(records))
	for _, r := range records {
		byState[r.State] = r
	}

	s.mu.Lock()
	s.records = records
	s.byState = byState
	s.modTime = info.ModTime()
	s.loaded = true
	s.mu.Unlock()

	s.metrics.ForecastReloads.Inc()
	return nil
}

// All returns the forecast set ordered by descending risk probability.
func (s *ForecastStore) All() ([]domain.ForecastRecord, error) {
	if err := s.refresh(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, nil
}

// State returns one state's forecast; the second return is false when the
// state has no forecast.
func (s *ForecastStore) State(code string) (domain.ForecastRecord, bool, error) {
	if err := s.refresh(); err != nil {
		return domain.ForecastRecord{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byState[code]
	return rec, ok, nil
}

// TopRisk returns up to n critical-flagged states by descending risk
// probability.
func (s *ForecastStore) TopRisk(n int) ([]domain.ForecastRecord, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ForecastRecord, 0, n)
	for _, r := range all {
		if r.CriticalPred != 1 {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// Ready reports whether a forecast set is currently loadable.
func (s *ForecastStore) Ready() bool {
	return s.refresh() == nil
}
