package services

import (
	"context"
	"os"
	"sync"
	"time"

	"tribodash/domain/tribology"
	"tribodash/internal"
	"tribodash/internal/errors"
	"tribodash/internal/ledger"
	"tribodash/internal/pipeline"
)

// DataService caches the raw dataset read from the source file. The cache is
// refreshed when the file changes on disk or the TTL runs out, and every
// refresh is recorded in the ledger.
type DataService struct {
	path   string
	ttl    time.Duration
	ledger ledger.Ledger
	logger *internal.Logger

	cacheMutex     sync.RWMutex
	dataCache      tribology.Dataset
	infoCache      pipeline.LoadInfo
	cacheLoaded    bool
	cacheTimestamp time.Time
	sourceModTime  time.Time
}

// NewDataService creates a store for path. A nil ledger records nothing.
func NewDataService(path string, ttl time.Duration, l ledger.Ledger, logger *internal.Logger) *DataService {
	if l == nil {
		l = ledger.Noop{}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataService{
		path:   path,
		ttl:    ttl,
		ledger: l,
		logger: logger.WithComponent("DataService"),
	}
}

// Path returns the dataset source
func (s *DataService) Path() string {
	return s.path
}

// Dataset returns the cached dataset, loading it first when stale
func (s *DataService) Dataset(ctx context.Context) (tribology.Dataset, pipeline.LoadInfo, error) {
	s.cacheMutex.RLock()
	if s.cacheLoaded && !s.staleLocked() {
		ds, info := s.dataCache, s.infoCache
		s.cacheMutex.RUnlock()
		return ds, info, nil
	}
	s.cacheMutex.RUnlock()

	if _, err := s.reload(ctx, false); err != nil {
		return nil, pipeline.LoadInfo{}, err
	}

	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	return s.dataCache, s.infoCache, nil
}

// Reload reads the source again regardless of the cache state
func (s *DataService) Reload(ctx context.Context) (ledger.Entry, error) {
	return s.reload(ctx, true)
}

// Loads returns the most recent ledger entries
func (s *DataService) Loads(ctx context.Context, limit int) ([]ledger.Entry, error) {
	return s.ledger.Recent(ctx, limit)
}

// LedgerEnabled reports whether loads are being recorded
func (s *DataService) LedgerEnabled() bool {
	return s.ledger.Enabled()
}

func (s *DataService) reload(ctx context.Context, force bool) (ledger.Entry, error) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	// another caller may have refreshed while we waited for the lock
	if !force && s.cacheLoaded && !s.staleLocked() {
		return ledger.Entry{}, nil
	}

	start := time.Now()
	modTime := s.modTime()
	ds, info, err := pipeline.LoadWithInfo(s.path)
	if err != nil {
		s.logger.Error("Loading %s failed: %v", s.path, err)
		return ledger.Entry{}, err
	}

	s.dataCache = ds
	s.infoCache = info
	s.cacheLoaded = true
	s.cacheTimestamp = time.Now()
	s.sourceModTime = modTime

	_, report := pipeline.Clean(ds)
	if report.Dropped > 0 {
		s.logger.Warn("Cleaning drops %d of %d rows in %s", report.Dropped, report.Input, s.path)
	}
	s.logger.Info("Loaded %s (%d rows, hash %s) in %s", s.path, len(ds), info.Hash.Short(), time.Since(start))

	entry, err := s.ledger.Record(ctx, ledger.Entry{
		Source:      s.path,
		Hash:        info.Hash,
		RowsRead:    report.Input,
		RowsKept:    report.Kept,
		RowsDropped: report.Dropped,
		ShapeCount:  len(ds.Shapes()),
		LoadedAt:    s.cacheTimestamp,
	})
	if err != nil {
		// the dataset itself is fine; a ledger outage only loses history
		s.logger.Warn("Recording load of %s failed: %v", s.path, err)
	}
	return entry, nil
}

// staleLocked must be called with cacheMutex held
func (s *DataService) staleLocked() bool {
	if s.ttl > 0 && time.Since(s.cacheTimestamp) >= s.ttl {
		return true
	}
	return !s.modTime().Equal(s.sourceModTime)
}

func (s *DataService) modTime() time.Time {
	fi, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

// IsUnavailable reports whether err means the dataset could not be loaded
func IsUnavailable(err error) bool {
	return errors.IsLoadError(err)
}
