package usecase

import "sync"

// SeriesLocks serializes the read-then-write sequences of ingestion and
// prediction per series. Without it two concurrent writers could observe a
// stale frontier between the max-date read and the insert.
type SeriesLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSeriesLocks() *SeriesLocks {
	return &SeriesLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for seriesID, creating it on first use. Entries are
// never evicted; the set of live series is small.
func (s *SeriesLocks) Lock(seriesID string) func() {
	s.mu.Lock()
	m, ok := s.locks[seriesID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[seriesID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
