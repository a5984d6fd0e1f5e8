package linkcheck

import (
	"errors"
	"fmt"
	"os"
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/edsrzf/mmap-go"
)

// SeenFilter is a bloom filter of URLs whose bit set is mirrored into a
// memory-mapped temp file. A negative answer is exact; a positive one may be
// a false positive at the configured rate.
type SeenFilter struct {
	mu        sync.Mutex
	filter    *bloom.BloomFilter
	file      *os.File
	mmap      mmap.MMap
	path      string
	pending   uint // additions since the last sync
	syncEvery uint
	lastErr   error
}

// NewSeenFilter sizes a filter for capacity URLs at false positive rate fp
// and backs it with a temp file in dir (os.TempDir when empty).
func NewSeenFilter(dir string, capacity uint, fp float64) (*SeenFilter, error) {
	if capacity == 0 {
		capacity = 10_000
	}
	if fp <= 0 || fp >= 1 {
		fp = 0.001
	}
	filter := bloom.NewWithEstimates(capacity, fp)

	data, err := filter.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal bloom filter: %w", err)
	}

	file, err := os.CreateTemp(dir, "linkmend-seen-*.bloom")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() {
		_ = file.Close()
		_ = os.Remove(file.Name())
	}

	if err := file.Truncate(int64(len(data))); err != nil {
		cleanup()
		return nil, fmt.Errorf("truncate temp file: %w", err)
	}
	mapped, err := mmap.MapRegion(file, len(data), mmap.RDWR, 0, 0)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("mmap temp file: %w", err)
	}
	copy(mapped, data)

	return &SeenFilter{
		filter:    filter,
		file:      file,
		mmap:      mapped,
		path:      file.Name(),
		syncEvery: 256,
	}, nil
}

// Add records url.
func (s *SeenFilter) Add(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.AddString(url)
	s.afterAddLocked()
}

// Test reports whether url may have been added.
func (s *SeenFilter) Test(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.TestString(url)
}

func (s *SeenFilter) afterAddLocked() {
	s.pending++
	if s.pending >= s.syncEvery {
		if err := s.syncLocked(); err != nil {
			s.lastErr = err
		}
	}
}

func (s *SeenFilter) syncLocked() error {
	if s.mmap == nil {
		return nil
	}
	data, err := s.filter.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal bloom filter: %w", err)
	}
	copy(s.mmap, data)
	if err := s.mmap.Flush(); err != nil {
		return fmt.Errorf("flush mmap: %w", err)
	}
	s.pending = 0
	return nil
}

// LastError returns the last error from a periodic sync.
func (s *SeenFilter) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close syncs, unmaps and removes the backing file.
func (s *SeenFilter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.lastErr != nil {
		errs = append(errs, s.lastErr)
	}
	if s.mmap != nil {
		if s.pending > 0 {
			if err := s.syncLocked(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.mmap.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		s.mmap = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		s.file = nil
	}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove temp file: %w", err))
		}
		s.path = ""
	}

	if len(errs) > 0 {
		return fmt.Errorf("close seen filter: %w", errors.Join(errs...))
	}
	return nil
}
