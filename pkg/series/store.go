package series

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"ViewTracker/pkg/logging"
)

// Read loads the series stored at path, choosing the format by extension.
func Read(path string) (*Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}

	samples, err := ForPath(path).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return New(samples...), nil
}

// Load is Read with a blanket fallback: a missing or unparsable file yields
// an empty series. Corruption is indistinguishable from "no prior data".
func Load(path string) *Series {
	s, err := Read(path)
	if err != nil {
		logging.Component("series").Debug("starting with empty series",
			zap.String("path", path),
			zap.Error(err),
		)
		return New()
	}
	return s
}

// Save rewrites the whole file. Content goes to a sibling temporary file
// which is then renamed over path, so readers see either the old or the new
// file, never a partial one.
func Save(path string, s *Series) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	var samples []Sample
	if s != nil {
		samples = s.Samples
	}
	if err := ForPath(path).Encode(w, samples); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode series: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	tmpPath = ""
	return nil
}

// Store is a series bound to its backing file.
type Store struct {
	path   string
	series *Series
	mu     sync.Mutex
}

// Open loads the series at path with Load semantics.
func Open(path string) *Store {
	return &Store{
		path:   path,
		series: Load(path),
	}
}

// Path returns the backing file path.
func (st *Store) Path() string {
	return st.path
}

// Len returns the number of samples held.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.series.Len()
}

// Snapshot returns a copy of the current series.
func (st *Store) Snapshot() *Series {
	st.mu.Lock()
	defer st.mu.Unlock()
	return New(append([]Sample(nil), st.series.Samples...)...)
}

// Append adds one sample and rewrites the file. On a write error the
// sample stays in memory and the next Append retries the full write.
func (st *Store) Append(sample Sample) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.series.Append(sample)
	return Save(st.path, st.series)
}
