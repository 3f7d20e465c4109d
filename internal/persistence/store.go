// Package persistence stores finished batch results on disk so a server
// restart does not lose batch history.
package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docparse/bounds-matcher/model"
)

const batchExtension = ".gob"

// Store is a directory-backed batch result store. One gob file per batch,
// named by batch ID.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SaveBatch encodes the batch result to <dir>/<batch_id>.gob, creating
// the directory if needed.
func (s *Store) SaveBatch(result model.BatchResult) error {
	if result.BatchID == "" {
		return fmt.Errorf("batch result has no batch ID")
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	path := s.batchPath(result.BatchID)
	file, err := os.Create(path) // #nosec G304 -- path is built from the store dir, not user input
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	if err := gob.NewEncoder(file).Encode(result); err != nil {
		return fmt.Errorf("failed to gob encode to file %s: %w", path, err)
	}
	return nil
}

// LoadBatch decodes a previously saved batch result. A missing batch is
// reported as os.ErrNotExist so callers can treat it as absent history.
func (s *Store) LoadBatch(batchID string) (*model.BatchResult, error) {
	path := s.batchPath(batchID)
	file, err := os.Open(path) // #nosec G304 -- path is built from the store dir, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	var result model.BatchResult
	if err := gob.NewDecoder(file).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to gob decode from file %s: %w", path, err)
	}
	return &result, nil
}

// ListBatchIDs returns the IDs of all stored batches. An absent store
// directory means no history yet.
func (s *Store) ListBatchIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return make([]string, 0), nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", s.dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), batchExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), batchExtension))
	}
	return ids, nil
}

func (s *Store) batchPath(batchID string) string {
	return filepath.Join(s.dir, batchID+batchExtension)
}
