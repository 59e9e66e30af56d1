// Package cas implements the file-per-artifact build record store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

const recordExt = ".json"

// Store implements ports.BuildInfoStore with one JSON file per artifact under
// <root>/.kb/store, named after the xxhash of the artifact path.
type Store struct{}

// NewStore creates a new Store.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Put stores the build record.
func (s *Store) Put(root string, record domain.BuildRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(domain.DefaultStorePath(root), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(s.filename(root, record.Artifact), data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// List returns every stored build record ordered by artifact path.
// A missing store yields no records.
func (s *Store) List(root string) ([]domain.BuildRecord, error) {
	dir := domain.DefaultStorePath(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	records := make([]domain.BuildRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		//nolint:gosec // Path is constructed from trusted directory
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "file", entry.Name())
		}
		var record domain.BuildRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "file", entry.Name())
		}
		records = append(records, record)
	}

	slices.SortFunc(records, func(a, b domain.BuildRecord) int {
		return strings.Compare(a.Artifact, b.Artifact)
	})
	return records, nil
}

// Clear removes the store directory and every record in it.
func (s *Store) Clear(root string) error {
	if err := os.RemoveAll(domain.DefaultStorePath(root)); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

func (s *Store) filename(root, artifact string) string {
	key := strconv.FormatUint(xxhash.Sum64String(artifact), 16)
	return filepath.Join(domain.DefaultStorePath(root), key+recordExt)
}
