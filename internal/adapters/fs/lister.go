package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ai-kana/kb/internal/core/domain"
	"go.trai.ch/zerr"
)

// Lister enumerates build inputs in a single directory.
type Lister struct{}

// NewLister creates a new Lister.
func NewLister() *Lister {
	return &Lister{}
}

// ListFiles returns the regular files directly inside dir whose name ends in ext.
//
// Names starting with domain.ReservedPrefix belong to the build program and are
// skipped, as are names that consist of the extension alone. Results are sorted
// by name and joined with dir.
func (l *Lister) ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrListFilesFailed.Error()), "dir", dir)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !matches(entry.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}

func matches(name, ext string) bool {
	if strings.HasPrefix(name, domain.ReservedPrefix) {
		return false
	}
	return len(name) > len(ext) && strings.HasSuffix(name, ext)
}
