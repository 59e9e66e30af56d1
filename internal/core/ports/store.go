package ports

import "github.com/ai-kana/kb/internal/core/domain"

// BuildInfoStore defines the interface for recording and listing build records.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Put stores the build record, replacing any previous record of the same artifact.
	Put(root string, record domain.BuildRecord) error

	// List returns every stored build record.
	List(root string) ([]domain.BuildRecord, error)

	// Clear removes the store and every record in it.
	Clear(root string) error
}
