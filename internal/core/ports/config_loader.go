package ports

import "github.com/ai-kana/kb/internal/core/domain"

// ConfigLoader defines the interface for loading the build description.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build description at path and returns the named buffers it defines.
	Load(path string) (*domain.Project, error)
}
