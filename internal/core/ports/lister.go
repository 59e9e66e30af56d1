package ports

// FileLister defines the interface for enumerating build inputs in a directory.
//
//go:generate mockgen -source=lister.go -destination=mocks/mock_lister.go -package=mocks
type FileLister interface {
	// ListFiles returns the regular files directly inside dir whose name ends in ext.
	// Results are sorted and joined with dir.
	ListFiles(dir, ext string) ([]string, error)
}
