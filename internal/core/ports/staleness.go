package ports

// StalenessOracle decides whether a derived file must be rebuilt from its source.
//
//go:generate mockgen -source=staleness.go -destination=mocks/mock_staleness.go -package=mocks
type StalenessOracle interface {
	// IsStale reports whether target must be rebuilt from source.
	// A missing source is never stale; a missing target always is.
	IsStale(source, target string) bool
}
