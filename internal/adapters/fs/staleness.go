// Package fs provides file system adapters for staleness checks and input listing.
package fs

import "os"

// Oracle decides staleness by comparing modification times.
type Oracle struct{}

// NewOracle creates a new Oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// IsStale reports whether target must be rebuilt from source.
func (o *Oracle) IsStale(source, target string) bool {
	return IsStale(source, target)
}

// IsStale reports whether target must be rebuilt from source.
//
// A source that cannot be stat'd is never stale, so the caller's command
// surfaces the missing file instead. A target that cannot be stat'd is always
// stale. Otherwise target is stale only when source was modified strictly
// after it; equal times count as up to date.
func IsStale(source, target string) bool {
	src, err := os.Stat(source)
	if err != nil {
		return false
	}
	dst, err := os.Stat(target)
	if err != nil {
		return true
	}
	return src.ModTime().After(dst.ModTime())
}
