package ports

import "github.com/PerAsperaMods/modkit/core/domain"

// Fingerprinter computes a stable fingerprint for a loaded module. Cache
// entries recorded against one fingerprint are invalid once the module's
// fingerprint changes.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a stable hex fingerprint for the module.
	// Failures are reported, not swallowed; callers treat an error as
	// "cannot validate".
	Fingerprint(ref domain.ModuleRef) (string, error)
}
