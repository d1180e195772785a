package ports

import "github.com/PerAsperaMods/modkit/core/domain"

// PresetLoader reads and validates override preset documents.
//
//go:generate mockgen -source=preset_loader.go -destination=mocks/mock_preset_loader.go -package=mocks
type PresetLoader interface {
	// Load decodes the preset document at path. Entries that name unknown
	// strategies or value types, carry values of the wrong type, or target
	// the same owner and method twice are rejected as a whole; a preset
	// either loads completely or not at all.
	Load(path string) (*domain.PresetFile, error)
}
