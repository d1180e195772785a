package ports

import "github.com/PerAsperaMods/modkit/core/domain"

// IndexStore persists the type discovery cache index between runs.
//
//go:generate mockgen -source=index_store.go -destination=mocks/mock_index_store.go -package=mocks
type IndexStore interface {
	// Load reads the persisted index. A missing index is not an error and
	// yields an empty index. An unreadable or undecodable index is reported
	// as domain.ErrCorruptIndex.
	Load() (domain.CacheIndex, error)

	// Save writes the index, replacing any previous one.
	Save(index domain.CacheIndex) error

	// Info describes the on-disk state of the index.
	Info() (domain.IndexFileInfo, error)
}
