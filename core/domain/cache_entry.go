package domain

import "time"

// TypeCacheEntry records where a type was found during a module scan.
// Entries are immutable: revalidation replaces an entry instead of mutating it.
type TypeCacheEntry struct {
	TypeName       string    `json:"type_name,omitzero"`
	FullTypeName   string    `json:"full_type_name,omitzero"`
	Namespace      string    `json:"namespace,omitzero"`
	ModuleName     string    `json:"module_name,omitzero"`
	ModuleChecksum string    `json:"module_checksum,omitzero"`
	GameVersion    string    `json:"game_version,omitzero"`
	CachedAt       time.Time `json:"cached_at,omitzero"`
}

// Expired reports whether the entry is older than maxAge at the given instant.
// A non-positive maxAge disables age-based expiry.
func (e TypeCacheEntry) Expired(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(e.CachedAt) > maxAge
}

// CacheIndex is the persisted form of the type discovery cache. Entries are
// keyed by the lookup name that produced them.
type CacheIndex struct {
	GameVersion string                    `json:"game_version,omitzero"`
	SavedAt     time.Time                 `json:"saved_at,omitzero"`
	Entries     map[string]TypeCacheEntry `json:"entries,omitzero"`
}

// IndexFileInfo describes the on-disk state of a persisted cache index.
type IndexFileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	Exists  bool
}
