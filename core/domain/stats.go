package domain

// CacheStats is a point-in-time snapshot of the type discovery cache counters.
type CacheStats struct {
	// ResolvedEntries is the number of fully resolved in-memory entries.
	ResolvedEntries int
	// WarmEntries is the number of persisted entries loaded but not yet revalidated.
	WarmEntries int

	Hits         uint64
	Misses       uint64
	Scans        uint64
	ScannedTypes uint64
	Evictions    uint64
	Discards     uint64
	Saves        uint64
	SaveFailures uint64
}

// RegistryStats is a point-in-time snapshot of the override registry counters.
type RegistryStats struct {
	// Active is the number of currently registered overrides.
	Active int
	// Listeners is the number of registered change listeners.
	Listeners int

	Registered     uint64
	Replaced       uint64
	Unregistered   uint64
	Applied        uint64
	TypeMismatches uint64
	Failures       uint64
}
