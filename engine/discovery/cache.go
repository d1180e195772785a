// Package discovery implements the two-tier type discovery cache that maps
// type names to the game modules exporting them.
package discovery

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxAge is how long a cache entry stays valid without a rescan.
	DefaultMaxAge = 24 * time.Hour

	// DefaultVerifyInterval throttles how often a resolved entry's module
	// fingerprint is re-checked on the hot path.
	DefaultVerifyInterval = 30 * time.Second

	// DefaultWarmupParallelism bounds concurrent scans during warmup.
	DefaultWarmupParallelism = 4
)

// resolvedEntry pairs a resolved descriptor with its cache entry and the last
// time the module fingerprint was verified. Entries are immutable; refreshes
// replace the pointer.
type resolvedEntry struct {
	desc       domain.TypeDescriptor
	entry      domain.TypeCacheEntry
	verifiedAt time.Time
}

// Cache resolves type names against the module catalog and remembers where
// each type was found. Lookups go through three paths: entries resolved this
// session (fast), entries loaded from the persisted index and not yet
// revalidated (warm), and a full catalog scan (slow). Scans for the same name
// are shared between concurrent callers.
type Cache struct {
	catalog ports.ModuleCatalog
	store   ports.IndexStore
	fp      ports.Fingerprinter
	log     ports.Logger
	tel     ports.Telemetry

	gameVersion    string
	maxAge         time.Duration
	verifyInterval time.Duration
	parallelism    int

	mu       sync.RWMutex
	resolved map[string]*resolvedEntry
	warm     map[string]domain.TypeCacheEntry

	group singleflight.Group

	saveMu sync.Mutex
	idle   *sync.Cond
	dirty  bool
	saving bool

	hits         atomic.Uint64
	misses       atomic.Uint64
	scans        atomic.Uint64
	scannedTypes atomic.Uint64
	evictions    atomic.Uint64
	discards     atomic.Uint64
	saves        atomic.Uint64
	saveFailures atomic.Uint64
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithGameVersion pins the game build the cache is valid for. Persisted
// entries from a different build are discarded on load.
func WithGameVersion(version string) Option {
	return func(c *Cache) { c.gameVersion = version }
}

// WithMaxAge sets how long entries stay valid. A non-positive value disables
// age-based expiry.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithVerifyInterval sets how often resolved entries re-check their module
// fingerprint.
func WithVerifyInterval(d time.Duration) Option {
	return func(c *Cache) { c.verifyInterval = d }
}

// WithWarmupParallelism bounds how many types warm up concurrently.
func WithWarmupParallelism(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// New creates a Cache over the given catalog, persistence, and fingerprinting.
func New(catalog ports.ModuleCatalog, store ports.IndexStore, fp ports.Fingerprinter, log ports.Logger, tel ports.Telemetry, opts ...Option) *Cache {
	c := &Cache{
		catalog:        catalog,
		store:          store,
		fp:             fp,
		log:            log,
		tel:            tel,
		maxAge:         DefaultMaxAge,
		verifyInterval: DefaultVerifyInterval,
		parallelism:    DefaultWarmupParallelism,
		resolved:       make(map[string]*resolvedEntry),
		warm:           make(map[string]domain.TypeCacheEntry),
	}
	c.idle = sync.NewCond(&c.saveMu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindType resolves a type by short or full name. The name is looked up the
// way the caller spelled it; a not-found result is never cached.
func (c *Cache) FindType(ctx context.Context, name string) (domain.TypeDescriptor, error) {
	if desc, ok := c.fastPath(name); ok {
		c.hits.Add(1)
		return desc, nil
	}

	if desc, ok := c.warmPath(name); ok {
		c.hits.Add(1)
		return desc, nil
	}

	c.misses.Add(1)
	v, err, _ := c.group.Do(name, func() (any, error) {
		return c.scan(ctx, name)
	})
	if err != nil {
		return domain.TypeDescriptor{}, err
	}
	return v.(domain.TypeDescriptor), nil
}

// fastPath serves lookups from entries resolved this session. An entry past
// its age limit is evicted; a stale fingerprint evicts and forces a rescan.
func (c *Cache) fastPath(name string) (domain.TypeDescriptor, bool) {
	c.mu.RLock()
	re, ok := c.resolved[name]
	c.mu.RUnlock()
	if !ok {
		return domain.TypeDescriptor{}, false
	}

	now := time.Now()
	if re.entry.Expired(now, c.maxAge) {
		c.InvalidateType(name)
		return domain.TypeDescriptor{}, false
	}

	if now.Sub(re.verifiedAt) >= c.verifyInterval {
		sum, err := c.fp.Fingerprint(re.desc.Module)
		if err != nil {
			c.log.Error(zerr.Wrap(err, "failed to verify module fingerprint"))
			c.InvalidateType(name)
			return domain.TypeDescriptor{}, false
		}
		if sum != re.entry.ModuleChecksum {
			c.InvalidateType(name)
			return domain.TypeDescriptor{}, false
		}

		c.mu.Lock()
		if cur, still := c.resolved[name]; still && cur == re {
			c.resolved[name] = &resolvedEntry{desc: re.desc, entry: re.entry, verifiedAt: now}
		}
		c.mu.Unlock()
	}

	return re.desc, true
}

// warmPath validates a persisted entry before trusting it: the named module
// must still export the type and its fingerprint must match. A valid entry is
// promoted unchanged, keeping its original timestamp.
func (c *Cache) warmPath(name string) (domain.TypeDescriptor, bool) {
	c.mu.RLock()
	e, ok := c.warm[name]
	_, alreadyResolved := c.resolved[name]
	c.mu.RUnlock()
	if !ok || alreadyResolved {
		return domain.TypeDescriptor{}, false
	}

	if e.GameVersion != c.gameVersion || e.Expired(time.Now(), c.maxAge) {
		c.dropWarm(name)
		return domain.TypeDescriptor{}, false
	}

	desc, ok := c.catalog.LookupType(e.ModuleName, name)
	if !ok {
		c.dropWarm(name)
		return domain.TypeDescriptor{}, false
	}

	sum, err := c.fp.Fingerprint(desc.Module)
	if err != nil {
		c.log.Error(zerr.Wrap(err, "failed to fingerprint module"))
		c.dropWarm(name)
		return domain.TypeDescriptor{}, false
	}
	if sum != e.ModuleChecksum {
		c.dropWarm(name)
		return domain.TypeDescriptor{}, false
	}

	c.mu.Lock()
	c.resolved[name] = &resolvedEntry{desc: desc, entry: e, verifiedAt: time.Now()}
	delete(c.warm, name)
	c.mu.Unlock()
	return desc, true
}

// scan walks the catalog in order and resolves name to the first matching
// type. Catalog order is scan priority: the earliest module wins.
func (c *Cache) scan(ctx context.Context, name string) (domain.TypeDescriptor, error) {
	_, vtx := c.tel.Record(ctx, "scan modules for "+name, ports.WithInternal())
	c.scans.Add(1)

	for _, ref := range c.catalog.Modules() {
		if err := ctx.Err(); err != nil {
			vtx.Complete(err)
			return domain.TypeDescriptor{}, err
		}

		types, err := c.catalog.ExportedTypes(ref.Name)
		if err != nil {
			// A module that fails to enumerate does not abort the scan; the
			// type may live in a later module.
			c.log.Error(zerr.Wrap(err, "failed to enumerate module types"))
			continue
		}
		c.scannedTypes.Add(uint64(len(types)))

		for _, desc := range types {
			if !desc.Matches(name) {
				continue
			}

			entry := c.synthesize(desc)
			c.mu.Lock()
			c.resolved[name] = &resolvedEntry{desc: desc, entry: entry, verifiedAt: time.Now()}
			c.mu.Unlock()
			c.scheduleSave()

			vtx.Complete(nil)
			return desc, nil
		}
	}

	err := zerr.With(domain.ErrTypeNotFound, "type", name)
	vtx.Complete(err)
	return domain.TypeDescriptor{}, err
}

// synthesize builds the cache entry for a freshly scanned descriptor. A
// fingerprint failure is logged and leaves the checksum empty, which fails
// the next verification and forces a rescan.
func (c *Cache) synthesize(desc domain.TypeDescriptor) domain.TypeCacheEntry {
	sum, err := c.fp.Fingerprint(desc.Module)
	if err != nil {
		c.log.Error(zerr.Wrap(err, "failed to fingerprint module"))
		sum = ""
	}
	return domain.TypeCacheEntry{
		TypeName:       desc.Name,
		FullTypeName:   desc.FullName,
		Namespace:      desc.Namespace,
		ModuleName:     desc.Module.Name,
		ModuleChecksum: sum,
		GameVersion:    c.gameVersion,
		CachedAt:       time.Now().UTC(),
	}
}

// InvalidateType drops a single name from both tiers. It reports whether an
// entry was present.
func (c *Cache) InvalidateType(name string) bool {
	c.mu.Lock()
	_, okR := c.resolved[name]
	_, okW := c.warm[name]
	delete(c.resolved, name)
	delete(c.warm, name)
	c.mu.Unlock()

	if !okR && !okW {
		return false
	}
	c.evictions.Add(1)
	c.scheduleSave()
	return true
}

// InvalidateModule drops every entry that was resolved from the given module.
// It returns the number of distinct names dropped.
func (c *Cache) InvalidateModule(moduleName string) int {
	dropped := make(map[string]struct{})

	c.mu.Lock()
	for name, re := range c.resolved {
		if re.entry.ModuleName == moduleName {
			delete(c.resolved, name)
			dropped[name] = struct{}{}
		}
	}
	for name, e := range c.warm {
		if e.ModuleName == moduleName {
			delete(c.warm, name)
			dropped[name] = struct{}{}
		}
	}
	c.mu.Unlock()

	if len(dropped) > 0 {
		c.evictions.Add(uint64(len(dropped)))
		c.scheduleSave()
	}
	return len(dropped)
}

// dropWarm removes a warm entry that failed validation.
func (c *Cache) dropWarm(name string) {
	c.mu.Lock()
	_, ok := c.warm[name]
	delete(c.warm, name)
	c.mu.Unlock()

	if ok {
		c.evictions.Add(1)
		c.scheduleSave()
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.RLock()
	resolved := len(c.resolved)
	warm := len(c.warm)
	c.mu.RUnlock()

	return domain.CacheStats{
		ResolvedEntries: resolved,
		WarmEntries:     warm,
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		Scans:           c.scans.Load(),
		ScannedTypes:    c.scannedTypes.Load(),
		Evictions:       c.evictions.Load(),
		Discards:        c.discards.Load(),
		Saves:           c.saves.Load(),
		SaveFailures:    c.saveFailures.Load(),
	}
}
