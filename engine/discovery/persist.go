package discovery

import (
	"errors"
	"fmt"
	"time"

	"github.com/PerAsperaMods/modkit/core/domain"
	"go.trai.ch/zerr"
)

// Load reads the persisted index into the warm tier and returns the number of
// entries kept. A game version mismatch anywhere in the file discards the
// whole index, not single entries: type layouts across builds are
// incompatible wholesale. Expired entries are dropped individually; a corrupt
// index is dropped entirely and rebuilt by scans.
func (c *Cache) Load() (int, error) {
	idx, err := c.store.Load()
	if err != nil {
		if errors.Is(err, domain.ErrCorruptIndex) {
			c.log.Warn("discarding corrupt type cache index")
			c.discards.Add(1)
			return 0, nil
		}
		return 0, err
	}

	if len(idx.Entries) > 0 && c.otherBuild(idx) {
		c.log.Info(fmt.Sprintf("discarding type cache written for game version %q", idx.GameVersion))
		c.discards.Add(uint64(len(idx.Entries)))
		return 0, nil
	}

	now := time.Now()
	kept := 0

	c.mu.Lock()
	c.warm = make(map[string]domain.TypeCacheEntry, len(idx.Entries))
	for name, e := range idx.Entries {
		if e.Expired(now, c.maxAge) {
			c.discards.Add(1)
			continue
		}
		c.warm[name] = e
		kept++
	}
	c.mu.Unlock()

	if kept > 0 {
		c.log.Info(fmt.Sprintf("type cache loaded: %d warm entries", kept))
	}
	return kept, nil
}

// otherBuild reports whether the index header or any entry carries a game
// version other than the one this cache runs under.
func (c *Cache) otherBuild(idx domain.CacheIndex) bool {
	if idx.GameVersion != c.gameVersion {
		return true
	}
	for _, e := range idx.Entries {
		if e.GameVersion != c.gameVersion {
			return true
		}
	}
	return false
}

// Clear drops both tiers and synchronously persists the empty index.
func (c *Cache) Clear() error {
	dropped := make(map[string]struct{})

	c.mu.Lock()
	for name := range c.resolved {
		dropped[name] = struct{}{}
	}
	for name := range c.warm {
		dropped[name] = struct{}{}
	}
	c.resolved = make(map[string]*resolvedEntry)
	c.warm = make(map[string]domain.TypeCacheEntry)
	c.mu.Unlock()

	if len(dropped) > 0 {
		c.evictions.Add(uint64(len(dropped)))
	}

	// Drain scheduled writes first so none of them resurrects old entries
	// after the synchronous save below.
	c.Flush()
	if err := c.saveOnce(); err != nil {
		c.saveFailures.Add(1)
		return zerr.Wrap(err, "failed to persist cleared index")
	}
	c.saves.Add(1)
	return nil
}

// scheduleSave requests an asynchronous index write. Writes coalesce: at most
// one save runs at a time, and changes arriving during a save trigger exactly
// one follow-up save.
func (c *Cache) scheduleSave() {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.dirty = true
	if c.saving {
		return
	}
	c.saving = true
	go c.saveLoop()
}

func (c *Cache) saveLoop() {
	for {
		c.saveMu.Lock()
		if !c.dirty {
			c.saving = false
			c.idle.Broadcast()
			c.saveMu.Unlock()
			return
		}
		c.dirty = false
		c.saveMu.Unlock()

		if err := c.saveOnce(); err != nil {
			c.saveFailures.Add(1)
			c.log.Error(zerr.Wrap(err, "failed to persist type cache index"))
			continue
		}
		c.saves.Add(1)
	}
}

// saveOnce snapshots both tiers and writes them through the store.
func (c *Cache) saveOnce() error {
	idx := domain.CacheIndex{
		GameVersion: c.gameVersion,
		SavedAt:     time.Now().UTC(),
	}

	c.mu.RLock()
	idx.Entries = make(map[string]domain.TypeCacheEntry, len(c.resolved)+len(c.warm))
	for name, e := range c.warm {
		idx.Entries[name] = e
	}
	for name, re := range c.resolved {
		idx.Entries[name] = re.entry
	}
	c.mu.RUnlock()

	return c.store.Save(idx)
}

// Flush blocks until every scheduled index write has completed. Call it
// before shutdown so the last resolution is not lost.
func (c *Cache) Flush() {
	c.saveMu.Lock()
	for c.dirty || c.saving {
		c.idle.Wait()
	}
	c.saveMu.Unlock()
}
