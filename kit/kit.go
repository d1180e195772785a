// Package kit assembles the override registry, the type discovery cache and
// the bundled adapters into a single embeddable object. A host process
// creates one Kit per game instance; independent Kits share no state.
package kit

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PerAsperaMods/modkit/adapters/cachefile"
	"github.com/PerAsperaMods/modkit/adapters/checksum"
	"github.com/PerAsperaMods/modkit/adapters/logger"
	"github.com/PerAsperaMods/modkit/adapters/presets"
	"github.com/PerAsperaMods/modkit/adapters/telemetry"
	"github.com/PerAsperaMods/modkit/adapters/watcher"
	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/PerAsperaMods/modkit/engine/discovery"
	"github.com/PerAsperaMods/modkit/engine/override"
	"go.trai.ch/zerr"
)

// Deps are the host-provided adapters. Catalog is required; every other nil
// field falls back to the bundled default.
type Deps struct {
	Catalog      ports.ModuleCatalog
	Store        ports.IndexStore
	Fingerprint  ports.Fingerprinter
	Logger       ports.Logger
	Telemetry    ports.Telemetry
	Watcher      ports.Watcher
	PresetLoader ports.PresetLoader
}

// Kit owns one override registry and one type discovery cache, plus the
// optional module watcher feeding cache invalidation.
type Kit struct {
	overrides *override.Registry
	types     *discovery.Cache
	catalog   ports.ModuleCatalog
	log       ports.Logger

	watcher      ports.Watcher
	presetLoader ports.PresetLoader

	cacheOpts      []discovery.Option
	presetPaths    []string
	warmup         []string
	watchRoot      string
	debounceWindow time.Duration

	mu          sync.Mutex
	started     bool
	closed      bool
	cancelWatch context.CancelFunc
	watchDone   chan struct{}
	debouncer   *watcher.Debouncer
}

// New builds a Kit from the given dependencies. The returned Kit is inert
// until Start is called.
func New(deps Deps, opts ...Option) (*Kit, error) {
	if deps.Catalog == nil {
		return nil, zerr.New("module catalog is required")
	}

	k := &Kit{
		catalog:        deps.Catalog,
		log:            deps.Logger,
		watcher:        deps.Watcher,
		presetLoader:   deps.PresetLoader,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.log == nil {
		k.log = logger.New()
	}

	store := deps.Store
	if store == nil {
		path, err := cachefile.DefaultPath()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve cache index path")
		}
		store = cachefile.NewStore(path)
	}

	fp := deps.Fingerprint
	if fp == nil {
		fp = checksum.New()
	}

	tel := deps.Telemetry
	if tel == nil {
		tel = telemetry.NewNoOp()
	}

	if k.presetLoader == nil {
		k.presetLoader = presets.NewLoader()
	}

	if k.watchRoot != "" && k.watcher == nil {
		w, err := watcher.NewWatcher()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create module watcher")
		}
		k.watcher = w
	}

	k.overrides = override.New(k.log)
	k.types = discovery.New(deps.Catalog, store, fp, k.log, tel, k.cacheOpts...)
	return k, nil
}

// Start loads the persisted type cache, applies preset files, warms up the
// cache and begins watching the module directory when one is configured.
func (k *Kit) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return zerr.New("kit already started")
	}
	k.started = true
	k.mu.Unlock()

	if _, err := k.types.Load(); err != nil {
		return zerr.Wrap(err, "failed to load type cache index")
	}

	names := slices.Clone(k.warmup)
	for _, path := range k.presetPaths {
		pf, err := k.presetLoader.Load(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to apply preset file"), "path", path)
		}
		names = append(names, pf.Warmup...)
		k.applyPreset(ctx, pf)
	}

	if len(names) > 0 {
		report, err := k.types.Warmup(ctx, names)
		if err != nil {
			return zerr.Wrap(err, "type cache warmup failed")
		}
		for _, name := range report.Missing {
			k.log.Warn("warmup type not found: " + name)
		}
		k.log.Info(fmt.Sprintf("type cache warmed: %d resolved, %d missing in %s",
			len(report.Resolved), len(report.Missing), report.Elapsed.Round(time.Millisecond)))
	}

	if k.watcher != nil && k.watchRoot != "" {
		// The watch loop outlives the startup context and runs until Close.
		wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		if err := k.watcher.Start(wctx, k.watchRoot); err != nil {
			cancel()
			return zerr.Wrap(err, "failed to start module watcher")
		}

		k.mu.Lock()
		k.cancelWatch = cancel
		k.debouncer = watcher.NewDebouncer(k.debounceWindow, k.invalidatePaths)
		k.watchDone = make(chan struct{})
		k.mu.Unlock()

		go k.watchLoop()
	}

	return nil
}

// Close stops the module watcher, applies any pending invalidations and
// waits for the final index write. Close is idempotent.
func (k *Kit) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	cancel := k.cancelWatch
	done := k.watchDone
	deb := k.debouncer
	k.mu.Unlock()

	var stopErr error
	if cancel != nil {
		cancel()
		stopErr = k.watcher.Stop()
		<-done
		deb.Flush()
	}

	k.types.Flush()
	if stopErr != nil {
		return zerr.Wrap(stopErr, "failed to stop module watcher")
	}
	return nil
}

// Overrides returns the getter override registry owned by this Kit.
func (k *Kit) Overrides() *override.Registry { return k.overrides }

// Types returns the type discovery cache owned by this Kit.
func (k *Kit) Types() *discovery.Cache { return k.types }

func (k *Kit) watchLoop() {
	defer close(k.watchDone)
	for ev := range k.watcher.Events() {
		k.debouncer.Add(ev.Path)
	}
}

// invalidatePaths drops cache entries for every module whose files changed.
// Paths outside any module directory are ignored.
func (k *Kit) invalidatePaths(paths []string) {
	seen := make(map[string]struct{})
	for _, path := range paths {
		name, ok := k.moduleForPath(path)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		dropped := k.types.InvalidateModule(name)
		k.log.Info(fmt.Sprintf("module %s changed, dropped %d cached types", name, dropped))
	}
}

// moduleForPath maps a changed file to the catalog module it belongs to. A
// module owns its backing file and everything under that file's directory.
func (k *Kit) moduleForPath(path string) (string, bool) {
	for _, ref := range k.catalog.Modules() {
		if ref.InMemory() {
			continue
		}
		if path == ref.Path {
			return ref.Name, true
		}
		rel, err := filepath.Rel(filepath.Dir(ref.Path), path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return ref.Name, true
		}
	}
	return "", false
}
