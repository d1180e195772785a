package discovery_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports/mocks"
	"github.com/PerAsperaMods/modkit/engine/discovery"
)

var (
	coreModule      = domain.ModuleRef{Name: "core", Path: "/game/Mods/core/core.dll", Version: "1.4.2"}
	expansionModule = domain.ModuleRef{Name: "expansion", Path: "/game/Mods/expansion/expansion.dll", Version: "0.9.1"}
)

func planetType() domain.TypeDescriptor {
	return domain.TypeDescriptor{
		Name:      "Planet",
		FullName:  "Game.Simulation.Planet",
		Namespace: "Game.Simulation",
		Module:    coreModule,
		Methods: []domain.MethodDescriptor{
			{Name: "GetAverageTemperature", ReturnType: "float"},
			{Name: "GetAtmosphereDensity", ReturnType: "float"},
		},
	}
}

func atmosphereType() domain.TypeDescriptor {
	return domain.TypeDescriptor{
		Name:      "Atmosphere",
		FullName:  "Game.Simulation.Atmosphere",
		Namespace: "Game.Simulation",
		Module:    coreModule,
		Methods:   []domain.MethodDescriptor{{Name: "GetOxygenLevel", ReturnType: "float"}},
	}
}

func colonistType() domain.TypeDescriptor {
	return domain.TypeDescriptor{
		Name:      "Colonist",
		FullName:  "Game.Simulation.Colonist",
		Namespace: "Game.Simulation",
		Module:    coreModule,
		Methods:   []domain.MethodDescriptor{{Name: "GetMood", ReturnType: "float"}},
	}
}

func roverType() domain.TypeDescriptor {
	return domain.TypeDescriptor{
		Name:      "Rover",
		FullName:  "Game.Units.Rover",
		Namespace: "Game.Units",
		Module:    expansionModule,
		Methods:   []domain.MethodDescriptor{{Name: "GetMaxSpeed", ReturnType: "float"}},
	}
}

type cacheMocks struct {
	catalog *mocks.MockModuleCatalog
	store   *mocks.MockIndexStore
	fp      *mocks.MockFingerprinter
	log     *mocks.MockLogger
}

// newCache builds a cache over strict mocks. Telemetry is stubbed out; tests
// asserting vertex names construct their own mocks instead.
func newCache(t *testing.T, opts ...discovery.Option) (*discovery.Cache, cacheMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := cacheMocks{
		catalog: mocks.NewMockModuleCatalog(ctrl),
		store:   mocks.NewMockIndexStore(ctrl),
		fp:      mocks.NewMockFingerprinter(ctrl),
		log:     mocks.NewMockLogger(ctrl),
	}

	tel := mocks.NewMockTelemetry(ctrl)
	vtx := mocks.NewMockVertex(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(context.Background(), vtx).AnyTimes()
	vtx.EXPECT().Complete(gomock.Any()).AnyTimes()
	vtx.EXPECT().Cached().AnyTimes()

	opts = append([]discovery.Option{discovery.WithGameVersion("1.4.2")}, opts...)
	c := discovery.New(m.catalog, m.store, m.fp, m.log, tel, opts...)
	return c, m
}

func TestCache_FindType_ScansOnce(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule, expansionModule}).Times(1)
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(1)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil).Times(1)

	desc, err := c.FindType(context.Background(), "Planet")
	if err != nil {
		t.Fatalf("FindType failed: %v", err)
	}
	if desc.FullName != "Game.Simulation.Planet" {
		t.Errorf("unexpected descriptor: %s", desc.FullName)
	}

	for range 3 {
		again, err := c.FindType(context.Background(), "Planet")
		if err != nil {
			t.Fatalf("repeat FindType failed: %v", err)
		}
		if again.FullName != desc.FullName {
			t.Errorf("repeat lookup returned %s", again.FullName)
		}
	}

	stats := c.Stats()
	if stats.Hits != 3 {
		t.Errorf("expected 3 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.Scans != 1 {
		t.Errorf("expected 1 scan, got %d", stats.Scans)
	}
	if stats.ScannedTypes != 1 {
		t.Errorf("expected 1 scanned type, got %d", stats.ScannedTypes)
	}
	if stats.ResolvedEntries != 1 {
		t.Errorf("expected 1 resolved entry, got %d", stats.ResolvedEntries)
	}
	c.Flush()
}

func TestCache_FindType_FullName(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(1)
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(1)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

	desc, err := c.FindType(context.Background(), "Game.Simulation.Planet")
	if err != nil {
		t.Fatalf("FindType failed: %v", err)
	}
	if desc.Name != "Planet" {
		t.Errorf("unexpected descriptor: %s", desc.Name)
	}

	if _, err := c.FindType(context.Background(), "Game.Simulation.Planet"); err != nil {
		t.Fatalf("repeat FindType failed: %v", err)
	}
	if stats := c.Stats(); stats.Scans != 1 {
		t.Errorf("expected the second lookup to hit, got %d scans", stats.Scans)
	}
	c.Flush()
}

func TestCache_FindType_FirstModuleWins(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	// Both modules export a Colonist type; the catalog lists core first. The
	// strict mock proves the expansion module is never even enumerated.
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule, expansionModule})
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{colonistType()}, nil)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

	desc, err := c.FindType(context.Background(), "Colonist")
	if err != nil {
		t.Fatalf("FindType failed: %v", err)
	}
	if desc.Module.Name != "core" {
		t.Errorf("expected the first catalog module to win, got %s", desc.Module.Name)
	}
	c.Flush()
}

func TestCache_FindType_NotFound(t *testing.T) {
	c, m := newCache(t)
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(2)
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(2)

	_, err := c.FindType(context.Background(), "Wormhole")
	if !errors.Is(err, domain.ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}

	// Misses are never cached: the next lookup scans again.
	if _, err := c.FindType(context.Background(), "Wormhole"); !errors.Is(err, domain.ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound on repeat, got %v", err)
	}

	stats := c.Stats()
	if stats.Scans != 2 {
		t.Errorf("expected 2 scans, got %d", stats.Scans)
	}
	if stats.Misses != 2 {
		t.Errorf("expected 2 misses, got %d", stats.Misses)
	}
	if stats.Hits != 0 {
		t.Errorf("expected no hits, got %d", stats.Hits)
	}
	if stats.ResolvedEntries != 0 {
		t.Errorf("expected no resolved entries, got %d", stats.ResolvedEntries)
	}
}

func TestCache_FindType_SkipsFailingModule(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.log.EXPECT().Error(gomock.Any())

	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{expansionModule, coreModule})
	m.catalog.EXPECT().ExportedTypes("expansion").Return(nil, errors.New("module image unreadable"))
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

	desc, err := c.FindType(context.Background(), "Planet")
	if err != nil {
		t.Fatalf("expected the scan to continue past the broken module: %v", err)
	}
	if desc.Module.Name != "core" {
		t.Errorf("unexpected module: %s", desc.Module.Name)
	}
	c.Flush()
}

func TestCache_FindType_ContextCancelled(t *testing.T) {
	c, m := newCache(t)
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FindType(ctx, "Planet")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCache_FindType_SharedScan(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, m := newCache(t)
		m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

		release := make(chan struct{})
		m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(1)
		m.catalog.EXPECT().ExportedTypes("core").DoAndReturn(func(string) ([]domain.TypeDescriptor, error) {
			<-release
			return []domain.TypeDescriptor{planetType()}, nil
		}).Times(1)
		m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

		const callers = 5
		descs := make([]domain.TypeDescriptor, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				descs[i], errs[i] = c.FindType(context.Background(), "Planet")
			}()
		}

		// All callers are now either scanning or waiting on the shared scan.
		synctest.Wait()
		close(release)
		wg.Wait()

		for i := range callers {
			if errs[i] != nil {
				t.Fatalf("caller %d failed: %v", i, errs[i])
			}
			if descs[i].FullName != "Game.Simulation.Planet" {
				t.Errorf("caller %d got %s", i, descs[i].FullName)
			}
		}

		stats := c.Stats()
		if stats.Scans != 1 {
			t.Errorf("expected concurrent lookups to share one scan, got %d", stats.Scans)
		}
		if stats.Misses != callers {
			t.Errorf("expected %d misses, got %d", callers, stats.Misses)
		}
		c.Flush()
	})
}

func TestCache_FindType_Expiry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, m := newCache(t, discovery.WithMaxAge(time.Hour))
		m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
		m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(2)
		m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(2)
		m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil).Times(2)

		if _, err := c.FindType(context.Background(), "Planet"); err != nil {
			t.Fatalf("FindType failed: %v", err)
		}

		time.Sleep(2 * time.Hour)

		if _, err := c.FindType(context.Background(), "Planet"); err != nil {
			t.Fatalf("FindType after expiry failed: %v", err)
		}

		stats := c.Stats()
		if stats.Scans != 2 {
			t.Errorf("expected the expired entry to rescan, got %d scans", stats.Scans)
		}
		if stats.Evictions != 1 {
			t.Errorf("expected 1 eviction, got %d", stats.Evictions)
		}
		c.Flush()
	})
}

func TestCache_FindType_FingerprintMismatch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, m := newCache(t, discovery.WithVerifyInterval(30*time.Second))
		m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
		m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(2)
		m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(2)

		gomock.InOrder(
			m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil),
			m.fp.EXPECT().Fingerprint(coreModule).Return("bbb", nil),
			m.fp.EXPECT().Fingerprint(coreModule).Return("bbb", nil),
		)

		if _, err := c.FindType(context.Background(), "Planet"); err != nil {
			t.Fatalf("FindType failed: %v", err)
		}

		// The module is swapped on disk; past the verify interval the stale
		// entry is evicted and the type rescanned.
		time.Sleep(time.Minute)

		if _, err := c.FindType(context.Background(), "Planet"); err != nil {
			t.Fatalf("FindType after module swap failed: %v", err)
		}

		stats := c.Stats()
		if stats.Scans != 2 {
			t.Errorf("expected a rescan after the fingerprint changed, got %d scans", stats.Scans)
		}
		if stats.Evictions != 1 {
			t.Errorf("expected 1 eviction, got %d", stats.Evictions)
		}
		c.Flush()
	})
}

func TestCache_FindType_VerifyThrottled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, m := newCache(t, discovery.WithVerifyInterval(30*time.Second))
		m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
		m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(1)
		m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(1)

		// One fingerprint for the scan and exactly one for the re-check past
		// the interval; the lookups in between trust the entry.
		m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil).Times(2)

		if _, err := c.FindType(context.Background(), "Planet"); err != nil {
			t.Fatalf("FindType failed: %v", err)
		}

		time.Sleep(10 * time.Second)
		for range 3 {
			if _, err := c.FindType(context.Background(), "Planet"); err != nil {
				t.Fatalf("FindType within interval failed: %v", err)
			}
		}

		time.Sleep(25 * time.Second)
		for range 2 {
			if _, err := c.FindType(context.Background(), "Planet"); err != nil {
				t.Fatalf("FindType past interval failed: %v", err)
			}
		}

		if stats := c.Stats(); stats.Hits != 5 {
			t.Errorf("expected 5 hits, got %d", stats.Hits)
		}
		c.Flush()
	})
}

func TestCache_InvalidateType(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(2)
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(2)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil).Times(2)

	if _, err := c.FindType(context.Background(), "Planet"); err != nil {
		t.Fatalf("FindType failed: %v", err)
	}

	if !c.InvalidateType("Planet") {
		t.Error("expected invalidation of a cached type to report true")
	}
	if c.InvalidateType("Planet") {
		t.Error("expected invalidation of an absent type to report false")
	}

	if _, err := c.FindType(context.Background(), "Planet"); err != nil {
		t.Fatalf("FindType after invalidation failed: %v", err)
	}

	stats := c.Stats()
	if stats.Scans != 2 {
		t.Errorf("expected 2 scans, got %d", stats.Scans)
	}
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
	c.Flush()
}

func TestCache_InvalidateModule(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule, expansionModule}).Times(3)
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil).Times(3)
	m.catalog.EXPECT().ExportedTypes("expansion").Return([]domain.TypeDescriptor{roverType()}, nil).Times(2)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil).Times(1)
	m.fp.EXPECT().Fingerprint(expansionModule).Return("bbb", nil).Times(2)

	if _, err := c.FindType(context.Background(), "Planet"); err != nil {
		t.Fatalf("FindType Planet failed: %v", err)
	}
	if _, err := c.FindType(context.Background(), "Rover"); err != nil {
		t.Fatalf("FindType Rover failed: %v", err)
	}

	if dropped := c.InvalidateModule("expansion"); dropped != 1 {
		t.Errorf("expected 1 dropped entry, got %d", dropped)
	}

	// Planet still serves from cache; Rover needs a fresh scan.
	if _, err := c.FindType(context.Background(), "Planet"); err != nil {
		t.Fatalf("FindType Planet after invalidation failed: %v", err)
	}
	if _, err := c.FindType(context.Background(), "Rover"); err != nil {
		t.Fatalf("FindType Rover after invalidation failed: %v", err)
	}

	stats := c.Stats()
	if stats.Scans != 3 {
		t.Errorf("expected 3 scans, got %d", stats.Scans)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
	c.Flush()
}
