package discovery_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports/mocks"
	"github.com/PerAsperaMods/modkit/engine/discovery"
)

func TestCache_Warmup(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	types := []domain.TypeDescriptor{planetType(), atmosphereType()}
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule}).Times(3)
	m.catalog.EXPECT().ExportedTypes("core").Return(types, nil).Times(3)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil).Times(2)

	report, err := c.Warmup(context.Background(), []string{"Planet", "Atmosphere", "Ghost"})
	if err != nil {
		t.Fatalf("Warmup failed: %v", err)
	}

	if !slices.Equal(report.Resolved, []string{"Planet", "Atmosphere"}) {
		t.Errorf("unexpected resolved list: %v", report.Resolved)
	}
	if !slices.Equal(report.Missing, []string{"Ghost"}) {
		t.Errorf("unexpected missing list: %v", report.Missing)
	}
	if got := c.Stats().ResolvedEntries; got != 2 {
		t.Errorf("expected 2 resolved entries, got %d", got)
	}
	c.Flush()
}

func TestCache_Warmup_RecordsVertices(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockModuleCatalog(ctrl)
	store := mocks.NewMockIndexStore(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)
	log := mocks.NewMockLogger(ctrl)
	tel := mocks.NewMockTelemetry(ctrl)
	vtx := mocks.NewMockVertex(ctrl)

	tel.EXPECT().Record(gomock.Any(), "warm type cache").Return(context.Background(), vtx)
	tel.EXPECT().Record(gomock.Any(), "resolve Planet", gomock.Any()).Return(context.Background(), vtx)
	tel.EXPECT().Record(gomock.Any(), "scan modules for Planet", gomock.Any()).Return(context.Background(), vtx)
	vtx.EXPECT().Complete(nil).Times(3)

	catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})
	catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil)
	fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)
	store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	c := discovery.New(catalog, store, fp, log, tel, discovery.WithGameVersion("1.4.2"))
	if _, err := c.Warmup(context.Background(), []string{"Planet"}); err != nil {
		t.Fatalf("Warmup failed: %v", err)
	}
	c.Flush()
}

func TestCache_Warmup_MarksResolvedNamesCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockModuleCatalog(ctrl)
	store := mocks.NewMockIndexStore(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)
	log := mocks.NewMockLogger(ctrl)
	tel := mocks.NewMockTelemetry(ctrl)
	vtx := mocks.NewMockVertex(ctrl)

	tel.EXPECT().Record(gomock.Any(), "scan modules for Planet", gomock.Any()).Return(context.Background(), vtx)
	tel.EXPECT().Record(gomock.Any(), "warm type cache").Return(context.Background(), vtx)
	tel.EXPECT().Record(gomock.Any(), "resolve Planet", gomock.Any()).Return(context.Background(), vtx)
	vtx.EXPECT().Complete(nil).Times(3)
	vtx.EXPECT().Cached().Times(1)

	catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})
	catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil)
	fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)
	store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	c := discovery.New(catalog, store, fp, log, tel, discovery.WithGameVersion("1.4.2"))
	if _, err := c.FindType(context.Background(), "Planet"); err != nil {
		t.Fatalf("FindType failed: %v", err)
	}

	// Warming a name that is already resolved performs no catalog work.
	if _, err := c.Warmup(context.Background(), []string{"Planet"}); err != nil {
		t.Fatalf("Warmup failed: %v", err)
	}
	c.Flush()
}

func TestCache_ResolveMethod(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

	// The first candidate is a getter name from an older game build; the
	// second one is present on the resolved type.
	capability := domain.Capability{
		Name:       "average temperature",
		Candidates: []string{"GetAvgTemperature", "GetAverageTemperature"},
	}

	desc, method, err := c.ResolveMethod(context.Background(), "Planet", capability)
	if err != nil {
		t.Fatalf("ResolveMethod failed: %v", err)
	}
	if desc.FullName != "Game.Simulation.Planet" {
		t.Errorf("unexpected type: %s", desc.FullName)
	}
	if method.Name != "GetAverageTemperature" {
		t.Errorf("expected the first present candidate to win, got %s", method.Name)
	}
	c.Flush()
}

func TestCache_ResolveMethod_DefaultsToCapabilityName(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

	capability := domain.Capability{Name: "GetAtmosphereDensity"}

	_, method, err := c.ResolveMethod(context.Background(), "Planet", capability)
	if err != nil {
		t.Fatalf("ResolveMethod failed: %v", err)
	}
	if method.Name != "GetAtmosphereDensity" {
		t.Errorf("expected the capability name itself to resolve, got %s", method.Name)
	}
	c.Flush()
}

func TestCache_ResolveMethod_MethodMissing(t *testing.T) {
	c, m := newCache(t)
	m.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{planetType()}, nil)
	m.fp.EXPECT().Fingerprint(coreModule).Return("aaa", nil)

	capability := domain.Capability{Name: "GetColonistMood"}

	_, _, err := c.ResolveMethod(context.Background(), "Planet", capability)
	if !errors.Is(err, domain.ErrMethodNotFound) {
		t.Fatalf("expected ErrMethodNotFound, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T: %v", err, err)
	}
	meta := zErr.Metadata()
	if meta["type"] != "Game.Simulation.Planet" {
		t.Errorf("unexpected type metadata: %v", meta["type"])
	}
	if meta["capability"] != "GetColonistMood" {
		t.Errorf("unexpected capability metadata: %v", meta["capability"])
	}
	c.Flush()
}

func TestCache_ResolveMethod_TypeMissing(t *testing.T) {
	c, m := newCache(t)
	m.catalog.EXPECT().Modules().Return([]domain.ModuleRef{coreModule})
	m.catalog.EXPECT().ExportedTypes("core").Return([]domain.TypeDescriptor{atmosphereType()}, nil)

	capability := domain.Capability{Name: "GetAverageTemperature"}

	_, _, err := c.ResolveMethod(context.Background(), "Planet", capability)
	if !errors.Is(err, domain.ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}
