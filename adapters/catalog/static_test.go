package catalog_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/PerAsperaMods/modkit/adapters/catalog"
	"github.com/PerAsperaMods/modkit/core/domain"
)

func TestStatic_OrderIsPriorityOrder(t *testing.T) {
	c := catalog.NewStatic()
	c.Add(domain.ModuleRef{Name: "Assembly-CSharp"})
	c.Add(domain.ModuleRef{Name: "Assembly-CSharp-firstpass"})
	c.Add(domain.ModuleRef{Name: "ModRuntime"})

	mods := c.Modules()
	if len(mods) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(mods))
	}
	want := []string{"Assembly-CSharp", "Assembly-CSharp-firstpass", "ModRuntime"}
	for i, name := range want {
		if mods[i].Name != name {
			t.Errorf("expected module %d to be %s, got %s", i, name, mods[i].Name)
		}
	}
}

func TestStatic_ReAddKeepsPosition(t *testing.T) {
	c := catalog.NewStatic()
	c.Add(domain.ModuleRef{Name: "First"}, domain.TypeDescriptor{Name: "Old"})
	c.Add(domain.ModuleRef{Name: "Second"})

	// Re-adding replaces types but must not demote the module.
	c.Add(domain.ModuleRef{Name: "First"}, domain.TypeDescriptor{Name: "New"})

	mods := c.Modules()
	if mods[0].Name != "First" {
		t.Errorf("expected First to keep priority position, got %s", mods[0].Name)
	}

	if _, ok := c.LookupType("First", "Old"); ok {
		t.Error("expected replaced type to be gone")
	}
	if _, ok := c.LookupType("First", "New"); !ok {
		t.Error("expected new type to be present")
	}
}

func TestStatic_ExportedTypes(t *testing.T) {
	c := catalog.NewStatic()
	ref := domain.ModuleRef{Name: "Assembly-CSharp", Version: "1.6.2"}
	c.Add(ref,
		domain.TypeDescriptor{Name: "Planet", FullName: "Game.World.Planet"},
		domain.TypeDescriptor{Name: "Colonist", FullName: "Game.World.Colonist"},
	)

	types, err := c.ExportedTypes("Assembly-CSharp")
	if err != nil {
		t.Fatalf("ExportedTypes failed: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(types))
	}

	// Descriptors are stamped with the owning module.
	if types[0].Module != ref {
		t.Errorf("expected descriptor stamped with module ref, got %+v", types[0].Module)
	}

	_, err = c.ExportedTypes("Nope")
	if !errors.Is(err, domain.ErrModuleUnknown) {
		t.Errorf("expected ErrModuleUnknown, got %v", err)
	}
}

func TestStatic_LookupType(t *testing.T) {
	c := catalog.NewStatic()
	c.Add(domain.ModuleRef{Name: "Assembly-CSharp"},
		domain.TypeDescriptor{Name: "Planet", FullName: "Game.World.Planet"},
	)

	if _, ok := c.LookupType("Assembly-CSharp", "Planet"); !ok {
		t.Error("expected lookup by short name to succeed")
	}
	if _, ok := c.LookupType("Assembly-CSharp", "Game.World.Planet"); !ok {
		t.Error("expected lookup by full name to succeed")
	}
	if _, ok := c.LookupType("Assembly-CSharp", "Moon"); ok {
		t.Error("expected lookup of missing type to fail")
	}
	if _, ok := c.LookupType("Nope", "Planet"); ok {
		t.Error("expected lookup in unknown module to fail")
	}
}

func TestStatic_Remove(t *testing.T) {
	c := catalog.NewStatic()
	c.Add(domain.ModuleRef{Name: "A"})
	c.Add(domain.ModuleRef{Name: "B"})

	if !c.Remove("A") {
		t.Error("expected Remove of registered module to return true")
	}
	if c.Remove("A") {
		t.Error("expected Remove of missing module to return false")
	}

	mods := c.Modules()
	if len(mods) != 1 || mods[0].Name != "B" {
		t.Errorf("unexpected modules after removal: %v", mods)
	}
}

func TestStatic_ConcurrentAccess(t *testing.T) {
	c := catalog.NewStatic()
	c.Add(domain.ModuleRef{Name: "Assembly-CSharp"},
		domain.TypeDescriptor{Name: "Planet"},
	)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Add(domain.ModuleRef{Name: "ModRuntime"}, domain.TypeDescriptor{Name: "Hook"})
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				_, _ = c.LookupType("Assembly-CSharp", "Planet")
				_ = c.Modules()
			}
		}()
	}
	wg.Wait()
}
