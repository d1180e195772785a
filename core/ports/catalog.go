package ports

import "github.com/PerAsperaMods/modkit/core/domain"

// ModuleCatalog enumerates the modules loaded into the host process and the
// types they export. The catalog's module order is the scan priority order:
// when several modules export a type with the same name, the earliest module
// wins.
//
//go:generate mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type ModuleCatalog interface {
	// Modules returns the known modules in scan priority order.
	Modules() []domain.ModuleRef

	// ExportedTypes returns the exported types of the named module.
	ExportedTypes(module string) ([]domain.TypeDescriptor, error)

	// LookupType returns the named type from a single module without a full
	// scan. Both short and namespace-qualified names are accepted.
	LookupType(module, typeName string) (domain.TypeDescriptor, bool)
}
