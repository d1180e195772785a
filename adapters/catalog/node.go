package catalog

import (
	"context"

	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.module_catalog"

func init() {
	graft.Register(graft.Node[ports.ModuleCatalog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ModuleCatalog, error) {
			return NewStatic(), nil
		},
	})
}
