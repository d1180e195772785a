package cachefile

import (
	"context"

	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.index_store"

func init() {
	graft.Register(graft.Node[ports.IndexStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.IndexStore, error) {
			path, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			return NewStore(path), nil
		},
	})
}
