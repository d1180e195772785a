package override

import (
	"context"

	"github.com/PerAsperaMods/modkit/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the override registry Graft node.
const NodeID graft.ID = "engine.override_registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Registry, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
