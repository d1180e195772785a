package presets

import (
	"context"

	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.preset_loader"

func init() {
	graft.Register(graft.Node[ports.PresetLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PresetLoader, error) {
			return NewLoader(), nil
		},
	})
}
