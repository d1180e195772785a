package checksum

import (
	"context"

	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.fingerprinter"

func init() {
	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			return New(), nil
		},
	})
}
