package discovery

import (
	"context"
	"os"

	"github.com/PerAsperaMods/modkit/adapters/cachefile"          //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/catalog"            //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/checksum"           //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the discovery cache Graft node.
const NodeID graft.ID = "engine.discovery_cache"

// GameVersionEnv names the environment variable that pins the game build the
// cache is valid for.
const GameVersionEnv = "MODKIT_GAME_VERSION"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			cachefile.NodeID,
			checksum.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			cat, err := graft.Dep[ports.ModuleCatalog](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.IndexStore](ctx)
			if err != nil {
				return nil, err
			}

			fp, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				cat,
				store,
				fp,
				log,
				tel,
				WithGameVersion(os.Getenv(GameVersionEnv)),
			), nil
		},
	})
}
