package kit

import (
	"context"
	"os"

	"github.com/PerAsperaMods/modkit/adapters/cachefile"          //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/catalog"            //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/checksum"           //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/presets"            //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/adapters/watcher"            //nolint:depguard // Wired in engine wiring
	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/PerAsperaMods/modkit/engine/discovery"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the assembled Kit Graft node.
const NodeID graft.ID = "kit.main"

// ModsDirEnv names the environment variable holding the module directory to
// watch. When unset the Kit runs without a watcher.
const ModsDirEnv = "MODKIT_MODS_DIR"

func init() {
	graft.Register(graft.Node[*Kit]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			cachefile.NodeID,
			checksum.NodeID,
			logger.NodeID,
			progrock.NodeID,
			presets.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*Kit, error) {
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

			loader, err := graft.Dep[ports.PresetLoader](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			opts := []Option{
				WithGameVersion(os.Getenv(discovery.GameVersionEnv)),
			}
			if root := os.Getenv(ModsDirEnv); root != "" {
				opts = append(opts, WithWatchRoot(root))
			}

			return New(Deps{
				Catalog:      cat,
				Store:        store,
				Fingerprint:  fp,
				Logger:       log,
				Telemetry:    tel,
				Watcher:      w,
				PresetLoader: loader,
			}, opts...)
		},
	})
}
