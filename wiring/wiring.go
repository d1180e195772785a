// Package wiring registers all Graft nodes for the SDK.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/PerAsperaMods/modkit/adapters/cachefile"
	_ "github.com/PerAsperaMods/modkit/adapters/catalog"
	_ "github.com/PerAsperaMods/modkit/adapters/checksum"
	_ "github.com/PerAsperaMods/modkit/adapters/logger"
	_ "github.com/PerAsperaMods/modkit/adapters/presets"
	_ "github.com/PerAsperaMods/modkit/adapters/telemetry/progrock"
	_ "github.com/PerAsperaMods/modkit/adapters/watcher"
	// Register engine and kit nodes.
	_ "github.com/PerAsperaMods/modkit/engine/discovery"
	_ "github.com/PerAsperaMods/modkit/engine/override"
	_ "github.com/PerAsperaMods/modkit/kit"
)
