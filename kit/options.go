package kit

import (
	"time"

	"github.com/PerAsperaMods/modkit/engine/discovery"
)

// Option configures a Kit before it starts.
type Option func(*Kit)

// WithGameVersion pins the type cache to a game build. Persisted entries
// from other builds are discarded on load.
func WithGameVersion(version string) Option {
	return func(k *Kit) {
		k.cacheOpts = append(k.cacheOpts, discovery.WithGameVersion(version))
	}
}

// WithMaxAge bounds how long persisted cache entries stay valid.
func WithMaxAge(d time.Duration) Option {
	return func(k *Kit) {
		k.cacheOpts = append(k.cacheOpts, discovery.WithMaxAge(d))
	}
}

// WithVerifyInterval sets how often resolved entries are re-checked against
// the module fingerprint.
func WithVerifyInterval(d time.Duration) Option {
	return func(k *Kit) {
		k.cacheOpts = append(k.cacheOpts, discovery.WithVerifyInterval(d))
	}
}

// WithWarmupParallelism caps concurrent resolutions during warmup.
func WithWarmupParallelism(n int) Option {
	return func(k *Kit) {
		k.cacheOpts = append(k.cacheOpts, discovery.WithWarmupParallelism(n))
	}
}

// WithPresets queues preset files to apply on Start, in order.
func WithPresets(paths ...string) Option {
	return func(k *Kit) {
		k.presetPaths = append(k.presetPaths, paths...)
	}
}

// WithWarmup queues type names to resolve on Start, before any preset
// warmup lists.
func WithWarmup(names ...string) Option {
	return func(k *Kit) {
		k.warmup = append(k.warmup, names...)
	}
}

// WithWatchRoot enables the module watcher on the given directory. File
// changes under a module's directory drop that module's cached types.
func WithWatchRoot(root string) Option {
	return func(k *Kit) {
		k.watchRoot = root
	}
}

// WithDebounceWindow sets how long file events are batched before the cache
// is invalidated.
func WithDebounceWindow(d time.Duration) Option {
	return func(k *Kit) {
		if d > 0 {
			k.debounceWindow = d
		}
	}
}
