package override

import (
	"sync/atomic"

	"github.com/PerAsperaMods/modkit/core/domain"
	"go.trai.ch/zerr"
)

// state is the atomically swapped mutable part of a Config.
type state[T any] struct {
	value   T
	enabled bool
}

// Config carries one override's identity, strategy, and current value.
// Reads happen on the game's getter hot path, so the mutable state sits
// behind an atomic pointer instead of a mutex.
type Config[T any] struct {
	key      domain.OverrideKey
	display  string
	category string
	def      T
	strategy Strategy[T]
	validate func(T) error

	state  atomic.Pointer[state[T]]
	notify atomic.Pointer[func(domain.ChangeKind)]
}

// ConfigOption configures a Config at construction time.
type ConfigOption[T any] func(*Config[T])

// WithStrategy sets how the configured value combines with the original.
// The default strategy is Replace.
func WithStrategy[T any](s Strategy[T]) ConfigOption[T] {
	return func(c *Config[T]) { c.strategy = s }
}

// WithDisplay sets the human-readable name and category shown by frontends.
func WithDisplay[T any](display, category string) ConfigOption[T] {
	return func(c *Config[T]) {
		c.display = display
		c.category = category
	}
}

// WithValidator rejects configured values before they are stored. The
// default value is not validated; it is trusted as authored.
func WithValidator[T any](fn func(T) error) ConfigOption[T] {
	return func(c *Config[T]) { c.validate = fn }
}

// Enabled sets the initial enabled state. Overrides start disabled so that
// registering a config never changes game behavior on its own.
func Enabled[T any](enabled bool) ConfigOption[T] {
	return func(c *Config[T]) {
		s := c.state.Load()
		c.state.Store(&state[T]{value: s.value, enabled: enabled})
	}
}

// NewConfig builds a Config for the given owner type and method, holding def
// as both the initial and the reset value.
func NewConfig[T any](owner, method string, def T, opts ...ConfigOption[T]) *Config[T] {
	c := &Config[T]{
		key:      domain.NewOverrideKey(owner, method),
		def:      def,
		strategy: Replace[T](),
	}
	c.state.Store(&state[T]{value: def})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the override key this config targets.
func (c *Config[T]) Key() domain.OverrideKey { return c.key }

// Value returns the current configured value.
func (c *Config[T]) Value() T { return c.state.Load().value }

// Default returns the value the config was constructed with.
func (c *Config[T]) Default() T { return c.def }

// Enabled reports whether the override currently applies.
func (c *Config[T]) Enabled() bool { return c.state.Load().enabled }

// Set stores a new configured value after validation. The enabled state is
// preserved.
func (c *Config[T]) Set(value T) error {
	if c.validate != nil {
		if err := c.validate(value); err != nil {
			return zerr.With(zerr.Wrap(err, "override value rejected"), "override", c.key.String())
		}
	}
	for {
		old := c.state.Load()
		if c.state.CompareAndSwap(old, &state[T]{value: value, enabled: old.enabled}) {
			break
		}
	}
	c.emit(domain.OverrideValueChanged)
	return nil
}

// Reset restores the default value, leaving the enabled state untouched.
func (c *Config[T]) Reset() {
	for {
		old := c.state.Load()
		if c.state.CompareAndSwap(old, &state[T]{value: c.def, enabled: old.enabled}) {
			break
		}
	}
	c.emit(domain.OverrideValueChanged)
}

// SetEnabled toggles whether the override applies. Disabling never discards
// the configured value.
func (c *Config[T]) SetEnabled(enabled bool) {
	for {
		old := c.state.Load()
		if old.enabled == enabled {
			return
		}
		if c.state.CompareAndSwap(old, &state[T]{value: old.value, enabled: enabled}) {
			break
		}
	}
	c.emit(domain.OverrideToggled)
}

// Info returns a read-only snapshot of the config.
func (c *Config[T]) Info() domain.OverrideInfo {
	s := c.state.Load()
	return domain.OverrideInfo{
		Key:      c.key,
		Display:  c.display,
		Category: c.category,
		Enabled:  s.enabled,
		Value:    s.value,
		Default:  c.def,
	}
}

// apply runs the strategy against the original value. It reports false when
// the override is disabled.
func (c *Config[T]) apply(original T, instance any) (T, bool) {
	s := c.state.Load()
	if !s.enabled {
		return original, false
	}
	return c.strategy(original, s.value, instance), true
}

// applyAny is the type-erased apply used by reflective hosts. A value of the
// wrong dynamic type is an error, not a silent pass-through, so the caller
// can count it.
func (c *Config[T]) applyAny(original, instance any) (any, bool, error) {
	o, ok := original.(T)
	if !ok {
		return original, false, zerr.With(zerr.New("override value type mismatch"), "override", c.key.String())
	}
	v, applied := c.apply(o, instance)
	if !applied {
		return original, false, nil
	}
	return v, true, nil
}

// attach wires change notification to the owning registry.
func (c *Config[T]) attach(fn func(domain.ChangeKind)) {
	c.notify.Store(&fn)
}

// detach disconnects change notification.
func (c *Config[T]) detach() {
	c.notify.Store(nil)
}

func (c *Config[T]) emit(kind domain.ChangeKind) {
	if fn := c.notify.Load(); fn != nil {
		(*fn)(kind)
	}
}
