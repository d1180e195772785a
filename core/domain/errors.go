package domain

import "go.trai.ch/zerr"

var (
	// ErrCorruptIndex is returned when a persisted cache index cannot be decoded.
	ErrCorruptIndex = zerr.New("corrupt cache index")

	// ErrModuleUnknown is returned when a module name is not present in the catalog.
	ErrModuleUnknown = zerr.New("module unknown")

	// ErrTypeNotFound is returned when no loaded module exports the requested type.
	ErrTypeNotFound = zerr.New("type not found")

	// ErrMethodNotFound is returned when none of a capability's candidate
	// methods exist on the resolved type.
	ErrMethodNotFound = zerr.New("method not found")

	// ErrUnknownStrategy is returned when a preset names a strategy that does not exist.
	ErrUnknownStrategy = zerr.New("unknown strategy")

	// ErrUnknownValueType is returned when a preset declares an unsupported value type.
	ErrUnknownValueType = zerr.New("unknown value type")

	// ErrDuplicateOverride is returned when a preset document targets the same
	// owner and method twice.
	ErrDuplicateOverride = zerr.New("duplicate override entry")
)
