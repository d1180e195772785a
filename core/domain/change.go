package domain

// ChangeKind classifies a change to the override registry.
type ChangeKind uint8

const (
	// OverrideRegistered indicates an override was added or replaced.
	OverrideRegistered ChangeKind = iota
	// OverrideUnregistered indicates an override was removed.
	OverrideUnregistered
	// OverrideValueChanged indicates the configured value of an override changed.
	OverrideValueChanged
	// OverrideToggled indicates an override was enabled or disabled.
	OverrideToggled
)

// String returns a human-readable name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case OverrideRegistered:
		return "registered"
	case OverrideUnregistered:
		return "unregistered"
	case OverrideValueChanged:
		return "value_changed"
	case OverrideToggled:
		return "toggled"
	default:
		return "unknown"
	}
}

// ChangeEvent notifies listeners about a change to a registered override.
type ChangeEvent struct {
	Key  OverrideKey
	Kind ChangeKind
}
