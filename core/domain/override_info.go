package domain

// OverrideInfo is a read-only snapshot of a registered override, taken for
// frontends and diagnostics. Value and Default carry the override's concrete
// value type.
type OverrideInfo struct {
	Key      OverrideKey
	Display  string
	Category string
	Enabled  bool
	Value    any
	Default  any
}
