package domain

// ValueKind identifies the Go type an override value decodes to.
type ValueKind uint8

const (
	KindFloat ValueKind = iota
	KindInt
	KindBool
	KindString
)

// String returns the preset file spelling of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of this kind support arithmetic strategies.
func (k ValueKind) Numeric() bool {
	return k == KindFloat || k == KindInt
}

// StrategyKind identifies how a configured value combines with the original
// getter result.
type StrategyKind uint8

const (
	StrategyReplace StrategyKind = iota
	StrategyMultiply
	StrategyClamp
)

// String returns the preset file spelling of the strategy.
func (k StrategyKind) String() string {
	switch k {
	case StrategyReplace:
		return "replace"
	case StrategyMultiply:
		return "multiply"
	case StrategyClamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// PresetOverride is one decoded override entry from a preset document.
//
// Value, Low, High, Min and Max all hold the same dynamic type selected by
// Kind: float64 for KindFloat, int64 for KindInt, bool for KindBool and
// string for KindString. Low and High are set only for StrategyClamp; Min
// and Max are nil when the entry declares no validation bounds.
type PresetOverride struct {
	Owner      InternedString
	Capability Capability
	Display    string
	Category   string
	Kind       ValueKind
	Strategy   StrategyKind
	Value      any
	Low        any
	High       any
	Min        any
	Max        any
	Enabled    bool
}

// Key returns the override key this entry targets. The capability name is the
// primary method; aliases are resolved against the live game build when the
// override is attached.
func (p PresetOverride) Key() OverrideKey {
	return OverrideKey{
		Owner:  p.Owner,
		Method: NewInternedString(p.Capability.Name),
	}
}

// PresetFile is a decoded, validated preset document.
type PresetFile struct {
	Version   string
	Warmup    []string
	Overrides []PresetOverride
}
