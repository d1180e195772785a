package presets

// Presetfile represents the structure of a preset YAML document.
type Presetfile struct {
	Version   string        `yaml:"version"`
	Warmup    []string      `yaml:"warmup"`
	Overrides []OverrideDTO `yaml:"overrides"`
}

// OverrideDTO represents a single override entry in a preset document.
//
// Value, Low, High, Min and Max stay untyped here; the loader coerces them
// against the declared Type.
type OverrideDTO struct {
	Owner    string   `yaml:"owner"`
	Method   string   `yaml:"method"`
	Aliases  []string `yaml:"aliases"`
	Display  string   `yaml:"display"`
	Category string   `yaml:"category"`
	Type     string   `yaml:"type"`
	Strategy string   `yaml:"strategy"`
	Value    any      `yaml:"value"`
	Low      any      `yaml:"low"`
	High     any      `yaml:"high"`
	Min      any      `yaml:"min"`
	Max      any      `yaml:"max"`
	Enabled  bool     `yaml:"enabled"`
}
