// Package presets provides the YAML loader for override preset documents.
package presets

import (
	"fmt"
	"os"
	"strings"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.PresetLoader = (*Loader)(nil)

// Loader implements ports.PresetLoader using YAML files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements ports.PresetLoader.
func (l *Loader) Load(path string) (*domain.PresetFile, error) {
	return Load(path)
}

// Load reads a preset document from the given path and returns its decoded,
// validated form. A document either loads completely or not at all.
func Load(path string) (*domain.PresetFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read preset file")
	}

	var file Presetfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse preset file")
	}

	// First pass: reject documents that target the same getter twice. A later
	// entry would silently shadow the earlier one at registration time.
	seen := make(map[domain.OverrideKey]int, len(file.Overrides))
	for i, dto := range file.Overrides {
		key := domain.NewOverrideKey(dto.Owner, dto.Method)
		if first, ok := seen[key]; ok {
			err := zerr.With(domain.ErrDuplicateOverride, "override", key.String())
			err = zerr.With(err, "first_entry", first)
			err = zerr.With(err, "duplicate_entry", i)
			return nil, err
		}
		seen[key] = i
	}

	out := &domain.PresetFile{Version: file.Version}

	for i, name := range file.Warmup {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, zerr.With(zerr.New("warmup type name is empty"), "entry", i)
		}
		out.Warmup = append(out.Warmup, name)
	}

	// Second pass: decode each entry against its declared type and strategy.
	for i, dto := range file.Overrides {
		ov, err := decodeOverride(dto)
		if err != nil {
			return nil, zerr.With(err, "entry", i)
		}
		out.Overrides = append(out.Overrides, ov)
	}

	return out, nil
}

func decodeOverride(dto OverrideDTO) (domain.PresetOverride, error) {
	var zero domain.PresetOverride

	if dto.Owner == "" {
		return zero, zerr.New("override owner is required")
	}
	if dto.Method == "" {
		return zero, zerr.With(zerr.New("override method is required"), "owner", dto.Owner)
	}

	key := domain.NewOverrideKey(dto.Owner, dto.Method)

	kind, err := parseKind(dto.Type)
	if err != nil {
		return zero, zerr.With(err, "override", key.String())
	}

	strategy, err := parseStrategy(dto.Strategy)
	if err != nil {
		return zero, zerr.With(err, "override", key.String())
	}

	if strategy != domain.StrategyReplace && !kind.Numeric() {
		err := zerr.With(zerr.New("strategy requires a numeric value type"), "strategy", strategy.String())
		err = zerr.With(err, "value_type", kind.String())
		return zero, zerr.With(err, "override", key.String())
	}

	// Clamp bounds the original value, so a configured value is optional there.
	value := dto.Value
	if strategy == domain.StrategyClamp && value == nil {
		value = zeroOf(kind)
	} else {
		v, err := coerce(kind, value)
		if err != nil {
			return zero, zerr.With(zerr.With(err, "field", "value"), "override", key.String())
		}
		value = v
	}

	ov := domain.PresetOverride{
		Owner:      domain.NewInternedString(dto.Owner),
		Capability: capabilityFor(dto),
		Display:    dto.Display,
		Category:   dto.Category,
		Kind:       kind,
		Strategy:   strategy,
		Value:      value,
		Enabled:    dto.Enabled,
	}

	switch {
	case strategy == domain.StrategyClamp:
		if dto.Low == nil || dto.High == nil {
			return zero, zerr.With(zerr.New("clamp strategy requires low and high bounds"), "override", key.String())
		}
		low, err := coerce(kind, dto.Low)
		if err != nil {
			return zero, zerr.With(zerr.With(err, "field", "low"), "override", key.String())
		}
		high, err := coerce(kind, dto.High)
		if err != nil {
			return zero, zerr.With(zerr.With(err, "field", "high"), "override", key.String())
		}
		if !boundsOrdered(kind, low, high) {
			err := zerr.With(zerr.New("clamp bounds are inverted"), "low", fmt.Sprintf("%v", low))
			err = zerr.With(err, "high", fmt.Sprintf("%v", high))
			return zero, zerr.With(err, "override", key.String())
		}
		ov.Low, ov.High = low, high
	case dto.Low != nil || dto.High != nil:
		return zero, zerr.With(zerr.New("low and high bounds are only valid for the clamp strategy"), "override", key.String())
	}

	if dto.Min != nil || dto.Max != nil {
		if !kind.Numeric() {
			return zero, zerr.With(zerr.New("validation bounds require a numeric value type"), "override", key.String())
		}
		if dto.Min != nil {
			m, err := coerce(kind, dto.Min)
			if err != nil {
				return zero, zerr.With(zerr.With(err, "field", "min"), "override", key.String())
			}
			ov.Min = m
		}
		if dto.Max != nil {
			m, err := coerce(kind, dto.Max)
			if err != nil {
				return zero, zerr.With(zerr.With(err, "field", "max"), "override", key.String())
			}
			ov.Max = m
		}
		if ov.Min != nil && ov.Max != nil && !boundsOrdered(kind, ov.Min, ov.Max) {
			err := zerr.With(zerr.New("validation bounds are inverted"), "min", fmt.Sprintf("%v", ov.Min))
			err = zerr.With(err, "max", fmt.Sprintf("%v", ov.Max))
			return zero, zerr.With(err, "override", key.String())
		}
	}

	return ov, nil
}

func capabilityFor(dto OverrideDTO) domain.Capability {
	c := domain.Capability{Name: dto.Method}
	if len(dto.Aliases) > 0 {
		c.Candidates = append([]string{dto.Method}, dto.Aliases...)
	}
	return c
}

func parseKind(s string) (domain.ValueKind, error) {
	switch s {
	case "float":
		return domain.KindFloat, nil
	case "int":
		return domain.KindInt, nil
	case "bool":
		return domain.KindBool, nil
	case "string":
		return domain.KindString, nil
	case "":
		return 0, zerr.New("override value type is required")
	default:
		return 0, zerr.With(domain.ErrUnknownValueType, "value_type", s)
	}
}

func parseStrategy(s string) (domain.StrategyKind, error) {
	switch s {
	case "replace", "":
		return domain.StrategyReplace, nil
	case "multiply":
		return domain.StrategyMultiply, nil
	case "clamp":
		return domain.StrategyClamp, nil
	default:
		return 0, zerr.With(domain.ErrUnknownStrategy, "strategy", s)
	}
}

// coerce narrows a decoded YAML value to the single Go type used for the
// declared kind. YAML integers arrive as int or int64 depending on magnitude.
func coerce(kind domain.ValueKind, raw any) (any, error) {
	switch kind {
	case domain.KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case domain.KindInt:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case domain.KindBool:
		if v, ok := raw.(bool); ok {
			return v, nil
		}
	case domain.KindString:
		if v, ok := raw.(string); ok {
			return v, nil
		}
	}

	if raw == nil {
		return nil, zerr.With(zerr.New("override value is missing"), "value_type", kind.String())
	}
	err := zerr.With(zerr.New("override value does not match its declared type"), "value_type", kind.String())
	return nil, zerr.With(err, "value", fmt.Sprintf("%v", raw))
}

func zeroOf(kind domain.ValueKind) any {
	switch kind {
	case domain.KindFloat:
		return float64(0)
	case domain.KindInt:
		return int64(0)
	case domain.KindBool:
		return false
	default:
		return ""
	}
}

func boundsOrdered(kind domain.ValueKind, lo, hi any) bool {
	switch kind {
	case domain.KindFloat:
		return lo.(float64) <= hi.(float64)
	case domain.KindInt:
		return lo.(int64) <= hi.(int64)
	default:
		return false
	}
}
