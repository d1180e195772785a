package kit

import (
	"context"
	"fmt"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/engine/override"
	"go.trai.ch/zerr"
)

// applyPreset registers every override the preset file declares. When an
// entry lists method candidates they are resolved against the live game
// build and the first method present wins; if none resolves the override is
// registered under the declared capability name so it can still be inspected
// and enabled later.
func (k *Kit) applyPreset(ctx context.Context, pf *domain.PresetFile) {
	for _, ov := range pf.Overrides {
		owner := ov.Owner.String()
		method := ov.Capability.Name
		if len(ov.Capability.Candidates) > 0 {
			if _, m, err := k.types.ResolveMethod(ctx, owner, ov.Capability); err == nil {
				method = m.Name
			} else {
				k.log.Warn(fmt.Sprintf("no method candidate for %s resolved, keeping %s", ov.Key(), method))
			}
		}

		switch ov.Kind {
		case domain.KindFloat:
			override.Register(k.overrides, numericConfig[float64](owner, method, ov))
		case domain.KindInt:
			override.Register(k.overrides, numericConfig[int64](owner, method, ov))
		case domain.KindBool:
			override.Register(k.overrides, plainConfig[bool](owner, method, ov))
		case domain.KindString:
			override.Register(k.overrides, plainConfig[string](owner, method, ov))
		}
	}
}

// numericConfig builds a config for a numeric preset entry. The loader
// guarantees Value, Low, High, Min and Max already hold the dynamic type
// matching the entry's kind, so the assertions cannot fail on a loaded file.
func numericConfig[T override.Number](owner, method string, ov domain.PresetOverride) *override.Config[T] {
	opts := []override.ConfigOption[T]{
		override.WithDisplay[T](ov.Display, ov.Category),
		override.Enabled[T](ov.Enabled),
	}
	switch ov.Strategy {
	case domain.StrategyMultiply:
		opts = append(opts, override.WithStrategy(override.Multiply[T]()))
	case domain.StrategyClamp:
		opts = append(opts, override.WithStrategy(override.Clamp[T](ov.Low.(T), ov.High.(T))))
	}
	if ov.Min != nil || ov.Max != nil {
		opts = append(opts, override.WithValidator(boundsValidator[T](ov.Min, ov.Max)))
	}
	return override.NewConfig(owner, method, ov.Value.(T), opts...)
}

// plainConfig builds a config for a bool or string entry. Those kinds only
// support the replace strategy.
func plainConfig[T any](owner, method string, ov domain.PresetOverride) *override.Config[T] {
	return override.NewConfig(owner, method, ov.Value.(T),
		override.WithDisplay[T](ov.Display, ov.Category),
		override.Enabled[T](ov.Enabled),
	)
}

// boundsValidator rejects values outside the configured bounds. A nil bound
// leaves that side open.
func boundsValidator[T override.Number](minBound, maxBound any) func(T) error {
	return func(v T) error {
		if minBound != nil {
			if lo := minBound.(T); v < lo {
				return zerr.With(zerr.New("value below the allowed minimum"), "minimum", lo)
			}
		}
		if maxBound != nil {
			if hi := maxBound.(T); v > hi {
				return zerr.With(zerr.New("value above the allowed maximum"), "maximum", hi)
			}
		}
		return nil
	}
}
