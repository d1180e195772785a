package override

import "cmp"

// Number constrains the numeric getter result types strategies can scale.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Strategy computes the value a patched getter returns. original is the value
// the game computed, configured is the override's current value, and instance
// is the game object the getter was invoked on. Strategies are pure functions
// of their inputs and must not retain instance.
type Strategy[T any] func(original, configured T, instance any) T

// Replace discards the original value and returns the configured one.
func Replace[T any]() Strategy[T] {
	return func(_, configured T, _ any) T {
		return configured
	}
}

// Multiply scales the original value by the configured factor.
func Multiply[T Number]() Strategy[T] {
	return func(original, configured T, _ any) T {
		return original * configured
	}
}

// Clamp bounds the original value to [lo, hi]. The configured value is
// ignored; the bounds are fixed at construction.
func Clamp[T cmp.Ordered](lo, hi T) Strategy[T] {
	return func(original, _ T, _ any) T {
		return min(max(original, lo), hi)
	}
}
