package domain

// OverrideKey identifies an override by the owning type and method name.
// At most one override is active per key.
// It uses InternedString because the same type and method names are repeated
// across overrides, cache entries, and change events.
type OverrideKey struct {
	Owner  InternedString
	Method InternedString
}

// NewOverrideKey builds a key from an owner type name and a method name.
func NewOverrideKey(owner, method string) OverrideKey {
	return OverrideKey{
		Owner:  NewInternedString(owner),
		Method: NewInternedString(method),
	}
}

// String returns the key in "Owner.Method" form.
func (k OverrideKey) String() string {
	return k.Owner.String() + "." + k.Method.String()
}
