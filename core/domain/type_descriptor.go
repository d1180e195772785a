package domain

// TypeDescriptor describes an exported type of a loaded module, including the
// getter methods that can be targeted by overrides.
type TypeDescriptor struct {
	Name      string
	FullName  string
	Namespace string
	Module    ModuleRef
	Methods   []MethodDescriptor
}

// MethodDescriptor describes a single method of a type. ReturnType is the
// symbolic return type name as reported by the host and is informational only.
type MethodDescriptor struct {
	Name       string
	ReturnType string
}

// Method returns the method with the given name, if the type has one.
func (t TypeDescriptor) Method(name string) (MethodDescriptor, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// Matches reports whether the descriptor answers a lookup for the given name.
// Both the short name and the namespace-qualified full name are accepted.
func (t TypeDescriptor) Matches(name string) bool {
	return t.Name == name || t.FullName == name
}
