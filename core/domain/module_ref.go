// Package domain contains the core domain models for type discovery and getter overrides.
package domain

// ModuleRef identifies a loaded code module of the host process.
// Path is empty for modules that exist only in memory and have no backing file.
type ModuleRef struct {
	Name    string
	Path    string
	Version string
}

// InMemory reports whether the module has no backing file on disk.
func (m ModuleRef) InMemory() bool {
	return m.Path == ""
}

// String returns the module name, with the version appended when known.
func (m ModuleRef) String() string {
	if m.Version == "" {
		return m.Name
	}
	return m.Name + "@" + m.Version
}
