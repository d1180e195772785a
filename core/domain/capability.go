package domain

// Capability names a behavior a mod wants to reach on a type, together with
// the ordered method names that may provide it. Different game builds rename
// getters occasionally; candidates are tried in order and the first method
// present on the type wins.
type Capability struct {
	Name       string
	Candidates []string
}

// MethodCandidates returns the candidate method names to probe, in priority
// order. When no explicit candidates are configured the capability name
// itself is the only candidate.
func (c Capability) MethodCandidates() []string {
	if len(c.Candidates) == 0 {
		return []string{c.Name}
	}
	return c.Candidates
}
