package testutil

// FixedSessionGenerator returns the same session id every time.
//
// Managers built with it log a predictable session attribute, which keeps
// captured log output stable across runs.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id.
// If id is empty, Generate() returns "test-session".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "test-session"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session id.
//
// Implements manager.SessionIDGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
