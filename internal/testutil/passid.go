package testutil

// FixedPassIDGenerator returns the same pass id every time.
//
// Decision reports exclude the pass id, but ledger rows and log lines carry
// it; a fixed id keeps those byte-identical across test runs.
//
// Thread-safety: FixedPassIDGenerator is stateless and safe for concurrent use.
type FixedPassIDGenerator struct {
	id string
}

// NewFixedPassIDGenerator creates a fixed pass id generator.
// If id is empty, Generate() returns "test-pass-default".
func NewFixedPassIDGenerator(id string) *FixedPassIDGenerator {
	if id == "" {
		id = "test-pass-default"
	}
	return &FixedPassIDGenerator{id: id}
}

// Generate returns the fixed pass id.
//
// Implements decider.PassIDGenerator.
func (g *FixedPassIDGenerator) Generate() string {
	return g.id
}
