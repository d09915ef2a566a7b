package decider

// Ledger is a read-only snapshot of the lineage hashes already scheduled.
// The decider consults it but never writes to it; recording new runs is
// the caller's job once the decision is acted on.
type Ledger interface {
	Contains(lineageHash string) bool
}

// Snapshot is an in-memory Ledger.
type Snapshot map[string]struct{}

// NewSnapshot builds a Snapshot from lineage hashes.
func NewSnapshot(hashes ...string) Snapshot {
	s := make(Snapshot, len(hashes))
	for _, h := range hashes {
		s[h] = struct{}{}
	}
	return s
}

// Contains implements Ledger.
func (s Snapshot) Contains(lineageHash string) bool {
	_, ok := s[lineageHash]
	return ok
}
