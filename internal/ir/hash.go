package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainLineage = "pipedev/lineage/v1"
	DomainReport  = "pipedev/report/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// LineageHash identifies one input lineage for one workflow.
//
// The hash covers the workflow name and the sorted, de-duplicated input
// identities, so it does not depend on the order files were seen in, on
// mate arrangement, or on the derived parameters. Two passes that would
// schedule the same inputs for the same workflow produce the same hash.
func LineageHash(workflow string, identities []string) (string, error) {
	obj := map[string]any{
		"workflow": workflow,
		"inputs":   SortedSet(identities...),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("LineageHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainLineage, canonical), nil
}

// ReportDigest hashes a canonical decision report.
func ReportDigest(report []byte) string {
	return hashWithDomain(DomainReport, report)
}

// MustLineageHash is like LineageHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustLineageHash(workflow string, identities []string) string {
	h, err := LineageHash(workflow, identities)
	if err != nil {
		panic(err)
	}
	return h
}
