// Package ir provides the shared data model for the decider.
//
// This package contains type definitions and canonical encoding only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// the model as the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - FileRecord is an immutable snapshot owned by the provenance collaborator
//   - Attribute keys are a closed sum type: HeaderKey | LimsKey
//   - A key with no values is absent; an explicit "" value is kept
//   - All identities (lineage hashes, report digests) use RFC 8785 canonical
//     JSON and SHA-256 with domain separation, so they are stable across passes
package ir
