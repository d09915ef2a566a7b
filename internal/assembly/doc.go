// Package assembly turns retained files into candidate runs.
//
// An Assembler accumulates files per group key, in the order they are
// added. Close finalizes every group: it enforces the expected file count,
// arranges paired-end mates, builds the combined run name and applies the
// caller's final check. Groups that fail are returned as group-scoped
// rejection records; the rest are returned as Candidates in group key order.
//
// An Assembler belongs to one decision pass and is not safe for concurrent
// use.
package assembly
