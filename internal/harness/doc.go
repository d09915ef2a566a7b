// Package harness runs decision scenarios and compares their reports
// against golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config:
//	  workflow: bwa
//	  group_by: donor
//	  files_per_group: 2
//	records:
//	  - path: /data/a_R1_001.fastq.gz
//	    status: completed
//	    header: { Root Sample Name: [ABCD_0001] }
//	existing_files: [/data/a_R1_001.fastq.gz]
//	scheduled:
//	  - ["1001", "1002"]
//	assertions:
//	  - type: run_count
//	    count: 1
//	  - type: run
//	    name: ABCD_0001_Ly_ius12345
//	    files: [/data/a_R1_001.fastq.gz]
//	  - type: rejected
//	    reason: STATUS_NOT_COMPLETED
//	    path: /data/b.fastq.gz
//
// # Assertion Types
//
//   - run_count: exactly N validated runs
//   - run: a run with the given name exists; files (launch order), group,
//     input accessions and a parameter subset are checked when given
//   - rejected: a rejection with the given reason exists, optionally for a
//     path or a group key
//   - failure_count: exactly N derivation failures
//   - warning: the named run carries a warning containing a substring
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite ledger with a fixed
// pass id. Besides the listed assertions, Run always checks that:
//
//   - deciding over the reversed records gives the same order-insensitive
//     report
//   - once the decision is recorded in the ledger, deciding again
//     schedules nothing
//
// The canonical report excludes the pass id, so it can be compared
// byte-for-byte against testdata/golden/{name}.golden.
package harness
