// Package config loads decider settings from CUE.
//
// A config file declares a top-level "decider" struct:
//
//	decider: {
//		workflow:        "BamQC"
//		group_by:        "lane"
//		files_per_group: 2
//	}
//
// The value is unified with the embedded #Decider schema before it is
// decoded, so unknown fields, bad enums and malformed dates are caught
// with a source position. Semantic checks the schema cannot express
// (an inverted date window, for instance) are left to decider.New.
package config
