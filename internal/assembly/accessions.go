package assembly

import (
	"fmt"

	"github.com/pipedev/pipedev/internal/ir"
)

// InputAccessions resolves the accessions a run declares as its inputs
// under policy src. It returns the accessions as a sorted set, the source
// actually used, and a warning when prefer_file fell back to parents.
func (c *Candidate) InputAccessions(src ir.InputSource) ([]string, ir.InputSource, string, error) {
	var files, parents []string
	for _, f := range c.Files {
		rec := f.Record()
		if rec.Accession != "" {
			files = append(files, rec.Accession)
		}
		for _, p := range rec.ParentAccessions {
			if p != "" {
				parents = append(parents, p)
			}
		}
	}

	switch src {
	case ir.InputSourceFile:
		return ir.SortedSet(files...), ir.InputSourceFile, "", nil
	case ir.InputSourceParent:
		return ir.SortedSet(parents...), ir.InputSourceParent, "", nil
	case ir.InputSourcePreferFile, "":
		if len(files) > 0 {
			return ir.SortedSet(files...), ir.InputSourceFile, "", nil
		}
		return ir.SortedSet(parents...), ir.InputSourceParent,
			"no input file accessions; using parent accessions", nil
	}
	return nil, "", "", fmt.Errorf("unknown input source %q", src)
}
