package assembly

import (
	"fmt"
	"slices"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/ir"
)

// FinalCheck inspects a closed candidate. A non-nil error rejects it with
// ir.ReasonFinalCheck and the error text as message.
type FinalCheck func(*Candidate) error

// Options configures an Assembler.
type Options struct {
	// FilesPerGroup, when positive, is the exact file count a group must
	// have. Zero accepts any non-empty group.
	FilesPerGroup int

	// FinalCheck runs after naming. Nil accepts every candidate.
	FinalCheck FinalCheck
}

// Candidate is a closed group of files sharing a key.
type Candidate struct {
	Key string

	// Files are in launch order.
	Files []attribute.View

	Name     string
	Warnings []string
}

// Records returns the candidate's records in launch order.
func (c *Candidate) Records() []ir.FileRecord {
	recs := make([]ir.FileRecord, len(c.Files))
	for i, f := range c.Files {
		recs[i] = f.Record()
	}
	return recs
}

// Paths returns the candidate's paths in launch order.
func (c *Candidate) Paths() []string {
	paths := make([]string, len(c.Files))
	for i, f := range c.Files {
		paths[i] = f.Path()
	}
	return paths
}

// Identities returns the sorted set of file identities.
func (c *Candidate) Identities() []string {
	ids := make([]string, len(c.Files))
	for i, f := range c.Files {
		ids[i] = f.Record().Identity()
	}
	return ir.SortedSet(ids...)
}

// Rejection builds a group-scoped rejection record for the candidate.
// Paths and accessions are sorted so the record does not depend on input
// order.
func (c *Candidate) Rejection(reason ir.Reason, message string) ir.RejectionRecord {
	return ir.RejectionRecord{
		Scope:      ir.ScopeGroup,
		Reason:     reason,
		GroupKey:   c.Key,
		Paths:      ir.SortedSet(c.Paths()...),
		Accessions: c.Identities(),
		Message:    message,
	}
}

type group struct {
	files []attribute.View
	name  *nameParts
}

// Assembler accumulates files per group key.
type Assembler struct {
	opts   Options
	groups map[string]*group
	closed bool
}

// New creates an empty Assembler.
func New(opts Options) *Assembler {
	return &Assembler{
		opts:   opts,
		groups: make(map[string]*group),
	}
}

// Add appends v to the group for key, creating the group on first sight.
func (a *Assembler) Add(key string, v attribute.View) {
	if a.closed {
		panic("assembly: Add after Close")
	}
	g, ok := a.groups[key]
	if !ok {
		g = &group{name: newNameParts()}
		a.groups[key] = g
	}
	g.files = append(g.files, v)
	g.name.add(v)
}

// Len returns the number of open groups.
func (a *Assembler) Len() int { return len(a.groups) }

// Close finalizes every group, in group key order. It returns the accepted
// candidates and one rejection per failed group. Close may be called once.
func (a *Assembler) Close() ([]*Candidate, []ir.RejectionRecord) {
	if a.closed {
		panic("assembly: Close called twice")
	}
	a.closed = true

	keys := make([]string, 0, len(a.groups))
	for k := range a.groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, ir.CompareUTF16)

	var (
		candidates []*Candidate
		rejections []ir.RejectionRecord
	)
	for _, key := range keys {
		g := a.groups[key]
		c := &Candidate{Key: key, Files: g.files, Name: g.name.String()}

		if n := a.opts.FilesPerGroup; n > 0 && len(c.Files) != n {
			rejections = append(rejections, c.Rejection(ir.ReasonInvalidFileCount,
				fmt.Sprintf("expected %d files, found %d", n, len(c.Files))))
			continue
		}

		var warning string
		c.Files, warning = ArrangeMates(c.Files)
		if warning != "" {
			c.Warnings = append(c.Warnings, warning)
		}

		if a.opts.FinalCheck != nil {
			if err := a.opts.FinalCheck(c); err != nil {
				rejections = append(rejections, c.Rejection(ir.ReasonFinalCheck, err.Error()))
				continue
			}
		}

		candidates = append(candidates, c)
	}
	return candidates, rejections
}
