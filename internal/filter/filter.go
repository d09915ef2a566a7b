// Package filter decides, file by file, which provenance records are eligible
// for grouping.
//
// A Chain applies its predicates in a fixed order and reports the first one
// that rejected the file. Only the outcome (retained, or rejected with a
// reason) is part of the contract; predicates have no side effects.
package filter

import (
	"fmt"
	"slices"
	"time"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/ir"
)

// DateLayout is the layout of window bounds and of processing dates.
// A processing date may carry a time suffix, which is ignored.
const DateLayout = "2006-01-02"

// StatusFragment and StatusFailed drive failure propagation: a file is
// rejected when any attribute whose name contains StatusFragment is "failed".
const (
	StatusFragment = "Status"
	StatusFailed   = ir.StatusFailed
)

// Predicate is a caller-supplied test over a file's attributes.
type Predicate func(attribute.View) bool

// Options configures a Chain. The zero value retains every completed file.
type Options struct {
	// MetaTypes restricts files to these meta-types when non-empty.
	MetaTypes []string

	// CheckExists enables the existence predicate; Exists must then be set.
	CheckExists bool
	Exists      func(path string) bool

	// SkipStatusCheck disables failure propagation. The completion status
	// check is always on.
	SkipStatusCheck bool

	// AfterDate and BeforeDate bound the processing date, both exclusive.
	AfterDate  string
	BeforeDate string

	// Predicate is the user predicate, run last.
	Predicate Predicate
}

// Outcome is the result of running a file through the chain.
type Outcome struct {
	Retained bool
	Reason   ir.Reason
	Message  string
}

func retain() Outcome { return Outcome{Retained: true} }

func reject(reason ir.Reason, format string, args ...any) Outcome {
	return Outcome{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

type predicate func(attribute.View) Outcome

// Chain is an ordered, immutable list of predicates.
type Chain struct {
	preds []predicate
}

// New builds a Chain. Malformed window bounds, an inverted window, and an
// enabled existence check without an Exists function are errors.
func New(opts Options) (*Chain, error) {
	c := &Chain{}

	if len(opts.MetaTypes) > 0 {
		c.preds = append(c.preds, metaTypePredicate(slices.Clone(opts.MetaTypes)))
	}

	if opts.CheckExists {
		if opts.Exists == nil {
			return nil, fmt.Errorf("existence check enabled but no existence function configured")
		}
		c.preds = append(c.preds, existsPredicate(opts.Exists))
	}

	c.preds = append(c.preds, statusPredicate)

	if !opts.SkipStatusCheck {
		c.preds = append(c.preds, siblingFailedPredicate)
	}

	after, err := parseBound("after date", opts.AfterDate)
	if err != nil {
		return nil, err
	}
	before, err := parseBound("before date", opts.BeforeDate)
	if err != nil {
		return nil, err
	}
	if after != nil && before != nil && !after.Before(*before) {
		return nil, fmt.Errorf("after date %s is not before before date %s", opts.AfterDate, opts.BeforeDate)
	}
	if after != nil || before != nil {
		c.preds = append(c.preds, windowPredicate(after, before))
	}

	if opts.Predicate != nil {
		c.preds = append(c.preds, userPredicate(opts.Predicate))
	}

	return c, nil
}

// Accept runs v through the chain and returns the first rejection, or a
// retained outcome.
func (c *Chain) Accept(v attribute.View) Outcome {
	for _, p := range c.preds {
		if out := p(v); !out.Retained {
			return out
		}
	}
	return retain()
}

// Len returns the number of enabled predicates.
func (c *Chain) Len() int { return len(c.preds) }

func metaTypePredicate(types []string) predicate {
	return func(v attribute.View) Outcome {
		mt := v.Record().MetaType
		if slices.Contains(types, mt) {
			return retain()
		}
		return reject(ir.ReasonMetaType, "meta-type %q not in %v", mt, types)
	}
}

func existsPredicate(exists func(string) bool) predicate {
	return func(v attribute.View) Outcome {
		if exists(v.Path()) {
			return retain()
		}
		return reject(ir.ReasonFileNotFound, "file does not exist")
	}
}

func statusPredicate(v attribute.View) Outcome {
	rec := v.Record()
	if rec.Status != ir.StatusCompleted {
		return reject(ir.ReasonStatusNotCompleted, "workflow run status is %q", rec.Status)
	}
	if rec.Skip {
		return reject(ir.ReasonSkipped, "file is flagged skip")
	}
	return retain()
}

func siblingFailedPredicate(v attribute.View) Outcome {
	for _, ns := range []ir.Namespace{ir.NamespaceHeader, ir.NamespaceLims} {
		if key, found := v.ContainsValue(ns, StatusFragment, StatusFailed); found {
			return reject(ir.ReasonSiblingFailed, "%s %q is %s", ns, key.String(), StatusFailed)
		}
	}
	return retain()
}

func windowPredicate(after, before *time.Time) predicate {
	return func(v attribute.View) Outcome {
		raw, ok, _ := v.Get(ir.HeaderLastModified)
		if !ok {
			return reject(ir.ReasonUnparseableDate, "no processing date")
		}
		date, err := ParseDate(raw)
		if err != nil {
			return reject(ir.ReasonUnparseableDate, "processing date %q: %v", raw, err)
		}
		if after != nil && !date.After(*after) {
			return reject(ir.ReasonNotAfterWindow, "processed %s, not after %s", date.Format(DateLayout), after.Format(DateLayout))
		}
		if before != nil && !date.Before(*before) {
			return reject(ir.ReasonNotBeforeWindow, "processed %s, not before %s", date.Format(DateLayout), before.Format(DateLayout))
		}
		return retain()
	}
}

func userPredicate(p Predicate) predicate {
	return func(v attribute.View) Outcome {
		if p(v) {
			return retain()
		}
		return reject(ir.ReasonUserPredicate, "rejected by user predicate")
	}
}

// ParseDate parses a processing date at day precision. A time of day
// following the date after ' ' or 'T' is ignored; any other suffix is an
// error.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		if sep := s[len(DateLayout)]; sep != ' ' && sep != 'T' {
			return time.Time{}, fmt.Errorf("date %q has trailing text", s)
		}
		s = s[:len(DateLayout)]
	}
	return time.Parse(DateLayout, s)
}

func parseBound(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%s %q must be in the format YYYY-MM-DD: %w", name, s, err)
	}
	return &t, nil
}
