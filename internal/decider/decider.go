package decider

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pipedev/pipedev/internal/assembly"
	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/filter"
	"github.com/pipedev/pipedev/internal/grouping"
	"github.com/pipedev/pipedev/internal/ir"
	"github.com/pipedev/pipedev/internal/params"
)

// Decider turns provenance records into validated runs.
//
// A Decider is immutable after New and safe for concurrent use; every
// Decide call runs on its own pass state.
type Decider struct {
	cfg     Config
	chain   *filter.Chain
	deriver *params.Deriver
	log     *slog.Logger
	passGen PassIDGenerator

	exists     func(string) bool
	predicate  filter.Predicate
	finalCheck assembly.FinalCheck
	extension  params.Extension
	ledger     Ledger
}

// Option configures a Decider.
type Option func(*Decider)

// WithExists sets the existence check used when Config.CheckFileExists is on.
func WithExists(exists func(path string) bool) Option {
	return func(d *Decider) { d.exists = exists }
}

// WithPredicate sets the user file predicate.
func WithPredicate(p filter.Predicate) Option {
	return func(d *Decider) { d.predicate = p }
}

// WithFinalCheck sets the candidate run check.
func WithFinalCheck(check assembly.FinalCheck) Option {
	return func(d *Decider) { d.finalCheck = check }
}

// WithExtension sets the parameter extension.
func WithExtension(ext params.Extension) Option {
	return func(d *Decider) { d.extension = ext }
}

// WithLedger sets the snapshot of already scheduled lineages.
func WithLedger(l Ledger) Option {
	return func(d *Decider) { d.ledger = l }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Decider) { d.log = l }
}

// WithPassIDGenerator sets the pass id generator. Default: UUIDv7Generator.
func WithPassIDGenerator(g PassIDGenerator) Option {
	return func(d *Decider) { d.passGen = g }
}

// New validates cfg and builds a Decider. Every configuration problem is
// reported here as a ConfigError, before any record is seen.
func New(cfg Config, opts ...Option) (*Decider, error) {
	d := &Decider{
		log:     slog.Default(),
		passGen: UUIDv7Generator{},
		ledger:  Snapshot{},
	}
	for _, opt := range opts {
		opt(d)
	}

	cfg = cfg.withDefaults()
	if cfg.Workflow == "" {
		return nil, &ConfigError{Field: "workflow", Err: errors.New("must be set")}
	}
	dim, err := grouping.ParseDimension(string(cfg.GroupBy))
	if err != nil {
		return nil, &ConfigError{Field: "group_by", Value: string(cfg.GroupBy), Err: err}
	}
	mode, err := grouping.ParseMode(string(cfg.GroupMode))
	if err != nil {
		return nil, &ConfigError{Field: "group_mode", Value: string(cfg.GroupMode), Err: err}
	}
	cfg.GroupBy, cfg.GroupMode = dim, mode
	if !ir.ValidInputSources[cfg.InputSource] {
		return nil, &ConfigError{Field: "input_source", Value: string(cfg.InputSource), Err: errors.New("must be file, parent or prefer_file")}
	}
	if cfg.FilesPerGroup < 0 {
		return nil, &ConfigError{Field: "files_per_group", Value: fmt.Sprint(cfg.FilesPerGroup), Err: errors.New("must not be negative")}
	}
	if cfg.LaunchMax < 0 {
		return nil, &ConfigError{Field: "launch_max", Value: fmt.Sprint(cfg.LaunchMax), Err: errors.New("must not be negative")}
	}

	d.chain, err = filter.New(filter.Options{
		MetaTypes:       cfg.MetaTypes,
		CheckExists:     cfg.CheckFileExists,
		Exists:          d.exists,
		SkipStatusCheck: cfg.SkipStatusCheck,
		AfterDate:       cfg.AfterDate,
		BeforeDate:      cfg.BeforeDate,
		Predicate:       d.predicate,
	})
	if err != nil {
		return nil, &ConfigError{Field: "filter", Err: err}
	}

	d.deriver = params.New(params.Options{
		Defaults:     cfg.Defaults,
		OutputPath:   cfg.OutputPath,
		OutputFolder: cfg.OutputFolder,
		Extension:    d.extension,
	})
	d.cfg = cfg
	return d, nil
}

// Config returns the effective configuration, defaults applied.
func (d *Decider) Config() Config { return d.cfg }

// pass is the state of one Decide call. Nothing in it outlives the call.
type pass struct {
	id        string
	log       *slog.Logger
	assembler *assembly.Assembler
	decision  *ir.Decision
	failures  []error
}

func (d *Decider) newPass() *pass {
	id := d.passGen.Generate()
	return &pass{
		id:  id,
		log: d.log.With("pass", id, "workflow", d.cfg.Workflow),
		assembler: assembly.New(assembly.Options{
			FilesPerGroup: d.cfg.FilesPerGroup,
			FinalCheck:    d.finalCheck,
		}),
		decision: &ir.Decision{
			PassID:     id,
			Workflow:   d.cfg.Workflow,
			Runs:       []ir.ValidatedRun{},
			Rejections: []ir.RejectionRecord{},
		},
	}
}

// Decide runs one pass over records.
//
// The returned Decision is always non-nil. The error is non-nil only when
// one or more runs failed parameter derivation; it joins one
// DerivationError per failed run, and those runs are listed in
// Decision.Failures rather than Decision.Runs.
func (d *Decider) Decide(records []ir.FileRecord) (*ir.Decision, error) {
	p := d.newPass()
	p.log.Info("decision pass starting", "records", len(records))

	unique, conflicts := mergeDuplicates(records)
	for _, rj := range conflicts {
		p.log.Debug("file rejected", "path", rj.Paths[0], "reason", rj.Reason, "message", rj.Message)
	}
	p.decision.Rejections = append(p.decision.Rejections, conflicts...)

	for _, rec := range unique {
		d.admit(p, rec)
	}

	candidates, rejected := p.assembler.Close()
	for _, rj := range rejected {
		p.log.Debug("candidate run rejected", "group", rj.GroupKey, "reason", rj.Reason, "message", rj.Message)
	}
	p.decision.Rejections = append(p.decision.Rejections, rejected...)

	for _, c := range candidates {
		d.finalize(p, c)
	}

	sortRejections(p.decision.Rejections)

	runs, rejections, failures := p.decision.Counts()
	p.log.Info("decision pass complete", "runs", runs, "rejections", rejections, "failures", failures)
	return p.decision, errors.Join(p.failures...)
}

// admit filters one record and hands it to the assembler.
func (d *Decider) admit(p *pass, rec ir.FileRecord) {
	v := attribute.New(rec)
	out := d.chain.Accept(v)
	if !out.Retained {
		p.log.Debug("file rejected", "path", rec.Path, "reason", out.Reason, "message", out.Message)
		p.decision.Rejections = append(p.decision.Rejections, fileRejection(rec, out.Reason, out.Message))
		return
	}

	key, err := grouping.KeyOf(v, d.cfg.GroupBy, d.cfg.GroupMode)
	if err != nil {
		p.log.Debug("file rejected", "path", rec.Path, "reason", ir.ReasonMissingGroupingKey, "error", err)
		p.decision.Rejections = append(p.decision.Rejections, fileRejection(rec, ir.ReasonMissingGroupingKey, err.Error()))
		return
	}
	p.assembler.Add(key, v)
}

// finalize applies the ledger and launch limit to a candidate and derives
// its parameters.
func (d *Decider) finalize(p *pass, c *assembly.Candidate) {
	hash := ir.MustLineageHash(d.cfg.Workflow, c.Identities())
	if d.ledger.Contains(hash) {
		p.log.Debug("candidate run rejected", "group", c.Key, "reason", ir.ReasonAlreadyScheduled)
		p.decision.Rejections = append(p.decision.Rejections,
			c.Rejection(ir.ReasonAlreadyScheduled, "lineage "+hash+" already scheduled"))
		return
	}
	if d.cfg.LaunchMax > 0 && len(p.decision.Runs) >= d.cfg.LaunchMax {
		p.decision.Rejections = append(p.decision.Rejections,
			c.Rejection(ir.ReasonLaunchLimit, fmt.Sprintf("launch limit %d reached", d.cfg.LaunchMax)))
		return
	}

	warnings := slices.Clone(c.Warnings)
	accessions, source, warning, err := c.InputAccessions(d.cfg.InputSource)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	var parameters map[string]string
	if err == nil {
		var paramWarnings []string
		parameters, paramWarnings, err = d.deriver.Derive(params.Run{
			Name:            c.Name,
			GroupKey:        c.Key,
			Files:           c.Files,
			InputAccessions: accessions,
		})
		warnings = append(warnings, paramWarnings...)
	}
	for _, w := range warnings {
		p.log.Warn("run warning", "run", c.Name, "group", c.Key, "warning", w)
	}
	if err != nil {
		p.log.Error("parameter derivation failed", "run", c.Name, "group", c.Key, "error", err)
		p.failures = append(p.failures, &DerivationError{Run: c.Name, GroupKey: c.Key, Err: err})
		p.decision.Failures = append(p.decision.Failures, ir.DerivationFailure{
			Name:     c.Name,
			GroupKey: c.Key,
			Paths:    c.Paths(),
			Message:  err.Error(),
		})
		return
	}

	p.decision.Runs = append(p.decision.Runs, ir.ValidatedRun{
		Name:            c.Name,
		GroupKey:        c.Key,
		Files:           c.Records(),
		Parameters:      parameters,
		InputAccessions: accessions,
		InputSource:     source,
		LineageHash:     hash,
		Warnings:        warnings,
	})
	p.log.Info("run validated", "run", c.Name, "group", c.Key, "files", len(c.Files))
}

func fileRejection(rec ir.FileRecord, reason ir.Reason, message string) ir.RejectionRecord {
	return ir.RejectionRecord{
		Scope:      ir.ScopeFile,
		Reason:     reason,
		Paths:      []string{rec.Path},
		Accessions: ir.SortedSet(rec.Identity()),
		Message:    message,
	}
}

// sortRejections orders rejections independently of input order: file
// rejections by path, then group rejections by group key.
func sortRejections(rs []ir.RejectionRecord) {
	first := func(r ir.RejectionRecord) string {
		if len(r.Paths) == 0 {
			return ""
		}
		return r.Paths[0]
	}
	slices.SortStableFunc(rs, func(a, b ir.RejectionRecord) int {
		if c := cmp.Compare(scopeRank(a.Scope), scopeRank(b.Scope)); c != 0 {
			return c
		}
		if c := ir.CompareUTF16(a.GroupKey, b.GroupKey); c != 0 {
			return c
		}
		if c := ir.CompareUTF16(first(a), first(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})
}

func scopeRank(s ir.Scope) int {
	if s == ir.ScopeFile {
		return 0
	}
	return 1
}
