package store

import (
	"context"
	"fmt"

	"github.com/pipedev/pipedev/internal/ir"
)

// RunEntry is one scheduled lineage as stored in the ledger.
type RunEntry struct {
	Seq             int64             `json:"seq"`
	LineageHash     string            `json:"lineage_hash"`
	Workflow        string            `json:"workflow"`
	Name            string            `json:"name"`
	GroupKey        string            `json:"group_key"`
	PassID          string            `json:"pass_id"`
	InputSource     ir.InputSource    `json:"input_source"`
	InputAccessions []string          `json:"input_accessions"`
	Files           []string          `json:"files"`
	Parameters      map[string]string `json:"parameters"`
}

// PassEntry is one recorded decision pass.
type PassEntry struct {
	Seq            int64  `json:"seq"`
	ID             string `json:"id"`
	Workflow       string `json:"workflow"`
	ReportDigest   string `json:"report_digest"`
	Runs           int    `json:"runs"`
	Rejections     int    `json:"rejections"`
	Failures       int    `json:"failures"`
	DeciderVersion string `json:"decider_version"`
	ReportVersion  string `json:"report_version"`
}

// Lineages returns the lineage hashes recorded for a workflow, in the
// order they were recorded. Returns empty slice (not nil) if none.
func (s *Store) Lineages(ctx context.Context, workflow string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lineage_hash
		FROM runs
		WHERE workflow = ?
		ORDER BY seq ASC
	`, workflow)
	if err != nil {
		return nil, fmt.Errorf("query lineages: %w", err)
	}
	defer rows.Close()

	hashes := []string{}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan lineage: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lineages: %w", err)
	}
	return hashes, nil
}

// Runs returns the recorded runs for a workflow, or for every workflow
// when workflow is empty, ordered by seq.
func (s *Store) Runs(ctx context.Context, workflow string) ([]RunEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, lineage_hash, workflow, name, group_key, pass_id,
		       input_source, input_accessions, files, parameters
		FROM runs
		WHERE ? = '' OR workflow = ?
		ORDER BY seq ASC
	`, workflow, workflow)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	entries := []RunEntry{}
	for rows.Next() {
		var (
			e                            RunEntry
			source                       string
			accessions, files, paramJSON string
		)
		if err := rows.Scan(
			&e.Seq, &e.LineageHash, &e.Workflow, &e.Name, &e.GroupKey, &e.PassID,
			&source, &accessions, &files, &paramJSON,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.InputSource = ir.InputSource(source)
		if e.InputAccessions, err = unmarshalList(accessions); err != nil {
			return nil, fmt.Errorf("run %s: %w", e.LineageHash, err)
		}
		if e.Files, err = unmarshalList(files); err != nil {
			return nil, fmt.Errorf("run %s: %w", e.LineageHash, err)
		}
		if e.Parameters, err = unmarshalParams(paramJSON); err != nil {
			return nil, fmt.Errorf("run %s: %w", e.LineageHash, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// Passes returns every recorded pass ordered by seq.
func (s *Store) Passes(ctx context.Context) ([]PassEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, workflow, report_digest, runs, rejections, failures,
		       decider_version, report_version
		FROM passes
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	passes := []PassEntry{}
	for rows.Next() {
		var p PassEntry
		if err := rows.Scan(
			&p.Seq, &p.ID, &p.Workflow, &p.ReportDigest, &p.Runs, &p.Rejections,
			&p.Failures, &p.DeciderVersion, &p.ReportVersion,
		); err != nil {
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passes: %w", err)
	}
	return passes, nil
}
