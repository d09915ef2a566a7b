package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pipedev/pipedev/internal/ir"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RecordDecision writes a pass and all of its runs in one transaction and
// returns how many runs were newly recorded.
//
// Runs whose lineage hash is already in the ledger are silently skipped
// (ON CONFLICT DO NOTHING), so recording the same decision twice is a
// no-op. The decision must carry a pass id.
func (s *Store) RecordDecision(ctx context.Context, d *ir.Decision) (int, error) {
	if d.PassID == "" {
		return 0, errors.New("record decision: missing pass id")
	}

	report, err := d.CanonicalReport()
	if err != nil {
		return 0, fmt.Errorf("record decision: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("record decision: begin: %w", err)
	}
	defer tx.Rollback()

	runs, rejections, failures := d.Counts()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO passes
		(id, seq, workflow, report_digest, runs, rejections, failures, decider_version, report_version)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM passes), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		d.PassID,
		d.Workflow,
		ir.ReportDigest(report),
		runs,
		rejections,
		failures,
		ir.DeciderVersion,
		ir.ReportVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("record decision: write pass: %w", err)
	}

	recorded := 0
	for _, run := range d.Runs {
		ok, err := insertRun(ctx, tx, d.PassID, d.Workflow, run)
		if err != nil {
			return 0, fmt.Errorf("record decision: %w", err)
		}
		if ok {
			recorded++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record decision: commit: %w", err)
	}
	return recorded, nil
}

// RecordRun writes a single run under an already recorded pass.
// Reports false when the lineage hash was already present.
func (s *Store) RecordRun(ctx context.Context, passID, workflow string, run ir.ValidatedRun) (bool, error) {
	ok, err := insertRun(ctx, s.db, passID, workflow, run)
	if err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}
	return ok, nil
}

func insertRun(ctx context.Context, db execer, passID, workflow string, run ir.ValidatedRun) (bool, error) {
	if run.LineageHash == "" {
		return false, fmt.Errorf("run %q: missing lineage hash", run.Name)
	}

	accessions, err := marshalList(run.InputAccessions)
	if err != nil {
		return false, fmt.Errorf("run %q: input accessions: %w", run.Name, err)
	}
	files, err := marshalList(run.Paths())
	if err != nil {
		return false, fmt.Errorf("run %q: files: %w", run.Name, err)
	}
	params, err := marshalParams(run.Parameters)
	if err != nil {
		return false, fmt.Errorf("run %q: parameters: %w", run.Name, err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(lineage_hash, seq, workflow, name, group_key, pass_id, input_source, input_accessions, files, parameters)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lineage_hash) DO NOTHING
	`,
		run.LineageHash,
		workflow,
		run.Name,
		run.GroupKey,
		passID,
		string(run.InputSource),
		accessions,
		files,
		params,
	)
	if err != nil {
		return false, fmt.Errorf("run %q: %w", run.Name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("run %q: rows affected: %w", run.Name, err)
	}
	return n == 1, nil
}
