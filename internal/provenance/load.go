package provenance

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pipedev/pipedev/internal/ir"
)

// MaxConcurrentLoads bounds LoadAll's parallelism.
const MaxConcurrentLoads = 4

// Load reads one source, choosing the format by extension: .yaml/.yml for
// record documents, anything else (.tsv, .txt) as a report. A trailing .gz
// is decompressed.
func Load(path string) ([]ir.FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open provenance source: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	name := path
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	var records []ir.FileRecord
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		records, err = ReadYAML(r)
	default:
		records, err = ReadReport(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadAll reads every source concurrently and concatenates the records in
// the order of paths. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string) ([]ir.FileRecord, error) {
	results := make([][]ir.FileRecord, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := Load(path)
			if err != nil {
				return err
			}
			slog.Debug("provenance source loaded", "path", path, "records", len(records))
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []ir.FileRecord
	for _, records := range results {
		all = append(all, records...)
	}
	if all == nil {
		all = []ir.FileRecord{}
	}
	return all, nil
}
