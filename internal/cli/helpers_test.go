package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipedev/pipedev/internal/ir"
	"github.com/pipedev/pipedev/internal/provenance"
	"github.com/pipedev/pipedev/internal/testutil"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func fastq(path, acc, ius, origin string, opts ...testutil.RecordOption) ir.FileRecord {
	base := []testutil.RecordOption{
		testutil.WithAccession(acc),
		testutil.WithDonor("ABCD_0001"),
		testutil.WithIUS(ius, "ACGTAC"),
		testutil.WithLims(ir.LimsTissueOrigin, origin),
		testutil.WithDate("2024-03-01"),
	}
	return testutil.Record(path, append(base, opts...)...)
}

// mateRecords is one donor's R1/R2 pair plus a failed file.
func mateRecords() []ir.FileRecord {
	return []ir.FileRecord{
		fastq("/data/ABCD_0001_R2_001.fastq.gz", "1002", "12346", "Pa"),
		fastq("/data/ABCD_0001_failed_R1_001.fastq.gz", "1003", "12347", "Ly", testutil.WithStatus(ir.StatusFailed)),
		fastq("/data/ABCD_0001_R1_001.fastq.gz", "1001", "12345", "Ly"),
	}
}

// writeRecords writes records to a YAML record file in dir.
func writeRecords(t *testing.T, dir string, records []ir.FileRecord) string {
	t.Helper()
	path := filepath.Join(dir, "records.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, provenance.WriteYAML(f, records))
	return path
}

// donorArgs are the flags grouping mateRecords into one paired run.
var donorArgs = []string{
	"--workflow", "bwa",
	"--group-by", "donor",
	"--group-mode", "collapse",
	"--files-per-group", "2",
}

func decideArgs(extra ...string) []string {
	args := append([]string{"decide"}, donorArgs...)
	return append(args, extra...)
}
