package provenance

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pipedev/pipedev/internal/ir"
)

const recordsYAML = `records:
  - path: /data/ABCD_0001_R1_001.fastq.gz
    meta_type: chemical/seq-na-fastq-gzip
    accession: "1001"
    status: completed
    processed_at: "2024-03-01"
    parent_accessions: ["501"]
    header:
      Root Sample Name: [ABCD_0001]
      IUS SWID: ["12345"]
    lims:
      geo_tissue_origin: [Ly]
  - path: /data/ABCD_0001_R2_001.fastq.gz
    status: failed
`

const reportTSV = "Last Modified\tRoot Sample Name\tIUS SWID\tWorkflow Run Status\tFile SWID\tFile Path\tFile Meta-Type\tProcessing SWID\tSample Attributes\tParent Sample Attributes\tSkip\tStudy Title\n" +
	"2024-03-01 10:00:00.000\tABCD_0001\t12345\tcompleted\t1001\t/data/a_R1_.fastq.gz\tchemical/seq-na-fastq-gzip\t501\tsample.geo_tissue_origin=Ly;sample.geo_library_source_template_type=EX\tparent_sample.geo_tissue_origin=Xx;parent_sample.geo_tissue_type=R\tfalse\tPCSI;ACGT\n" +
	"2024-03-02\t\t\tfailed\t\t/data/b.fastq.gz\t\t\t\t\ttrue\t\n"

func TestReadYAML(t *testing.T) {
	records, err := ReadYAML(strings.NewReader(recordsYAML))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "/data/ABCD_0001_R1_001.fastq.gz", first.Path)
	assert.Equal(t, "1001", first.Accession)
	assert.Equal(t, ir.StatusCompleted, first.Status)
	assert.Equal(t, []string{"501"}, first.ParentAccessions)
	assert.Equal(t, []string{"ABCD_0001"}, first.Header["Root Sample Name"])
	assert.Equal(t, []string{"Ly"}, first.Lims["geo_tissue_origin"])
	assert.Equal(t, ir.StatusFailed, records[1].Status)
}

func TestReadYAMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "records:\n  - path: /a\n    staus: completed\n"},
		{"missing path", "records:\n  - status: completed\n"},
		{"malformed", "records: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadYAML(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadYAMLEmpty(t *testing.T) {
	records, err := ReadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	records, err := ReadYAML(strings.NewReader(recordsYAML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, records))

	again, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestReadReport(t *testing.T) {
	records, err := ReadReport(strings.NewReader(reportTSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "/data/a_R1_.fastq.gz", a.Path)
	assert.Equal(t, "1001", a.Accession)
	assert.Equal(t, ir.StatusCompleted, a.Status)
	assert.Equal(t, "chemical/seq-na-fastq-gzip", a.MetaType)
	assert.Equal(t, "2024-03-01 10:00:00.000", a.ProcessedAt)
	assert.False(t, a.Skip)
	assert.Equal(t, []string{"501"}, a.ParentAccessions)
	assert.Equal(t, []string{"PCSI", "ACGT"}, a.Header["Study Title"])
	assert.Equal(t, []string{"ABCD_0001"}, a.Header["Root Sample Name"])
	assert.Equal(t, []string{"Ly"}, a.Lims["geo_tissue_origin"], "sample attribute wins over parent")
	assert.Equal(t, []string{"R"}, a.Lims["geo_tissue_type"], "parent fills the gap")
	assert.Equal(t, []string{"EX"}, a.Lims["geo_library_source_template_type"])
	assert.NotContains(t, a.Header, SampleAttributesColumn)

	b := records[1]
	assert.True(t, b.Skip)
	assert.Empty(t, b.Accession)
	assert.NotContains(t, b.Header, "Root Sample Name", "empty cell is absent")
	assert.Empty(t, b.ParentAccessions)
}

func TestReadReportErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no path column", "File SWID\n1\n"},
		{"empty path", "File Path\tFile SWID\n\t1\n"},
		{"ragged row", "File Path\tFile SWID\n/a\t1\textra\n"},
		{"malformed attribute", "File Path\tSample Attributes\n/a\tgeo_tissue_origin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadReport(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoadAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "report.tsv.gz", gzipped(t, reportTSV)),
		writeFile(t, dir, "records.yaml", []byte(recordsYAML)),
		writeFile(t, dir, "empty.yml", nil),
	}

	records, err := LoadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, records, 4)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Path
	}
	assert.Equal(t, []string{
		"/data/a_R1_.fastq.gz",
		"/data/b.fastq.gz",
		"/data/ABCD_0001_R1_001.fastq.gz",
		"/data/ABCD_0001_R2_001.fastq.gz",
	}, got, "records keep source order")
}

func TestLoadAllFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "records.yaml", []byte(recordsYAML)),
		filepath.Join(dir, "missing.tsv"),
		writeFile(t, dir, "bad.yaml", []byte("records:\n  - nope: 1\n")),
	}

	_, err := LoadAll(context.Background(), paths)
	assert.Error(t, err)
}

func TestLoadAllCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "records.yaml", []byte(recordsYAML))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAll(ctx, []string{path, path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAllNoSources(t *testing.T) {
	records, err := LoadAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}
