package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineageHashDeterminism(t *testing.T) {
	h1, err := LineageHash("bwa", []string{"11", "12"})
	require.NoError(t, err)
	h2, err := LineageHash("bwa", []string{"11", "12"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestLineageHashOrderIndependent(t *testing.T) {
	a := MustLineageHash("bwa", []string{"12", "11", "13"})
	b := MustLineageHash("bwa", []string{"13", "12", "11"})
	c := MustLineageHash("bwa", []string{"11", "12", "13", "12"})

	assert.Equal(t, a, b)
	assert.Equal(t, a, c, "duplicate identities do not change the lineage")
}

func TestLineageHashChangesWithInput(t *testing.T) {
	base := MustLineageHash("bwa", []string{"11", "12"})

	assert.NotEqual(t, base, MustLineageHash("star", []string{"11", "12"}), "workflow")
	assert.NotEqual(t, base, MustLineageHash("bwa", []string{"11"}), "subset")
	assert.NotEqual(t, base, MustLineageHash("bwa", []string{"11", "13"}), "different input")
}

func TestHashWithDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainLineage, data), hashWithDomain(DomainReport, data))
	assert.Equal(t, hashWithDomain(DomainReport, data), ReportDigest(data))
}

func TestCanonicalReportOmitsPassID(t *testing.T) {
	d := &Decision{
		PassID:   "0190f3f0-0000-7000-8000-000000000001",
		Workflow: "bwa",
		Runs: []ValidatedRun{{
			Name:            "ABCD_0001_Ly_ius1",
			GroupKey:        "ABCD_0001",
			Files:           []FileRecord{{Path: "/data/a_R1_.fastq.gz"}, {Path: "/data/a_R2_.fastq.gz"}},
			Parameters:      map[string]string{"output_dir": "seqware-results"},
			InputAccessions: []string{"11", "12"},
			InputSource:     InputSourceFile,
			LineageHash:     "abc",
		}},
		Rejections: []RejectionRecord{{
			Scope:  ScopeFile,
			Reason: ReasonSkipped,
			Paths:  []string{"/data/c.fastq.gz"},
		}},
	}

	report, err := d.CanonicalReport()
	require.NoError(t, err)

	other := *d
	other.PassID = "another-pass"
	again, err := other.CanonicalReport()
	require.NoError(t, err)

	assert.Equal(t, string(report), string(again))
	assert.NotContains(t, string(report), "pass_id")
	assert.True(t, strings.HasPrefix(string(report), `{"rejections":[{"paths":["/data/c.fastq.gz"],"reason":"SKIPPED","scope":"file"}]`))
	assert.Contains(t, string(report), `"files":["/data/a_R1_.fastq.gz","/data/a_R2_.fastq.gz"]`)
	assert.NotContains(t, string(report), "failures")
}

func TestCanonicalReportIncludesFailures(t *testing.T) {
	d := &Decision{
		Workflow: "bwa",
		Failures: []DerivationFailure{{Name: "n", GroupKey: "g", Message: "boom"}},
	}

	report, err := d.CanonicalReport()
	require.NoError(t, err)
	assert.Contains(t, string(report), `"failures":[{"group_key":"g","message":"boom","name":"n","paths":[]}]`)
	assert.Contains(t, string(report), `"runs":[]`)
}

func TestOrderInsensitiveReport(t *testing.T) {
	mk := func(paths ...string) *Decision {
		files := make([]FileRecord, len(paths))
		for i, p := range paths {
			files[i] = FileRecord{Path: p}
		}
		return &Decision{Workflow: "bwa", Runs: []ValidatedRun{{Name: "n", Files: files}}}
	}

	a, b := mk("/y", "/x"), mk("/x", "/y")

	ra, err := a.CanonicalReport()
	require.NoError(t, err)
	rb, err := b.CanonicalReport()
	require.NoError(t, err)
	assert.NotEqual(t, string(ra), string(rb))

	oa, err := a.OrderInsensitiveReport()
	require.NoError(t, err)
	ob, err := b.OrderInsensitiveReport()
	require.NoError(t, err)
	assert.Equal(t, string(oa), string(ob))
	assert.Equal(t, "/y", a.Runs[0].Files[0].Path, "receiver is not modified")
}
