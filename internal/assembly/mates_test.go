package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/testutil"
)

func views(paths ...string) []attribute.View {
	vs := make([]attribute.View, len(paths))
	for i, p := range paths {
		vs[i] = attribute.New(testutil.Record(p))
	}
	return vs
}

func paths(vs []attribute.View) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Path()
	}
	return out
}

func TestMateOf(t *testing.T) {
	tests := []struct {
		path string
		mate Mate
	}{
		{"/d/SWID_1_ABCD_R1_001.fastq.gz", Mate1},
		{"/d/SWID_1_ABCD_R2_001.fastq.gz", Mate2},
		{"/d/s_1_1_sequence.txt.gz", Mate1},
		{"/d/s_1_2_sequence.txt.gz", Mate2},
		{"/d/reads.1.fastq.gz", Mate1},
		{"/d/reads.2.fastq.gz", Mate2},
		{"/d/reads.fastq.gz", MateUnknown},
		{"/d/a_R1_b_R2_.fastq", Mate1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.mate, MateOf(tt.path))
		})
	}
}

func TestArrangeMates(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
		warns    bool
	}{
		{"ordered", []string{"/a_R1_.fq", "/a_R2_.fq"}, []string{"/a_R1_.fq", "/a_R2_.fq"}, false},
		{"reversed", []string{"/a_R2_.fq", "/a_R1_.fq"}, []string{"/a_R1_.fq", "/a_R2_.fq"}, false},
		{"no markers", []string{"/b.fq", "/a.fq"}, []string{"/b.fq", "/a.fq"}, true},
		{"one marker", []string{"/b_R2_.fq", "/a.fq"}, []string{"/b_R2_.fq", "/a.fq"}, true},
		{"collision", []string{"/b_R1_.fq", "/a.1.fastq"}, []string{"/b_R1_.fq", "/a.1.fastq"}, true},
		{"single file", []string{"/a_R2_.fq"}, []string{"/a_R2_.fq"}, false},
		{"three files", []string{"/c_R2_.fq", "/a_R1_.fq", "/b.fq"}, []string{"/c_R2_.fq", "/a_R1_.fq", "/b.fq"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warning := ArrangeMates(views(tt.input...))
			assert.Equal(t, tt.expected, paths(got))
			assert.Equal(t, tt.warns, warning != "", warning)
		})
	}
}
