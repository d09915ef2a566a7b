package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/ir"
	"github.com/pipedev/pipedev/internal/testutil"
)

func TestParse(t *testing.T) {
	for _, d := range Dimensions {
		got, err := ParseDimension(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	d, err := ParseDimension("Sequencer-Run")
	require.NoError(t, err)
	assert.Equal(t, DimensionSequencerRun, d)

	_, err = ParseDimension("flowcell")
	assert.Error(t, err)

	m, err := ParseMode("COLLAPSE")
	require.NoError(t, err)
	assert.Equal(t, ModeCollapse, m)

	_, err = ParseMode("fuzzy")
	assert.Error(t, err)
}

func TestKeyOf(t *testing.T) {
	rec := testutil.Record("/data/a_R1_.fastq.gz",
		testutil.WithIUS("12345", "ACGTAC"),
		testutil.WithHeader(ir.HeaderLaneSWID, "400"),
		testutil.WithHeader(ir.HeaderLaneName, "RUN1_lane_1"),
		testutil.WithHeader(ir.HeaderSampleSWID, "300"),
		testutil.WithHeader(ir.HeaderSampleName, "ABCD_0001_Ly_R_PE_369_EX"),
		testutil.WithHeader(ir.HeaderParentSampleSWID, "200"),
		testutil.WithHeader(ir.HeaderRootSampleName, "ABCD_0001"),
		testutil.WithHeader(ir.HeaderExperimentSWID, "150"),
		testutil.WithHeader(ir.HeaderExperimentName, "exp"),
		testutil.WithHeader(ir.HeaderStudySWID, "100", "101"),
		testutil.WithHeader(ir.HeaderStudyTitle, "ABCD"),
		testutil.WithHeader(ir.HeaderSequencerRunSWID, "500"),
		testutil.WithHeader(ir.HeaderSequencerRunName, "RUN1"),
	)
	v := attribute.New(rec)

	tests := []struct {
		dim      Dimension
		mode     Mode
		expected string
	}{
		{DimensionFile, ModeExact, "/data/a_R1_.fastq.gz"},
		{DimensionFile, ModeCollapse, "/data/a_R1_.fastq.gz"},
		{DimensionBarcode, ModeExact, "12345"},
		{DimensionBarcode, ModeCollapse, "ACGTAC"},
		{DimensionLane, ModeExact, "400"},
		{DimensionLane, ModeCollapse, "RUN1_lane_1"},
		{DimensionLibrary, ModeExact, "300"},
		{DimensionLibrary, ModeCollapse, "ABCD_0001_Ly_R_PE_369_EX"},
		{DimensionDonor, ModeExact, "200"},
		{DimensionDonor, ModeCollapse, "ABCD_0001"},
		{DimensionExperiment, ModeExact, "150"},
		{DimensionExperiment, ModeCollapse, "exp"},
		{DimensionStudy, ModeExact, "100;101"},
		{DimensionStudy, ModeCollapse, "ABCD"},
		{DimensionSequencerRun, ModeExact, "500"},
		{DimensionSequencerRun, ModeCollapse, "RUN1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim)+"/"+string(tt.mode), func(t *testing.T) {
			key, err := KeyOf(v, tt.dim, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestDonorTrailingComponent(t *testing.T) {
	a := attribute.New(testutil.Record("/a", testutil.WithHeader(ir.HeaderRootSampleName, "PCSI:ABCD_0001")))
	b := attribute.New(testutil.Record("/b", testutil.WithHeader(ir.HeaderRootSampleName, "OTHER:LINEAGE:ABCD_0001")))
	c := attribute.New(testutil.Record("/c", testutil.WithHeader(ir.HeaderRootSampleName, "ABCD_0001")))

	for _, v := range []attribute.View{a, b, c} {
		key, err := KeyOf(v, DimensionDonor, ModeCollapse)
		require.NoError(t, err)
		assert.Equal(t, "ABCD_0001", key, v.Path())
	}

	assert.Equal(t, "", TrailingComponent("ABCD:"))
}

func TestKeyOfMissingAttribute(t *testing.T) {
	v := attribute.New(testutil.Record("/a", testutil.WithHeader(ir.HeaderLaneName)))

	_, err := KeyOf(v, DimensionLane, ModeCollapse)
	require.Error(t, err)
	assert.True(t, IsMissingAttribute(err))
	assert.Contains(t, err.Error(), "MISSING_GROUPING_ATTRIBUTE")
	assert.Contains(t, err.Error(), "Lane Name")
}

func TestKeyOfBlankValueIsAKey(t *testing.T) {
	v := attribute.New(testutil.Record("/a", testutil.WithHeader(ir.HeaderLaneName, "")))

	key, err := KeyOf(v, DimensionLane, ModeCollapse)
	require.NoError(t, err)
	assert.Equal(t, "", key)
}

func TestKeyOfDeterministic(t *testing.T) {
	a := attribute.New(testutil.Record("/a", testutil.WithHeader(ir.HeaderStudyTitle, "B", "A")))
	b := attribute.New(testutil.Record("/b", testutil.WithHeader(ir.HeaderStudyTitle, "A", "B")))

	ka, err := KeyOf(a, DimensionStudy, ModeCollapse)
	require.NoError(t, err)
	kb, err := KeyOf(b, DimensionStudy, ModeCollapse)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}

func TestColumnUnknown(t *testing.T) {
	_, err := Column("flowcell", ModeExact)
	assert.Error(t, err)
	_, err = Column(DimensionLane, "fuzzy")
	assert.Error(t, err)
}
