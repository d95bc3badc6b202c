package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/technova/compintel/bls"
)

func TestParseWage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *float64
	}{
		{"plain number", "132270", f(132270)},
		{"decimal", "63.55", f(63.55)},
		{"padded", "  98000 ", f(98000)},
		{"dash is suppressed", "-", nil},
		{"double star is suppressed", "**", nil},
		{"n/a is suppressed", "N/A", nil},
		{"empty is suppressed", "", nil},
		{"garbage is missing not zero", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWage(tt.raw)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

func f(v float64) *float64 { return &v }

func testRefs() ([]bls.SeriesRef, map[string]bls.SeriesRef) {
	refs, _ := bls.BuildSeries(
		[]bls.Occupation{{Code: "15-1252", Title: "Software Developers"}},
		[]bls.Area{{Code: "12420", Name: "Austin TX"}},
	)
	return refs, bls.RefsByID(refs)
}

func TestTransform_SuppressedValueIsKept(t *testing.T) {
	refs, byID := testRefs()

	series := []bls.Series{
		{SeriesID: refs[0].SeriesID, Data: []bls.Observation{{Year: "2024", Value: "158930"}}},
		{SeriesID: refs[1].SeriesID, Data: []bls.Observation{{Year: "2024", Value: "-"}}},
	}

	observations := Transform(series, byID, 2024, zap.NewNop())
	require.Len(t, observations, 2)

	require.NotNil(t, observations[0].Value)
	assert.Equal(t, 158930.0, *observations[0].Value)
	assert.Equal(t, "03", observations[0].DataType)

	// Suppressed figure: record kept, value explicitly missing, never zero.
	assert.Nil(t, observations[1].Value)
	assert.Equal(t, "11", observations[1].DataType)
	assert.Equal(t, 2024, observations[1].ReferenceYear)
	assert.Equal(t, "15-1252", observations[1].SOCCode)
	assert.Equal(t, "12420", observations[1].MSACode)
}

func TestTransform_UnknownSeriesDropped(t *testing.T) {
	refs, byID := testRefs()

	series := []bls.Series{
		{SeriesID: "OEUM999999900000099999903", Data: []bls.Observation{{Year: "2024", Value: "100"}}},
		{SeriesID: refs[0].SeriesID, Data: []bls.Observation{{Year: "2024", Value: "100"}}},
	}

	observations := Transform(series, byID, 2024, zap.NewNop())
	require.Len(t, observations, 1)
	assert.Equal(t, refs[0].SOCCode, observations[0].SOCCode)
}

func TestTransform_EmptySeriesDropped(t *testing.T) {
	refs, byID := testRefs()

	series := []bls.Series{
		{SeriesID: refs[0].SeriesID, Data: nil},
	}

	observations := Transform(series, byID, 2024, zap.NewNop())
	assert.Empty(t, observations)
}

func TestTransform_YearFallback(t *testing.T) {
	refs, byID := testRefs()

	series := []bls.Series{
		{SeriesID: refs[0].SeriesID, Data: []bls.Observation{{Year: "not-a-year", Value: "100"}}},
	}

	observations := Transform(series, byID, 2023, zap.NewNop())
	require.Len(t, observations, 1)
	assert.Equal(t, 2023, observations[0].ReferenceYear)
}
