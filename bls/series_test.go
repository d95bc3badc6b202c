package bls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesID(t *testing.T) {
	tests := []struct {
		name     string
		msaCode  string
		socCode  string
		dataType string
		expected string
	}{
		{"denver software developers mean", "19740", "15-1252", "03", "OEUM001974000000015125203"},
		{"austin data scientists median", "12420", "15-2051", "13", "OEUM001242000000015205113"},
		{"short area code is padded", "420", "15-1252", "03", "OEUM000042000000015125203"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeriesID(tt.msaCode, tt.socCode, tt.dataType)
			assert.Equal(t, tt.expected, got)
			assert.Len(t, got, 25)
		})
	}
}

func TestSOCDigits(t *testing.T) {
	assert.Equal(t, "151252", SOCDigits("15-1252"))
	assert.Equal(t, "111021", SOCDigits("11-1021"))
	assert.Equal(t, "001234", SOCDigits("1234"))
}

func TestBuildSeries_CrossProduct(t *testing.T) {
	occs := []Occupation{{Code: "15-1252", Title: "Software Developers"}}
	areas := []Area{
		{Code: "12420", Name: "Austin TX"},
		{Code: "41860", Name: "San Francisco CA"},
	}

	refs, err := BuildSeries(occs, areas)
	require.NoError(t, err)

	// 1 occupation × 2 areas × 6 data types.
	require.Len(t, refs, 12)

	seen := map[string]struct{}{}
	for _, ref := range refs {
		_, dup := seen[ref.SeriesID]
		assert.False(t, dup, "duplicate series id %s", ref.SeriesID)
		seen[ref.SeriesID] = struct{}{}
	}

	batches := Partition(refs, 50)
	assert.Len(t, batches, 1)
}

func TestBuildSeries_Deterministic(t *testing.T) {
	// Input order must not matter: repeated runs have to produce identical,
	// diff-able batches.
	occs := []Occupation{{Code: "15-2051"}, {Code: "11-1021"}, {Code: "15-1252"}}
	areas := []Area{{Code: "41860"}, {Code: "12420"}}

	first, err := BuildSeries(occs, areas)
	require.NoError(t, err)

	shuffled := []Occupation{{Code: "15-1252"}, {Code: "15-2051"}, {Code: "11-1021"}}
	second, err := BuildSeries(shuffled, []Area{{Code: "12420"}, {Code: "41860"}})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Ordered by occupation, then area, then data type.
	assert.Equal(t, "11-1021", first[0].SOCCode)
	assert.Equal(t, "12420", first[0].MSACode)
	assert.Equal(t, "03", first[0].DataType)
	assert.Equal(t, "11", first[1].DataType)
	assert.Equal(t, "41860", first[6].MSACode)
}

func TestBuildSeries_DuplicateInput(t *testing.T) {
	occs := []Occupation{{Code: "15-1252"}, {Code: "15-1252"}}
	areas := []Area{{Code: "12420"}}

	_, err := BuildSeries(occs, areas)
	assert.ErrorContains(t, err, "duplicate series id")
}

func TestPartition(t *testing.T) {
	occs := []Occupation{{Code: "15-1252"}, {Code: "15-2051"}}
	areas := []Area{{Code: "12420"}, {Code: "41860"}, {Code: "19740"}}
	refs, err := BuildSeries(occs, areas)
	require.NoError(t, err)
	require.Len(t, refs, 36)

	tests := []struct {
		name      string
		size      int
		batches   int
		lastBatch int
	}{
		{"one batch", 50, 1, 36},
		{"even split", 12, 3, 12},
		{"remainder batch", 25, 2, 11},
		{"single series batches", 1, 36, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Partition(refs, tt.size)
			require.Len(t, batches, tt.batches)
			assert.Len(t, batches[len(batches)-1], tt.lastBatch)

			total := 0
			for _, b := range batches {
				assert.LessOrEqual(t, len(b), tt.size)
				total += len(b)
			}
			assert.Equal(t, len(refs), total)
		})
	}

	assert.Nil(t, Partition(refs, 0))
	assert.Nil(t, Partition(nil, 10))
}
