package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradeRow(overrides map[string]string) map[string]string {
	row := map[string]string{
		"grade_code":         "G-ENG-L4",
		"job_family":         "Engineering",
		"role_title":         "Software Engineer",
		"job_level":          "L4",
		"band_minimum":       "120000",
		"band_midpoint":      "145000",
		"band_maximum":       "170000",
		"salary_currency":    "USD",
		"geo_scope":          "US-National",
		"below_market_flag":  "N",
		"effective_date":     "2025-01-01",
		"last_reviewed_date": "2025-06-01",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestValidateJobGrades_Passes(t *testing.T) {
	rows := []map[string]string{
		gradeRow(nil),
		gradeRow(map[string]string{"grade_code": "G-ENG-L5", "geo_scope": ""}),
	}
	assert.Empty(t, ValidateJobGrades(gradesRequiredCols, rows))
}

func TestValidateJobGrades_MissingColumnsShortCircuit(t *testing.T) {
	errs := ValidateJobGrades([]string{"grade_code"}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "missing required columns")
	assert.Contains(t, errs[0], "band_midpoint")
}

func TestValidateJobGrades_NonNumericBands(t *testing.T) {
	rows := []map[string]string{
		gradeRow(map[string]string{"band_minimum": "abc"}),
	}
	errs := ValidateJobGrades(gradesRequiredCols, rows)
	assert.Contains(t, errs, `"band_minimum": 1 non-numeric value(s)`)
}

func TestValidateJobGrades_BandOrdering(t *testing.T) {
	rows := []map[string]string{
		gradeRow(map[string]string{"band_minimum": "150000"}),                          // min >= mid
		gradeRow(map[string]string{"band_midpoint": "170000"}),                         // mid >= max
		gradeRow(map[string]string{"band_minimum": "", "band_midpoint": "not-a-number"}), // unparsable rows skip ordering checks
	}
	errs := ValidateJobGrades(gradesRequiredCols, rows)

	assert.Contains(t, errs, "1 row(s) have band_minimum >= band_midpoint")
	assert.Contains(t, errs, "1 row(s) have band_midpoint >= band_maximum")
}
