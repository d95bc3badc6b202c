package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/technova/compintel/models"
)

// All columns expected in technova_job_grades.csv.
var gradesRequiredCols = []string{
	"grade_code", "job_family", "role_title", "job_level",
	"band_minimum", "band_midpoint", "band_maximum",
	"salary_currency", "geo_scope", "below_market_flag",
	"effective_date", "last_reviewed_date",
}

var gradesNotNullCols = []string{
	"grade_code", "job_family", "role_title", "job_level",
	"band_minimum", "band_midpoint", "band_maximum",
}

// ValidateJobGrades runs all data-quality checks on parsed job-grade rows.
// An empty result means the file passed.
func ValidateJobGrades(headers []string, rows []map[string]string) []string {
	var errs []string

	if missing := missingColumns(headers, gradesRequiredCols); len(missing) > 0 {
		return []string{fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}

	for _, col := range gradesNotNullCols {
		nulls := 0
		for _, row := range rows {
			if row[col] == "" {
				nulls++
			}
		}
		if nulls > 0 {
			errs = append(errs, fmt.Sprintf("%q: %d null value(s)", col, nulls))
		}
	}

	bandCols := []string{"band_minimum", "band_midpoint", "band_maximum"}
	for _, col := range bandCols {
		bad := 0
		for _, row := range rows {
			if row[col] == "" {
				continue
			}
			if _, err := strconv.ParseFloat(row[col], 64); err != nil {
				bad++
			}
		}
		if bad > 0 {
			errs = append(errs, fmt.Sprintf("%q: %d non-numeric value(s)", col, bad))
		}
	}

	// Band ordering: minimum < midpoint < maximum. Only rows where all three
	// parse are evaluated, so null errors above don't cascade into spurious
	// ordering failures.
	badMinMid, badMidMax := 0, 0
	for _, row := range rows {
		bmin, errMin := strconv.ParseFloat(row["band_minimum"], 64)
		bmid, errMid := strconv.ParseFloat(row["band_midpoint"], 64)
		bmax, errMax := strconv.ParseFloat(row["band_maximum"], 64)
		if errMin != nil || errMid != nil || errMax != nil {
			continue
		}
		if bmin >= bmid {
			badMinMid++
		}
		if bmid >= bmax {
			badMidMax++
		}
	}
	if badMinMid > 0 {
		errs = append(errs, fmt.Sprintf("%d row(s) have band_minimum >= band_midpoint", badMinMid))
	}
	if badMidMax > 0 {
		errs = append(errs, fmt.Sprintf("%d row(s) have band_midpoint >= band_maximum", badMidMax))
	}

	return errs
}

// JobGrades validates the uploaded job-grade CSV and, if it passes every
// check, upserts all rows in one transaction keyed on grade_code. One audit
// row (CSV_JOB_GRADES) is written whether the file is accepted or rejected.
func JobGrades(ctx context.Context, db *bun.DB, r io.Reader, log *zap.Logger) (*models.PipelineRun, error) {
	return loadCSV(ctx, db, r, log, models.PipelineCSVJobGrades, ValidateJobGrades, upsertJobGrades)
}

func upsertJobGrades(ctx context.Context, db *bun.DB, rows []map[string]string) (int, error) {
	grades := make([]models.JobGrade, len(rows))
	for i, row := range rows {
		bmin, _ := strconv.ParseFloat(row["band_minimum"], 64)
		bmid, _ := strconv.ParseFloat(row["band_midpoint"], 64)
		bmax, _ := strconv.ParseFloat(row["band_maximum"], 64)
		grades[i] = models.JobGrade{
			GradeCode:        row["grade_code"],
			JobFamily:        row["job_family"],
			RoleTitle:        row["role_title"],
			JobLevel:         row["job_level"],
			BandMinimum:      bmin,
			BandMidpoint:     bmid,
			BandMaximum:      bmax,
			SalaryCurrency:   strOrNil(row["salary_currency"]),
			GeoScope:         strOrNil(row["geo_scope"]),
			BelowMarketFlag:  strOrNil(row["below_market_flag"]),
			EffectiveDate:    strOrNil(row["effective_date"]),
			LastReviewedDate: strOrNil(row["last_reviewed_date"]),
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.NewInsert().
		Model(&grades).
		On("CONFLICT (grade_code) DO UPDATE").
		Set("job_family = EXCLUDED.job_family").
		Set("role_title = EXCLUDED.role_title").
		Set("job_level = EXCLUDED.job_level").
		Set("band_minimum = EXCLUDED.band_minimum").
		Set("band_midpoint = EXCLUDED.band_midpoint").
		Set("band_maximum = EXCLUDED.band_maximum").
		Set("salary_currency = EXCLUDED.salary_currency").
		Set("geo_scope = EXCLUDED.geo_scope").
		Set("below_market_flag = EXCLUDED.below_market_flag").
		Set("effective_date = EXCLUDED.effective_date").
		Set("last_reviewed_date = EXCLUDED.last_reviewed_date").
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	written, err := res.RowsAffected()
	if err != nil {
		written = int64(len(grades))
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(written), nil
}
