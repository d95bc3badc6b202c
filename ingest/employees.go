package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/technova/compintel/models"
)

// All columns expected in technova_employees.csv.
var employeeRequiredCols = []string{
	"employee_id", "first_name", "last_name", "gender", "hire_date",
	"job_family", "role_title", "job_level", "department", "office_location",
	"msa_name", "msa_code", "annual_base_salary", "salary_currency",
	"data_as_of_date",
}

// These columns must not contain any blank values.
var employeeNotNullCols = []string{
	"employee_id", "job_family", "role_title", "job_level",
	"office_location", "annual_base_salary",
}

// ValidateEmployees runs all data-quality checks on parsed employee rows.
// An empty result means the file passed.
func ValidateEmployees(headers []string, rows []map[string]string) []string {
	var errs []string

	if missing := missingColumns(headers, employeeRequiredCols); len(missing) > 0 {
		// Cannot safely run further checks without the right schema.
		return []string{fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}

	for _, col := range employeeNotNullCols {
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

	nonNumeric, nonPositive := 0, 0
	for _, row := range rows {
		raw := row["annual_base_salary"]
		if raw == "" {
			continue // already counted as null above
		}
		salary, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			nonNumeric++
			continue
		}
		if salary <= 0 {
			nonPositive++
		}
	}
	if nonNumeric > 0 {
		errs = append(errs, fmt.Sprintf("\"annual_base_salary\": %d non-numeric value(s)", nonNumeric))
	}
	if nonPositive > 0 {
		errs = append(errs, fmt.Sprintf("\"annual_base_salary\": %d non-positive value(s)", nonPositive))
	}

	return errs
}

// Employees validates the uploaded employee CSV and, if it passes every
// check, upserts all rows in one transaction keyed on employee_id. One audit
// row (CSV_EMPLOYEES) is written whether the file is accepted or rejected.
func Employees(ctx context.Context, db *bun.DB, r io.Reader, log *zap.Logger) (*models.PipelineRun, error) {
	return loadCSV(ctx, db, r, log, models.PipelineCSVEmployees, ValidateEmployees, upsertEmployees)
}

func upsertEmployees(ctx context.Context, db *bun.DB, rows []map[string]string) (int, error) {
	employees := make([]models.Employee, len(rows))
	for i, row := range rows {
		salary, _ := strconv.ParseFloat(row["annual_base_salary"], 64)
		employees[i] = models.Employee{
			EmployeeID:       row["employee_id"],
			FirstName:        strOrNil(row["first_name"]),
			LastName:         strOrNil(row["last_name"]),
			Gender:           strOrNil(row["gender"]),
			HireDate:         strOrNil(row["hire_date"]),
			JobFamily:        row["job_family"],
			RoleTitle:        row["role_title"],
			JobLevel:         row["job_level"],
			Department:       strOrNil(row["department"]),
			OfficeLocation:   row["office_location"],
			MSAName:          strOrNil(row["msa_name"]),
			MSACode:          strOrNil(row["msa_code"]),
			AnnualBaseSalary: salary,
			SalaryCurrency:   strOrNil(row["salary_currency"]),
			DataAsOfDate:     strOrNil(row["data_as_of_date"]),
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.NewInsert().
		Model(&employees).
		On("CONFLICT (employee_id) DO UPDATE").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("gender = EXCLUDED.gender").
		Set("hire_date = EXCLUDED.hire_date").
		Set("job_family = EXCLUDED.job_family").
		Set("role_title = EXCLUDED.role_title").
		Set("job_level = EXCLUDED.job_level").
		Set("department = EXCLUDED.department").
		Set("office_location = EXCLUDED.office_location").
		Set("msa_name = EXCLUDED.msa_name").
		Set("msa_code = EXCLUDED.msa_code").
		Set("annual_base_salary = EXCLUDED.annual_base_salary").
		Set("salary_currency = EXCLUDED.salary_currency").
		Set("data_as_of_date = EXCLUDED.data_as_of_date").
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	written, err := res.RowsAffected()
	if err != nil {
		written = int64(len(employees))
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(written), nil
}

// loadCSV is the shared parse → validate → upsert → audit flow for both
// upload endpoints.
func loadCSV(
	ctx context.Context,
	db *bun.DB,
	r io.Reader,
	log *zap.Logger,
	pipelineType string,
	validate func(headers []string, rows []map[string]string) []string,
	upsert func(ctx context.Context, db *bun.DB, rows []map[string]string) (int, error),
) (*models.PipelineRun, error) {
	started := time.Now()

	finish := func(status models.RunStatus, requested, received, written int, cause error) (*models.PipelineRun, error) {
		run := &models.PipelineRun{
			PipelineType:       pipelineType,
			Status:             status,
			RecordsRequested:   requested,
			RecordsReceived:    received,
			RecordsWritten:     written,
			DiscrepancyFlag:    received != written,
			RunDurationSeconds: time.Since(started).Seconds(),
			RunTimestamp:       time.Now().UTC(),
			TriggerSource:      "upload",
		}
		if cause != nil {
			msg := cause.Error()
			run.ErrorMessage = &msg
		}
		recordRun(ctx, db, run, log)
		return run, cause
	}

	headers, rows, err := readRows(r)
	if err != nil {
		return finish(models.RunFailed, 0, 0, 0, fmt.Errorf("parse csv: %w", err))
	}

	if errs := validate(headers, rows); len(errs) > 0 {
		log.Error("upload rejected", zap.String("pipeline", pipelineType), zap.Strings("errors", errs))
		return finish(models.RunFailed, len(rows), len(rows), 0,
			fmt.Errorf("%w: %s", ErrInvalidFile, strings.Join(errs, " | ")))
	}

	written, err := upsert(ctx, db, rows)
	if err != nil {
		return finish(models.RunFailed, len(rows), len(rows), 0, fmt.Errorf("db upsert failed: %w", err))
	}

	log.Info("upload accepted",
		zap.String("pipeline", pipelineType),
		zap.Int("rows", len(rows)),
		zap.Int("written", written),
	)
	return finish(models.RunSucceeded, len(rows), len(rows), written, nil)
}
