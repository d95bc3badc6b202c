// Package ingest validates and loads the internally sourced CSV files
// (employee roster and job grades) and records one audit row per upload.
// A file that fails any validation check is rejected whole; nothing is
// written except the audit row.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/technova/compintel/models"
)

// ErrInvalidFile marks a rejected upload: the file parsed but failed one or
// more data-quality checks. The audit row carries the individual errors.
var ErrInvalidFile = errors.New("file failed validation")

// readRows parses CSV content into header-mapped rows. Short rows are padded
// with empty strings and long rows truncated, so a ragged file still maps
// cleanly onto the expected columns.
func readRows(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty file: no header row found")
		}
		return nil, nil, err
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// missingColumns returns required columns absent from the header row.
func missingColumns(headers, required []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// strOrNil returns nil for blank CSV cells so bun writes SQL NULL.
func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// recordRun appends the upload's audit row. Failing to record never masks
// the upload's own outcome.
func recordRun(ctx context.Context, db *bun.DB, run *models.PipelineRun, log *zap.Logger) {
	if _, err := db.NewInsert().Model(run).Exec(ctx); err != nil {
		log.Warn("could not write pipeline_run_log", zap.Error(err))
	}
}
