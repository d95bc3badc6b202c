// Package pipeline runs the BLS OEWS market-data ingestion: it resolves the
// reference scope, builds and fetches series batches sequentially, and
// upserts wage rows one atomic batch at a time, recording exactly one audit
// row per invocation.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/technova/compintel/bls"
	"github.com/technova/compintel/models"
)

// ErrReferenceUnavailable means the occupation or area scope could not be
// read, or either set came back empty. The taxonomy is expected to be
// non-empty, so an empty scope is a configuration error, not a no-op run.
var ErrReferenceUnavailable = errors.New("reference scope unavailable")

// References resolves the query scope from the reference tables: SOC codes
// flagged for external query, and metro areas derived from the employee
// roster. Read-only.
type References struct {
	db *bun.DB
}

// NewReferences creates a References backed by the given database.
func NewReferences(db *bun.DB) *References {
	return &References{db: db}
}

// Scope returns the current distinct occupation and area sets.
func (r *References) Scope(ctx context.Context) ([]bls.Occupation, []bls.Area, error) {
	var socs []models.SOCCode
	err := r.db.NewSelect().
		Model(&socs).
		Column("sc.soc_code", "sc.soc_title").
		Where("sc.query_scope").
		Order("sc.soc_code ASC").
		Scan(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading soc_code_reference: %v", ErrReferenceUnavailable, err)
	}
	if len(socs) == 0 {
		return nil, nil, fmt.Errorf("%w: soc_code_reference has no codes in query scope (run cmd/seed first)", ErrReferenceUnavailable)
	}

	type areaRow struct {
		MSACode string `bun:"msa_code"`
		MSAName string `bun:"msa_name"`
	}
	var rows []areaRow
	err = r.db.NewSelect().
		Model((*models.Employee)(nil)).
		ColumnExpr("DISTINCT e.msa_code, e.msa_name").
		Where("e.msa_code IS NOT NULL AND e.msa_code <> ''").
		OrderExpr("e.msa_code ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading employee areas: %v", ErrReferenceUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: no metro areas derivable from employees", ErrReferenceUnavailable)
	}

	occupations := make([]bls.Occupation, len(socs))
	for i, s := range socs {
		occupations[i] = bls.Occupation{Code: s.SOCCode, Title: s.SOCTitle}
	}
	areas := make([]bls.Area, len(rows))
	for i, a := range rows {
		areas[i] = bls.Area{Code: a.MSACode, Name: a.MSAName}
	}
	return occupations, areas, nil
}
