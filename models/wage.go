package models

import (
	"time"

	"github.com/uptrace/bun"
)

// WageObservation is one market wage data point from the BLS OEWS survey:
// a single statistic for one occupation in one metro area in one survey year.
// The natural key (soc_code, msa_code, reference_year, data_type) is the
// upsert conflict target; rows are never deleted, only superseded in place.
type WageObservation struct {
	bun.BaseModel `bun:"table:bls_wage_data,alias:w"`

	ID            int64    `bun:"id,pk,autoincrement" json:"id"`
	SOCCode       string   `bun:"soc_code,notnull" json:"socCode"`
	SOCTitle      string   `bun:"soc_title" json:"socTitle,omitempty"`
	MSACode       string   `bun:"msa_code,notnull" json:"msaCode"`
	MSAName       string   `bun:"msa_name" json:"msaName,omitempty"`
	ReferenceYear int      `bun:"reference_year,notnull" json:"referenceYear"`
	DataType      string   `bun:"data_type,notnull" json:"dataType"`
	// Value is nil when the survey suppressed the figure for confidentiality.
	Value      *float64  `bun:"value" json:"value"`
	DataSource string    `bun:"data_source,notnull,default:'BLS_OEWS'" json:"dataSource"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
