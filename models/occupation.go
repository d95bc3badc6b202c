package models

import "github.com/uptrace/bun"

// SOCCode is one row of the SOC occupation taxonomy reference table.
// The table is seeded once by cmd/seed and maintained manually after that.
type SOCCode struct {
	bun.BaseModel `bun:"table:soc_code_reference,alias:sc"`

	SOCCode        string `bun:"soc_code,pk" json:"socCode"`
	SOCTitle       string `bun:"soc_title,notnull" json:"socTitle"`
	SOCMajorGroup  string `bun:"soc_major_group,notnull" json:"socMajorGroup"`
	UsedByFamilies string `bun:"used_by_families" json:"usedByFamilies,omitempty"`
	// QueryScope marks the code as in scope for the external wage query.
	QueryScope bool `bun:"query_scope,notnull,default:true" json:"queryScope"`
}
