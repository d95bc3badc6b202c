package models

import "github.com/uptrace/bun"

// JobGrade is one internal salary band, loaded from technova_job_grades.csv.
type JobGrade struct {
	bun.BaseModel `bun:"table:internal_job_grades,alias:g"`

	GradeCode        string  `bun:"grade_code,pk" json:"gradeCode"`
	JobFamily        string  `bun:"job_family,notnull" json:"jobFamily"`
	RoleTitle        string  `bun:"role_title,notnull" json:"roleTitle"`
	JobLevel         string  `bun:"job_level,notnull" json:"jobLevel"`
	BandMinimum      float64 `bun:"band_minimum,notnull" json:"bandMinimum"`
	BandMidpoint     float64 `bun:"band_midpoint,notnull" json:"bandMidpoint"`
	BandMaximum      float64 `bun:"band_maximum,notnull" json:"bandMaximum"`
	SalaryCurrency   *string `bun:"salary_currency" json:"salaryCurrency,omitempty"`
	GeoScope         *string `bun:"geo_scope" json:"geoScope,omitempty"`
	BelowMarketFlag  *string `bun:"below_market_flag" json:"belowMarketFlag,omitempty"`
	EffectiveDate    *string `bun:"effective_date,type:date" json:"effectiveDate,omitempty"`
	LastReviewedDate *string `bun:"last_reviewed_date,type:date" json:"lastReviewedDate,omitempty"`
}
