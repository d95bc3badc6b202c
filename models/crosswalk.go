package models

import "github.com/uptrace/bun"

// JobSOCCrosswalk maps an internal role to its closest SOC occupation code,
// with metadata on how good the match is. Seeded once by cmd/seed.
type JobSOCCrosswalk struct {
	bun.BaseModel `bun:"table:job_soc_crosswalk,alias:cw"`

	CrosswalkID           string  `bun:"crosswalk_id,pk" json:"crosswalkID"`
	JobFamily             string  `bun:"job_family,notnull" json:"jobFamily"`
	RoleTitle             string  `bun:"technova_role_title,notnull" json:"roleTitle"`
	JobLevelApplicability string  `bun:"job_level_applicability" json:"jobLevelApplicability,omitempty"`
	SOCCode               string  `bun:"soc_code,notnull" json:"socCode"`
	MatchQuality          string  `bun:"match_quality,notnull" json:"matchQuality"`
	MatchNotes            *string `bun:"match_notes" json:"matchNotes,omitempty"`
	PipelineQuery         bool    `bun:"pipeline_query_flag,notnull,default:true" json:"pipelineQuery"`
	NAICSFilter           *string `bun:"naics_filter_recommended" json:"naicsFilter,omitempty"`

	SOC *SOCCode `bun:"rel:belongs-to,join:soc_code=soc_code" json:"-"`
}
