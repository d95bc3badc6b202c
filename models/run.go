package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RunStatus is the terminal state of one pipeline invocation.
type RunStatus string

const (
	RunSucceeded RunStatus = "SUCCEEDED"
	RunFailed    RunStatus = "FAILED"
	RunPartial   RunStatus = "PARTIAL"
)

// Pipeline type labels recorded in pipeline_run_log.
const (
	PipelineBLSOEWS       = "BLS_OEWS"
	PipelineCSVEmployees  = "CSV_EMPLOYEES"
	PipelineCSVJobGrades  = "CSV_JOB_GRADES"
	PipelineSeedReference = "SEED_REFERENCE"
)

// PipelineRun is one append-only audit row per pipeline invocation.
// Rows are never mutated after insert; the dashboard freshness indicator
// and run-history view read them ordered by run_timestamp.
type PipelineRun struct {
	bun.BaseModel `bun:"table:pipeline_run_log,alias:pr"`

	ID                 int64     `bun:"id,pk,autoincrement" json:"id"`
	PipelineType       string    `bun:"pipeline_type,notnull" json:"pipelineType"`
	Status             RunStatus `bun:"status,notnull" json:"status"`
	RecordsRequested   int       `bun:"records_requested,notnull,default:0" json:"recordsRequested"`
	RecordsReceived    int       `bun:"records_received,notnull,default:0" json:"recordsReceived"`
	RecordsWritten     int       `bun:"records_written,notnull,default:0" json:"recordsWritten"`
	DiscrepancyFlag    bool      `bun:"discrepancy_flag,notnull,default:false" json:"discrepancyFlag"`
	ErrorMessage       *string   `bun:"error_message" json:"errorMessage,omitempty"`
	RunDurationSeconds float64   `bun:"run_duration_seconds,notnull,default:0" json:"runDurationSeconds"`
	RunTimestamp       time.Time `bun:"run_timestamp,notnull,default:current_timestamp" json:"runTimestamp"`
	TriggerSource      string    `bun:"trigger_source,notnull,default:'manual'" json:"triggerSource"`
}
