// cmd/seed/main.go
// Seeds the two static reference tables that never change unless manually
// updated: soc_code_reference and job_soc_crosswalk. INSERT ... ON CONFLICT
// DO NOTHING makes the command safely re-runnable. One SEED_REFERENCE audit
// row is written per invocation.
//
// Usage:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/uptrace/bun"

	"github.com/technova/compintel/config"
	bundb "github.com/technova/compintel/db"
	"github.com/technova/compintel/models"
)

var socCodes = []models.SOCCode{
	{SOCCode: "11-1021", SOCTitle: "General and Operations Managers", SOCMajorGroup: "Management Occupations", UsedByFamilies: "Corporate", QueryScope: true},
	{SOCCode: "11-3021", SOCTitle: "Computer and Information Systems Managers", SOCMajorGroup: "Management Occupations", UsedByFamilies: "Product Management (L5-L6)", QueryScope: true},
	{SOCCode: "11-3121", SOCTitle: "Human Resources Managers", SOCMajorGroup: "Management Occupations", UsedByFamilies: "Corporate", QueryScope: true},
	{SOCCode: "13-1071", SOCTitle: "Human Resources Specialists", SOCMajorGroup: "Business & Financial Operations", UsedByFamilies: "Corporate", QueryScope: true},
	{SOCCode: "13-2011", SOCTitle: "Accountants and Auditors", SOCMajorGroup: "Business & Financial Operations", UsedByFamilies: "Corporate", QueryScope: true},
	{SOCCode: "13-2051", SOCTitle: "Financial Analysts", SOCMajorGroup: "Business & Financial Operations", UsedByFamilies: "Corporate", QueryScope: true},
	{SOCCode: "15-1211", SOCTitle: "Computer Systems Analysts", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "Clinical Informatics, Health IT, UX Research, IT Analyst", QueryScope: true},
	{SOCCode: "15-1232", SOCTitle: "Computer User Support Specialists", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "IT / Systems Administration", QueryScope: true},
	{SOCCode: "15-1243", SOCTitle: "Database Architects", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "Data Engineering, Analytics Engineering", QueryScope: true},
	{SOCCode: "15-1244", SOCTitle: "Network and Computer Systems Administrators", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "DevOps, Platform, SysAdmin", QueryScope: true},
	{SOCCode: "15-1252", SOCTitle: "Software Developers", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "Software Engineering, SRE, Mobile", QueryScope: true},
	{SOCCode: "15-1253", SOCTitle: "Software Quality Assurance Analysts and Testers", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "Software Engineering (QA/SDET)", QueryScope: true},
	{SOCCode: "15-1254", SOCTitle: "Web Developers", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "Software Engineering (Frontend)", QueryScope: true},
	{SOCCode: "15-1255", SOCTitle: "Web and Digital Interface Designers", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "UX / Design", QueryScope: true},
	{SOCCode: "15-1299", SOCTitle: "Computer Occupations, All Other", SOCMajorGroup: "Computer & Mathematical", UsedByFamilies: "Product Management (IC L1-L4)", QueryScope: true},
	{SOCCode: "15-2051", SOCTitle: "Data Scientists", SOCMajorGroup: "Mathematical Science", UsedByFamilies: "Data Science, Data Analysis", QueryScope: true},
	{SOCCode: "23-1011", SOCTitle: "Lawyers", SOCMajorGroup: "Legal Occupations", UsedByFamilies: "Corporate Legal", QueryScope: true},
	{SOCCode: "23-2011", SOCTitle: "Paralegals and Legal Assistants", SOCMajorGroup: "Legal Occupations", UsedByFamilies: "Corporate Legal", QueryScope: true},
	{SOCCode: "41-3091", SOCTitle: "Sales Representatives of Services, Except Advertising, Insurance, Financial Services, and Travel", SOCMajorGroup: "Sales & Related", UsedByFamilies: "Sales, Account Management", QueryScope: true},
	{SOCCode: "41-9031", SOCTitle: "Sales Engineers", SOCMajorGroup: "Sales & Related", UsedByFamilies: "Solutions Engineering", QueryScope: true},
}

func note(s string) *string { return &s }

var healthcareNAICS = note("YES - NAICS 62 (Health Care)")

var crosswalk = []models.JobSOCCrosswalk{
	{CrosswalkID: "XW-001", JobFamily: "Software Engineering", RoleTitle: "Software Engineer - Backend / Full-Stack", JobLevelApplicability: "L1-L6", SOCCode: "15-1252", MatchQuality: "EXACT", MatchNotes: note("Direct SOC match. Primary code for all backend and full-stack SWE roles."), PipelineQuery: true},
	{CrosswalkID: "XW-002", JobFamily: "Software Engineering", RoleTitle: "Software Engineer - Frontend / Web", JobLevelApplicability: "L1-L4", SOCCode: "15-1254", MatchQuality: "CLOSE", MatchNotes: note("Use for frontend-focused roles. Upgrade to 15-1252 at L5+ where scope broadens."), PipelineQuery: true},
	{CrosswalkID: "XW-003", JobFamily: "Software Engineering", RoleTitle: "Software Engineer - Mobile", JobLevelApplicability: "L1-L6", SOCCode: "15-1252", MatchQuality: "CLOSE", MatchNotes: note("No mobile-specific SOC exists. 15-1252 is the standard industry mapping."), PipelineQuery: true},
	{CrosswalkID: "XW-004", JobFamily: "Software Engineering", RoleTitle: "QA Engineer / SDET", JobLevelApplicability: "L1-L5", SOCCode: "15-1253", MatchQuality: "EXACT", MatchNotes: note("Dedicated SOC code for all quality engineering and SDET roles."), PipelineQuery: true},
	{CrosswalkID: "XW-005", JobFamily: "Data & Analytics", RoleTitle: "Data Scientist", JobLevelApplicability: "L1-L6", SOCCode: "15-2051", MatchQuality: "EXACT", MatchNotes: note("Dedicated code added in 2018 SOC revision. Direct match for all DS roles."), PipelineQuery: true},
	{CrosswalkID: "XW-006", JobFamily: "Data & Analytics", RoleTitle: "Data Engineer", JobLevelApplicability: "L1-L6", SOCCode: "15-1243", MatchQuality: "CLOSE", MatchNotes: note("No Data Engineer SOC exists. 15-1243 is the closest match by task definition."), PipelineQuery: true},
	{CrosswalkID: "XW-007", JobFamily: "Data & Analytics", RoleTitle: "Data Analyst", JobLevelApplicability: "L1-L4", SOCCode: "15-2051", MatchQuality: "BEST_AVAILABLE", MatchNotes: note("CAUTION: No Data Analyst SOC exists. 15-2051 skews high vs analyst-level comp."), PipelineQuery: true},
	{CrosswalkID: "XW-008", JobFamily: "Data & Analytics", RoleTitle: "Analytics Engineer", JobLevelApplicability: "L2-L5", SOCCode: "15-1243", MatchQuality: "BEST_AVAILABLE", MatchNotes: note("Hybrid role with no SOC match. 15-1243 used for pipeline/data architecture alignment."), PipelineQuery: true},
	{CrosswalkID: "XW-009", JobFamily: "Data & Analytics", RoleTitle: "Business Intelligence Analyst", JobLevelApplicability: "L1-L4", SOCCode: "15-1211", MatchQuality: "CLOSE", MatchNotes: note("BI roles commonly mapped to 15-1211 by compensation practitioners."), PipelineQuery: true},
	{CrosswalkID: "XW-010", JobFamily: "Product Management", RoleTitle: "Product Manager - IC", JobLevelApplicability: "L1-L4", SOCCode: "15-1299", MatchQuality: "KNOWN_GAP", MatchNotes: note("CRITICAL: No PM SOC exists. 15-1299 is catch-all. Dashboard disclaimer required."), PipelineQuery: true},
	{CrosswalkID: "XW-011", JobFamily: "Product Management", RoleTitle: "Senior / Principal Product Manager", JobLevelApplicability: "L5-L6", SOCCode: "11-3021", MatchQuality: "BEST_AVAILABLE", MatchNotes: note("L5+ PM scope approaches management. 11-3021 gives better signal at senior levels."), PipelineQuery: true},
	{CrosswalkID: "XW-012", JobFamily: "Clinical Informatics / Health IT", RoleTitle: "Clinical Informatics Analyst", JobLevelApplicability: "L1-L4", SOCCode: "15-1211", MatchQuality: "CLOSE", MatchNotes: note("O*NET sub-code 15-1211.01 rolls into 15-1211 for OEWS wage publication."), PipelineQuery: true, NAICSFilter: healthcareNAICS},
	{CrosswalkID: "XW-013", JobFamily: "Clinical Informatics / Health IT", RoleTitle: "Health IT Specialist", JobLevelApplicability: "L1-L4", SOCCode: "15-1211", MatchQuality: "CLOSE", MatchNotes: note("NAICS 62 filter critical to get healthcare-sector wage signal."), PipelineQuery: true, NAICSFilter: healthcareNAICS},
	{CrosswalkID: "XW-016", JobFamily: "UX / Design", RoleTitle: "UX Designer / Product Designer", JobLevelApplicability: "L1-L5", SOCCode: "15-1255", MatchQuality: "CLOSE", MatchNotes: note("Added in 2018 SOC revision specifically for digital product design roles."), PipelineQuery: true},
	{CrosswalkID: "XW-017", JobFamily: "UX / Design", RoleTitle: "UX Researcher", JobLevelApplicability: "L2-L5", SOCCode: "15-1211", MatchQuality: "BEST_AVAILABLE", MatchNotes: note("No UX Research SOC exists. 15-1211 is the standard practitioner workaround."), PipelineQuery: true},
	{CrosswalkID: "XW-019", JobFamily: "DevOps / Platform / SRE", RoleTitle: "DevOps Engineer", JobLevelApplicability: "L2-L5", SOCCode: "15-1244", MatchQuality: "CLOSE", MatchNotes: note("Standard mapping. May skew slightly low for senior DevOps."), PipelineQuery: true},
	{CrosswalkID: "XW-020", JobFamily: "DevOps / Platform / SRE", RoleTitle: "Platform Engineer", JobLevelApplicability: "L2-L5", SOCCode: "15-1244", MatchQuality: "CLOSE", MatchNotes: note("Same mapping as DevOps; platform scope does not change the SOC alignment."), PipelineQuery: true},
	{CrosswalkID: "XW-021", JobFamily: "DevOps / Platform / SRE", RoleTitle: "Site Reliability Engineer", JobLevelApplicability: "L2-L6", SOCCode: "15-1252", MatchQuality: "CLOSE", MatchNotes: note("SRE roles with heavy software scope map to 15-1252 rather than sysadmin codes."), PipelineQuery: true},
}

func main() {
	start := time.Now()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	socWritten, err := seedSOCCodes(ctx, db)
	if err != nil {
		recordSeedRun(ctx, db, models.RunFailed, 0, start, err)
		log.Fatal("seed soc_code_reference:", err)
	}

	cwWritten, err := seedCrosswalk(ctx, db)
	if err != nil {
		recordSeedRun(ctx, db, models.RunFailed, socWritten, start, err)
		log.Fatal("seed job_soc_crosswalk:", err)
	}

	recordSeedRun(ctx, db, models.RunSucceeded, socWritten+cwWritten, start, nil)

	fmt.Printf("soc_code_reference : %d inserted (%d in seed set)\n", socWritten, len(socCodes))
	fmt.Printf("job_soc_crosswalk  : %d inserted (%d in seed set)\n", cwWritten, len(crosswalk))
	fmt.Printf("done in %s\n", time.Since(start).Round(time.Millisecond))
}

func seedSOCCodes(ctx context.Context, db *bun.DB) (int, error) {
	res, err := db.NewInsert().
		Model(&socCodes).
		On("CONFLICT (soc_code) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func seedCrosswalk(ctx context.Context, db *bun.DB) (int, error) {
	res, err := db.NewInsert().
		Model(&crosswalk).
		On("CONFLICT (crosswalk_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func recordSeedRun(ctx context.Context, db *bun.DB, status models.RunStatus, written int, start time.Time, cause error) {
	requested := len(socCodes) + len(crosswalk)
	run := &models.PipelineRun{
		PipelineType:       models.PipelineSeedReference,
		Status:             status,
		RecordsRequested:   requested,
		RecordsReceived:    requested,
		RecordsWritten:     written,
		// Re-runs hit ON CONFLICT DO NOTHING, so written can be short here.
		DiscrepancyFlag:    requested != written,
		RunDurationSeconds: time.Since(start).Seconds(),
		RunTimestamp:       time.Now().UTC(),
		TriggerSource:      "seed",
	}
	if cause != nil {
		msg := cause.Error()
		run.ErrorMessage = &msg
	}
	if _, err := db.NewInsert().Model(run).Exec(ctx); err != nil {
		log.Println("could not write pipeline_run_log:", err)
	}
}
