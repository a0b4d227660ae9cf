// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"compreg/internal/billing"
	"compreg/internal/catalog"
	"compreg/internal/logger"
	"compreg/internal/model"
	"compreg/internal/report"
	"compreg/internal/roster"
	"compreg/internal/table"
	"compreg/internal/validate"
)

// Report kinds the pipeline can produce. Names double as output file names.
const (
	ReportMealTotals       = "meal_totals"
	ReportMealsBySchool    = "meal_totals_by_school"
	ReportMealsByPerson    = "meals_by_person"
	ReportApparelTotals    = "apparel_totals"
	ReportApparelByTeam    = "apparel_by_team"
	ReportApparelByStudent = "apparel_by_student"
	ReportSupervisorCerts  = "certificates_supervisors"
	ReportStudentCerts     = "certificates_students"
)

// AllReports is the default report set, in output order.
var AllReports = []string{
	ReportMealTotals,
	ReportMealsBySchool,
	ReportMealsByPerson,
	ReportApparelTotals,
	ReportApparelByTeam,
	ReportApparelByStudent,
	ReportSupervisorCerts,
	ReportStudentCerts,
}

// Options parameterizes one run. The same pipeline serves every variant:
// which reports to write, and whether billing runs at all, is configuration.
type Options struct {
	Catalog   *catalog.Catalog
	Reports   []string // nil means AllReports
	OutputDir string

	Billing    bool
	BillingDir string
	Composer   *billing.Composer // required when Billing is set
}

// Result summarizes one completed run.
type Result struct {
	Graph       *model.Graph
	TeacherRows int
	TeamRows    int
	ReportFiles []string
	Invoices    []billing.Issued
}

// Run executes the batch: validate the cross-references, build the entity
// graph, write the reports, then issue invoices. Validation failures abort
// before any output exists; a billing failure keeps whatever was already
// written.
func Run(ctx context.Context, teacherTable, teamTable *table.Table, opts Options) (*Result, error) {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	teachers, err := roster.ParseTeacherRoster(teacherTable)
	if err != nil {
		return nil, fmt.Errorf("failed to parse teacher roster: %w", err)
	}
	teams, err := roster.ParseTeamRoster(teamTable)
	if err != nil {
		return nil, fmt.Errorf("failed to parse team roster: %w", err)
	}
	logger.LogInfo("Parsed %d teacher row(s) and %d team row(s)", len(teachers), len(teams))

	if err := validate.CrossReference(roster.TeacherEmails(teachers), roster.PrimaryEmails(teams)); err != nil {
		return nil, err
	}
	logger.LogInfo("All team registration emails matched a teacher registration email")

	graph, err := model.Build(cat, teachers, teams)
	if err != nil {
		return nil, err
	}
	logger.LogInfo("Built entity graph: %d group(s)", len(graph.Groups()))

	result := &Result{
		Graph:       graph,
		TeacherRows: len(teachers),
		TeamRows:    len(teams),
	}

	kinds := opts.Reports
	if kinds == nil {
		kinds = AllReports
	}
	for _, kind := range kinds {
		t, err := generate(kind, cat, graph, teams)
		if err != nil {
			return result, err
		}
		path := filepath.Join(opts.OutputDir, kind+".csv")
		if err := t.WriteFile(path); err != nil {
			return result, fmt.Errorf("failed to write report %s: %w", kind, err)
		}
		result.ReportFiles = append(result.ReportFiles, path)
	}
	logger.LogInfo("Wrote %d report(s) to %s", len(result.ReportFiles), opts.OutputDir)

	if opts.Billing {
		issued, err := opts.Composer.IssueAll(ctx, graph, opts.BillingDir)
		result.Invoices = issued
		if err != nil {
			return result, err
		}
		logger.LogInfo("Issued %d invoice(s)", len(issued))
	}

	return result, nil
}

func generate(kind string, cat *catalog.Catalog, g *model.Graph, teams []roster.TeamRow) (*table.Table, error) {
	switch kind {
	case ReportMealTotals:
		return report.GeneralMealTotals(cat, g), nil
	case ReportMealsBySchool:
		return report.PerSchoolMealTotals(cat, g), nil
	case ReportMealsByPerson:
		return report.PerPersonMeals(g), nil
	case ReportApparelTotals:
		return report.ApparelTotals(cat, g), nil
	case ReportApparelByTeam:
		return report.ApparelByTeam(cat, teams), nil
	case ReportApparelByStudent:
		return report.ApparelByStudent(teams), nil
	case ReportSupervisorCerts:
		return report.SupervisorCertificates(g), nil
	case ReportStudentCerts:
		return report.StudentCertificates(g), nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}
