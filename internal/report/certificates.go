// internal/report/certificates.go
package report

import (
	"compreg/internal/model"
	"compreg/internal/table"
)

// SupervisorCertificates lists every non-student member for certificate printing.
func SupervisorCertificates(g *model.Graph) *table.Table {
	t := table.New([]string{"Name", "Group"})
	for _, grp := range g.Groups() {
		for _, m := range grp.Members() {
			if m.Student {
				continue
			}
			t.AppendRow(m.Name, grp.Name)
		}
	}
	return t
}

// StudentCertificates lists every student member with their team.
func StudentCertificates(g *model.Graph) *table.Table {
	t := table.New([]string{"Name", "Group", "Team"})
	for _, grp := range g.Groups() {
		for _, m := range grp.Members() {
			if !m.Student {
				continue
			}
			t.AppendRow(m.Name, grp.Name, m.Team)
		}
	}
	return t
}
