// internal/report/apparel.go
package report

import (
	"strconv"

	"compreg/internal/catalog"
	"compreg/internal/model"
	"compreg/internal/roster"
	"compreg/internal/table"
)

// ApparelTotals tallies shirt sizes across the graph, students and supervisors
// separately. Empty size fields are skipped; sizes outside the catalog are
// ignored the same way unrecognized lunch choices are.
func ApparelTotals(cat *catalog.Catalog, g *model.Graph) *table.Table {
	students := make(map[string]int)
	supervisors := make(map[string]int)
	for _, grp := range g.Groups() {
		for _, m := range grp.Members() {
			if m.Apparel == "" {
				continue
			}
			if m.Student {
				students[m.Apparel]++
			} else {
				supervisors[m.Apparel]++
			}
		}
	}

	t := table.New([]string{"Size", "Students", "Supervisors"})
	for _, size := range cat.ApparelSizes() {
		t.AppendRow(size, strconv.Itoa(students[size]), strconv.Itoa(supervisors[size]))
	}
	return t
}

// ApparelByTeam tallies student shirt sizes per team. Teams come from the team
// roster's team-name column, not from the graph, so a team whose students all
// failed to match still appears with an all-zero row.
func ApparelByTeam(cat *catalog.Catalog, teams []roster.TeamRow) *table.Table {
	sizes := cat.ApparelSizes()

	var order []string
	tallies := make(map[string]map[string]int)
	for _, row := range teams {
		if _, ok := tallies[row.TeamName]; !ok {
			order = append(order, row.TeamName)
			tallies[row.TeamName] = make(map[string]int)
		}
		for _, s := range row.Students {
			if s.Name == "" || s.Apparel == "" {
				continue
			}
			tallies[row.TeamName][s.Apparel]++
		}
	}

	header := append([]string{"Team"}, sizes...)
	t := table.New(header)
	for _, team := range order {
		row := make([]string, 0, len(header))
		row = append(row, team)
		for _, size := range sizes {
			row = append(row, strconv.Itoa(tallies[team][size]))
		}
		t.AppendRow(row...)
	}
	return t
}

// ApparelByStudent is the flat per-student (team, name, size) listing that
// accompanies the per-team tally.
func ApparelByStudent(teams []roster.TeamRow) *table.Table {
	t := table.New([]string{"Team", "Name", "Size"})
	for _, row := range teams {
		for _, s := range row.Students {
			if s.Name == "" {
				continue
			}
			t.AppendRow(row.TeamName, s.Name, s.Apparel)
		}
	}
	return t
}
