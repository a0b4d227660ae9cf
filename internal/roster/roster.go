// internal/roster/roster.go
package roster

import (
	"fmt"
	"strconv"
	"strings"

	"compreg/internal/catalog"
	"compreg/internal/table"
)

// Column headers exactly as the registration forms export them. The bilingual
// pipe-separated labels are part of the external contract; a renamed column is
// a fatal lookup error.
const (
	ColSchoolName = "School or Community Name | Nom de l'école ou du communauté"

	ColSupervisorName   = "Full Name | Nom complet"
	ColSupervisorEmail  = "Email Address | Adresse courriel"
	ColSupervisor2Name  = "Name of Supervisor #2 | Nom du superviseur #2"
	ColSupervisor2Email = "Email of Supervisor #2 | Adresse courriel du superviseur #2"

	ColStreet     = "Street Address | Adresse"
	ColCity       = "City | Ville"
	ColProvince   = "Province"
	ColPostalCode = "Postal Code | Code postal"
	ColCountry    = "Country | Pays"

	ColTeamName     = "Team Name | Nom de l'équipe"
	ColPrimaryEmail = "Primary Supervisor Email Address | Adresse courriel du(de la) superviseur(e) primaire"
	ColChallenges   = "Challenges | Défis"

	ColStudentName = "Full Name | Nom complet"
	ColGender      = "Gender | Genre"
	ColGrade       = "Grade | Année"

	ColLunchChoice = "Lunch Choice"
	ColApparelSize = "T-Shirt Size | Taille de t-shirt"
)

// StudentSlots is how many participant blocks the team form repeats.
const StudentSlots = 8

// SupervisorSlot is one of the up-to-two supervisor blocks on a teacher row.
type SupervisorSlot struct {
	Name    string
	Email   string
	Lunch   string
	Apparel string
}

// TeacherRow is one parsed teacher-registration submission.
type TeacherRow struct {
	School      string
	Street      string
	City        string
	Province    string
	PostalCode  string
	Country     string
	Supervisors [2]SupervisorSlot
}

// StudentSlot is one of the up-to-eight participant blocks on a team row.
type StudentSlot struct {
	Name    string
	Gender  string
	Grade   string
	Lunch   string
	Apparel string
}

// TeamRow is one parsed team-registration submission.
type TeamRow struct {
	TeamName     string
	PrimaryEmail string
	Challenges   string
	Students     [StudentSlots]StudentSlot
}

// ChallengeCount returns how many entries the comma-separated challenge list
// declares; blanks between commas do not count.
func (r TeamRow) ChallengeCount() int {
	n := 0
	for _, c := range strings.Split(r.Challenges, ",") {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

// GradeLevel parses the grade field, returning 0 for unset or non-numeric values.
func (s StudentSlot) GradeLevel() int {
	g, err := strconv.Atoi(strings.TrimSpace(s.Grade))
	if err != nil || g < 1 || g > 12 {
		return 0
	}
	return g
}

// slot maps a repeated column back to its per-slot name: the first block keeps
// the bare header, block i gets the ".i" suffix the export applies.
func slot(column string, i int) string {
	if i == 0 {
		return column
	}
	return fmt.Sprintf("%s.%d", column, i)
}

func cell(t *table.Table, row int, column string) (string, error) {
	v, err := t.Cell(row, column)
	if err != nil {
		return "", fmt.Errorf("roster row %d: %w", row+1, err)
	}
	return strings.TrimSpace(v), nil
}

// ParseTeacherRoster converts the teacher-registration table into typed rows.
func ParseTeacherRoster(t *table.Table) ([]TeacherRow, error) {
	rows := make([]TeacherRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		var r TeacherRow
		var err error

		fields := []struct {
			dst *string
			col string
		}{
			{&r.School, ColSchoolName},
			{&r.Street, ColStreet},
			{&r.City, ColCity},
			{&r.Province, ColProvince},
			{&r.PostalCode, ColPostalCode},
			{&r.Country, ColCountry},
			{&r.Supervisors[0].Name, ColSupervisorName},
			{&r.Supervisors[0].Email, ColSupervisorEmail},
			{&r.Supervisors[0].Lunch, ColLunchChoice},
			{&r.Supervisors[0].Apparel, ColApparelSize},
			{&r.Supervisors[1].Name, ColSupervisor2Name},
			{&r.Supervisors[1].Email, ColSupervisor2Email},
			{&r.Supervisors[1].Lunch, slot(ColLunchChoice, 1)},
			{&r.Supervisors[1].Apparel, slot(ColApparelSize, 1)},
		}
		for _, f := range fields {
			if *f.dst, err = cell(t, i, f.col); err != nil {
				return nil, err
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// ParseTeamRoster converts the team-registration table into typed rows.
func ParseTeamRoster(t *table.Table) ([]TeamRow, error) {
	rows := make([]TeamRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		var r TeamRow
		var err error

		if r.TeamName, err = cell(t, i, ColTeamName); err != nil {
			return nil, err
		}
		if r.PrimaryEmail, err = cell(t, i, ColPrimaryEmail); err != nil {
			return nil, err
		}
		if r.Challenges, err = cell(t, i, ColChallenges); err != nil {
			return nil, err
		}

		for s := 0; s < StudentSlots; s++ {
			fields := []struct {
				dst *string
				col string
			}{
				{&r.Students[s].Name, slot(ColStudentName, s)},
				{&r.Students[s].Gender, slot(ColGender, s)},
				{&r.Students[s].Grade, slot(ColGrade, s)},
				{&r.Students[s].Lunch, slot(ColLunchChoice, s)},
				{&r.Students[s].Apparel, slot(ColApparelSize, s)},
			}
			for _, f := range fields {
				if *f.dst, err = cell(t, i, f.col); err != nil {
					return nil, err
				}
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// TeacherEmails collects every declared supervisor email, case-normalized,
// skipping empty cells. This is the comparison set the validator checks
// against; empty cells never act as wildcard matches.
func TeacherEmails(rows []TeacherRow) []string {
	var emails []string
	for _, r := range rows {
		for _, sup := range r.Supervisors {
			if e := catalog.NormalizeEmail(sup.Email); e != "" {
				emails = append(emails, e)
			}
		}
	}
	return emails
}

// PrimaryEmails collects the team roster's primary-supervisor references, raw,
// one per row in row order.
func PrimaryEmails(rows []TeamRow) []string {
	emails := make([]string, len(rows))
	for i, r := range rows {
		emails[i] = r.PrimaryEmail
	}
	return emails
}
