// internal/model/builder.go
package model

import (
	"errors"
	"fmt"

	"compreg/internal/catalog"
	"compreg/internal/logger"
	"compreg/internal/roster"
)

// ErrMissingPrimaryEmail marks a team-roster row with no primary supervisor
// email. The fallback group only catches *mismatched* emails; a missing one is
// a broken submission and fails the build.
var ErrMissingPrimaryEmail = errors.New("team row missing primary supervisor email")

// Build runs the two-phase construction: groups and supervisors from the
// teacher roster, then students from the team roster. The graph is immutable
// once Build returns.
func Build(cat *catalog.Catalog, teachers []roster.TeacherRow, teams []roster.TeamRow) (*Graph, error) {
	g := newGraph()

	// Phase 1: one group per teacher row, keyed by school/community name.
	for i, row := range teachers {
		grp := newGroup(row.School)
		grp.Address = Address{
			Contact:    row.Supervisors[0].Name,
			Street:     row.Street,
			City:       row.City,
			Province:   row.Province,
			PostalCode: row.PostalCode,
			Country:    row.Country,
		}

		for _, sup := range row.Supervisors {
			if sup.Name == "" {
				continue
			}
			m := &Member{
				Name:    sup.Name,
				Lunch:   sup.Lunch,
				Apparel: sup.Apparel,
			}
			if grp.put(m) {
				logger.LogWarn("Group %q: duplicate member name %q, keeping the later record", grp.Name, m.Name)
			}
			classifyLunch(cat, &grp.Rates, m.Lunch)

			if e := catalog.NormalizeEmail(sup.Email); e != "" {
				grp.Emails = append(grp.Emails, e)
			}
		}

		if g.addGroup(grp) {
			logger.LogWarn("Teacher roster row %d: group %q repeats, keeping the later row", i+1, grp.Name)
		}
	}

	// Phase 2: students from the team roster, resolved by primary email.
	for i, row := range teams {
		primary := catalog.NormalizeEmail(row.PrimaryEmail)
		if primary == "" {
			return nil, fmt.Errorf("team roster row %d: %w", i+1, ErrMissingPrimaryEmail)
		}

		grp := g.resolve(primary)
		if grp == g.fallback {
			logger.LogWarn("Team roster row %d: email %q matches no group, assigning students to %q",
				i+1, row.PrimaryEmail, FallbackGroupName)
		}

		// The tier is a property of the team; the last row touching a group wins.
		if row.ChallengeCount() > 1 {
			grp.Rates.Challenge = RateMultiChallenge
		} else {
			grp.Rates.Challenge = RateStandard
		}

		for _, s := range row.Students {
			if s.Name == "" {
				continue
			}
			m := &Member{
				Name:    s.Name,
				Lunch:   s.Lunch,
				Apparel: s.Apparel,
				Student: true,
				Team:    row.TeamName,
				Gender:  s.Gender,
				Grade:   s.GradeLevel(),
			}
			if grp.put(m) {
				logger.LogWarn("Group %q: duplicate member name %q, keeping the later record", grp.Name, m.Name)
			}
			classifyLunch(cat, &grp.Rates, m.Lunch)

			if cat.IsFemale(m.Gender) {
				grp.Rates.FemaleStudents++
			}
			if m.Grade >= 9 && m.Grade <= 12 {
				grp.Rates.HighSchool++
			}
			grp.Rates.Students++
		}
	}

	return g, nil
}

// classifyLunch buckets one raw meal choice into the group's rate counters via
// the catalog's explicit tier tag. Unrecognized strings count in no bucket.
func classifyLunch(cat *catalog.Catalog, r *RateSummary, choice string) {
	opt, ok := cat.LunchOption(choice)
	if !ok {
		return
	}
	switch opt.Tier {
	case catalog.TierFull:
		r.FullLunches++
	case catalog.TierHalf:
		r.HalfLunches++
	}
}
