// internal/validate/validate.go
package validate

import (
	"fmt"
	"strings"

	"compreg/internal/catalog"
)

// MismatchError reports every team-roster supervisor-email reference that
// matched no teacher-roster email. Any mismatch fails the whole run before
// aggregation starts.
type MismatchError struct {
	Emails []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%d team registration email(s) matched no teacher registration email: %s",
		len(e.Emails), strings.Join(e.Emails, ", "))
}

// CrossReference checks each team-roster reference against the teacher-roster
// email set, case-insensitively. Empty teacher emails are excluded from the
// comparison set; an empty reference therefore never matches. References are
// reported in occurrence order, duplicates included, so the report mirrors the
// offending rows one to one.
func CrossReference(teacherEmails, teamReferences []string) error {
	known := make(map[string]bool, len(teacherEmails))
	for _, e := range teacherEmails {
		if n := catalog.NormalizeEmail(e); n != "" {
			known[n] = true
		}
	}

	var unmatched []string
	for _, ref := range teamReferences {
		if !known[catalog.NormalizeEmail(ref)] {
			unmatched = append(unmatched, ref)
		}
	}

	if len(unmatched) > 0 {
		return &MismatchError{Emails: unmatched}
	}
	return nil
}
