package ledger

import (
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
)

// DateOf truncates t to its calendar day, expressed as UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// ParseDueDate parses a YYYY-MM-DD or RFC 3339 date.
// An empty string reports ok=false and no error.
func ParseDueDate(s string) (date time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if t, perr := time.Parse(time.DateOnly, s); perr == nil {
		return DateOf(t), true, nil
	}
	if t, perr := time.Parse(time.RFC3339, s); perr == nil {
		return DateOf(t), true, nil
	}
	return time.Time{}, false, shared.NewDomainError(shared.CodeInvalidDueDate, "invalid due date: "+s)
}
