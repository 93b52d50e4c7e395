package dataset

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/engage-cli/internal/table"
)

// ErrNoDateColumn is returned when none of the candidate date columns exist.
// The pipeline cannot serve time-based views without a date axis, so the
// condition is reported to the caller rather than silently defaulted.
var ErrNoDateColumn = eris.New("dataset: no date column found")

// DefaultDateCandidates is the priority-ordered list of activity timestamp
// column names seen across source variants.
var DefaultDateCandidates = []string{"Activity Date", "Activity_DateOnly", "Date"}

// dateLayouts are tried in order for each cell. Naive timestamps are taken
// as UTC to match the timezone-normalized instants the filters compare
// against.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
}

// ResolveDateColumn returns the first candidate column present in the
// table. It never scans for pattern-matched alternatives.
func ResolveDateColumn(t *table.Table, candidates []string) (string, error) {
	if len(candidates) == 0 {
		candidates = DefaultDateCandidates
	}
	if name, ok := t.FirstPresent(candidates...); ok {
		return name, nil
	}
	return "", ErrNoDateColumn
}

// ParseInstant parses one date cell to a UTC instant. Unparsable values
// coerce to nil; per-value failures never abort a load.
func ParseInstant(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			utc := ts.UTC()
			return &utc
		}
	}
	return nil
}
