// Package query holds the explicit filter context applied between the join
// pipeline and presentation. All predicates are optional and conjunctive;
// evaluation order never changes the result.
package query

import (
	"strings"
	"time"

	"github.com/sells-group/engage-cli/internal/classify"
	"github.com/sells-group/engage-cli/internal/dataset"
)

// Filters is one interaction's worth of user-selected predicates. The UI
// layer owns its lifecycle; the core only evaluates it.
type Filters struct {
	Types      []string          `json:"types,omitempty"`
	Accounts   []string          `json:"accounts,omitempty"`
	Start      *time.Time        `json:"start,omitempty"`
	End        *time.Time        `json:"end,omitempty"`
	Statuses   []classify.Status `json:"statuses,omitempty"`
	NameSearch string            `json:"name_search,omitempty"`
}

func toSet[T comparable](vals []T) map[T]struct{} {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

// MatchActivity evaluates the type, account, date-range, and name-search
// predicates. Empty predicates are no-ops. Date bounds are inclusive;
// records without an instant fail a date-bounded filter. The name search
// is a trimmed, case-insensitive substring test on "First Last".
func (f Filters) MatchActivity(a dataset.Activity) bool {
	if types := toSet(f.Types); types != nil {
		if _, ok := types[a.Type]; !ok {
			return false
		}
	}
	if accounts := toSet(f.Accounts); accounts != nil {
		if _, ok := accounts[a.AccountName]; !ok {
			return false
		}
	}
	if f.Start != nil || f.End != nil {
		if a.OccurredAt == nil {
			return false
		}
		ts := a.OccurredAt.UTC()
		if f.Start != nil && ts.Before(f.Start.UTC()) {
			return false
		}
		if f.End != nil && ts.After(f.End.UTC()) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.NameSearch)); q != "" {
		name := strings.TrimSpace(a.FirstName + " " + a.LastName)
		if !strings.Contains(strings.ToLower(name), q) {
			return false
		}
	}
	return true
}

// MatchContact evaluates the status and name-search predicates. The search
// is a trimmed, case-insensitive substring test on the display name.
func (f Filters) MatchContact(c classify.Contact) bool {
	if statuses := toSet(f.Statuses); statuses != nil {
		if _, ok := statuses[c.Status]; !ok {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.NameSearch)); q != "" {
		if !strings.Contains(strings.ToLower(c.DisplayName), q) {
			return false
		}
	}
	return true
}

// Activities applies MatchActivity to each record.
func (f Filters) Activities(in []dataset.Activity) []dataset.Activity {
	out := make([]dataset.Activity, 0, len(in))
	for _, a := range in {
		if f.MatchActivity(a) {
			out = append(out, a)
		}
	}
	return out
}

// Contacts applies MatchContact to each record.
func (f Filters) Contacts(in []classify.Contact) []classify.Contact {
	out := make([]classify.Contact, 0, len(in))
	for _, c := range in {
		if f.MatchContact(c) {
			out = append(out, c)
		}
	}
	return out
}
