package pipeline

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/engage-cli/internal/classify"
	"github.com/sells-group/engage-cli/internal/dataset"
	"github.com/sells-group/engage-cli/internal/join"
	"github.com/sells-group/engage-cli/internal/query"
	"github.com/sells-group/engage-cli/internal/table"
)

// Session is one loaded dataset and the derived views over it. Sessions
// are immutable after construction; filters are applied per call.
type Session struct {
	activity      *table.Table
	firmographics *table.Table
	contacts      *table.Table

	dateColumn string
	activities []dataset.Activity
}

// NewSession resolves the date axis and extracts typed activity records.
// firmographics and contacts may be nil; their views then degrade.
func NewSession(activity, firmographics, contacts *table.Table, dateCandidates []string) (*Session, error) {
	dateCol, err := dataset.ResolveDateColumn(activity, dateCandidates)
	if err != nil {
		// Time-based views degrade; everything else stays up.
		zap.L().Warn("no date column resolved, time views degraded",
			zap.Strings("candidates", dateCandidates),
		)
		dateCol = ""
	}

	return &Session{
		activity:      activity,
		firmographics: firmographics,
		contacts:      contacts,
		dateColumn:    dateCol,
		activities:    dataset.ActivitiesFromTable(activity, dateCol),
	}, nil
}

// DateColumn returns the resolved date axis column, or "" when none of the
// candidates were present.
func (s *Session) DateColumn() string {
	return s.dateColumn
}

// Activities returns all typed activity records.
func (s *Session) Activities() []dataset.Activity {
	return s.activities
}

// FilteredActivities applies one filter context.
func (s *Session) FilteredActivities(f query.Filters) []dataset.Activity {
	return f.Activities(s.activities)
}

// AccountOptions returns the sorted distinct account names, the selector
// population for the account-scoped views.
func (s *Session) AccountOptions() []string {
	return s.activity.DistinctNonEmpty(dataset.ColAccountName)
}

// TypeOptions returns the sorted distinct activity types.
func (s *Session) TypeOptions() []string {
	return s.activity.DistinctNonEmpty(dataset.ColType)
}

// AccountCount is one row of the top-accounts ranking.
type AccountCount struct {
	AccountName string `json:"account_name"`
	Activities  int    `json:"activities"`
}

// TopAccounts ranks accounts by named engagement volume, descending, ties
// broken by name. Anonymous events (web visits without a person) do not
// count. limit <= 0 means no limit.
func (s *Session) TopAccounts(limit int) []AccountCount {
	counts := make(map[string]int)
	for _, a := range s.activities {
		if a.AccountName == "" || !a.Named() {
			continue
		}
		counts[a.AccountName]++
	}

	out := make([]AccountCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, AccountCount{AccountName: name, Activities: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Activities != out[j].Activities {
			return out[i].Activities > out[j].Activities
		}
		return out[i].AccountName < out[j].AccountName
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TimelineRow is one plotted point of an account's engagement timeline.
type TimelineRow struct {
	Label      string    `json:"label"`
	Type       string    `json:"type,omitempty"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Timeline returns the account's named, dated events in chronological
// order, labeled "First Last - Buying Role".
func (s *Session) Timeline(account string) []TimelineRow {
	var out []TimelineRow
	for _, a := range s.activities {
		if a.AccountName != account || !a.Named() || a.OccurredAt == nil {
			continue
		}
		out = append(out, TimelineRow{
			Label:      a.TimelineLabel(),
			Type:       a.Type,
			Details:    a.Details,
			OccurredAt: *a.OccurredAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out
}

// accountScope returns the activity records for one account.
func (s *Session) accountScope(account string) []dataset.Activity {
	var out []dataset.Activity
	for _, a := range s.activities {
		if a.AccountName == account {
			out = append(out, a)
		}
	}
	return out
}

// Firmographics returns the enrichment rows for one account, matched on
// the raw customer identifiers of its activity rows. Returns
// dataset.ErrFirmographicKeyMissing when no firmographic source was loaded
// or the source lacks the join key; callers render an unavailable state.
func (s *Session) Firmographics(account string) ([]dataset.Firmographic, error) {
	if s.firmographics == nil {
		return nil, dataset.ErrFirmographicKeyMissing
	}
	keys := dataset.RawKeys(s.accountScope(account))
	return dataset.FirmographicsForAccounts(s.firmographics, keys)
}

// Contacts semi-joins the contact source against one account's normalized
// keys, classifies each retained contact against the account's engagement
// set, and applies the filter context.
func (s *Session) Contacts(account string, f query.Filters) ([]classify.Contact, error) {
	if s.contacts == nil {
		return nil, join.ErrNoJoinKey
	}

	scope := s.accountScope(account)
	joined, keyCol, err := join.Contacts(s.contacts, dataset.AccountKeys(scope), dataset.ContactKeyAliases)
	if err != nil {
		return nil, err
	}

	records := dataset.ContactsFromTable(joined, keyCol, join.NormalizedKeyColumn)
	engaged := dataset.NamePairs(dataset.NamedOnly(scope))
	return f.Contacts(classify.Contacts(records, engaged)), nil
}

// Merged left-outer-joins the firmographic table onto the activity table
// on the raw customer identifier, the flat export view.
func (s *Session) Merged() (*table.Table, error) {
	if s.firmographics == nil {
		return nil, join.ErrJoinKeyMissing
	}
	return join.Accounts(s.activity, s.firmographics, dataset.ColCustomerID)
}
