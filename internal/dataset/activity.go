// Package dataset converts schema-light tables into the typed records the
// dashboard core operates on.
package dataset

import (
	"strings"
	"time"

	"github.com/sells-group/engage-cli/internal/resolve"
	"github.com/sells-group/engage-cli/internal/table"
)

// Activity column names in the primary engagement log.
const (
	ColAccountName = "Account Name"
	ColCustomerID  = "CustomerId_NAR"
	ColFirstName   = "First Name"
	ColLastName    = "Last Name"
	ColBuyingRole  = "Buying Role"
	ColType        = "Type"
	ColDetails     = "Details"
)

// Activity is one engagement event.
type Activity struct {
	AccountName string     `json:"account_name"`
	CustomerID  string     `json:"customer_id"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	BuyingRole  string     `json:"buying_role,omitempty"`
	Type        string     `json:"type,omitempty"`
	Details     string     `json:"details,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// Named reports whether the event has an associated person (non-blank
// first name).
func (a Activity) Named() bool {
	return strings.TrimSpace(a.FirstName) != ""
}

// TimelineLabel is the "First Last - Buying Role" label the timeline view
// plots on its y-axis; the role is omitted when blank.
func (a Activity) TimelineLabel() string {
	name := strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName)
	name = strings.TrimSpace(name)
	if role := strings.TrimSpace(a.BuyingRole); role != "" {
		return name + " - " + role
	}
	return name
}

// ActivitiesFromTable extracts typed activity records. dateCol may be empty
// when no date axis was resolved; every instant is then nil and time-based
// views degrade.
func ActivitiesFromTable(t *table.Table, dateCol string) []Activity {
	out := make([]Activity, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		a := Activity{
			AccountName: t.Cell(i, ColAccountName),
			CustomerID:  t.Cell(i, ColCustomerID),
			FirstName:   t.Cell(i, ColFirstName),
			LastName:    t.Cell(i, ColLastName),
			BuyingRole:  t.Cell(i, ColBuyingRole),
			Type:        t.Cell(i, ColType),
			Details:     t.Cell(i, ColDetails),
		}
		if dateCol != "" {
			a.OccurredAt = ParseInstant(t.Cell(i, dateCol))
		}
		out = append(out, a)
	}
	return out
}

// NamedOnly filters to events with an associated person.
func NamedOnly(activities []Activity) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if a.Named() {
			out = append(out, a)
		}
	}
	return out
}

// NamePairs builds the engagement membership set from the named subset of
// the given activities. Rebuilt per interaction from the current scope.
func NamePairs(activities []Activity) resolve.NamePairSet {
	pairs := resolve.NewNamePairSet()
	for _, a := range activities {
		pairs.Add(a.FirstName, a.LastName)
	}
	return pairs
}

// AccountKeys collects the normalized customer identifiers of the given
// activities into a membership set for the contact semi-join.
func AccountKeys(activities []Activity) resolve.IDSet {
	raws := make([]string, 0, len(activities))
	for _, a := range activities {
		raws = append(raws, a.CustomerID)
	}
	return resolve.NewIDSet(raws)
}

// RawKeys collects the distinct raw customer identifiers of the given
// activities. The firmographic join compares these without normalization.
func RawKeys(activities []Activity) map[string]struct{} {
	keys := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		if a.CustomerID != "" {
			keys[a.CustomerID] = struct{}{}
		}
	}
	return keys
}
