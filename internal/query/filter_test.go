package query

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/engage-cli/internal/classify"
	"github.com/sells-group/engage-cli/internal/dataset"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func sampleActivities() []dataset.Activity {
	return []dataset.Activity{
		{AccountName: "Acme", Type: "Call", OccurredAt: ts("2024-01-05")},
		{AccountName: "Acme", Type: "Email", OccurredAt: ts("2024-01-10")},
		{AccountName: "Globex", Type: "Call", OccurredAt: ts("2024-02-01")},
		{AccountName: "Globex", Type: "Call", OccurredAt: nil},
	}
}

func TestFilters_Empty(t *testing.T) {
	got := Filters{}.Activities(sampleActivities())
	assert.Len(t, got, 4, "every predicate is a no-op when unspecified")
}

func TestFilters_Type(t *testing.T) {
	got := Filters{Types: []string{"Email"}}.Activities(sampleActivities())
	assert.Len(t, got, 1)
	assert.Equal(t, "Email", got[0].Type)
}

func TestFilters_Account(t *testing.T) {
	got := Filters{Accounts: []string{"Globex"}}.Activities(sampleActivities())
	assert.Len(t, got, 2)
}

func TestFilters_DateRangeInclusiveBounds(t *testing.T) {
	f := Filters{Start: ts("2024-01-05"), End: ts("2024-01-10")}
	got := f.Activities(sampleActivities())
	assert.Len(t, got, 2, "records exactly on start or end are included")
}

func TestFilters_DateRangeExcludesNilInstant(t *testing.T) {
	f := Filters{Start: ts("2024-01-01"), End: ts("2024-12-31")}
	got := f.Activities(sampleActivities())
	assert.Len(t, got, 3)
}

func TestFilters_TimezoneNormalized(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2024-01-05 04:00 +05 is 2024-01-04 23:00 UTC, before the start bound.
	early := time.Date(2024, 1, 5, 4, 0, 0, 0, loc)
	f := Filters{Start: ts("2024-01-05"), End: ts("2024-01-06")}
	assert.False(t, f.MatchActivity(dataset.Activity{OccurredAt: &early}))

	late := time.Date(2024, 1, 5, 6, 0, 0, 0, loc)
	assert.True(t, f.MatchActivity(dataset.Activity{OccurredAt: &late}))
}

func TestFilters_Conjunction(t *testing.T) {
	f := Filters{
		Types:    []string{"Call"},
		Accounts: []string{"Acme"},
		Start:    ts("2024-01-01"),
		End:      ts("2024-12-31"),
	}
	got := f.Activities(sampleActivities())
	assert.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].AccountName)
	assert.Equal(t, "Call", got[0].Type)
}

func TestFilters_OrderIndependent(t *testing.T) {
	// Predicates are a pure conjunction: shuffling the input (and thereby
	// the evaluation encounter order) yields the same member set.
	f := Filters{Types: []string{"Call"}, Accounts: []string{"Acme", "Globex"}, Start: ts("2024-01-01"), End: ts("2024-03-01")}

	base := f.Activities(sampleActivities())
	for i := 0; i < 5; i++ {
		in := sampleActivities()
		rand.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })
		got := f.Activities(in)
		assert.ElementsMatch(t, base, got)
	}
}

func TestFilters_ActivityNameSearch(t *testing.T) {
	in := []dataset.Activity{
		{AccountName: "Acme", FirstName: "Jane", LastName: "Doe"},
		{AccountName: "Acme", FirstName: "John", LastName: "Smith"},
		{AccountName: "Acme"},
	}

	got := Filters{NameSearch: " jane d "}.Activities(in)
	assert.Len(t, got, 1)
	assert.Equal(t, "Jane", got[0].FirstName)

	got = Filters{NameSearch: "smith"}.Activities(in)
	assert.Len(t, got, 1)

	got = Filters{NameSearch: ""}.Activities(in)
	assert.Len(t, got, 3)
}

func sampleContacts() []classify.Contact {
	return []classify.Contact{
		{Contact: dataset.Contact{DisplayName: "Jane Doe"}, IsEngaged: true, Status: classify.StatusEngaged},
		{Contact: dataset.Contact{DisplayName: "John Smith"}, Status: classify.StatusAffinity},
		{Contact: dataset.Contact{DisplayName: "Mallory Mayhem"}, Status: classify.StatusUnengaged},
	}
}

func TestFilters_ContactStatus(t *testing.T) {
	f := Filters{Statuses: []classify.Status{classify.StatusAffinity, classify.StatusEngaged}}
	got := f.Contacts(sampleContacts())
	assert.Len(t, got, 2)
}

func TestFilters_NameSearch(t *testing.T) {
	got := Filters{NameSearch: "  JANE "}.Contacts(sampleContacts())
	assert.Len(t, got, 1)
	assert.Equal(t, "Jane Doe", got[0].DisplayName)

	got = Filters{NameSearch: "ma"}.Contacts(sampleContacts())
	assert.Len(t, got, 1, "substring, case-insensitive")
}

func TestFilters_EmptySearchIsNoOp(t *testing.T) {
	got := Filters{NameSearch: "   "}.Contacts(sampleContacts())
	assert.Len(t, got, 3)
}
