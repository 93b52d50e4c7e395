package dataset

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/engage-cli/internal/table"
)

func activityTable() *table.Table {
	return table.New(
		[]string{"Account Name", "CustomerId_NAR", "First Name", "Last Name", "Buying Role", "Type", "Details", "Activity Date"},
		[][]string{
			{"Acme", "H-CIT-1", "Jane", "Doe", "Decision Maker", "Call", "intro call", "2024-01-05"},
			{"Acme", "H-CIT-1", "", "", "", "Email", "newsletter", "2024-01-10"},
			{"Globex", "CIT-2", "John", "Smith", "", "Call", "", "not a date"},
		},
	)
}

func TestResolveDateColumn_PriorityOrder(t *testing.T) {
	tbl := table.New([]string{"Date", "Activity Date"}, nil)
	col, err := ResolveDateColumn(tbl, nil)
	require.NoError(t, err)
	assert.Equal(t, "Activity Date", col, "first candidate in priority order wins, not first in table")
}

func TestResolveDateColumn_None(t *testing.T) {
	tbl := table.New([]string{"Account Name"}, nil)
	_, err := ResolveDateColumn(tbl, nil)
	assert.True(t, eris.Is(err, ErrNoDateColumn))
}

func TestParseInstant(t *testing.T) {
	ts := ParseInstant("2024-01-05")
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), *ts)

	ts = ParseInstant("2024-01-05T10:30:00Z")
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC), *ts)

	ts = ParseInstant("1/5/2024")
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), *ts)
}

func TestParseInstant_CoercesToNil(t *testing.T) {
	assert.Nil(t, ParseInstant(""))
	assert.Nil(t, ParseInstant("   "))
	assert.Nil(t, ParseInstant("not a date"))
	assert.Nil(t, ParseInstant("2024-13-45"))
}

func TestActivitiesFromTable(t *testing.T) {
	acts := ActivitiesFromTable(activityTable(), "Activity Date")
	require.Len(t, acts, 3)

	assert.Equal(t, "Acme", acts[0].AccountName)
	assert.Equal(t, "Jane", acts[0].FirstName)
	require.NotNil(t, acts[0].OccurredAt)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), *acts[0].OccurredAt)

	assert.Nil(t, acts[2].OccurredAt, "unparsable date coerces to nil, never fails the load")
}

func TestActivitiesFromTable_NoDateColumn(t *testing.T) {
	acts := ActivitiesFromTable(activityTable(), "")
	for _, a := range acts {
		assert.Nil(t, a.OccurredAt)
	}
}

func TestActivity_Named(t *testing.T) {
	assert.True(t, Activity{FirstName: "Jane"}.Named())
	assert.False(t, Activity{FirstName: ""}.Named())
	assert.False(t, Activity{FirstName: "   "}.Named())
}

func TestActivity_TimelineLabel(t *testing.T) {
	a := Activity{FirstName: "Jane", LastName: "Doe", BuyingRole: "Decision Maker"}
	assert.Equal(t, "Jane Doe - Decision Maker", a.TimelineLabel())

	a.BuyingRole = "  "
	assert.Equal(t, "Jane Doe", a.TimelineLabel())
}

func TestNamedOnly(t *testing.T) {
	acts := ActivitiesFromTable(activityTable(), "Activity Date")
	named := NamedOnly(acts)
	require.Len(t, named, 2)
	assert.Equal(t, "Jane", named[0].FirstName)
	assert.Equal(t, "John", named[1].FirstName)
}

func TestNamePairs_SkipsUnnamed(t *testing.T) {
	acts := ActivitiesFromTable(activityTable(), "Activity Date")
	pairs := NamePairs(acts)
	assert.Len(t, pairs, 2)
	assert.True(t, pairs.MatchDisplayName("Jane Doe"))
	assert.True(t, pairs.MatchDisplayName("John Smith"))
}

func TestAccountKeys_Normalized(t *testing.T) {
	acts := ActivitiesFromTable(activityTable(), "Activity Date")
	keys := AccountKeys(acts)
	assert.True(t, keys.Contains("1"))
	assert.True(t, keys.Contains("H-CIT-1"))
	assert.True(t, keys.Contains("2"))
}

func TestRawKeys_Exact(t *testing.T) {
	acts := ActivitiesFromTable(activityTable(), "Activity Date")
	keys := RawKeys(acts)
	assert.Len(t, keys, 2)
	_, ok := keys["H-CIT-1"]
	assert.True(t, ok)
	_, ok = keys["1"]
	assert.False(t, ok, "firmographic matching uses raw values only")
}

func TestFirmographicsForAccounts(t *testing.T) {
	db := table.New(
		[]string{"CustomerId_NAR", "Account Name", "Technographics", "f5_security_matches", "f5_security_summary"},
		[][]string{
			{"H-CIT-1", "Acme", "nginx; akamai", "WAF", "uses WAF"},
			{"H-CIT-1", "Acme Sub", "", "", ""},
			{"CIT-9", "Other", "", "", ""},
		},
	)

	fs, err := FirmographicsForAccounts(db, map[string]struct{}{"H-CIT-1": {}})
	require.NoError(t, err)
	require.Len(t, fs, 2, "one-to-many per key is preserved")

	assert.Equal(t, "nginx; akamai", fs[0].Technographics)
	require.Len(t, fs[0].Details, 1)
	assert.Equal(t, "f5_security", fs[0].Details[0].Category)
	assert.Empty(t, fs[1].Details, "blank pairs are skipped")
}

func TestFirmographicsForAccounts_KeyMissing(t *testing.T) {
	db := table.New([]string{"Account Name"}, [][]string{{"Acme"}})
	_, err := FirmographicsForAccounts(db, map[string]struct{}{"X": {}})
	assert.True(t, eris.Is(err, ErrFirmographicKeyMissing))
}

func TestContactsFromTable(t *testing.T) {
	tbl := table.New(
		[]string{"party_number", "party_unique_name", "job_title", "sales_affinity_code", "party_number_clean"},
		[][]string{{"H-1", "Jane Doe", "CTO", "", "1"}},
	)
	cs := ContactsFromTable(tbl, "party_number", "party_number_clean")
	require.Len(t, cs, 1)
	assert.Equal(t, "H-1", cs[0].RawKey)
	assert.Equal(t, "1", cs[0].NormalizedKey)
	assert.Equal(t, "Jane Doe", cs[0].DisplayName)
	assert.Equal(t, "CTO", cs[0].JobTitle)
}
