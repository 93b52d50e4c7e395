package join

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/engage-cli/internal/resolve"
	"github.com/sells-group/engage-cli/internal/table"
)

func TestAccounts_LeftOuter(t *testing.T) {
	activity := table.New(
		[]string{"Account Name", "CustomerId_NAR", "Type"},
		[][]string{
			{"Acme", "1", "Call"},
			{"Globex", "2", "Email"},
			{"Initech", "3", "Call"},
		},
	)
	firmo := table.New(
		[]string{"CustomerId_NAR", "Account Name", "Technographics"},
		[][]string{
			{"1", "Acme Corp", "nginx"},
			{"2", "Globex Inc", "apache"},
		},
	)

	out, err := Accounts(activity, firmo, "CustomerId_NAR")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Account Name", "CustomerId_NAR", "Type", "Account Name_DB", "Technographics"},
		out.Columns(), "colliding firmographic columns get the _DB suffix; the key is not duplicated")

	require.Equal(t, 3, out.NumRows(), "every activity row preserved")
	assert.Equal(t, "Acme Corp", out.Cell(0, "Account Name_DB"))
	assert.Equal(t, "", out.Cell(2, "Technographics"), "unmatched rows carry empty firmographic cells")
}

func TestAccounts_CrossMultiplication(t *testing.T) {
	activity := table.New(
		[]string{"CustomerId_NAR", "Type"},
		[][]string{{"1", "Call"}, {"1", "Email"}},
	)
	firmo := table.New(
		[]string{"CustomerId_NAR", "Segment"},
		[][]string{{"1", "ENT"}, {"1", "SMB"}, {"2", "MM"}},
	)

	out, err := Accounts(activity, firmo, "CustomerId_NAR")
	require.NoError(t, err)

	// 2 activity rows x 2 matching firmographic rows, no dedup.
	assert.Equal(t, 4, out.NumRows())
	assert.Equal(t, "ENT", out.Cell(0, "Segment"))
	assert.Equal(t, "SMB", out.Cell(1, "Segment"))
}

func TestAccounts_RowCountInvariant(t *testing.T) {
	// With 0-or-1 firmographic matches per key, output count equals input.
	activity := table.New([]string{"K"}, [][]string{{"a"}, {"b"}, {"c"}})
	firmo := table.New([]string{"K", "V"}, [][]string{{"a", "1"}})

	out, err := Accounts(activity, firmo, "K")
	require.NoError(t, err)
	assert.Equal(t, activity.NumRows(), out.NumRows())
}

func TestAccounts_KeyMissing(t *testing.T) {
	withKey := table.New([]string{"CustomerId_NAR"}, nil)
	without := table.New([]string{"Other"}, nil)

	_, err := Accounts(without, withKey, "CustomerId_NAR")
	assert.True(t, eris.Is(err, ErrJoinKeyMissing))

	_, err = Accounts(withKey, without, "CustomerId_NAR")
	assert.True(t, eris.Is(err, ErrJoinKeyMissing))
}

func TestContacts_SemiJoin(t *testing.T) {
	contacts := table.New(
		[]string{"party_number", "party_unique_name", "job_title"},
		[][]string{
			{"H-CIT-1", "Jane Doe", "CTO"},
			{"CIT-2", "John Smith", "VP"},
			{"9", "Mallory Unrelated", "CFO"},
			{"", "No Key", ""},
		},
	)
	keys := resolve.NewIDSet([]string{"H-1", "2"})

	out, keyCol, err := Contacts(contacts, keys, []string{"party_number", "Party_Number", "party_id", "Party_ID"})
	require.NoError(t, err)
	assert.Equal(t, "party_number", keyCol)

	assert.Equal(t,
		[]string{"party_number", "party_unique_name", "job_title", "party_number_clean"},
		out.Columns(), "exactly one derived column is added")

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, "Jane Doe", out.Cell(0, "party_unique_name"))
	assert.Equal(t, "1", out.Cell(0, "party_number_clean"))
	assert.Equal(t, "2", out.Cell(1, "party_number_clean"))
}

func TestContacts_AliasPriority(t *testing.T) {
	contacts := table.New(
		[]string{"Party_ID", "party_id", "party_unique_name"},
		[][]string{{"1", "2", "Jane Doe"}},
	)
	keys := resolve.NewIDSet([]string{"2"})

	out, keyCol, err := Contacts(contacts, keys, []string{"party_number", "Party_Number", "party_id", "Party_ID"})
	require.NoError(t, err)
	assert.Equal(t, "party_id", keyCol, "first alias in caller order wins, not table order")
	assert.Equal(t, 1, out.NumRows())
}

func TestContacts_NoJoinKey(t *testing.T) {
	contacts := table.New([]string{"party_unique_name"}, [][]string{{"Jane Doe"}})
	_, _, err := Contacts(contacts, resolve.NewIDSet(nil), []string{"party_number", "Party_Number"})
	assert.True(t, eris.Is(err, ErrNoJoinKey))
}

func TestContacts_SourceUnchanged(t *testing.T) {
	contacts := table.New(
		[]string{"party_number", "party_unique_name"},
		[][]string{{"H-1", "Jane Doe"}},
	)
	_, _, err := Contacts(contacts, resolve.NewIDSet([]string{"1"}), []string{"party_number"})
	require.NoError(t, err)

	assert.Equal(t, []string{"party_number", "party_unique_name"}, contacts.Columns(),
		"the loaded table is never mutated in place")
}
