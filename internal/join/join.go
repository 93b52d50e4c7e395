// Package join merges the activity, firmographic, and contact tables.
package join

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/engage-cli/internal/resolve"
	"github.com/sells-group/engage-cli/internal/table"
)

// CollisionSuffix is appended to firmographic-origin columns whose names
// collide with activity columns during the account join.
const CollisionSuffix = "_DB"

// NormalizedKeyColumn is the derived column the contact semi-join appends.
const NormalizedKeyColumn = "party_number_clean"

var (
	// ErrJoinKeyMissing marks an account join whose declared key column is
	// absent from either table. The join aborts; no partial result.
	ErrJoinKeyMissing = eris.New("join: key column missing")

	// ErrNoJoinKey marks a contact table carrying none of the accepted key
	// aliases.
	ErrNoJoinKey = eris.New("join: no contact key column found")
)

// Accounts left-outer-joins the firmographic table onto the activity table
// on the raw key column. Every activity row is preserved; unmatched
// firmographic cells stay empty. Multiple firmographic rows per key
// cross-multiply activity rows, exactly like a relational left join — no
// implicit dedup. Colliding firmographic column names get CollisionSuffix.
func Accounts(activity, firmographics *table.Table, key string) (*table.Table, error) {
	if !activity.HasColumn(key) || !firmographics.HasColumn(key) {
		return nil, eris.Wrapf(ErrJoinKeyMissing, "key %q", key)
	}

	// Firmographic output columns: everything except the shared key,
	// suffixed on collision with an activity column.
	var fCols []string
	var fOutNames []string
	for _, col := range firmographics.Columns() {
		if col == key {
			continue
		}
		fCols = append(fCols, col)
		name := col
		if activity.HasColumn(col) {
			name += CollisionSuffix
		}
		fOutNames = append(fOutNames, name)
	}

	// Index firmographic rows by raw key value.
	byKey := make(map[string][]int)
	for i, v := range firmographics.Column(key) {
		byKey[v] = append(byKey[v], i)
	}

	header := append(activity.Columns(), fOutNames...)
	var rows [][]string
	for i := 0; i < activity.NumRows(); i++ {
		left := activity.Row(i)
		// Pad ragged activity rows so firmographic cells line up.
		for len(left) < activity.NumColumns() {
			left = append(left, "")
		}

		matches := byKey[activity.Cell(i, key)]
		if len(matches) == 0 {
			row := append(left, make([]string, len(fCols))...)
			rows = append(rows, row)
			continue
		}
		for _, m := range matches {
			row := make([]string, 0, len(header))
			row = append(row, left...)
			for _, col := range fCols {
				row = append(row, firmographics.Cell(m, col))
			}
			rows = append(rows, row)
		}
	}

	return table.New(header, rows), nil
}

// Contacts semi-joins the contact table against the normalized account key
// set: a contact is retained iff the normalized form of its key is a
// member. The resolved key column comes from the first present alias. The
// output adds exactly one derived column, NormalizedKeyColumn; nothing is
// merged in. The resolved alias is returned for downstream record typing.
func Contacts(contacts *table.Table, accountKeys resolve.IDSet, aliases []string) (*table.Table, string, error) {
	keyCol, ok := contacts.FirstPresent(aliases...)
	if !ok {
		return nil, "", eris.Wrapf(ErrNoJoinKey, "tried %v", aliases)
	}

	header := append(contacts.Columns(), NormalizedKeyColumn)
	var rows [][]string
	for i := 0; i < contacts.NumRows(); i++ {
		raw := contacts.Cell(i, keyCol)
		norm, valid := resolve.NormalizeID(raw)
		if !valid {
			continue
		}
		if _, member := accountKeys[norm]; !member {
			continue
		}

		row := contacts.Row(i)
		for len(row) < contacts.NumColumns() {
			row = append(row, "")
		}
		rows = append(rows, append(row, norm))
	}

	return table.New(header, rows), keyCol, nil
}
