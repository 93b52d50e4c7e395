package dataset

import (
	"github.com/sells-group/engage-cli/internal/table"
)

// Contact column names. The join key goes by several aliases across
// sources; ContactKeyAliases is the accepted list in priority order.
const (
	ColPartyUniqueName   = "party_unique_name"
	ColJobTitle          = "job_title"
	ColSalesAffinityCode = "sales_affinity_code"
)

// ContactKeyAliases lists the accepted contact join key column names; the
// first alias present in the table wins.
var ContactKeyAliases = []string{"party_number", "Party_Number", "party_id", "Party_ID"}

// Contact is one person associated with an account through the party
// identifier scheme.
type Contact struct {
	RawKey        string `json:"raw_key"`
	NormalizedKey string `json:"normalized_key"`
	DisplayName   string `json:"display_name"`
	JobTitle      string `json:"job_title,omitempty"`
	AffinityCode  string `json:"affinity_code,omitempty"`
}

// ContactsFromTable extracts typed contacts from a (typically semi-joined)
// contact table. keyCol is the resolved join key column; normalizedCol is
// the derived normalized key column when present.
func ContactsFromTable(t *table.Table, keyCol, normalizedCol string) []Contact {
	out := make([]Contact, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		out = append(out, Contact{
			RawKey:        t.Cell(i, keyCol),
			NormalizedKey: t.Cell(i, normalizedCol),
			DisplayName:   t.Cell(i, ColPartyUniqueName),
			JobTitle:      t.Cell(i, ColJobTitle),
			AffinityCode:  t.Cell(i, ColSalesAffinityCode),
		})
	}
	return out
}
