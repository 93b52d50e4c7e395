package dataset

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/engage-cli/internal/table"
)

// Technographics column in the firmographic enrichment table.
const ColTechnographics = "Technographics"

// ErrFirmographicKeyMissing marks a firmographic table without the account
// join key. Only the firmographics view degrades; the session stays up.
var ErrFirmographicKeyMissing = eris.New("dataset: firmographic table missing CustomerId_NAR")

// FirmographicCategories names the matches/summary column pairs a source
// may carry. Presence varies by source; absent pairs are skipped.
var FirmographicCategories = []string{
	"f5_core_adc",
	"f5_security",
	"f5_cloud_services",
	"complementary_cloud",
	"complementary_identity",
	"complementary_workspace",
}

// CategoryDetail is one populated matches/summary pair.
type CategoryDetail struct {
	Category string `json:"category"`
	Matches  string `json:"matches,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Firmographic is one account-level enrichment row. Zero or more rows may
// share a customer identifier; callers must not assume uniqueness.
type Firmographic struct {
	CustomerID     string           `json:"customer_id"`
	AccountName    string           `json:"account_name"`
	Technographics string           `json:"technographics,omitempty"`
	Details        []CategoryDetail `json:"details,omitempty"`
}

// FirmographicsForAccounts extracts the enrichment rows whose raw customer
// identifier is in keys. The account/firmographic join compares raw values
// (both tables share the identifier scheme); only the contact semi-join
// normalizes. Returns ErrFirmographicKeyMissing when the table has no join
// key column.
func FirmographicsForAccounts(t *table.Table, keys map[string]struct{}) ([]Firmographic, error) {
	if !t.HasColumn(ColCustomerID) {
		return nil, ErrFirmographicKeyMissing
	}

	var out []Firmographic
	for i := 0; i < t.NumRows(); i++ {
		rawID := t.Cell(i, ColCustomerID)
		if _, ok := keys[rawID]; !ok {
			continue
		}

		f := Firmographic{
			CustomerID:     rawID,
			AccountName:    t.Cell(i, ColAccountName),
			Technographics: t.Cell(i, ColTechnographics),
		}
		for _, cat := range FirmographicCategories {
			matches := t.Cell(i, cat+"_matches")
			summary := t.Cell(i, cat+"_summary")
			if matches == "" && summary == "" {
				continue
			}
			f.Details = append(f.Details, CategoryDetail{
				Category: cat,
				Matches:  matches,
				Summary:  summary,
			})
		}
		out = append(out, f)
	}
	return out, nil
}
