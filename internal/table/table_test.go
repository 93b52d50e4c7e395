package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture() *Table {
	return New(
		[]string{" Account Name ", "Type", "CustomerId_NAR"},
		[][]string{
			{"Acme", "Call", "H-1"},
			{"Globex", "Email", "CIT-2"},
			{"Acme", "Call"}, // ragged short row
		},
	)
}

func TestNew_TrimsColumnNames(t *testing.T) {
	tbl := newFixture()
	assert.Equal(t, []string{"Account Name", "Type", "CustomerId_NAR"}, tbl.Columns())
	assert.True(t, tbl.HasColumn("Account Name"))
	assert.False(t, tbl.HasColumn(" Account Name "))
}

func TestTable_Cell(t *testing.T) {
	tbl := newFixture()
	assert.Equal(t, "Acme", tbl.Cell(0, "Account Name"))
	assert.Equal(t, "CIT-2", tbl.Cell(1, "CustomerId_NAR"))
	assert.Equal(t, "", tbl.Cell(2, "CustomerId_NAR"), "ragged row yields empty")
	assert.Equal(t, "", tbl.Cell(0, "Missing"))
	assert.Equal(t, "", tbl.Cell(9, "Type"))
}

func TestTable_Column(t *testing.T) {
	tbl := newFixture()
	assert.Equal(t, []string{"Call", "Email", "Call"}, tbl.Column("Type"))
	assert.Nil(t, tbl.Column("Missing"))
}

func TestTable_FirstPresent(t *testing.T) {
	tbl := newFixture()

	name, ok := tbl.FirstPresent("Activity Date", "Type")
	assert.True(t, ok)
	assert.Equal(t, "Type", name)

	name, ok = tbl.FirstPresent("Type", "Account Name")
	assert.True(t, ok)
	assert.Equal(t, "Type", name, "first candidate in caller order wins")

	_, ok = tbl.FirstPresent("Date", "Activity Date")
	assert.False(t, ok)
}

func TestTable_DistinctNonEmpty(t *testing.T) {
	tbl := New(
		[]string{"Account Name"},
		[][]string{{"Globex"}, {"Acme"}, {" "}, {""}, {"Acme"}},
	)
	assert.Equal(t, []string{"Acme", "Globex"}, tbl.DistinctNonEmpty("Account Name"))
}

func TestParseCSV_UTF8(t *testing.T) {
	tbl, err := parseCSV([]byte("Account Name , Type\nAcme,Call\n"), []string{"utf-8"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Account Name", "Type"}, tbl.Columns())
	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, "Acme", tbl.Cell(0, "Account Name"))
}

func TestParseCSV_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 but an invalid UTF-8 sequence, so the utf-8
	// attempt must fail and the latin1 hint take over.
	data := append([]byte("Account Name\nCaf"), 0xE9, '\n')

	_, err := parseCSV(data, []string{"utf-8"})
	assert.Error(t, err)

	tbl, err := parseCSV(data, []string{"utf-8", "latin1"})
	require.NoError(t, err)
	assert.Equal(t, "Café", tbl.Cell(0, "Account Name"))
}

func TestParseCSV_ISO88591Alias(t *testing.T) {
	data := append([]byte("Name\nRen"), 0xE9, '\n')
	tbl, err := parseCSV(data, []string{"utf-8", "iso-8859-1"})
	require.NoError(t, err)
	assert.Equal(t, "René", tbl.Cell(0, "Name"))
}

func TestParseCSV_NoHeader(t *testing.T) {
	_, err := parseCSV([]byte(""), []string{"utf-8"})
	assert.ErrorContains(t, err, "no header row")
}

func TestParseCSV_UnknownEncoding(t *testing.T) {
	data := append([]byte("Name\n"), 0xFF, 0xFE, '\n')
	_, err := parseCSV(data, []string{"utf-8", "not-a-charset"})
	assert.Error(t, err)
}

func TestIsXLSX(t *testing.T) {
	assert.True(t, isXLSX("/data/export.xlsx"))
	assert.True(t, isXLSX("https://example.com/export.XLSX?token=abc"))
	assert.False(t, isXLSX("/data/export.csv"))
}
