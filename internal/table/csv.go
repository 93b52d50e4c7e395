package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// decode converts raw source bytes to a UTF-8 string using the named
// encoding. "utf-8" is validated rather than transcoded so that mis-encoded
// Latin-1 exports fail here and fall through to the next hint.
func decode(data []byte, encoding string) (string, error) {
	if encoding == "" || encoding == "utf-8" || encoding == "utf8" {
		if !utf8.Valid(data) {
			return "", eris.New("table: invalid utf-8 byte sequence")
		}
		return string(data), nil
	}

	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", eris.Wrapf(err, "table: unsupported encoding %q", encoding)
	}
	decoded, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return "", eris.Wrapf(err, "table: decode %s", encoding)
	}
	return string(decoded), nil
}

// parseCSV decodes the bytes with the first encoding hint that succeeds,
// then parses the result as comma-delimited rows. The first row is the
// header; a source without one is an error, never a partial table.
func parseCSV(data []byte, encodings []string) (*Table, error) {
	if len(encodings) == 0 {
		encodings = []string{"utf-8"}
	}

	var text string
	var decodeErr error
	decoded := false
	for _, enc := range encodings {
		text, decodeErr = decode(data, enc)
		if decodeErr == nil {
			decoded = true
			break
		}
	}
	if !decoded {
		return nil, eris.Wrap(decodeErr, "table: all encodings failed")
	}

	reader := csv.NewReader(bytes.NewReader([]byte(text)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // ragged exports are common

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "table: parse csv")
	}
	if len(records) == 0 {
		return nil, eris.New("table: source has no header row")
	}

	return New(records[0], records[1:]), nil
}
