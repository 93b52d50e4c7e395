package table

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/engage-cli/internal/fetcher"
)

// LoadError marks a source that could not be read or parsed in any
// attempted encoding. It is fatal for the session: no partial dataset is
// ever returned.
type LoadError struct {
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Loader reads delimited sources into Tables.
type Loader struct {
	opener    *fetcher.Opener
	encodings []string
}

// NewLoader builds a Loader. encodings is the ordered fallback list tried
// during CSV decoding; empty means UTF-8 only.
func NewLoader(opener *fetcher.Opener, encodings []string) *Loader {
	if opener == nil {
		opener = fetcher.NewOpener()
	}
	return &Loader{opener: opener, encodings: encodings}
}

// Load reads one source (local path or URL, CSV or XLSX by extension) and
// returns its Table. Failures come back as *LoadError.
func (l *Loader) Load(ctx context.Context, source string) (*Table, error) {
	t, err := l.load(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Cause: err}
	}

	zap.L().Info("source loaded",
		zap.String("source", source),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumColumns()),
	)
	return t, nil
}

func (l *Loader) load(ctx context.Context, source string) (*Table, error) {
	if isXLSX(source) {
		return l.loadXLSX(ctx, source)
	}

	rc, err := l.opener.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrap(err, "table: read source")
	}

	return parseCSV(data, l.encodings)
}

func (l *Loader) loadXLSX(ctx context.Context, source string) (*Table, error) {
	local := source
	if strings.Contains(source, "://") {
		rc, err := l.opener.Open(ctx, source)
		if err != nil {
			return nil, err
		}
		defer rc.Close() //nolint:errcheck

		tmp, err := os.CreateTemp("", "engage-*.xlsx")
		if err != nil {
			return nil, eris.Wrap(err, "table: temp file")
		}
		defer os.Remove(tmp.Name()) //nolint:errcheck

		if _, err := io.Copy(tmp, rc); err != nil {
			tmp.Close()
			return nil, eris.Wrap(err, "table: spool xlsx")
		}
		if err := tmp.Close(); err != nil {
			return nil, eris.Wrap(err, "table: close temp file")
		}
		local = tmp.Name()
	}

	return parseXLSX(local)
}

func isXLSX(source string) bool {
	return strings.EqualFold(path.Ext(strings.SplitN(source, "?", 2)[0]), ".xlsx")
}
