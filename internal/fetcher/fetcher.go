// Package fetcher reads raw source bytes from local paths, HTTP URLs, and
// FTP URLs. It performs no retries: a failed load is terminal for the
// session until the caller supplies a corrected source.
package fetcher

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher returns a reader for a single remote source.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Opener resolves a source string (local path, http(s) URL, or ftp URL) to a
// reader.
type Opener struct {
	HTTP *HTTPFetcher
	FTP  *FTPFetcher
}

// NewOpener builds an Opener with default HTTP and FTP fetchers.
func NewOpener() *Opener {
	return &Opener{
		HTTP: NewHTTPFetcher(HTTPOptions{}),
		FTP:  NewFTPFetcher(FTPOptions{}),
	}
}

// Open returns a reader for the source. The caller must close it.
func (o *Opener) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return o.HTTP.Download(ctx, source)
	case strings.HasPrefix(source, "ftp://"):
		return o.FTP.Download(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", source)
		}
		return f, nil
	}
}
