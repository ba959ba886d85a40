package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

const defaultRequestTimeout = 15 * time.Second

// Loader fetches documents from files, an fs.FS, or HTTP URLs.
type Loader struct {
	fsys    fs.FS
	client  *http.Client
	timeout time.Duration
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithFS supplies the filesystem used for SourceKindFS sources.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithHTTPClient enables URL sources using the provided client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// WithRequestTimeout bounds HTTP fetches. Ignored when no HTTP client is set.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// NewLoader builds a Loader from options.
func NewLoader(opts ...LoaderOption) *Loader {
	loader := &Loader{timeout: defaultRequestTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(loader)
		}
	}
	return loader
}

// Load fetches the document named by src.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fsys == nil {
			return Document{}, errors.New("openapi loader: fs source without a filesystem")
		}
		data, err = fs.ReadFile(l.fsys, src.Location())
	case SourceKindURL:
		if l.client == nil {
			return Document{}, errors.New("openapi loader: http support disabled")
		}
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("openapi loader: load %s: %w", src.Location(), err)
	}

	return NewDocument(src, data)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	return io.ReadAll(res.Body)
}
