package refdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rshade/zerodesign/internal/cache"
	"github.com/rshade/zerodesign/internal/logging"
)

// maxSourceBytes bounds a single reference source body.
const maxSourceBytes = 16 << 20

// DefaultFetchTimeout applies when Fetcher has no explicit HTTP client.
const DefaultFetchTimeout = 15 * time.Second

// ErrSourceStatus is returned for non-2xx HTTP responses.
var ErrSourceStatus = errors.New("unexpected source status")

// Fetcher retrieves the raw bytes of a reference source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// SourceFetcher reads plain paths, file:// URLs and http(s):// URLs. HTTP
// bodies are cached when Cache is set; local files never are.
type SourceFetcher struct {
	Client *http.Client
	Cache  *cache.FileStore
}

// NewSourceFetcher returns a fetcher with a bounded HTTP client. store may be nil.
func NewSourceFetcher(timeout time.Duration, store *cache.FileStore) *SourceFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &SourceFetcher{Client: &http.Client{Timeout: timeout}, Cache: store}
}

// Fetch implements Fetcher.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return f.fetchHTTP(ctx, source)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", source, err)
		}
		return readFile(u.Path)
	default:
		return readFile(source)
	}
}

func (f *SourceFetcher) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	log := logging.FromContext(ctx)

	if f.Cache != nil && f.Cache.Enabled() {
		if entry, err := f.Cache.Get(source); err == nil {
			log.Debug().
				Str("component", "refdata").
				Str("operation", "fetch").
				Str("source", source).
				Dur("age", entry.Age(time.Now())).
				Msg("cache hit")
			return entry.Body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", source, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrSourceStatus, source, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	if f.Cache != nil && f.Cache.Enabled() {
		if putErr := f.Cache.Put(source, body); putErr != nil {
			log.Warn().
				Str("component", "refdata").
				Str("operation", "fetch").
				Err(putErr).
				Msg("failed to cache source")
		}
	}
	return body, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
