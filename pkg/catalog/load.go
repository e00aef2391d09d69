package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kumarlokesh/pybundle/pkg/errors"
)

// DefaultHTTPTimeout bounds catalog fetches when the caller does not
// configure one.
const DefaultHTTPTimeout = 30 * time.Second

// Load reads a catalog from source, which may be a local file path or an
// http(s) URL.
func Load(ctx context.Context, source string, timeout time.Duration) (Catalog, error) {
	if source == "" {
		return nil, errors.ErrCatalogSource
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadFromURL(ctx, source, timeout)
	}
	return LoadFromFile(source)
}

// LoadFromFile reads and parses a catalog JSON file.
func LoadFromFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read catalog file %s", path)
	}
	return Parse(data)
}

// LoadFromURL fetches and parses a catalog from an HTTP endpoint.
func LoadFromURL(ctx context.Context, rawURL string, timeout time.Duration) (Catalog, error) {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid catalog URL %s", rawURL)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch catalog from %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch catalog from %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog response from %s", rawURL)
	}
	return Parse(data)
}
