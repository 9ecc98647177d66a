package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/fetcher"
)

// FileFetcher opens local files given as bare paths or file:// URLs.
type FileFetcher struct{}

var _ fetcher.Fetcher = FileFetcher{}

// Schemes lists the URI schemes served by this fetcher.
func (FileFetcher) Schemes() []string {
	return []string{fetcher.SchemeFile}
}

// Fetch opens the file for reading.
func (FileFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := locator
	if strings.Contains(locator, "://") {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, fmt.Errorf("invalid file locator %s: %w", locator, err)
		}
		path = u.Path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceUnreachable, err)
	}
	return f, nil
}
