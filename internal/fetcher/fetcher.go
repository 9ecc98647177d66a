package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// SchemeFile is used for bare filesystem paths as well as file:// locators.
const SchemeFile = "file"

// Fetcher retrieves the raw bytes behind a resource locator.
type Fetcher interface {
	Schemes() []string
	Fetch(ctx context.Context, locator string) (io.ReadCloser, error)
}

// Registry keeps a mapping from URI schemes to their fetchers.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces the fetcher for each scheme it claims.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	for _, scheme := range f.Schemes() {
		r.fetchers[strings.ToLower(scheme)] = f
	}
}

// Resolve returns the fetcher for the locator's scheme or an error if it is absent.
func (r *Registry) Resolve(locator string) (Fetcher, error) {
	scheme, err := Scheme(locator)
	if err != nil {
		return nil, err
	}
	if f, ok := r.fetchers[scheme]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for scheme %q", scheme)
}

// Scheme extracts the lower-cased URI scheme; locators without one are files.
func Scheme(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("empty resource locator")
	}
	if !strings.Contains(locator, "://") {
		return SchemeFile, nil
	}
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("invalid resource locator %s: %w", locator, err)
	}
	return strings.ToLower(u.Scheme), nil
}
