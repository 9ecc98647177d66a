package fetcher

import (
	"context"
	"io"
	"strings"
	"testing"
)

type stubFetcher struct {
	schemes []string
}

func (s stubFetcher) Schemes() []string { return s.schemes }

func (s stubFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(locator)), nil
}

func TestScheme(t *testing.T) {
	t.Parallel()

	cases := []struct {
		locator string
		want    string
	}{
		{"https://ndownloader.figshare.com/files/12710618", "https"},
		{"HTTP://example.org/data.csv", "http"},
		{"ftp://aftp.cmdl.noaa.gov/data/trace_gases/co2/in-situ/surface/brw/monthly.txt", "ftp"},
		{"file:///tmp/data.csv", "file"},
		{"data/precip.csv", "file"},
	}

	for _, tc := range cases {
		got, err := Scheme(tc.locator)
		if err != nil {
			t.Fatalf("Scheme(%q) returned error: %v", tc.locator, err)
		}
		if got != tc.want {
			t.Fatalf("Scheme(%q) = %q, want %q", tc.locator, got, tc.want)
		}
	}

	if _, err := Scheme("   "); err == nil {
		t.Fatalf("expected error for empty locator")
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	web := stubFetcher{schemes: []string{"http", "https"}}
	local := stubFetcher{schemes: []string{SchemeFile}}
	reg.Register(web)
	reg.Register(local)

	f, err := reg.Resolve("https://example.org/a.csv")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(f.Schemes()) != 2 {
		t.Fatalf("expected web fetcher, got %v", f.Schemes())
	}

	f, err = reg.Resolve("./a.csv")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if f.Schemes()[0] != SchemeFile {
		t.Fatalf("expected file fetcher, got %v", f.Schemes())
	}

	if _, err := reg.Resolve("gopher://example.org/a.csv"); err == nil {
		t.Fatalf("expected error for unregistered scheme")
	}
}
