package fetch

import (
	"context"
	"net/url"
	"testing"
)

func TestFTPAddressAndCredentials(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("ftp://aftp.cmdl.noaa.gov/data/trace_gases/co2/in-situ/surface/brw/co2_brw_surface-insitu_1_ccgg_MonthlyData.txt")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if got := ftpAddress(u); got != "aftp.cmdl.noaa.gov:21" {
		t.Fatalf("unexpected address: %s", got)
	}
	if user, pass := ftpCredentials(u); user != "anonymous" || pass != "anonymous" {
		t.Fatalf("unexpected credentials: %s/%s", user, pass)
	}

	u, err = url.Parse("ftp://alice:secret@[::1]:2121/data.txt")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if got := ftpAddress(u); got != "[::1]:2121" {
		t.Fatalf("unexpected address: %s", got)
	}
	if user, pass := ftpCredentials(u); user != "alice" || pass != "secret" {
		t.Fatalf("unexpected credentials: %s/%s", user, pass)
	}
}

func TestFTPFetcherRejectsMissingPath(t *testing.T) {
	t.Parallel()

	if _, err := NewFTPFetcher(0).Fetch(context.Background(), "ftp://example.org"); err == nil {
		t.Fatalf("expected error for locator without a path")
	}
}
