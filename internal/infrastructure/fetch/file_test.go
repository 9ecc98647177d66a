package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"TabularLoader/internal/domain"
)

func TestFileFetcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "precip.csv")
	if err := os.WriteFile(path, []byte(precipCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	for _, locator := range []string{path, "file://" + path} {
		rc, err := FileFetcher{}.Fetch(context.Background(), locator)
		if err != nil {
			t.Fatalf("Fetch(%s) error: %v", locator, err)
		}
		if got := readAll(t, rc); got != precipCSV {
			t.Fatalf("unexpected body: %q", got)
		}
	}

	_, err := FileFetcher{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, domain.ErrResourceUnreachable) {
		t.Fatalf("expected ErrResourceUnreachable, got %v", err)
	}
}
