package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	payload := make([]byte, 2048)
	if err := os.WriteFile(filepath.Join(dir, "data.bin"), payload, 0644); err != nil {
		t.Fatalf("Failed to write fixture file: %v", err)
	}

	health := GetSysHealth(dir)
	if health.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", health.Goroutines)
	}
	if health.DataDiskSize != "2.0 KB" {
		t.Errorf("Expected data size '2.0 KB', got %q", health.DataDiskSize)
	}
}

func TestDirSizeHuman(t *testing.T) {
	dir := t.TempDir()
	if got := dirSizeHuman(dir); got != "0 B" {
		t.Errorf("Expected '0 B' for an empty directory, got %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "small.txt"), []byte("abc"), 0644); err != nil {
		t.Fatalf("Failed to write fixture file: %v", err)
	}
	if got := dirSizeHuman(dir); !strings.HasSuffix(got, " B") {
		t.Errorf("Expected a byte-sized result, got %q", got)
	}
}
