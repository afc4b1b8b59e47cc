package cap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadArchive(t *testing.T) {
	want := walletEntries()
	raw := zipEntries(t, want)

	got, err := ReadArchive(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("ReadArchive() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadArchive() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	raw := zipEntries(t, walletEntries())

	c, err := Load(bytes.NewReader(raw), int64(len(raw)), "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if c.PackageName() != "com.example.wallet" {
		t.Errorf("PackageName() = %q", c.PackageName())
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cap")
	if err := os.WriteFile(path, zipEntries(t, walletEntries()), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	c, err := Open(path, "com.example.wallet")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if c.PackageAID().String() != "A0000001510000" {
		t.Errorf("PackageAID() = %s", c.PackageAID())
	}

	// The handle is released: the file can be removed right away.
	if err := os.Remove(path); err != nil {
		t.Errorf("Remove() after Open() failed: %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.cap"), ""); err == nil {
		t.Error("expected an error for a missing file")
	}

	notZip := filepath.Join(dir, "not-a-zip.cap")
	if err := os.WriteFile(notZip, []byte("PK but not really"), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := Open(notZip, ""); err == nil {
		t.Error("expected an error for a file that is not a ZIP archive")
	}

	raw := []byte("definitely not a zip")
	if _, err := ReadArchive(bytes.NewReader(raw), int64(len(raw))); err == nil {
		t.Error("expected an error from ReadArchive")
	}
}
