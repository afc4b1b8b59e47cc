package cap

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// maxEntrySize bounds a single archive entry. Card components are limited
// to 64KiB by their u2 size field; signing artifacts are smaller still.
const maxEntrySize = 1 << 20

// ReadArchive reads every file of a ZIP archive into memory.
func ReadArchive(r io.ReaderAt, size int64) (Entries, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("unable to open CAP archive: %w", err)
	}
	return readEntries(zr)
}

// Load reads a CAP archive and builds its CapFile.
func Load(r io.ReaderAt, size int64, packageName string) (*CapFile, error) {
	entries, err := ReadArchive(r, size)
	if err != nil {
		return nil, err
	}
	return New(entries, packageName)
}

// Open reads the CAP file at path. The file is closed before Open returns.
func Open(path, packageName string) (*CapFile, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open CAP archive: %w", err)
	}
	defer zr.Close()

	entries, err := readEntries(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(entries, packageName)
}

func readEntries(zr *zip.Reader) (Entries, error) {
	entries := make(Entries, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", f.Name, err)
		}
		entries[f.Name] = data
	}
	return entries, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("larger than %d bytes", maxEntrySize)
	}
	return data, nil
}
