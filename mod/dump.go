package mod

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/resmerge/resmerge/sarc"
	"github.com/resmerge/resmerge/yaz0"
)

// Dump supplies unmodified base game resources, used as the diff base when
// a mod records a patch rather than a full file.
type Dump interface {
	// GetFromSarc returns the bytes of a resource nested in an archive.
	// The primary path addresses the archive and entry as
	// "<archive path>//<entry path>"; the fallback is the loose file
	// location tried when the nested lookup fails.
	GetFromSarc(primary, fallback string) ([]byte, error)

	// Get returns the bytes of a loose base file.
	Get(path string) ([]byte, error)
}

// DirDump reads base resources from an unpacked game dump on disk.
type DirDump struct {
	ContentRoot string
	AOCRoot     string
}

func (d *DirDump) resolve(path string) string {
	if rest, ok := strings.CutPrefix(path, AOCPrefix); ok && d.AOCRoot != "" {
		return filepath.Join(d.AOCRoot, filepath.FromSlash(rest))
	}
	return filepath.Join(d.ContentRoot, filepath.FromSlash(path))
}

// Get reads a loose file, decompressing transparently.
func (d *DirDump) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(d.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	return yaz0.DecompressIf(data)
}

// GetFromSarc digs a nested entry out of an archive, falling back to the
// loose file when either the archive or the entry is missing.
func (d *DirDump) GetFromSarc(primary, fallback string) ([]byte, error) {
	archivePath, entry, ok := strings.Cut(primary, "//")
	if ok {
		if data, err := d.Get(archivePath); err == nil {
			if a, err := sarc.Parse(data); err == nil {
				if payload, err := a.Get(entry); err == nil {
					return yaz0.DecompressIf(payload)
				}
			}
		}
	}
	return d.Get(fallback)
}
