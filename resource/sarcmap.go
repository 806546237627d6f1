package resource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/resmerge/resmerge/delmap"
	"github.com/resmerge/resmerge/format"
	"github.com/resmerge/resmerge/sarc"
	"github.com/resmerge/resmerge/yaz0"
)

// SarcMap models an archive as a delete-aware map from entry path to
// canonical resource key. Entry payloads live in the resource table under
// their canonical keys, so nested archives share entries and untouched
// binary content passes through byte for byte.
type SarcMap struct {
	Endian  format.Endian
	Align   int
	Entries *delmap.SortedDeleteMap[string, string]
}

// SarcMapFromBinary indexes a serialized archive without loading its
// entries into a table. Table.Load is the loading path.
func SarcMapFromBinary(data []byte) (*SarcMap, error) {
	a, err := sarc.Parse(data)
	if err != nil {
		return nil, err
	}
	sm := &SarcMap{Endian: a.Endian, Align: a.Align, Entries: delmap.NewSorted[string, string]()}
	for _, name := range a.Files() {
		sm.Entries.Set(name, Canonical(name))
	}
	return sm, nil
}

func sarcEntriesEqual(a, b string) bool { return a == b }

// Diff follows the delete-aware map rule: entries can be added, removed,
// or redirected to a different canonical resource. Content changes under
// an unchanged canonical key travel through the table, not the map.
func (s *SarcMap) Diff(other *SarcMap) *SarcMap {
	return &SarcMap{
		Endian:  other.Endian,
		Align:   other.Align,
		Entries: s.Entries.Diff(other.Entries, sarcEntriesEqual),
	}
}

func (s *SarcMap) Merge(diff *SarcMap) *SarcMap {
	return &SarcMap{
		Endian:  s.Endian,
		Align:   s.Align,
		Entries: s.Entries.Merge(diff.Entries),
	}
}

func (s *SarcMap) Equal(other *SarcMap) bool {
	return s.Endian == other.Endian && s.Entries.Equal(other.Entries, sarcEntriesEqual)
}

// compressedEntry reports whether an entry path names a compressed
// payload. Plain .sarc archives are the exception to the .s marker rule.
func compressedEntry(path string) bool {
	i := strings.LastIndexByte(path, '.')
	return i >= 0 && strings.HasPrefix(path[i:], ".s") && path[i:] != ".sarc"
}

// BuildOption tunes archive serialization.
type BuildOption func(*buildConfig)

type buildConfig struct {
	skipMissing bool
}

// WithSkipMissing makes serialization drop entries whose canonical key is
// absent from the table instead of failing the whole archive.
func WithSkipMissing() BuildOption {
	return func(c *buildConfig) { c.skipMissing = true }
}

// ToBinary reconstructs the archive from the table. Unchanged binary
// entries come back byte for byte; mergeable entries re-encode; entries
// with a compression marker are recompressed.
func (s *SarcMap) ToBinary(endian format.Endian, table *Table, opts ...BuildOption) ([]byte, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	a := sarc.New(endian)
	a.Align = s.Align
	var err error
	s.Entries.Iter(func(path, canon string) bool {
		rd, ok := table.Get(canon)
		if !ok {
			if cfg.skipMissing {
				return true
			}
			err = fmt.Errorf("%w: entry %s wants %s", ErrMissingResource, path, canon)
			return false
		}
		var data []byte
		if data, err = rd.ToBinary(endian, table); err != nil {
			err = fmt.Errorf("entry %s: %w", path, err)
			return false
		}
		// Opaque blobs carry their original bytes, compression included,
		// so only re-encoded resources need compressing here.
		if rd.Binary == nil && compressedEntry(path) {
			data = yaz0.Compress(data)
		}
		a.Set(path, data)
		return true
	})
	if err != nil {
		return nil, err
	}
	return a.ToBinary(), nil
}

// Table is the path-keyed merged resource table: every canonical key an
// archive map references must resolve here before serialization.
type Table struct {
	entries map[string]*ResourceData
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: map[string]*ResourceData{}}
}

// Get returns the resource stored under a canonical key.
func (t *Table) Get(canon string) (*ResourceData, bool) {
	rd, ok := t.entries[canon]
	return rd, ok
}

// Set stores a resource under a canonical key.
func (t *Table) Set(canon string, rd *ResourceData) {
	t.entries[canon] = rd
}

// Len returns the number of stored resources.
func (t *Table) Len() int { return len(t.entries) }

// Keys returns every canonical key, unordered.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

// Load identifies path's payload, recursively loads archive entries, and
// stores everything in the table under canonical keys. Entries inside an
// archive that match no schema or magic are kept as opaque binary
// resources on the archive's platform; only a top-level unrecognized
// payload is an error.
func (t *Table) Load(path string, data []byte) (*ResourceData, error) {
	data, err := yaz0.DecompressIf(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rd, err := FromBinary(path, data)
	if err != nil {
		return nil, err
	}
	if rd.Sarc != nil {
		a, err := sarc.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, name := range a.Files() {
			canon := Canonical(name)
			if _, ok := t.Get(canon); ok {
				continue
			}
			payload, err := a.Get(name)
			if err != nil {
				return nil, err
			}
			if _, err := t.Load(name, payload); err != nil {
				if !errors.Is(err, ErrUnsupportedFormat) {
					return nil, err
				}
				bin := &BinaryResource{}
				if a.Endian == format.Big {
					bin.WiiU = payload
				} else {
					bin.Switch = payload
				}
				t.Set(canon, &ResourceData{Binary: bin})
			}
		}
	}
	t.Set(Canonical(path), rd)
	return rd, nil
}
