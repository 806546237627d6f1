package cli

import (
	"fmt"
	"os"

	"github.com/resmerge/resmerge/mod"
	"github.com/resmerge/resmerge/resource"
)

// modEntry ties together the three names one packaged file goes by.
type modEntry struct {
	ZipName string // location inside the package
	Logical string // path relative to the game root, AOC entries prefixed
	Canon   string // resource table key
}

func packageEntries(man *mod.Manifest) []modEntry {
	entries := make([]modEntry, 0, len(man.Content)+len(man.AOC))
	for _, p := range man.Content {
		entries = append(entries, modEntry{
			ZipName: "content/" + p,
			Logical: p,
			Canon:   resource.Canonical(p),
		})
	}
	for _, p := range man.AOC {
		entries = append(entries, modEntry{
			ZipName: "aoc/" + p,
			Logical: mod.AOCPrefix + p,
			Canon:   mod.AOCPrefix + resource.Canonical(p),
		})
	}
	return entries
}

func openMod(path string) (*mod.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	r, err := mod.OpenReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, func() { r.Close(); f.Close() }, nil
}

// loadModTable parses every packaged resource into a table keyed by
// canonical path.
func loadModTable(r *mod.Reader) (*resource.Table, error) {
	table := resource.NewTable()
	for _, e := range packageEntries(r.Manifest()) {
		data, err := r.Get(e.ZipName)
		if err != nil {
			return nil, err
		}
		if _, err := table.Load(e.Logical, data); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Logical, err)
		}
	}
	return table, nil
}

// loadBaseTable parses the base game versions of the given entries.
// Entries a mod adds from scratch have no base version and are skipped.
func loadBaseTable(dump mod.Dump, entries []modEntry) (*resource.Table, error) {
	table := resource.NewTable()
	for _, e := range entries {
		if _, ok := table.Get(e.Canon); ok {
			continue
		}
		data, err := dump.Get(e.Logical)
		if err != nil {
			continue
		}
		if _, err := table.Load(e.Logical, data); err != nil {
			return nil, fmt.Errorf("load base %s: %w", e.Logical, err)
		}
	}
	return table, nil
}
