// Package mod holds the external-facing mod structures: the manifest of
// touched paths, the mod metadata file, the packaged mod container, and
// the dump collaborator interface that supplies unmodified base resources.
package mod

import (
	"sort"

	"github.com/resmerge/resmerge/resource"
)

// AOCPrefix is the virtual directory token prepended to add-on-content
// paths when resolving resource table keys.
const AOCPrefix = "Aoc/0010/"

// Manifest names the files a mod or merge result affects, split into base
// content and add-on content. Both sets stay sorted and deduplicated.
type Manifest struct {
	Content []string `yaml:"content"`
	AOC     []string `yaml:"aoc"`
}

func insertSorted(set []string, path string) []string {
	i := sort.SearchStrings(set, path)
	if i < len(set) && set[i] == path {
		return set
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = path
	return set
}

// AddContent records a base content path.
func (m *Manifest) AddContent(path string) {
	m.Content = insertSorted(m.Content, path)
}

// AddAOC records an add-on-content path.
func (m *Manifest) AddAOC(path string) {
	m.AOC = insertSorted(m.AOC, path)
}

// Extend unions another manifest into this one.
func (m *Manifest) Extend(other *Manifest) {
	for _, p := range other.Content {
		m.AddContent(p)
	}
	for _, p := range other.AOC {
		m.AddAOC(p)
	}
}

// Clear empties both path sets.
func (m *Manifest) Clear() {
	m.Content = nil
	m.AOC = nil
}

// IsEmpty reports whether the manifest names no files.
func (m *Manifest) IsEmpty() bool {
	return len(m.Content) == 0 && len(m.AOC) == 0
}

// Resources maps every manifest path to its canonical resource table key.
// Add-on-content paths pick up the virtual directory prefix.
func (m *Manifest) Resources() []string {
	res := make([]string, 0, len(m.Content)+len(m.AOC))
	for _, p := range m.Content {
		res = append(res, resource.Canonical(p))
	}
	for _, p := range m.AOC {
		res = append(res, AOCPrefix+resource.Canonical(p))
	}
	return res
}
