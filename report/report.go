// Package report renders resource tables and their differences as text
// for human review. Nothing here feeds back into merging; the merge engine
// works on structured diffs, this package only explains them.
package report

import (
	"sort"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/resmerge/resmerge/resource"
)

// Status classifies one path's change between two tables.
type Status string

const (
	Added    Status = "added"
	Removed  Status = "removed"
	Modified Status = "modified"
)

// Change is one changed path.
type Change struct {
	Path   string
	Status Status
}

// Compare lists every path that differs between two tables, sorted by
// path. Unchanged paths are absent.
func Compare(base, modded *resource.Table) []Change {
	var changes []Change
	seen := map[string]bool{}
	for _, key := range modded.Keys() {
		seen[key] = true
		mrd, _ := modded.Get(key)
		brd, ok := base.Get(key)
		switch {
		case !ok:
			changes = append(changes, Change{Path: key, Status: Added})
		case !brd.Equal(mrd):
			changes = append(changes, Change{Path: key, Status: Modified})
		}
	}
	for _, key := range base.Keys() {
		if !seen[key] {
			changes = append(changes, Change{Path: key, Status: Removed})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// TextDiff produces a line-oriented patch between two renderings. Lines
// are prefixed "+", "-", or two spaces; equal runs longer than six lines
// collapse to an ellipsis around three lines of context.
func TextDiff(base, modded string) string {
	cfg := diffpatch.New()
	a, b, lines := cfg.DiffLinesToChars(base, modded)
	diffs := cfg.DiffCharsToLines(cfg.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for i, diff := range diffs {
		switch diff.Type {
		case diffpatch.DiffInsert:
			writePrefixed(&sb, "+ ", splitLines(diff.Text))
		case diffpatch.DiffDelete:
			writePrefixed(&sb, "- ", splitLines(diff.Text))
		case diffpatch.DiffEqual:
			ls := splitLines(diff.Text)
			if len(ls) > 6 {
				head, tail := ls[:3], ls[len(ls)-3:]
				if i == 0 {
					head = nil
				}
				if i == len(diffs)-1 {
					tail = nil
				}
				writePrefixed(&sb, "  ", head)
				sb.WriteString("  ...\n")
				writePrefixed(&sb, "  ", tail)
			} else {
				writePrefixed(&sb, "  ", ls)
			}
		}
	}
	return sb.String()
}

// ResourceDiff renders both resources and diffs the renderings.
func ResourceDiff(base, modded *resource.ResourceData) string {
	return TextDiff(Render(base), Render(modded))
}

func splitLines(text string) []string {
	ls := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(ls) == 1 && ls[0] == "" {
		return nil
	}
	return ls
}

func writePrefixed(sb *strings.Builder, prefix string, ls []string) {
	for _, l := range ls {
		sb.WriteString(prefix)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}
