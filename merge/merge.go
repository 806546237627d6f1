// Package merge folds an arbitrary number of mod diffs onto a base
// resource table. The fold is strictly sequential per resource path, in
// the user-declared load order, because load order decides which mod wins
// a conflicting edit. Unrelated paths have no ordering dependency and fold
// on a worker pool.
package merge

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"

	"github.com/resmerge/resmerge/format"
	"github.com/resmerge/resmerge/resource"
	"golang.org/x/sync/errgroup"
)

// ModDiff is one mod's contribution: a diff-shaped resource per touched
// canonical path. A path absent from the base table may instead carry a
// full resource.
type ModDiff struct {
	Name  string
	Diffs map[string]*resource.ResourceData
}

// Option tunes a Merger.
type Option func(*Merger)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(m *Merger) { m.log = log }
}

// WithWorkers caps concurrent per-path folds. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(m *Merger) { m.workers = n }
}

// Merger applies mod diffs to base tables for one target platform.
type Merger struct {
	endian  format.Endian
	log     *zap.Logger
	workers int
}

// New returns a Merger for the target platform.
func New(endian format.Endian, opts ...Option) *Merger {
	m := &Merger{endian: endian, log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.workers <= 0 {
		m.workers = runtime.GOMAXPROCS(0)
	}
	return m
}

// Endian returns the merger's target platform.
func (m *Merger) Endian() format.Endian { return m.endian }

// touchedPaths returns the sorted union of every path any mod touches.
func touchedPaths(mods []ModDiff) []string {
	set := map[string]struct{}{}
	for _, mod := range mods {
		for path := range mod.Diffs {
			set[path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Apply folds every mod's diffs onto base, in load order, and returns the
// merged table. Base entries no mod touches carry over untouched. Each
// whole-path fold is atomic; cancellation applies between paths.
func (m *Merger) Apply(ctx context.Context, base *resource.Table, mods []ModDiff) (*resource.Table, error) {
	paths := touchedPaths(mods)
	m.log.Info("merging mods",
		zap.Int("mods", len(mods)),
		zap.Int("paths", len(paths)),
		zap.String("platform", m.endian.String()),
	)

	result := resource.NewTable()
	touched := map[string]bool{}
	for _, path := range paths {
		touched[path] = true
	}
	for _, key := range base.Keys() {
		if !touched[key] {
			rd, _ := base.Get(key)
			result.Set(key, rd)
		}
	}

	merged := make([]*resource.ResourceData, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rd, err := m.foldPath(base, mods, path)
			if err != nil {
				return err
			}
			merged[i] = rd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, path := range paths {
		if merged[i] != nil {
			result.Set(path, merged[i])
		}
	}
	return result, nil
}

// foldPath merges one path's diffs sequentially in load order.
func (m *Merger) foldPath(base *resource.Table, mods []ModDiff, path string) (*resource.ResourceData, error) {
	var acc *resource.ResourceData
	if rd, ok := base.Get(path); ok {
		acc = rd
	}
	for _, mod := range mods {
		diff, ok := mod.Diffs[path]
		if !ok {
			continue
		}
		if acc == nil {
			// First writer of a path the base never had: the diff is the
			// whole resource.
			acc = diff
			continue
		}
		acc = acc.Merge(diff)
		m.log.Debug("merged layer", zap.String("path", path), zap.String("mod", mod.Name))
	}
	return acc, nil
}

// Diff computes each touched path's diff between a base table and a
// modded table. Paths only in the modded table contribute their whole
// resource; unchanged paths are absent.
func (m *Merger) Diff(base, modded *resource.Table) map[string]*resource.ResourceData {
	res := map[string]*resource.ResourceData{}
	for _, key := range modded.Keys() {
		mrd, _ := modded.Get(key)
		brd, ok := base.Get(key)
		if !ok {
			res[key] = mrd
			continue
		}
		if brd.Equal(mrd) {
			continue
		}
		res[key] = brd.Diff(mrd)
	}
	return res
}

// Build serializes the merged table entries named by keys, returning each
// path's bytes for the merger's platform.
func (m *Merger) Build(ctx context.Context, table *resource.Table, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rd, ok := table.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", resource.ErrMissingResource, key)
		}
		data, err := rd.ToBinary(m.endian, table)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}
