package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/resmerge/resmerge/format"
	"github.com/resmerge/resmerge/merge"
	"github.com/resmerge/resmerge/mod"
	"github.com/resmerge/resmerge/resource"
	"github.com/resmerge/resmerge/yaz0"
)

var (
	mergeContentDir string
	mergeAOCDir     string
	mergeOutDir     string
	mergePlatform   string
)

var mergeCmd = &cobra.Command{
	Use:   "merge MOD...",
	Short: "Merge mod packages onto the base game, last in load order winning conflicts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if mergeContentDir == "" && mergeAOCDir == "" {
			return fmt.Errorf("merge needs --content or --aoc pointing at a game dump")
		}
		if mergeOutDir == "" {
			return fmt.Errorf("merge needs --output")
		}

		dump := &mod.DirDump{ContentRoot: mergeContentDir, AOCRoot: mergeAOCDir}
		base := resource.NewTable()
		byCanon := map[string]modEntry{}
		endian := format.Big
		platformSet := mergePlatform != ""
		if platformSet {
			var ok bool
			if endian, ok = mod.Platform(mergePlatform).Endian(); !ok {
				return fmt.Errorf("unknown platform %q", mergePlatform)
			}
		}

		var mods []merge.ModDiff
		merger := merge.New(endian, merge.WithLogger(newLogger()))
		for _, arg := range args {
			r, done, err := openMod(arg)
			if err != nil {
				return err
			}
			entries := packageEntries(r.Manifest())
			for _, e := range entries {
				byCanon[e.Canon] = e
			}
			if !platformSet {
				if e, ok := r.Meta().Platform.Endian(); ok {
					endian = e
					platformSet = true
					merger = merge.New(endian, merge.WithLogger(newLogger()))
				}
			}
			baseAdds, err := loadBaseTable(dump, entries)
			if err != nil {
				done()
				return err
			}
			for _, key := range baseAdds.Keys() {
				if _, ok := base.Get(key); !ok {
					rd, _ := baseAdds.Get(key)
					base.Set(key, rd)
				}
			}
			modded, err := loadModTable(r)
			if err != nil {
				done()
				return err
			}
			mods = append(mods, merge.ModDiff{
				Name:  r.Meta().Name,
				Diffs: merger.Diff(base, modded),
			})
			done()
		}

		ctx := context.Background()
		merged, err := merger.Apply(ctx, base, mods)
		if err != nil {
			return err
		}
		touched := map[string]bool{}
		for _, m := range mods {
			for path := range m.Diffs {
				touched[path] = true
			}
		}
		keys := make([]string, 0, len(touched))
		for path := range touched {
			keys = append(keys, path)
		}
		built, err := merger.Build(ctx, merged, keys)
		if err != nil {
			return err
		}
		for canon, data := range built {
			if err := writeMerged(byCanon[canon], data); err != nil {
				return err
			}
		}
		printSuccess("merged %d mods, wrote %d files to %s", len(mods), len(built), mergeOutDir)
		return nil
	},
}

// writeMerged stores one built resource under its original dump-relative
// name, restoring the compression the name promises.
func writeMerged(e modEntry, data []byte) error {
	if e.ZipName == "" {
		return fmt.Errorf("merged resource with no source entry")
	}
	if resource.Canonical(e.Logical) != e.Logical {
		data = yaz0.Compress(data)
	}
	out := filepath.Join(mergeOutDir, filepath.FromSlash(e.ZipName))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func init() {
	mergeCmd.Flags().StringVar(&mergeContentDir, "content", "", "Base game content directory")
	mergeCmd.Flags().StringVar(&mergeAOCDir, "aoc", "", "Base game add-on content directory")
	mergeCmd.Flags().StringVarP(&mergeOutDir, "output", "o", "", "Directory for merged files")
	mergeCmd.Flags().StringVar(&mergePlatform, "platform", "", "Target platform: wiiu or switch (default: first mod's platform)")
}
