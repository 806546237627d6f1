package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/resmerge/resmerge/mod"
)

var packOut string

var packCmd = &cobra.Command{
	Use:   "pack DIR",
	Short: "Package a mod directory as a distributable archive",
	Long: `Package a mod directory. The directory must hold a meta.yml plus a
content/ folder, an aoc/ folder, or both, laid out like the game dump.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		rawMeta, err := os.ReadFile(filepath.Join(root, "meta.yml"))
		if err != nil {
			return fmt.Errorf("mod directory needs a meta.yml: %w", err)
		}
		meta, err := mod.ParseMeta(rawMeta)
		if err != nil {
			return err
		}

		out := packOut
		if out == "" {
			out = filepath.Base(filepath.Clean(root)) + ".zip"
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		packer, err := mod.NewPacker(f)
		if err != nil {
			return err
		}
		if err := packer.WriteMeta(meta); err != nil {
			return err
		}

		man := &mod.Manifest{}
		add := map[string]func(string){"content": man.AddContent, "aoc": man.AddAOC}
		count := 0
		for _, sub := range []string{"content", "aoc"} {
			base := filepath.Join(root, sub)
			err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				rel, err := filepath.Rel(base, path)
				if err != nil {
					return err
				}
				name := strings.ReplaceAll(rel, string(filepath.Separator), "/")
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := packer.AddResource(sub+"/"+name, data); err != nil {
					return err
				}
				add[sub](name)
				count++
				return nil
			})
			if err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		if count == 0 {
			return fmt.Errorf("mod directory %s holds no resources", root)
		}
		if err := packer.WriteManifest(man); err != nil {
			return err
		}
		if err := packer.Close(); err != nil {
			return err
		}
		printSuccess("packed %d files into %s", count, out)
		return nil
	},
}

func init() {
	packCmd.Flags().StringVarP(&packOut, "output", "o", "", "Output package path (default: <dir>.zip)")
}
