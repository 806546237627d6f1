package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resmerge/resmerge/mod"
	"github.com/resmerge/resmerge/report"
)

var (
	diffContentDir string
	diffAOCDir     string
	diffNameOnly   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff MOD",
	Short: "Show what a mod package changes against the base game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if diffContentDir == "" && diffAOCDir == "" {
			return fmt.Errorf("diff needs --content or --aoc pointing at a game dump")
		}
		r, done, err := openMod(args[0])
		if err != nil {
			return err
		}
		defer done()

		dump := &mod.DirDump{ContentRoot: diffContentDir, AOCRoot: diffAOCDir}
		base, err := loadBaseTable(dump, packageEntries(r.Manifest()))
		if err != nil {
			return err
		}
		modded, err := loadModTable(r)
		if err != nil {
			return err
		}

		changes := report.Compare(base, modded)
		if len(changes) == 0 {
			fmt.Println("no changes")
			return nil
		}
		for _, change := range changes {
			switch change.Status {
			case report.Added:
				_, _ = addColor.Printf("A\t%s\n", change.Path)
			case report.Removed:
				_, _ = delColor.Printf("D\t%s\n", change.Path)
			default:
				_, _ = labelColor.Printf("M\t%s\n", change.Path)
			}
			if diffNameOnly || change.Status != report.Modified {
				continue
			}
			brd, _ := base.Get(change.Path)
			mrd, _ := modded.Get(change.Path)
			printPatch(report.ResourceDiff(brd, mrd))
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffContentDir, "content", "", "Base game content directory")
	diffCmd.Flags().StringVar(&diffAOCDir, "aoc", "", "Base game add-on content directory")
	diffCmd.Flags().BoolVar(&diffNameOnly, "name-only", false, "Show changed paths without patches")
}
