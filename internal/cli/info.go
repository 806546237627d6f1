package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoFiles bool

var infoCmd = &cobra.Command{
	Use:   "info MOD",
	Short: "Show a mod package's metadata and contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, done, err := openMod(args[0])
		if err != nil {
			return err
		}
		defer done()

		meta := r.Meta()
		printSection(meta.Name)
		printLabelValue("Version", meta.Version)
		printLabelValue("Author", meta.Author)
		printLabelValue("Platform", string(meta.Platform))
		if meta.Category != "" {
			printLabelValue("Category", meta.Category)
		}
		if meta.Description != "" {
			printLabelValue("Description", meta.Description)
		}
		if meta.URL != "" {
			printLabelValue("URL", meta.URL)
		}

		man := r.Manifest()
		printLabelValue("Content files", fmt.Sprintf("%d", len(man.Content)))
		printLabelValue("AOC files", fmt.Sprintf("%d", len(man.AOC)))
		for _, group := range meta.OptionGroups {
			printLabelValue("Option group", fmt.Sprintf("%s (%d options)", group.Name, len(group.Options)))
		}
		if infoFiles {
			for _, e := range packageEntries(man) {
				_, _ = dimColor.Printf("  %s\n", e.Logical)
			}
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoFiles, "files", false, "List every packaged file")
}
