package main

import (
	"github.com/spf13/cobra"
)

var resolveState string

var resolveCmd = &cobra.Command{
	Use:   "resolve <track name>",
	Short: "Resolve a track name against the registry (exact, alias, fuzzy)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := loadIndex()
		if err != nil {
			return err
		}
		match, err := ix.Resolve(args[0], resolveState)
		if err != nil {
			return err
		}
		return writeArtifact("", match)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveState, "state", "", "restrict fuzzy matching to one state")
}
