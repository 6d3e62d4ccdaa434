package main

import (
	"github.com/spf13/cobra"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Classify users into campaigns",
	Long:  "Resolves each row's org code or corporation name against the task warehouse and appends campaign and user-type columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, cleanup, err := buildPipeline(ctx, true)
		if err != nil {
			return err
		}
		defer cleanup()

		return p.Filter(ctx)
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
}
