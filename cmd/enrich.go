package main

import (
	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich classified rows with warehouse data",
	Long:  "Attaches task, CRM corporation, facility, and CRM contact columns to every classified row.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, cleanup, err := buildPipeline(ctx, true)
		if err != nil {
			return err
		}
		defer cleanup()

		return p.Enrich(ctx)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
