package main

import (
	"github.com/spf13/cobra"
)

var loginsCmd = &cobra.Command{
	Use:   "logins",
	Short: "Join login history onto the enriched roster",
	Long:  "Joins the product login report by email and appends view-count and last-login columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, cleanup, err := buildPipeline(ctx, false)
		if err != nil {
			return err
		}
		defer cleanup()

		return p.Logins(ctx)
	},
}

func init() {
	rootCmd.AddCommand(loginsCmd)
}
