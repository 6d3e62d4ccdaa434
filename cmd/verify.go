package main

import (
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify roster emails",
	Long:  "Validates every roster email against the local validation API and appends the verdict columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, cleanup, err := buildPipeline(ctx, false)
		if err != nil {
			return err
		}
		defer cleanup()

		return p.Verify(ctx)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
