package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all pipeline stages",
	Long:  "Runs verification, classification, enrichment, and login join in order, each stage writing the next stage's input file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, cleanup, err := buildPipeline(ctx, true)
		if err != nil {
			return err
		}
		defer cleanup()

		return p.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
