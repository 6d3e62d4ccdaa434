package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/match"
	"github.com/dataiq/outreach-cli/internal/model"
	"github.com/dataiq/outreach-cli/internal/warehouse"
)

var statusOrgCode string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task status for an org code",
	Long:  "Scans the corporations list for tasks whose Org Code field carries the given code and prints their status. Matches whole codes only, so SLTC never matches SLTCC.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		wh, err := warehouse.New(ctx, warehouse.Config{
			URL:              cfg.Warehouse.DatabaseURL,
			ListID:           cfg.Warehouse.ListID,
			ContactBatchSize: cfg.Warehouse.ContactBatchSize,
		})
		if err != nil {
			return err
		}
		defer wh.Close()

		tasks, err := wh.Tasks(ctx, nil)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		matches := tasksWithOrgCode(tasks, statusOrgCode)
		if len(matches) == 0 {
			zap.L().Info("no task found with org code", zap.String("org_code", statusOrgCode))
			return nil
		}

		formatStatusMatches(os.Stdout, statusOrgCode, matches)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusOrgCode, "org", "", "org code to search for (e.g. AVIANA)")
	_ = statusCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(statusCmd)
}

// tasksWithOrgCode returns every task whose Org Code labels contain the
// code as a whole token.
func tasksWithOrgCode(tasks []*model.TaskRecord, code string) []*model.TaskRecord {
	target := strings.ToUpper(strings.TrimSpace(code))
	var out []*model.TaskRecord
	for _, task := range tasks {
		for _, label := range task.OrgCodeLabels {
			if containsCode(label, target) {
				out = append(out, task)
				break
			}
		}
	}
	return out
}

func containsCode(label, target string) bool {
	for _, c := range match.SplitOrgCodes(label) {
		if c == target {
			return true
		}
	}
	return false
}

func formatStatusMatches(out io.Writer, code string, tasks []*model.TaskRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TASK ID\tNAME\tSTATUS\tORG CODES")
	_, _ = fmt.Fprintln(w, "-------\t----\t------\t---------")

	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			t.ID,
			t.Name,
			t.Status,
			strings.Join(t.OrgCodeLabels, "; "),
		)
	}
	_ = w.Flush()
}
