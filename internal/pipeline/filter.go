package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/campaign"
)

// Roster columns the classification stages read.
const (
	colOrgCode    = "org_code"
	colCorpName   = "covr_corporation"
	colFacilities = "facilities"
	colEmail      = "email"
	colLastName   = "last_name"

	colCampaign = "campaign"
	colUserType = "View User type"
)

// Filter runs stage 2: resolve each row's org code or corporation name
// against the warehouse and classify it into a campaign and user type.
// Rows that resolve to nothing are annotated with the fallback user type,
// never dropped.
func (p *Pipeline) Filter(ctx context.Context) error {
	log := p.log()
	log.Info("stage 2: classification", zap.String("input", p.cfg.Pipeline.Verified))

	table, err := ReadTable(p.cfg.Pipeline.Verified)
	if err != nil {
		return err
	}

	eng, err := p.buildEngine(ctx)
	if err != nil {
		return err
	}

	classified := classifyRows(table, eng)

	table.AddColumns(colUserType, colCampaign)
	if err := WriteTable(p.cfg.Pipeline.Filtered, table); err != nil {
		return err
	}

	log.Info("stage 2 complete",
		zap.Int("rows", len(table.Rows)),
		zap.Int("classified", classified),
		zap.String("output", p.cfg.Pipeline.Filtered),
	)
	return nil
}

// classifyRows fills the campaign and user-type columns in place and
// returns the number of rows that received a campaign.
func classifyRows(table *Table, eng *engine) int {
	classified := 0
	for _, row := range table.Rows {
		task, _ := eng.resolver.Resolve(row[colOrgCode], row[colCorpName])
		tag := campaign.Classify(task)
		if tag != "" {
			classified++
		}
		row[colCampaign] = tag
		row[colUserType] = campaign.UserType(tag, row[colFacilities])
	}
	return classified
}
