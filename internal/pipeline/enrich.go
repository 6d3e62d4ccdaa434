package pipeline

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/campaign"
	"github.com/dataiq/outreach-cli/internal/model"
)

// Columns appended by the enrich stage, in output order.
var enrichColumns = []string{
	"task_id", "task_status", "customer_type", "services", "hubspot_url",
	"hubspot corporation record id", "hubspot corporation name",
	"facility_task_id", "facility_task_name", "facility_corporation_task",
	"facility_corporation_name", "facility_hubspot_url",
	"facility_hubspot_record_id", "facility_hubspot_company",
	"hubspot_contact_id", "hubspot_contact_first_name", "hubspot_contact_last_name",
	"match_method", "job title",
}

// jobTitlePattern captures a parenthesized job title that roster exports
// tack onto the last name, e.g. "Smith (Administrator)".
var jobTitlePattern = regexp.MustCompile(`\((.*?)\)`)

// Enrich runs stage 3: resolve each classified row to its warehouse task
// and attach task, CRM company, facility, and CRM contact columns. Rows
// belonging to the excluded demo corporations are dropped; rows without a
// campaign keep empty enrichment columns.
func (p *Pipeline) Enrich(ctx context.Context) error {
	log := p.log()
	log.Info("stage 3: enrichment", zap.String("input", p.cfg.Pipeline.Filtered))

	table, err := ReadTable(p.cfg.Pipeline.Filtered)
	if err != nil {
		return err
	}

	eng, err := p.buildEngine(ctx)
	if err != nil {
		return err
	}

	contacts, err := p.wh.ContactsByEmail(ctx, collectEmails(table))
	if err != nil {
		return err
	}

	stats := enrichRows(table, eng, contacts, excludedSet(p.cfg.Match.ExcludedCorporations))

	table.AddColumns(enrichColumns...)
	if err := WriteTable(p.cfg.Pipeline.Enriched, table); err != nil {
		return err
	}

	log.Info("stage 3 complete",
		zap.Int("rows", stats.processed),
		zap.Int("excluded", stats.excluded),
		zap.Int("matched_alias", stats.matchedAlias),
		zap.Int("matched_org_code", stats.matchedOrg),
		zap.Int("matched_name", stats.matchedName),
		zap.String("output", p.cfg.Pipeline.Enriched),
	)
	return nil
}

type enrichStats struct {
	processed    int
	excluded     int
	matchedAlias int
	matchedOrg   int
	matchedName  int
}

// enrichRows annotates every surviving row in place and drops excluded
// corporations from the table.
func enrichRows(table *Table, eng *engine, contacts map[string]model.Contact, excluded map[string]bool) enrichStats {
	var stats enrichStats

	kept := table.Rows[:0]
	for _, row := range table.Rows {
		extractJobTitle(row)

		if excluded[strings.ToUpper(strings.TrimSpace(row[colCorpName]))] {
			stats.excluded++
			continue
		}
		stats.processed++
		kept = append(kept, row)

		for _, col := range enrichColumns {
			if col != "job title" {
				row[col] = ""
			}
		}

		// Unclassified rows carry no warehouse linkage.
		if strings.TrimSpace(row[colCampaign]) == "" {
			continue
		}

		task, method := eng.resolver.Resolve(row[colOrgCode], row[colCorpName])
		switch {
		case strings.HasPrefix(method, "alias("):
			stats.matchedAlias++
		case method == "org_code":
			stats.matchedOrg++
		case method != "":
			stats.matchedName++
		}

		if task != nil {
			row["task_id"] = task.ID
			row["task_status"] = task.Status
			row["customer_type"] = task.CustomerType
			row["services"] = task.ServicesLabel()
			row["hubspot_url"] = task.HubspotURL
			row["hubspot corporation record id"] = task.RecordID
			row["hubspot corporation name"] = task.CompanyName
			row["match_method"] = method
		}

		enrichFacility(row, eng)

		contact, ok := contacts[strings.ToLower(strings.TrimSpace(row[colEmail]))]
		if ok {
			row["hubspot_contact_id"] = contact.ID
			row["hubspot_contact_first_name"] = contact.FirstName
			row["hubspot_contact_last_name"] = contact.LastName
		}
	}
	table.Rows = kept

	return stats
}

// enrichFacility fills the facility columns for single-facility rows whose
// user type is a facility variant. The task-side and directory-side
// matches are independent; the directory match, when present, supplies the
// CRM record id and name.
func enrichFacility(row Row, eng *engine) {
	facilities := strings.TrimSpace(row[colFacilities])
	if facilities == "" || strings.Contains(facilities, ",") {
		return
	}
	if !campaign.IsFacilityType(row[colUserType]) {
		return
	}

	m := eng.facility.Resolve(facilities)

	if m.TaskID != "" {
		row["facility_task_id"] = m.TaskID
		row["facility_task_name"] = m.TaskName
		row["facility_hubspot_url"] = m.HubspotURL
		row["facility_hubspot_record_id"] = m.RecordID
		row["facility_hubspot_company"] = m.CompanyName

		if corpTask := row["task_id"]; corpTask != "" {
			row["facility_corporation_task"] = corpTask
			row["facility_corporation_name"] = eng.taskName(corpTask)
		}
	}

	if m.DirectoryID != "" {
		row["facility_hubspot_record_id"] = m.DirectoryID
		row["facility_hubspot_company"] = m.DirectoryName
	}
}

func extractJobTitle(row Row) {
	lastName := row[colLastName]
	if sub := jobTitlePattern.FindStringSubmatch(lastName); sub != nil {
		row["job title"] = sub[1]
		row[colLastName] = strings.TrimSpace(jobTitlePattern.ReplaceAllString(lastName, ""))
	} else {
		row["job title"] = ""
	}
}

func collectEmails(table *Table) []string {
	seen := make(map[string]bool)
	var emails []string
	for _, row := range table.Rows {
		email := strings.ToLower(strings.TrimSpace(row[colEmail]))
		if email != "" && !seen[email] {
			seen[email] = true
			emails = append(emails, email)
		}
	}
	return emails
}

func excludedSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToUpper(strings.TrimSpace(n))] = true
	}
	return set
}
