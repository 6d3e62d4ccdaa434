// Package match implements the org/name resolution engine: code and name
// indexes over the warehouse task scan, the tiered resolver, and the
// facility lookup.
package match

import (
	"strings"

	"github.com/dataiq/outreach-cli/internal/model"
)

// NameEntry is one task name in warehouse scan order. Consumers depend on
// first-match-wins over this ordering for deterministic resolution.
type NameEntry struct {
	Original   string
	Normalized string
	Task       *model.TaskRecord
}

// orgCodeDelims replaces the separators found inside bundled org-code
// labels ("A, B-C") with spaces before splitting.
var orgCodeDelims = strings.NewReplacer(",", " ", "-", " ", "/", " ")

// SplitOrgCodes breaks a raw org-code label into normalized codes:
// uppercase tokens with separators collapsed and empties dropped. A label
// bundling several codes yields one entry per code; organizations are
// sometimes sold as bundles under one task.
func SplitOrgCodes(label string) []string {
	var codes []string
	for _, word := range strings.Fields(orgCodeDelims.Replace(label)) {
		code := strings.ToUpper(strings.TrimSpace(word))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// BuildOrgIndex maps every normalized org code to the task that carries
// it. Tasks without an Org Code field are skipped here (they remain
// reachable through the name index). Last write wins on collisions.
func BuildOrgIndex(tasks []*model.TaskRecord) map[string]*model.TaskRecord {
	index := make(map[string]*model.TaskRecord)
	for _, task := range tasks {
		for _, label := range task.OrgCodeLabels {
			for _, code := range SplitOrgCodes(label) {
				index[code] = task
			}
		}
	}
	return index
}

// BuildNameIndex returns every named task in scan order, paired with its
// trimmed-uppercase form for matching.
func BuildNameIndex(tasks []*model.TaskRecord) []NameEntry {
	var entries []NameEntry
	for _, task := range tasks {
		if task.Name == "" {
			continue
		}
		entries = append(entries, NameEntry{
			Original:   task.Name,
			Normalized: strings.ToUpper(strings.TrimSpace(task.Name)),
			Task:       task,
		})
	}
	return entries
}
