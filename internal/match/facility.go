package match

import (
	"strings"

	"github.com/agext/levenshtein"
)

// FacilityMatch is the result of resolving a single facility name. The
// task-side and directory-side lookups are independent and may disagree.
type FacilityMatch struct {
	// Task-side containment match (first in scan order).
	TaskID      string
	TaskName    string
	HubspotURL  string
	RecordID    string
	CompanyName string

	// Directory-side best match by edit-distance similarity.
	DirectoryID   string
	DirectoryName string
}

// FacilityResolver matches a free-text facility name against the task
// name index and the CRM company directory.
type FacilityResolver struct {
	names     []NameEntry
	directory map[string]string // record id -> company name
	threshold float64
}

// NewFacilityResolver creates a facility resolver. threshold is the
// minimum similarity for a directory match (0..1).
func NewFacilityResolver(names []NameEntry, directory map[string]string, threshold float64) *FacilityResolver {
	return &FacilityResolver{
		names:     names,
		directory: directory,
		threshold: threshold,
	}
}

// Resolve looks the facility up both ways. The name-index side reuses the
// resolver's containment test and first-match tie-break; the directory
// side is the one place in the system that picks the highest-similarity
// candidate instead of the first one.
func (f *FacilityResolver) Resolve(facility string) FacilityMatch {
	var m FacilityMatch

	norm := strings.ToUpper(strings.TrimSpace(facility))
	if norm == "" {
		return m
	}

	for _, entry := range f.names {
		if strings.Contains(entry.Normalized, norm) || strings.Contains(norm, entry.Normalized) {
			m.TaskID = entry.Task.ID
			m.TaskName = entry.Original
			m.HubspotURL = entry.Task.HubspotURL
			m.RecordID = entry.Task.RecordID
			m.CompanyName = entry.Task.CompanyName
			break
		}
	}

	m.DirectoryID, m.DirectoryName = f.bestDirectoryMatch(norm)

	return m
}

// bestDirectoryMatch scans the directory for the company name most
// similar to the facility name. Ties break on the lower record id so the
// result is stable across map iteration order.
func (f *FacilityResolver) bestDirectoryMatch(norm string) (string, string) {
	var (
		bestID   string
		bestName string
		bestSim  float64
	)
	for id, name := range f.directory {
		sim := levenshtein.Similarity(norm, strings.ToUpper(strings.TrimSpace(name)), nil)
		if sim < f.threshold {
			continue
		}
		if sim > bestSim || (sim == bestSim && (bestID == "" || id < bestID)) {
			bestID = id
			bestName = name
			bestSim = sim
		}
	}
	return bestID, bestName
}
