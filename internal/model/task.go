package model

import "strings"

// TaskRecord is an immutable snapshot of one corporation task from the
// warehouse, built once per run and read-only thereafter.
type TaskRecord struct {
	ID           string
	Name         string
	Status       string // lowercased, "unknown" when absent
	CustomerType string // decoded label, empty when absent

	// Services and OutreachCampaigns keep decoded label order and casing
	// for display; membership checks go through HasService / HasCampaign.
	Services          []string
	OutreachCampaigns []string

	HubspotURL  string
	RecordID    string // trailing path segment of HubspotURL
	CompanyName string // company directory name for RecordID, empty if absent

	// OrgCodeLabels are the decoded "Org Code" option labels, still in
	// their raw bundled form ("A, B-C"). Index building splits them.
	OrgCodeLabels []string
}

// HasService reports whether the task carries the named service,
// case-insensitively.
func (t *TaskRecord) HasService(name string) bool {
	for _, s := range t.Services {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// ServicesLabel joins the decoded service labels for CSV output.
func (t *TaskRecord) ServicesLabel() string {
	return strings.Join(t.Services, ", ")
}

// IsViewCustomer reports whether the customer type is exactly "view".
// Compound types ("view + flow") do not qualify.
func (t *TaskRecord) IsViewCustomer() bool {
	return strings.EqualFold(strings.TrimSpace(t.CustomerType), "view")
}

// Contact is one CRM contact matched by email.
type Contact struct {
	ID        string
	FirstName string
	LastName  string
}
