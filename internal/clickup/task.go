package clickup

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/model"
)

// Field names as they appear on the Corporations list.
const (
	fieldOrgCode           = "Org Code"
	fieldCustomerType      = "Customer Type"
	fieldServices          = "Services"
	fieldOutreachCampaigns = "Outreach Campaigns"
	fieldHubspotURL        = "Hubspot URL"
)

// ParseTask builds an immutable TaskRecord from the raw warehouse columns.
// status and customFields arrive as JSON text (the sync stores both as
// JSON); malformed payloads degrade to defaults rather than failing the
// task. companies maps CRM record id to company name and may be nil.
func ParseTask(id, name string, status, customFields []byte, companies map[string]string) *model.TaskRecord {
	t := &model.TaskRecord{
		ID:     id,
		Name:   strings.TrimSpace(name),
		Status: parseStatus(status),
	}

	fields := parseCustomFields(id, customFields)

	if f, ok := fieldByName(fields, fieldCustomerType); ok {
		if labels := DecodeField(f); len(labels) > 0 {
			t.CustomerType = labels[0]
		}
	}
	if f, ok := fieldByName(fields, fieldServices); ok {
		t.Services = DecodeField(f)
	}
	if f, ok := fieldByName(fields, fieldOutreachCampaigns); ok {
		t.OutreachCampaigns = DecodeField(f)
	}
	if f, ok := fieldByName(fields, fieldOrgCode); ok {
		t.OrgCodeLabels = DecodeField(f)
	}

	if f, ok := fieldByName(fields, fieldHubspotURL); ok {
		t.HubspotURL = urlValue(f.Value)
	}
	if t.HubspotURL != "" {
		t.RecordID = trailingSegment(t.HubspotURL)
		if companies != nil {
			t.CompanyName = companies[t.RecordID]
		}
	}

	return t
}

// parseStatus extracts the status label from the JSON status column.
// Accepts {"status": "active", ...} or a bare JSON string; anything else
// yields "unknown".
func parseStatus(raw []byte) string {
	if len(raw) == 0 {
		return "unknown"
	}

	var obj struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Status != "" {
		return strings.ToLower(obj.Status)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return strings.ToLower(s)
	}

	return "unknown"
}

// parseCustomFields decodes the custom_fields column. The sync sometimes
// double-encodes the list as a JSON string; both shapes are accepted.
func parseCustomFields(taskID string, raw []byte) []CustomField {
	if len(raw) == 0 {
		return nil
	}

	var fields []CustomField
	if err := json.Unmarshal(raw, &fields); err == nil {
		return fields
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &fields); err == nil {
			return fields
		}
	}

	zap.L().Debug("clickup: skipping malformed custom_fields payload",
		zap.String("task_id", taskID))
	return nil
}

func fieldByName(fields []CustomField, name string) (CustomField, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return CustomField{}, false
}

// urlValue extracts a URL field value, taking the first element when the
// sync wraps it in a list.
func urlValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// trailingSegment returns the last path segment of a URL, which for CRM
// company links is the record id.
func trailingSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if trimmed == "" {
		return ""
	}
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
