// Package campaign assigns outreach campaigns to resolved tasks. The
// predicate order encodes real-world precedence: a customer flagged for
// downsell outreach beats a cross-sell campaign even when both apply.
package campaign

import (
	"strings"

	"github.com/dataiq/outreach-cli/internal/model"
)

// Campaign tags, highest priority first.
const (
	DownsellOutreach = "Downsell Outreach"
	ViewLabor        = "View Labor"
	QRMCadence       = "QRM Cadence"
	ViewClinical     = "View Clinical"
	Implementation   = "Implementation"
	OtherActive      = "Other Active"

	// FallbackUserType labels rows that land in no campaign.
	FallbackUserType = "View - No Labor"
)

// downsellPatterns flag outreach-campaign labels that indicate a customer
// losing product access.
var downsellPatterns = []string{"downsell", "losing access"}

// Classify returns the single campaign tag for a task, or "" for the
// no-campaign state. Only customers whose type is exactly "view" are
// eligible; compound types ("view + flow") never receive a campaign.
func Classify(task *model.TaskRecord) string {
	if task == nil || !task.IsViewCustomer() {
		return ""
	}

	active := task.Status == "active"

	// 1. Downsell outreach already flagged on the task.
	if active && hasDownsellLabel(task.OutreachCampaigns) {
		return DownsellOutreach
	}

	// 2. Labor customers.
	if active && task.HasService("labor") {
		return ViewLabor
	}

	// 3. Exactly QRM + MDS, nothing else.
	if active && len(task.Services) == 2 && task.HasService("qrm") && task.HasService("mds") {
		return QRMCadence
	}

	// 4. Remaining active View customers.
	if active {
		return ViewClinical
	}

	// 5. Implementations.
	if task.Status == "implementation" {
		return Implementation
	}

	// 6. Catch-all for active statuses not claimed above. Unreachable
	// today because tier 4 consumes active; retained so a predicate
	// inserted between 4 and 6 keeps its fallback.
	if active {
		return OtherActive
	}

	return ""
}

func hasDownsellLabel(labels []string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, p := range downsellPatterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// UserType derives the roster user-type label from a campaign tag and the
// row's facility list: corp-level when facilities are blank or
// comma-joined, facility-level for exactly one facility.
func UserType(campaign, facilities string) string {
	if campaign == "" {
		return FallbackUserType
	}
	f := strings.TrimSpace(facilities)
	if f == "" || strings.Contains(f, ",") {
		return campaign + " - Corp"
	}
	return campaign + " - facility"
}

// IsFacilityType reports whether a user-type label is a facility variant.
func IsFacilityType(userType string) bool {
	return strings.Contains(strings.ToLower(userType), "facility")
}
