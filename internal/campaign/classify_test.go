package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataiq/outreach-cli/internal/model"
)

func viewTask(status string, services ...string) *model.TaskRecord {
	return &model.TaskRecord{
		ID:           "t1",
		Status:       status,
		CustomerType: "View",
		Services:     services,
	}
}

func TestClassify_NilTask(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
}

func TestClassify_CompoundCustomerTypeExcluded(t *testing.T) {
	task := viewTask("active", "Labor")
	task.CustomerType = "View + Flow"
	assert.Equal(t, "", Classify(task))
}

func TestClassify_NonViewCustomerExcluded(t *testing.T) {
	task := viewTask("active", "Labor")
	task.CustomerType = "Flow"
	assert.Equal(t, "", Classify(task))
}

func TestClassify_DownsellBeatsLabor(t *testing.T) {
	// Both tier 1 and tier 2 hold; the downsell flag wins on priority.
	task := viewTask("active", "Labor")
	task.OutreachCampaigns = []string{"QRM Downsell"}
	assert.Equal(t, DownsellOutreach, Classify(task))
}

func TestClassify_LosingAccessLabel(t *testing.T) {
	task := viewTask("active")
	task.OutreachCampaigns = []string{"Losing Access Q3"}
	assert.Equal(t, DownsellOutreach, Classify(task))
}

func TestClassify_DownsellRequiresActive(t *testing.T) {
	task := viewTask("churned")
	task.OutreachCampaigns = []string{"Downsell"}
	assert.Equal(t, "", Classify(task))
}

func TestClassify_Labor(t *testing.T) {
	assert.Equal(t, ViewLabor, Classify(viewTask("active", "Labor")))
	assert.Equal(t, ViewLabor, Classify(viewTask("active", "MDS", "Labor")))
}

func TestClassify_QRMCadenceExactServices(t *testing.T) {
	assert.Equal(t, QRMCadence, Classify(viewTask("active", "QRM", "MDS")))
	assert.Equal(t, QRMCadence, Classify(viewTask("active", "MDS", "QRM")))
}

func TestClassify_QRMPlusExtraServiceIsClinical(t *testing.T) {
	// Tier 3 requires exactly {QRM, MDS}; anything more falls to tier 4.
	assert.Equal(t, ViewClinical, Classify(viewTask("active", "QRM", "MDS", "Flow")))
	assert.Equal(t, ViewClinical, Classify(viewTask("active", "QRM")))
}

func TestClassify_ActiveClinical(t *testing.T) {
	assert.Equal(t, ViewClinical, Classify(viewTask("active")))
}

func TestClassify_Implementation(t *testing.T) {
	assert.Equal(t, Implementation, Classify(viewTask("implementation")))
}

func TestClassify_InactiveStatuses(t *testing.T) {
	for _, status := range []string{"churned", "unknown", "on hold", ""} {
		assert.Equal(t, "", Classify(viewTask(status)), "status %q", status)
	}
}

func TestUserType_Fallback(t *testing.T) {
	assert.Equal(t, "View - No Labor", UserType("", ""))
	assert.Equal(t, "View - No Labor", UserType("", "Oak Manor"))
}

func TestUserType_CorpWhenNoFacility(t *testing.T) {
	assert.Equal(t, "View Labor - Corp", UserType(ViewLabor, ""))
	assert.Equal(t, "View Labor - Corp", UserType(ViewLabor, "   "))
}

func TestUserType_CorpWhenMultipleFacilities(t *testing.T) {
	assert.Equal(t, "View Clinical - Corp", UserType(ViewClinical, "Oak Manor, Riverbend"))
}

func TestUserType_FacilityWhenExactlyOne(t *testing.T) {
	assert.Equal(t, "QRM Cadence - facility", UserType(QRMCadence, "Oak Manor"))
}

func TestIsFacilityType(t *testing.T) {
	assert.True(t, IsFacilityType("View Labor - facility"))
	assert.False(t, IsFacilityType("View Labor - Corp"))
	assert.False(t, IsFacilityType(""))
}
