package clickup

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const taskFieldsJSON = `[
	{"name": "Customer Type", "value": ["ct-1"], "type_config": {"options": [
		{"id": "ct-1", "label": "View"},
		{"id": "ct-2", "label": "View + Flow"}
	]}},
	{"name": "Services", "value": ["sv-1", "sv-2"], "type_config": {"options": [
		{"id": "sv-1", "label": "QRM"},
		{"id": "sv-2", "label": "MDS"}
	]}},
	{"name": "Org Code", "value": ["oc-1"], "type_config": {"options": [
		{"id": "oc-1", "label": "ACME, ACME2"}
	]}},
	{"name": "Hubspot URL", "value": "https://crm.example.com/contacts/company/12345/"}
]`

func TestParseTask_FullRecord(t *testing.T) {
	companies := map[string]string{"12345": "Acme Holdings"}

	task := ParseTask("t1", " Acme Care ", []byte(`{"status": "Active", "color": "#fff"}`), []byte(taskFieldsJSON), companies)

	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "Acme Care", task.Name)
	assert.Equal(t, "active", task.Status)
	assert.Equal(t, "View", task.CustomerType)
	assert.Equal(t, []string{"QRM", "MDS"}, task.Services)
	assert.Equal(t, []string{"ACME, ACME2"}, task.OrgCodeLabels)
	assert.Equal(t, "https://crm.example.com/contacts/company/12345/", task.HubspotURL)
	assert.Equal(t, "12345", task.RecordID)
	assert.Equal(t, "Acme Holdings", task.CompanyName)
}

func TestParseTask_DoubleEncodedCustomFields(t *testing.T) {
	// The sync sometimes stores the field list as a JSON string.
	doubleEncoded, err := json.Marshal(taskFieldsJSON)
	require.NoError(t, err)

	task := ParseTask("t1", "Acme", []byte(`{"status": "active"}`), doubleEncoded, nil)
	assert.Equal(t, "View", task.CustomerType)
	assert.Equal(t, []string{"QRM", "MDS"}, task.Services)
}

func TestParseTask_MalformedCustomFields(t *testing.T) {
	task := ParseTask("t1", "Acme", []byte(`{"status": "active"}`), []byte(`{{not json`), nil)

	assert.Equal(t, "active", task.Status)
	assert.Empty(t, task.CustomerType)
	assert.Empty(t, task.Services)
}

func TestParseTask_NoCompanyDirectory(t *testing.T) {
	task := ParseTask("t1", "Acme", nil, []byte(taskFieldsJSON), nil)
	assert.Equal(t, "12345", task.RecordID)
	assert.Equal(t, "", task.CompanyName)
}

func TestParseStatus_Object(t *testing.T) {
	assert.Equal(t, "active", parseStatus([]byte(`{"status": "Active"}`)))
}

func TestParseStatus_BareString(t *testing.T) {
	assert.Equal(t, "implementation", parseStatus([]byte(`"Implementation"`)))
}

func TestParseStatus_Invalid(t *testing.T) {
	assert.Equal(t, "unknown", parseStatus(nil))
	assert.Equal(t, "unknown", parseStatus([]byte(``)))
	assert.Equal(t, "unknown", parseStatus([]byte(`not json`)))
	assert.Equal(t, "unknown", parseStatus([]byte(`{"color": "#fff"}`)))
}

func TestURLValue_ListTakesFirst(t *testing.T) {
	assert.Equal(t, "https://a.example.com", urlValue([]any{"https://a.example.com", "https://b.example.com"}))
	assert.Equal(t, "", urlValue([]any{}))
	assert.Equal(t, "", urlValue(42))
}

func TestTrailingSegment(t *testing.T) {
	assert.Equal(t, "12345", trailingSegment("https://crm.example.com/company/12345"))
	assert.Equal(t, "12345", trailingSegment("https://crm.example.com/company/12345///"))
	assert.Equal(t, "12345", trailingSegment("12345"))
	assert.Equal(t, "", trailingSegment("///"))
}
