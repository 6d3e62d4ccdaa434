package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataiq/outreach-cli/internal/config"
	"github.com/dataiq/outreach-cli/internal/model"
)

func testResolver(tasks []*model.TaskRecord, aliases config.Aliases) *Resolver {
	return NewResolver(aliases, BuildOrgIndex(tasks), BuildNameIndex(tasks))
}

func TestResolve_OrgCode(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "Acme Care", OrgCodeLabels: []string{"ACME"}}
	r := testResolver([]*model.TaskRecord{task}, config.Aliases{})

	got, method := r.Resolve("acme", "")
	require.Same(t, task, got)
	assert.Equal(t, "org_code", method)
}

func TestResolve_EveryRegisteredCodeRoundTrips(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "Bundle", OrgCodeLabels: []string{"A, B-C"}}
	r := testResolver([]*model.TaskRecord{task}, config.Aliases{})

	for _, code := range []string{"A", "B", "C"} {
		got, method := r.Resolve(code, "")
		require.Same(t, task, got, "code %s", code)
		assert.Equal(t, "org_code", method)
	}
}

func TestResolve_AliasBeatsDirectLookup(t *testing.T) {
	// PHGUS exists both as a direct index key and as an alias pointing
	// elsewhere; the alias tier runs first.
	direct := &model.TaskRecord{ID: "direct", Name: "Direct", OrgCodeLabels: []string{"PHGUS"}}
	canonical := &model.TaskRecord{ID: "canonical", Name: "Canonical", OrgCodeLabels: []string{"CCS"}}

	aliases := config.Aliases{OrgCodes: map[string]string{"PHGUS": "CCS"}}
	r := testResolver([]*model.TaskRecord{direct, canonical}, aliases)

	got, method := r.Resolve("PHGUS", "")
	require.Same(t, canonical, got)
	assert.Equal(t, "alias(CCS)", method)
}

func TestResolve_AliasTargetMissingFallsThrough(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "Acme", OrgCodeLabels: []string{"PHGUS"}}
	aliases := config.Aliases{OrgCodes: map[string]string{"PHGUS": "GONE"}}
	r := testResolver([]*model.TaskRecord{task}, aliases)

	got, method := r.Resolve("PHGUS", "")
	require.Same(t, task, got)
	assert.Equal(t, "org_code", method)
}

func TestResolve_NameAlias(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "Vivage Management"}
	aliases := config.Aliases{CorpNames: map[string]string{"VIVAGE": "Vivage Management"}}
	r := testResolver([]*model.TaskRecord{task}, aliases)

	got, method := r.Resolve("", "Vivage")
	require.Same(t, task, got)
	assert.Equal(t, "name_alias(VIVAGE MANAGEMENT)", method)
}

func TestResolve_NameAliasRequiresExactMatch(t *testing.T) {
	// The alias tier does exact matching only; a near-miss falls through
	// to containment, which here still finds the task.
	task := &model.TaskRecord{ID: "t1", Name: "Vivage Management Group"}
	aliases := config.Aliases{CorpNames: map[string]string{"VIVAGE": "Vivage Management"}}
	r := testResolver([]*model.TaskRecord{task}, aliases)

	got, method := r.Resolve("", "Vivage")
	require.Same(t, task, got)
	assert.Equal(t, "name_fuzzy_match", method)
}

func TestResolve_ContainmentBothDirections(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "WeCare Health Partners"}
	r := testResolver([]*model.TaskRecord{task}, config.Aliases{})

	// Input contained in task name.
	got, method := r.Resolve("", "WeCare")
	require.Same(t, task, got)
	assert.Equal(t, "name_fuzzy_match", method)

	// Task name contained in input.
	got, method = r.Resolve("", "WeCare Health Partners of Ohio")
	require.Same(t, task, got)
	assert.Equal(t, "name_fuzzy_match", method)
}

func TestResolve_ContainmentFirstMatchWins(t *testing.T) {
	// No scoring: the earlier entry wins even though the later one is the
	// longer, more specific name.
	short := &model.TaskRecord{ID: "short", Name: "WeCare"}
	long := &model.TaskRecord{ID: "long", Name: "WeCare Health Partners"}
	r := testResolver([]*model.TaskRecord{short, long}, config.Aliases{})

	got, _ := r.Resolve("", "WeCare Health")
	assert.Same(t, short, got)
}

func TestResolve_TierOrder(t *testing.T) {
	// An org-code hit short-circuits name matching entirely.
	byCode := &model.TaskRecord{ID: "code", Name: "Unrelated", OrgCodeLabels: []string{"ACME"}}
	byName := &model.TaskRecord{ID: "name", Name: "Acme Holdings"}
	r := testResolver([]*model.TaskRecord{byCode, byName}, config.Aliases{})

	got, method := r.Resolve("ACME", "Acme Holdings")
	require.Same(t, byCode, got)
	assert.Equal(t, "org_code", method)
}

func TestResolve_NoMatch(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "Acme", OrgCodeLabels: []string{"ACME"}}
	r := testResolver([]*model.TaskRecord{task}, config.Aliases{})

	got, method := r.Resolve("ZZZ", "Completely Unrelated")
	assert.Nil(t, got)
	assert.Equal(t, "", method)
}

func TestResolve_EmptyInputs(t *testing.T) {
	task := &model.TaskRecord{ID: "t1", Name: "Acme", OrgCodeLabels: []string{"ACME"}}
	r := testResolver([]*model.TaskRecord{task}, config.Aliases{})

	got, method := r.Resolve("", "")
	assert.Nil(t, got)
	assert.Equal(t, "", method)
}

func TestResolve_Deterministic(t *testing.T) {
	tasks := []*model.TaskRecord{
		{ID: "t1", Name: "Sunrise Senior Care", OrgCodeLabels: []string{"SSC"}},
		{ID: "t2", Name: "Sunrise Health"},
	}
	r := testResolver(tasks, config.Aliases{})

	first, firstMethod := r.Resolve("", "Sunrise")
	for i := 0; i < 5; i++ {
		got, method := r.Resolve("", "Sunrise")
		assert.Same(t, first, got)
		assert.Equal(t, firstMethod, method)
	}
}
