package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a directory without a config file so only defaults apply.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://localhost:8080/api", cfg.Verifier.BaseURL)
	assert.Equal(t, 10, cfg.Verifier.TimeoutSecs)
	assert.Equal(t, 20, cfg.Verifier.Workers)
	assert.Equal(t, 100, cfg.Warehouse.ContactBatchSize)
	assert.Equal(t, 0.6, cfg.Match.SimilarityThreshold)
	assert.Equal(t, "verified_emails_output.csv", cfg.Pipeline.Verified)
	assert.Equal(t, "final_complete_results.csv", cfg.Pipeline.Final)
	assert.Contains(t, cfg.Match.ExcludedCorporations, "DATAIQ (DEMO)")
}

func TestLoad_EnvOverride(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(cwd) }()

	t.Setenv("OUTREACH_VERIFIER_WORKERS", "5")
	t.Setenv("OUTREACH_WAREHOUSE_LIST_ID", "list-9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Verifier.Workers)
	assert.Equal(t, "list-9", cfg.Warehouse.ListID)
}

func TestDefaultAliases(t *testing.T) {
	a := DefaultAliases()

	assert.Equal(t, "CCS", a.OrgCodes["PHGUS"])
	assert.Equal(t, "PCHM", a.OrgCodes["ALVCC"])
	// Corp-name keys are uppercased at load so resolver lookups hit.
	assert.Equal(t, "Vivage Management", a.CorpNames["VIVAGE"])
	assert.Equal(t, "Hillstone", a.CorpNames["JUDSON VILLAGE"])
}

func TestLoadAliases_EmptyPathUsesDefaults(t *testing.T) {
	a, err := LoadAliases("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAliases(), a)
}

func TestLoadAliases_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := `
org_codes:
  oldco: newco
corp_names:
  Legacy Name: Modern Name
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := LoadAliases(path)
	require.NoError(t, err)

	assert.Equal(t, "NEWCO", a.OrgCodes["OLDCO"])
	assert.Equal(t, "Modern Name", a.CorpNames["LEGACY NAME"])
}

func TestLoadAliases_MissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNormalizeAliases(t *testing.T) {
	a := normalizeAliases(Aliases{
		OrgCodes:  map[string]string{" phgus ": " ccs "},
		CorpNames: map[string]string{" Vivage ": " Vivage Management "},
	})

	assert.Equal(t, "CCS", a.OrgCodes["PHGUS"])
	assert.Equal(t, "Vivage Management", a.CorpNames["VIVAGE"])
}
