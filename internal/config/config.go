package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Verifier  VerifierConfig  `yaml:"verifier" mapstructure:"verifier"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WarehouseConfig configures the sync-warehouse connection and queries.
type WarehouseConfig struct {
	DatabaseURL      string `yaml:"database_url" mapstructure:"database_url"`
	ListID           string `yaml:"list_id" mapstructure:"list_id"`
	ContactBatchSize int    `yaml:"contact_batch_size" mapstructure:"contact_batch_size"`
}

// VerifierConfig configures the email validation API client.
type VerifierConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Workers     int     `yaml:"workers" mapstructure:"workers"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	CachePath   string  `yaml:"cache_path" mapstructure:"cache_path"`
}

// MatchConfig configures the resolution and classification engine.
type MatchConfig struct {
	SimilarityThreshold  float64  `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	AliasesPath          string   `yaml:"aliases_path" mapstructure:"aliases_path"`
	ExcludedCorporations []string `yaml:"excluded_corporations" mapstructure:"excluded_corporations"`
}

// PipelineConfig holds the staged file paths.
type PipelineConfig struct {
	Input     string `yaml:"input" mapstructure:"input"`
	Verified  string `yaml:"verified" mapstructure:"verified"`
	Filtered  string `yaml:"filtered" mapstructure:"filtered"`
	Enriched  string `yaml:"enriched" mapstructure:"enriched"`
	Final     string `yaml:"final" mapstructure:"final"`
	LoginData string `yaml:"login_data" mapstructure:"login_data"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Aliases maps human-entered codes and names to their canonical warehouse
// counterparts. Keys are stored uppercased.
type Aliases struct {
	OrgCodes  map[string]string `yaml:"org_codes"`
	CorpNames map[string]string `yaml:"corp_names"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("warehouse.contact_batch_size", 100)
	v.SetDefault("verifier.base_url", "http://localhost:8080/api")
	v.SetDefault("verifier.timeout_secs", 10)
	v.SetDefault("verifier.workers", 20)
	v.SetDefault("verifier.rate_limit", 50)
	v.SetDefault("match.similarity_threshold", 0.6)
	v.SetDefault("match.excluded_corporations", []string{
		"DATAIQ (DEMO)", "DATA IQ (ORG)", "DATAIQ (FPA TEST)",
	})
	v.SetDefault("pipeline.input", "view_users.csv")
	v.SetDefault("pipeline.verified", "verified_emails_output.csv")
	v.SetDefault("pipeline.filtered", "cleaned_view_user_list.csv")
	v.SetDefault("pipeline.enriched", "cleaned_view_user_list_enriched.csv")
	v.SetDefault("pipeline.final", "final_complete_results.csv")
	v.SetDefault("pipeline.login_data", "view_login_data.csv")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// DefaultAliases returns the built-in alias tables. These cover codes and
// names known to differ between the roster export and the warehouse.
func DefaultAliases() Aliases {
	return normalizeAliases(Aliases{
		OrgCodes: map[string]string{
			"PHGUS": "CCS",
			"PHCLA": "PMHCC",
			"ALVCC": "PCHM",
		},
		CorpNames: map[string]string{
			"Nava Healthcare / Arabella":           "Nava Healthcare",
			"PacifiCare Health Management (ALVCC)": "PacifiCare Health Management",
			"Vivage":                               "Vivage Management",
			"Judson Village":                       "Hillstone",
		},
	})
}

// LoadAliases reads alias tables from a YAML file, falling back to the
// built-in defaults when path is empty.
func LoadAliases(path string) (Aliases, error) {
	if path == "" {
		return DefaultAliases(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, eris.Wrap(err, "config: read aliases")
	}

	var a Aliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Aliases{}, eris.Wrap(err, "config: unmarshal aliases")
	}

	return normalizeAliases(a), nil
}

// normalizeAliases uppercases and trims alias keys so lookups can use the
// same normalization as the resolver.
func normalizeAliases(a Aliases) Aliases {
	out := Aliases{
		OrgCodes:  make(map[string]string, len(a.OrgCodes)),
		CorpNames: make(map[string]string, len(a.CorpNames)),
	}
	for k, v := range a.OrgCodes {
		out.OrgCodes[strings.ToUpper(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimSpace(v))
	}
	for k, v := range a.CorpNames {
		out.CorpNames[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
