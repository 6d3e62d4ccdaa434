package main

import (
	"context"
	"time"

	"github.com/dataiq/outreach-cli/internal/config"
	"github.com/dataiq/outreach-cli/internal/pipeline"
	"github.com/dataiq/outreach-cli/internal/store"
	"github.com/dataiq/outreach-cli/internal/warehouse"
	"github.com/dataiq/outreach-cli/pkg/verifier"
)

// buildPipeline wires the configured collaborators together. The
// warehouse connection is only dialed when the requested stages need it.
// The returned cleanup func closes whatever was opened.
func buildPipeline(ctx context.Context, needWarehouse bool) (*pipeline.Pipeline, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	aliases, err := config.LoadAliases(cfg.Match.AliasesPath)
	if err != nil {
		return nil, nil, err
	}

	ver := verifier.NewClient(cfg.Verifier.BaseURL,
		verifier.WithTimeout(time.Duration(cfg.Verifier.TimeoutSecs)*time.Second),
		verifier.WithRateLimit(cfg.Verifier.RateLimit),
	)

	var cache pipeline.VerdictCache
	if cfg.Verifier.CachePath != "" {
		vc, err := store.OpenVerdictCache(cfg.Verifier.CachePath)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = vc.Close() })
		if err := vc.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		cache = vc
	}

	var wh warehouse.Querier
	if needWarehouse {
		client, err := warehouse.New(ctx, warehouse.Config{
			URL:              cfg.Warehouse.DatabaseURL,
			ListID:           cfg.Warehouse.ListID,
			ContactBatchSize: cfg.Warehouse.ContactBatchSize,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, client.Close)
		wh = client
	}

	return pipeline.New(cfg, aliases, wh, ver, cache), cleanup, nil
}
