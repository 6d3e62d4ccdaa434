package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/config"
	"github.com/dataiq/outreach-cli/internal/match"
	"github.com/dataiq/outreach-cli/internal/model"
	"github.com/dataiq/outreach-cli/internal/warehouse"
	"github.com/dataiq/outreach-cli/pkg/verifier"
)

// EmailVerifier abstracts the validation API client for testing.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) verifier.Result
}

// VerdictCache abstracts the optional verdict store.
type VerdictCache interface {
	Get(ctx context.Context, email string) (*verifier.Result, error)
	Put(ctx context.Context, email string, result verifier.Result) error
}

// Pipeline runs the staged roster transformation. Collaborators are
// injected so each stage can be tested without live services.
type Pipeline struct {
	cfg     *config.Config
	aliases config.Aliases
	wh      warehouse.Querier
	ver     EmailVerifier
	cache   VerdictCache // nil disables caching
	runID   string
}

// New creates a pipeline. wh may be nil for stages that never touch the
// warehouse (verify, logins); cache may be nil to disable the verdict
// cache.
func New(cfg *config.Config, aliases config.Aliases, wh warehouse.Querier, ver EmailVerifier, cache VerdictCache) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		aliases: aliases,
		wh:      wh,
		ver:     ver,
		cache:   cache,
		runID:   uuid.New().String(),
	}
}

// Run executes all four stages in order.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Verify(ctx); err != nil {
		return err
	}
	if err := p.Filter(ctx); err != nil {
		return err
	}
	if err := p.Enrich(ctx); err != nil {
		return err
	}
	return p.Logins(ctx)
}

func (p *Pipeline) log() *zap.Logger {
	return zap.L().With(zap.String("run_id", p.runID))
}

// engine bundles the resolution state built once per run from the
// warehouse scan.
type engine struct {
	tasks     []*model.TaskRecord
	names     []match.NameEntry
	resolver  *match.Resolver
	facility  *match.FacilityResolver
	directory map[string]string
}

func (p *Pipeline) buildEngine(ctx context.Context) (*engine, error) {
	directory, err := p.wh.Companies(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := p.wh.Tasks(ctx, directory)
	if err != nil {
		return nil, err
	}

	orgIndex := match.BuildOrgIndex(tasks)
	names := match.BuildNameIndex(tasks)

	p.log().Info("pipeline: resolution engine built",
		zap.Int("tasks", len(tasks)),
		zap.Int("org_codes", len(orgIndex)),
		zap.Int("names", len(names)),
	)

	return &engine{
		tasks:     tasks,
		names:     names,
		resolver:  match.NewResolver(p.aliases, orgIndex, names),
		facility:  match.NewFacilityResolver(names, directory, p.cfg.Match.SimilarityThreshold),
		directory: directory,
	}, nil
}

// taskName finds the original display name of a task by id, scanning the
// name index in order.
func (e *engine) taskName(taskID string) string {
	for _, entry := range e.names {
		if entry.Task.ID == taskID {
			return entry.Original
		}
	}
	return ""
}
