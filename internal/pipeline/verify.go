package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dataiq/outreach-cli/pkg/verifier"
)

// Columns appended by the verify stage. Prefixed to avoid colliding with
// roster columns named status/score/error.
var validationColumns = []string{
	"validation_status", "validation_score", "syntax", "domain_exists",
	"mx_records", "is_disposable", "is_role_based",
	"alias_of", "typo_suggestion", "validation_error",
}

// Verify runs stage 1: validate every roster email against the API and
// append the verdict columns. Verdicts are fetched concurrently but
// written in input row order. Rows without an email pass through
// untouched.
func (p *Pipeline) Verify(ctx context.Context) error {
	log := p.log()
	log.Info("stage 1: email verification", zap.String("input", p.cfg.Pipeline.Input))

	table, err := ReadTable(p.cfg.Pipeline.Input)
	if err != nil {
		return err
	}

	emailCol := findEmailColumn(table.Header)
	if emailCol == "" {
		return eris.Errorf("pipeline: no email column in %s", p.cfg.Pipeline.Input)
	}

	if err := p.verifyRows(ctx, table, emailCol); err != nil {
		return err
	}

	table.AddColumns(validationColumns...)
	if err := WriteTable(p.cfg.Pipeline.Verified, table); err != nil {
		return err
	}

	log.Info("stage 1 complete",
		zap.Int("rows", len(table.Rows)),
		zap.String("output", p.cfg.Pipeline.Verified),
	)
	return nil
}

// verifyRows fans the validator calls out on a bounded worker group and
// writes each verdict back onto its own row, so output order stays equal
// to input order regardless of completion order.
func (p *Pipeline) verifyRows(ctx context.Context, table *Table, emailCol string) error {
	workers := p.cfg.Verifier.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, row := range table.Rows {
		email := strings.TrimSpace(row[emailCol])
		if email == "" {
			continue
		}

		g.Go(func() error {
			result := p.verdict(ctx, email)
			applyVerdict(row, result)
			return ctx.Err()
		})
	}

	return eris.Wrap(g.Wait(), "pipeline: verify rows")
}

// verdict consults the cache before the API and stores definitive
// answers back. Cache failures degrade to a live call.
func (p *Pipeline) verdict(ctx context.Context, email string) verifier.Result {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, email)
		if err != nil {
			zap.L().Warn("pipeline: verdict cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached
		}
	}

	result := p.ver.Verify(ctx, email)

	// Only settled verdicts are worth keeping; outages are retried on
	// the next run.
	if p.cache != nil && !isFailureStatus(result.Status) {
		if err := p.cache.Put(ctx, email, result); err != nil {
			zap.L().Warn("pipeline: verdict cache write failed", zap.Error(err))
		}
	}
	return result
}

func isFailureStatus(status string) bool {
	switch status {
	case verifier.StatusUnknown, verifier.StatusTimeout, verifier.StatusError:
		return true
	}
	return false
}

func applyVerdict(row Row, r verifier.Result) {
	row["validation_status"] = r.Status
	row["validation_score"] = strconv.FormatFloat(r.Score, 'g', -1, 64)
	row["syntax"] = formatTristate(r.Syntax)
	row["domain_exists"] = formatTristate(r.DomainExists)
	row["mx_records"] = formatTristate(r.MXRecords)
	row["is_disposable"] = formatTristate(r.IsDisposable)
	row["is_role_based"] = formatTristate(r.IsRoleBased)
	row["alias_of"] = r.AliasOf
	row["typo_suggestion"] = r.TypoSuggestion
	row["validation_error"] = r.Err
}

// formatTristate renders an unanswered check as "" rather than false.
func formatTristate(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func findEmailColumn(header []string) string {
	for _, col := range header {
		if strings.EqualFold(col, "email") {
			return col
		}
	}
	return ""
}
