package reconciliation

import (
	"errors"
	"fmt"
	"time"

	"github.com/radhian/expense-reconciliation/entity"
	"github.com/radhian/expense-reconciliation/usecase/matcher"
	"github.com/radhian/expense-reconciliation/usecase/normalizer"

	"github.com/labstack/gommon/log"
)

type PipelineInput struct {
	Expenses      []*entity.PlatformExpense
	Entries       []*entity.LedgerEntry
	MovementDates []time.Time

	// Competence is the confirmed month; zero means it is derived from the data.
	Competence time.Time
}

type PipelineOutput struct {
	Competence time.Time
	Matches    []entity.Match
	Duplicates []normalizer.DuplicateGroup
	Result     entity.ReconciliationResult
}

// Pipeline runs one reconciliation over records already loaded in memory.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	matcher    *matcher.Matcher
}

func NewPipeline(normalizerCfg normalizer.Config, matcherCfg matcher.Config) *Pipeline {
	return &Pipeline{
		normalizer: normalizer.New(normalizerCfg),
		matcher:    matcher.New(matcherCfg),
	}
}

// Run normalizes, validates the competence period when one is known, matches,
// and builds the result. When the competence is ambiguous it stops with an
// *AmbiguousCompetenceError before matching; normalization is idempotent, so
// the same input can be run again with Competence set.
func (p *Pipeline) Run(in PipelineInput) (PipelineOutput, error) {
	var out PipelineOutput

	out.Duplicates = p.normalizer.Normalize(in.Expenses, in.Entries)
	if len(out.Duplicates) > 0 {
		log.Infof("[Pipeline] Flagged %d duplicate groups", len(out.Duplicates))
	}

	out.Competence = in.Competence
	if out.Competence.IsZero() {
		competence, err := DetermineCompetence(in.Expenses, in.Entries, in.MovementDates)
		switch {
		case errors.Is(err, ErrCompetenceNotFound):
			log.Warnf("[Pipeline] No competence month found, skipping period validation")
		case err != nil:
			return out, err
		default:
			out.Competence = competence
		}
	}
	if !out.Competence.IsZero() {
		log.Infof("[Pipeline] Validating period %s", FormatCompetence(out.Competence))
		normalizer.ValidatePeriod(in.Expenses, out.Competence)
	}

	matches, err := p.matcher.Reconcile(in.Expenses, in.Entries)
	if err != nil {
		return out, fmt.Errorf("failed to reconcile: %w", err)
	}
	out.Matches = matches

	diagnostics := SummarizeFailures(in.Expenses, in.Entries)
	out.Result = BuildResult(in.Expenses, in.Entries, diagnostics)

	log.Infof("[Pipeline] Matches: %d | Unmatched: Platform=%d, ERP=%d",
		len(matches), len(out.Result.UnmatchedExpenses), len(out.Result.UnmatchedEntries))
	return out, nil
}
