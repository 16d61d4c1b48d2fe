package aggregator

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/formula"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/logger"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/metrics"
)

// Aggregator maps activity records onto canonical accounting events using
// the mapping rules supplied per context. The event namespace is implicitly
// defined by mappings and templates; a mapping targeting a never-seen event
// simply creates a new zero-initialized bucket.
type Aggregator struct {
	strict bool
}

// New builds an aggregator. In strict mode a record matching no mapping
// aborts the call instead of being skipped with a warning.
func New(strict bool) *Aggregator {
	return &Aggregator{strict: strict}
}

// Aggregate folds each record's contributions into per-event sums. Multiple
// mappings may target the same event code; contributions sum. A record
// matching zero mappings contributes nothing and is flagged as an unmapped
// activity for observability.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	records []*domain.ActivityRecord,
	mappings []*domain.EventMapping,
	aggCtx domain.AggregationContext,
) (domain.EventSummary, []domain.Warning, error) {
	summary := make(domain.EventSummary)
	var warnings []domain.Warning

	// Mapping sub-formulas are configuration; a malformed one blocks the
	// whole context, same as a malformed template formula would.
	asts := make(map[int64]*formula.Node)
	for _, m := range mappings {
		if m.MappingType != domain.MappingComputed {
			continue
		}
		node, err := formula.Parse(m.Formula)
		if err != nil {
			return nil, nil, fmt.Errorf("mapping %d (%s): %w", m.ID, m.TargetEventCode, err)
		}
		asts[m.ID] = node
	}

	for _, rec := range records {
		matched := false
		for _, m := range mappings {
			if !m.Matches(rec) {
				continue
			}
			matched = true

			contribution, ws := a.contribution(rec, m, asts[m.ID])
			summary.Add(m.TargetEventCode, contribution)
			warnings = append(warnings, ws...)
		}

		if !matched {
			metrics.UnmappedActivitiesTotal.WithLabelValues(aggCtx.StatementCode).Inc()
			logger.Warnf(ctx, "unmapped activity, code-%s, category-%s, statement-%s",
				rec.Code, rec.Category, aggCtx.StatementCode)

			if a.strict {
				return nil, nil, fmt.Errorf("activity %q matches no mapping: %w", rec.Code, constants.ErrStrictMode)
			}
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarningUnmappedActivity,
				Subject: rec.Code,
				Message: fmt.Sprintf("activity %q (category %q) matches no mapping", rec.Code, rec.Category),
			})
		}
	}

	return summary, warnings, nil
}

func (a *Aggregator) contribution(
	rec *domain.ActivityRecord,
	m *domain.EventMapping,
	ast *formula.Node,
) (decimal.Decimal, []domain.Warning) {
	ratio := m.Ratio
	if ratio.IsZero() {
		ratio = decimal.NewFromInt(1)
	}

	switch m.MappingType {
	case domain.MappingDirect:
		return rec.CumulativeAmount.Mul(ratio), nil

	case domain.MappingAggregated:
		return rec.QuarterTotal().Mul(ratio), nil

	case domain.MappingComputed:
		var warnings []domain.Warning
		env := &formula.Env{
			LineValues: recordScope(rec, ratio),
			OnWarning: func(w domain.Warning) {
				metrics.EvaluationWarningsTotal.WithLabelValues(string(w.Kind)).Inc()
				warnings = append(warnings, w)
			},
		}
		return formula.Evaluate(ast, env), warnings

	default:
		return decimal.Zero, []domain.Warning{{
			Kind:    domain.WarningUnmappedActivity,
			Subject: rec.Code,
			Message: fmt.Sprintf("mapping %d has unknown type %q", m.ID, m.MappingType),
		}}
	}
}

// recordScope exposes the record's amounts to a mapping-local formula.
func recordScope(rec *domain.ActivityRecord, ratio decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"AMOUNT": rec.CumulativeAmount,
		"Q1":     rec.Q1Amount,
		"Q2":     rec.Q2Amount,
		"Q3":     rec.Q3Amount,
		"Q4":     rec.Q4Amount,
		"RATIO":  ratio,
	}
}
