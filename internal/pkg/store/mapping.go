package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store/xpgx"
)

var mappingColumns = []string{
	"id", "statement_code", "activity_selector", "category_selector",
	"target_event_code", "mapping_type", "ratio", "formula",
}

// GetApplicableMappings returns every mapping scoped to the context's
// statement code. Mappings are configuration, not runtime state; the
// aggregator applies them to whatever record set the collector supplied.
func (s *store) GetApplicableMappings(ctx context.Context, aggCtx domain.AggregationContext) ([]*domain.EventMapping, error) {
	query := builder().Select(mappingColumns...).
		From(tableEventMappings).
		Where(sq.Eq{"statement_code": aggCtx.StatementCode}).
		OrderBy("target_event_code, id")

	selected, err := xpgx.Select[domain.EventMapping](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("select event mappings %s: %w", aggCtx.StatementCode, wrapErr(err))
	}

	return selected, nil
}
