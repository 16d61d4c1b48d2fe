package store

import (
	"context"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store exposes the repository collaborators the engine reads from:
// activity/execution records, statement templates, event mappings and
// reporting periods. All of it is read-only from the engine's point of view.
type Store interface {
	GetActivityRecords(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.ActivityRecord, error)
	GetReportingPeriod(ctx context.Context, id int64) (*domain.ReportingPeriod, error)
	GetStatementTemplate(ctx context.Context, statementCode string) (*domain.StatementTemplate, error)
	GetApplicableMappings(ctx context.Context, aggCtx domain.AggregationContext) ([]*domain.EventMapping, error)
}

type store struct {
	pool *Pool
}

func NewStore(pool *Pool) Store {
	return &store{pool}
}
