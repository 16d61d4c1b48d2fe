package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store/xpgx"
)

var (
	activityColumns = []string{
		"id", "code", "category", "facility_id", "project_id", "reporting_period_id",
		"q1_amount", "q2_amount", "q3_amount", "q4_amount", "cumulative_amount", "recorded_at",
	}
	periodColumns = []string{"id", "name", "start_date", "end_date", "prior_period_id", "created_at", "updated_at"}
)

func (s *store) GetActivityRecords(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.ActivityRecord, error) {
	query := builder().Select(activityColumns...).
		From(tableActivityRecords).
		Where(sq.Eq{
			"facility_id":         criteria.FacilityID,
			"project_id":          criteria.ProjectID,
			"reporting_period_id": criteria.ReportingPeriodID,
		}).
		OrderBy("code, id")

	if criteria.AsOfDate != nil {
		query = query.Where(sq.LtOrEq{"recorded_at": *criteria.AsOfDate})
	}

	selected, err := xpgx.Select[domain.ActivityRecord](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("select activity records: %w", wrapErr(err))
	}

	return selected, nil
}

func (s *store) GetReportingPeriod(ctx context.Context, id int64) (*domain.ReportingPeriod, error) {
	query := builder().Select(periodColumns...).
		From(tableReportingPeriods).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Get[domain.ReportingPeriod](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("select reporting period %d: %w", id, wrapErr(err))
	}

	return selected, nil
}
