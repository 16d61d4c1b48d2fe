package collector

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/logger"
)

// ActivityRepository is the external collaborator supplying activity
// records. Which records are eligible (approval status etc.) is the
// supplier's concern, not the collector's.
type ActivityRepository interface {
	GetActivityRecords(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.ActivityRecord, error)
}

// Collector fetches raw activity records for one generation context. It is
// the only component of the pipeline performing I/O and it never retries
// internally; retry policy belongs to the caller.
type Collector struct {
	repo ActivityRepository
}

func New(repo ActivityRepository) *Collector {
	return &Collector{repo: repo}
}

// Collect returns the records matching the criteria. An empty result is not
// an error: a zero-activity statement still renders with all-zero lines.
func (c *Collector) Collect(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.ActivityRecord, error) {
	records, err := c.repo.GetActivityRecords(ctx, criteria)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("getActivityRecords: %s: %w", err.Error(), constants.ErrTimeout)
		}
		logger.Errorf(ctx, "getActivityRecords, period-%d: %s", criteria.ReportingPeriodID, err.Error())
		return nil, fmt.Errorf("getActivityRecords: %s: %w", err.Error(), constants.ErrDataSource)
	}

	if records == nil {
		records = []*domain.ActivityRecord{}
	}

	return records, nil
}

// CollectComparative fetches the current and prior period record sets
// concurrently. prior may be nil, in which case only current is fetched.
func (c *Collector) CollectComparative(
	ctx context.Context,
	current domain.FilterCriteria,
	prior *domain.FilterCriteria,
) (currentRecords, priorRecords []*domain.ActivityRecord, err error) {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var collectErr error
		currentRecords, collectErr = c.Collect(egCtx, current)
		return collectErr
	})

	if prior != nil {
		eg.Go(func() error {
			var collectErr error
			priorRecords, collectErr = c.Collect(egCtx, *prior)
			return collectErr
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, nil, fmt.Errorf("collect: %w", err)
	}

	return currentRecords, priorRecords, nil
}
