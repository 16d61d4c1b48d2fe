package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityRecord is a single reported financial fact: one budget-plan or
// quarterly-execution entry for a facility/project/period. Immutable once
// fetched.
type ActivityRecord struct {
	ID                int64           `db:"id"`
	Code              string          `db:"code"`
	Category          string          `db:"category"`
	FacilityID        int64           `db:"facility_id"`
	ProjectID         int64           `db:"project_id"`
	ReportingPeriodID int64           `db:"reporting_period_id"`
	Q1Amount          decimal.Decimal `db:"q1_amount"`
	Q2Amount          decimal.Decimal `db:"q2_amount"`
	Q3Amount          decimal.Decimal `db:"q3_amount"`
	Q4Amount          decimal.Decimal `db:"q4_amount"`
	CumulativeAmount  decimal.Decimal `db:"cumulative_amount"`
	RecordedAt        time.Time       `db:"recorded_at"`
}

// QuarterTotal sums the four sub-period amounts.
func (r *ActivityRecord) QuarterTotal() decimal.Decimal {
	return r.Q1Amount.Add(r.Q2Amount).Add(r.Q3Amount).Add(r.Q4Amount)
}

// FilterCriteria scopes an activity fetch to one generation context.
type FilterCriteria struct {
	FacilityID        int64
	ProjectID         int64
	ReportingPeriodID int64
	AsOfDate          *time.Time
}

// ReportingPeriod is the period window activity records are reported
// against. PriorPeriodID links to the comparative period, when one exists.
type ReportingPeriod struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	PriorPeriodID *int64    `db:"prior_period_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
