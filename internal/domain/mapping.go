package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type MappingType string

const (
	// MappingDirect contributes the record's cumulative amount verbatim,
	// scaled by the mapping ratio.
	MappingDirect MappingType = "DIRECT"
	// MappingAggregated contributes the sum of the record's sub-period
	// amounts, scaled by the mapping ratio.
	MappingAggregated MappingType = "AGGREGATED"
	// MappingComputed contributes the result of a mapping-local formula
	// evaluated against the record's amounts.
	MappingComputed MappingType = "COMPUTED"
)

// EventMapping is a configurable rule translating activity records into
// contributions to a canonical accounting event. Multiple mappings may
// target the same event code; contributions sum.
type EventMapping struct {
	ID               int64           `db:"id"`
	StatementCode    string          `db:"statement_code"`
	ActivitySelector string          `db:"activity_selector"`
	CategorySelector string          `db:"category_selector"`
	TargetEventCode  string          `db:"target_event_code"`
	MappingType      MappingType     `db:"mapping_type"`
	Ratio            decimal.Decimal `db:"ratio"`
	Formula          string          `db:"formula"`
}

// Matches reports whether the mapping's selectors accept the record.
// The activity selector matches the record code exactly, or as a prefix
// when it ends with '*'. An empty category selector matches any category.
func (m *EventMapping) Matches(rec *ActivityRecord) bool {
	if m.CategorySelector != "" && m.CategorySelector != rec.Category {
		return false
	}
	if prefix, ok := strings.CutSuffix(m.ActivitySelector, "*"); ok {
		return strings.HasPrefix(rec.Code, prefix)
	}
	return m.ActivitySelector == rec.Code
}

// AggregationContext scopes which mappings apply to one generation call.
type AggregationContext struct {
	StatementCode     string
	FacilityID        int64
	ProjectID         int64
	ReportingPeriodID int64
}

// EventSummary maps event code to its signed summed amount for one period.
// Built fresh per generation call; read-only after aggregation ends.
type EventSummary map[string]decimal.Decimal

// Add accumulates a contribution into the event's bucket, creating the
// bucket on first sight.
func (s EventSummary) Add(eventCode string, amount decimal.Decimal) {
	s[eventCode] = s[eventCode].Add(amount)
}

// Get returns the event's sum, zero for events never contributed to.
func (s EventSummary) Get(eventCode string) decimal.Decimal {
	return s[eventCode]
}
