package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is the computed counterpart of a LineTemplate.
type StatementLine struct {
	LineCode       string          `json:"line_code"`
	Label          string          `json:"label"`
	Level          int             `json:"level"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	PriorValue     decimal.Decimal `json:"prior_value"`
	IsTotalLine    bool            `json:"is_total_line"`
	IsSubtotalLine bool            `json:"is_subtotal_line"`
}

// TotalValue pairs the two period values of a total line.
type TotalValue struct {
	Current decimal.Decimal `json:"current"`
	Prior   decimal.Decimal `json:"prior"`
}

type WarningKind string

const (
	WarningUnmappedActivity  WarningKind = "UNMAPPED_ACTIVITY"
	WarningUnknownIdentifier WarningKind = "UNKNOWN_IDENTIFIER"
	WarningDivisionByZero    WarningKind = "DIVISION_BY_ZERO"
)

// Warning records a soft condition met during generation. Soft conditions
// resolve to a zero contribution and never abort the call.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Subject string      `json:"subject"`
	Message string      `json:"message"`
}

// OutputMetadata carries generation provenance alongside the statement.
type OutputMetadata struct {
	GenerationID    string    `json:"generation_id"`
	FacilityID      int64     `json:"facility_id"`
	ProjectID       int64     `json:"project_id"`
	TemplateVersion int64     `json:"template_version"`
	IncludesPrior   bool      `json:"includes_prior"`
	Warnings        []Warning `json:"warnings,omitempty"`
}

// StatementOutput is the immutable result of one generation call. Safe to
// cache and serialize.
type StatementOutput struct {
	StatementCode   string                `json:"statement_code"`
	StatementName   string                `json:"statement_name"`
	GeneratedAt     time.Time             `json:"generated_at"`
	ReportingPeriod string                `json:"reporting_period"`
	Lines           []StatementLine       `json:"lines"`
	Totals          map[string]TotalValue `json:"totals"`
	Metadata        OutputMetadata        `json:"metadata"`
}

type FindingSeverity string

const (
	SeverityError   FindingSeverity = "error"
	SeverityWarning FindingSeverity = "warning"
)

// ValidationFinding is an advisory post-generation check result. Findings
// accompany the output for reviewers; they never block or alter it.
type ValidationFinding struct {
	LineCode string          `json:"line_code,omitempty"`
	Severity FindingSeverity `json:"severity"`
	Message  string          `json:"message"`
}
