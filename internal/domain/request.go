package domain

// StatementGenerationRequest asks for one statement to be computed for a
// facility/project/period context.
type StatementGenerationRequest struct {
	StatementCode            string `json:"statement_code" validate:"required"`
	FacilityID               int64  `json:"facility_id" validate:"required,gt=0"`
	ProjectID                int64  `json:"project_id" validate:"required,gt=0"`
	ReportingPeriodID        int64  `json:"reporting_period_id" validate:"required,gt=0"`
	IncludeComparativePeriod bool   `json:"include_comparative_period"`
}

// GenerationResponse pairs the statement with its advisory findings.
type GenerationResponse struct {
	Statement *StatementOutput    `json:"statement"`
	Findings  []ValidationFinding `json:"findings,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
