package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

const (
	tableActivityRecords  = "activity_records"
	tableReportingPeriods = "reporting_periods"
	tableTemplates        = "statement_templates"
	tableTemplateLines    = "statement_template_lines"
	tableEventMappings    = "event_mappings"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel builder with Postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
