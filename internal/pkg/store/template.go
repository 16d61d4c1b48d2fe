package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store/xpgx"
)

var (
	templateColumns = []string{"statement_code", "statement_name", "version", "metadata", "updated_at"}
	lineColumns     = []string{
		"line_code", "label", "parent_line_code", "display_order", "level",
		"kind", "event_codes", "formula", "is_total_line", "is_subtotal_line",
	}
)

type templateRow struct {
	StatementCode string    `db:"statement_code"`
	StatementName string    `db:"statement_name"`
	Version       int64     `db:"version"`
	Metadata      []byte    `db:"metadata"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (s *store) GetStatementTemplate(ctx context.Context, statementCode string) (*domain.StatementTemplate, error) {
	query := builder().Select(templateColumns...).
		From(tableTemplates).
		Where(sq.Eq{"statement_code": statementCode})

	row, err := xpgx.Get[templateRow](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("select template %s: %w", statementCode, wrapErr(err))
	}

	template := &domain.StatementTemplate{
		StatementCode: row.StatementCode,
		StatementName: row.StatementName,
		Version:       row.Version,
		UpdatedAt:     row.UpdatedAt,
	}

	if len(row.Metadata) > 0 {
		if err := sonic.Unmarshal(row.Metadata, &template.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal template metadata: %w", err)
		}
	}

	linesQuery := builder().Select(lineColumns...).
		From(tableTemplateLines).
		Where(sq.Eq{"statement_code": statementCode}).
		OrderBy("display_order")

	lines, err := xpgx.Select[domain.LineTemplate](ctx, s.pool, linesQuery)
	if err != nil {
		return nil, fmt.Errorf("select template lines %s: %w", statementCode, wrapErr(err))
	}

	template.Lines = make([]domain.LineTemplate, 0, len(lines))
	for _, line := range lines {
		template.Lines = append(template.Lines, *line)
	}

	return template, nil
}
