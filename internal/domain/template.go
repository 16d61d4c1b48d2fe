package domain

import "time"

// LineKind is the discriminant for how a template line resolves its value.
type LineKind string

const (
	// LineKindHeader is a pure header/separator line; it always resolves to zero.
	LineKindHeader LineKind = "HEADER"
	// LineKindEvent resolves to the sum of the listed event codes.
	LineKindEvent LineKind = "EVENT"
	// LineKindFormula resolves by evaluating the line's formula.
	LineKindFormula LineKind = "FORMULA"
)

// LineTemplate is one row definition in a statement template. Kind decides
// whether EventCodes or Formula carries the line's source; header lines
// carry neither. A formula may only reference lines with a strictly lower
// DisplayOrder, which template validation enforces once at load time.
type LineTemplate struct {
	LineCode       string   `db:"line_code"`
	Label          string   `db:"label"`
	ParentLineCode *string  `db:"parent_line_code"`
	DisplayOrder   int      `db:"display_order"`
	Level          int      `db:"level"`
	Kind           LineKind `db:"kind"`
	EventCodes     []string `db:"event_codes"`
	Formula        string   `db:"formula"`
	IsTotalLine    bool     `db:"is_total_line"`
	IsSubtotalLine bool     `db:"is_subtotal_line"`
}

// TemplateMetadata declares statement-level relationships the validation
// service checks after generation. A zero value declares nothing.
type TemplateMetadata struct {
	// EquationLeft/EquationRight declare an accounting equation over line
	// codes, e.g. ASSETS = LIABILITIES + NET_ASSETS.
	EquationLeft  string   `json:"equation_left,omitempty"`
	EquationRight []string `json:"equation_right,omitempty"`
}

// StatementTemplate is the ordered set of line templates defining one
// statement type. Read-only configuration; validated once when loaded and
// treated as immutable afterwards, so Version is a safe cache discriminator.
type StatementTemplate struct {
	StatementCode string           `db:"statement_code"`
	StatementName string           `db:"statement_name"`
	Version       int64            `db:"version"`
	Metadata      TemplateMetadata `db:"metadata"`
	Lines         []LineTemplate
	UpdatedAt     time.Time `db:"updated_at"`
}
