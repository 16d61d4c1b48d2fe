package generator

import (
	"fmt"
	"sort"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/formula"
)

// compiledTemplate is a statement template with every formula parsed and
// the line-dependency invariants verified. Compilation happens once per
// template version; the result is immutable and cached.
type compiledTemplate struct {
	template *domain.StatementTemplate

	// lines in ascending display order, the only valid evaluation order.
	lines []domain.LineTemplate

	// asts holds the parsed formula per formula-line code.
	asts map[string]*formula.Node
}

// compile validates a raw template and parses its formulas. Any defect —
// duplicate line codes or display orders, inconsistent line kinds,
// unparsable formulas, forward or circular line references — is a
// configuration error that blocks the statement code from being servable.
func compile(t *domain.StatementTemplate) (*compiledTemplate, error) {
	lines := make([]domain.LineTemplate, len(t.Lines))
	copy(lines, t.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].DisplayOrder < lines[j].DisplayOrder })

	orders := make(map[string]int, len(lines))
	seenOrders := make(map[int]string, len(lines))
	for _, line := range lines {
		if _, ok := orders[line.LineCode]; ok {
			return nil, fmt.Errorf("template %s: duplicate line code %q: %w",
				t.StatementCode, line.LineCode, constants.ErrConfiguration)
		}
		if other, ok := seenOrders[line.DisplayOrder]; ok {
			return nil, fmt.Errorf("template %s: lines %q and %q share display order %d: %w",
				t.StatementCode, other, line.LineCode, line.DisplayOrder, constants.ErrConfiguration)
		}
		orders[line.LineCode] = line.DisplayOrder
		seenOrders[line.DisplayOrder] = line.LineCode
	}

	compiled := &compiledTemplate{
		template: t,
		lines:    lines,
		asts:     make(map[string]*formula.Node),
	}

	for _, line := range lines {
		if err := checkKind(&line); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.StatementCode, err)
		}

		if line.Kind != domain.LineKindFormula {
			continue
		}

		node, err := formula.Parse(line.Formula)
		if err != nil {
			return nil, fmt.Errorf("template %s, line %s: %w", t.StatementCode, line.LineCode, err)
		}
		compiled.asts[line.LineCode] = node

		// A formula may only reference lines that evaluate before it.
		// Identifiers that are not line codes resolve against event sums
		// at evaluation time and are not constrained here.
		for _, id := range node.Identifiers() {
			refOrder, isLine := orders[id]
			if !isLine {
				continue
			}
			if refOrder >= line.DisplayOrder {
				return nil, fmt.Errorf("template %s: line %s (order %d) references line %s (order %d): %w",
					t.StatementCode, line.LineCode, line.DisplayOrder, id, refOrder, constants.ErrConfiguration)
			}
		}
	}

	return compiled, nil
}

func checkKind(line *domain.LineTemplate) error {
	switch line.Kind {
	case domain.LineKindHeader:
		if len(line.EventCodes) > 0 || line.Formula != "" {
			return fmt.Errorf("header line %q carries event codes or a formula: %w",
				line.LineCode, constants.ErrConfiguration)
		}
	case domain.LineKindEvent:
		if len(line.EventCodes) == 0 {
			return fmt.Errorf("event line %q lists no event codes: %w",
				line.LineCode, constants.ErrConfiguration)
		}
		if line.Formula != "" {
			return fmt.Errorf("event line %q also carries a formula: %w",
				line.LineCode, constants.ErrConfiguration)
		}
	case domain.LineKindFormula:
		if line.Formula == "" {
			return fmt.Errorf("formula line %q carries no formula: %w",
				line.LineCode, constants.ErrConfiguration)
		}
		if len(line.EventCodes) > 0 {
			return fmt.Errorf("formula line %q also lists event codes: %w",
				line.LineCode, constants.ErrConfiguration)
		}
	default:
		return fmt.Errorf("line %q has unknown kind %q: %w",
			line.LineCode, line.Kind, constants.ErrConfiguration)
	}
	return nil
}
