package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/formula"
)

// Service runs post-generation consistency checks. Findings are advisory:
// they never mutate or block the output, only accompany it for reviewers.
type Service struct{}

func New() *Service {
	return &Service{}
}

// Validate checks the generated statement against the template's declared
// relationships and replays total-line formulas from constituent lines.
// Exact decimal arithmetic means every comparison uses zero tolerance.
func (s *Service) Validate(out *domain.StatementOutput, tpl *domain.StatementTemplate) []domain.ValidationFinding {
	var findings []domain.ValidationFinding

	current := make(map[string]decimal.Decimal, len(out.Lines))
	prior := make(map[string]decimal.Decimal, len(out.Lines))
	for _, line := range out.Lines {
		current[line.LineCode] = line.CurrentValue
		prior[line.LineCode] = line.PriorValue
	}

	findings = append(findings, s.checkEquation(tpl, current, "current")...)
	if out.Metadata.IncludesPrior {
		findings = append(findings, s.checkEquation(tpl, prior, "prior")...)
	}

	findings = append(findings, s.reconcileTotals(tpl, current)...)

	// Soft conditions recorded during generation surface as warning
	// findings so the presentation layer has a single list to show.
	for _, w := range out.Metadata.Warnings {
		findings = append(findings, domain.ValidationFinding{
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("%s: %s", w.Kind, w.Message),
		})
	}

	return findings
}

// checkEquation verifies the accounting equation the template metadata
// declares, e.g. ASSETS = LIABILITIES + NET_ASSETS.
func (s *Service) checkEquation(
	tpl *domain.StatementTemplate,
	values map[string]decimal.Decimal,
	period string,
) []domain.ValidationFinding {
	meta := tpl.Metadata
	if meta.EquationLeft == "" || len(meta.EquationRight) == 0 {
		return nil
	}

	left, ok := values[meta.EquationLeft]
	if !ok {
		return []domain.ValidationFinding{{
			LineCode: meta.EquationLeft,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("equation line %q missing from statement", meta.EquationLeft),
		}}
	}

	right := decimal.Zero
	for _, code := range meta.EquationRight {
		v, ok := values[code]
		if !ok {
			return []domain.ValidationFinding{{
				LineCode: code,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("equation line %q missing from statement", code),
			}}
		}
		right = right.Add(v)
	}

	if !left.Equal(right) {
		return []domain.ValidationFinding{{
			LineCode: meta.EquationLeft,
			Severity: domain.SeverityError,
			Message: fmt.Sprintf("%s period: %s (%s) does not equal %v (%s)",
				period, meta.EquationLeft, left, meta.EquationRight, right),
		}}
	}

	return nil
}

// reconcileTotals independently recomputes each total line's formula from
// the finished line values. By construction the values should match; a
// mismatch points at a template authoring error. Total lines whose formulas
// reference event codes rather than lines cannot be replayed post hoc and
// are skipped.
func (s *Service) reconcileTotals(
	tpl *domain.StatementTemplate,
	values map[string]decimal.Decimal,
) []domain.ValidationFinding {
	var findings []domain.ValidationFinding

	for _, line := range tpl.Lines {
		if !line.IsTotalLine || line.Kind != domain.LineKindFormula {
			continue
		}

		node, err := formula.Parse(line.Formula)
		if err != nil {
			// compile already rejected malformed formulas; reaching this
			// means the template changed under us
			continue
		}

		replayable := true
		for _, id := range node.Identifiers() {
			if _, ok := values[id]; !ok {
				replayable = false
				break
			}
		}
		if !replayable {
			continue
		}

		recomputed := formula.Evaluate(node, &formula.Env{LineValues: values})
		if got := values[line.LineCode]; !got.Equal(recomputed) {
			findings = append(findings, domain.ValidationFinding{
				LineCode: line.LineCode,
				Severity: domain.SeverityError,
				Message: fmt.Sprintf("total line %s holds %s but its formula recomputes to %s",
					line.LineCode, got, recomputed),
			})
		}
	}

	return findings
}
