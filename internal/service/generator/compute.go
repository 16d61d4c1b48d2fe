package generator

import (
	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/formula"
)

// computePeriod walks the template's lines strictly in ascending display
// order and resolves each line's value for one period. Every resolved value
// is stored before the next line evaluates, which is what makes the
// no-forward-reference invariant meaningful.
func computePeriod(
	tpl *compiledTemplate,
	sums domain.EventSummary,
	warn func(domain.Warning),
) map[string]decimal.Decimal {
	lineValues := make(map[string]decimal.Decimal, len(tpl.lines))

	for _, line := range tpl.lines {
		var value decimal.Decimal

		switch line.Kind {
		case domain.LineKindEvent:
			// A missing event code contributes 0.
			for _, eventCode := range line.EventCodes {
				value = value.Add(sums.Get(eventCode))
			}

		case domain.LineKindFormula:
			env := &formula.Env{
				LineValues: lineValues,
				EventSums:  sums,
				OnWarning:  warn,
			}
			value = formula.Evaluate(tpl.asts[line.LineCode], env)

		case domain.LineKindHeader:
			// headers render as zero
		}

		lineValues[line.LineCode] = value
	}

	return lineValues
}
