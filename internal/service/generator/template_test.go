package generator

import (
	"errors"
	"testing"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

func mustBeConfigError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a configuration error, got nil")
	}
	if !errors.Is(err, constants.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestCompileAcceptsValidTemplate(t *testing.T) {
	tpl, err := compile(revExpTemplate())
	if err != nil {
		t.Fatal(err)
	}

	if len(tpl.lines) != 8 {
		t.Errorf("len(lines) = %d, want 8", len(tpl.lines))
	}
	for i := 1; i < len(tpl.lines); i++ {
		if tpl.lines[i-1].DisplayOrder >= tpl.lines[i].DisplayOrder {
			t.Errorf("lines not sorted at %d: %d >= %d", i, tpl.lines[i-1].DisplayOrder, tpl.lines[i].DisplayOrder)
		}
	}
	if len(tpl.asts) != 3 {
		t.Errorf("len(asts) = %d, want 3", len(tpl.asts))
	}
}

func TestCompileRejectsForwardReference(t *testing.T) {
	// line B (order 2) references line C (order 5)
	_, err := compile(&domain.StatementTemplate{
		StatementCode: "BS",
		Lines: []domain.LineTemplate{
			{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindEvent, EventCodes: []string{"X"}},
			{LineCode: "B", DisplayOrder: 2, Kind: domain.LineKindFormula, Formula: "C + 1"},
			{LineCode: "C", DisplayOrder: 5, Kind: domain.LineKindEvent, EventCodes: []string{"Y"}},
		},
	})
	mustBeConfigError(t, err)
}

func TestCompileRejectsSelfReference(t *testing.T) {
	_, err := compile(&domain.StatementTemplate{
		StatementCode: "BS",
		Lines: []domain.LineTemplate{
			{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindFormula, Formula: "A + 1"},
		},
	})
	mustBeConfigError(t, err)
}

func TestCompileRejectsDuplicateLineCode(t *testing.T) {
	_, err := compile(&domain.StatementTemplate{
		StatementCode: "BS",
		Lines: []domain.LineTemplate{
			{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindHeader},
			{LineCode: "A", DisplayOrder: 2, Kind: domain.LineKindHeader},
		},
	})
	mustBeConfigError(t, err)
}

func TestCompileRejectsDuplicateDisplayOrder(t *testing.T) {
	_, err := compile(&domain.StatementTemplate{
		StatementCode: "BS",
		Lines: []domain.LineTemplate{
			{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindHeader},
			{LineCode: "B", DisplayOrder: 1, Kind: domain.LineKindHeader},
		},
	})
	mustBeConfigError(t, err)
}

func TestCompileRejectsMalformedFormula(t *testing.T) {
	_, err := compile(&domain.StatementTemplate{
		StatementCode: "BS",
		Lines: []domain.LineTemplate{
			{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindFormula, Formula: "1 + ("},
		},
	})
	mustBeConfigError(t, err)
}

func TestCompileRejectsInconsistentKinds(t *testing.T) {
	tests := []struct {
		name string
		line domain.LineTemplate
	}{
		{"header with formula", domain.LineTemplate{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindHeader, Formula: "1"}},
		{"event without codes", domain.LineTemplate{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindEvent}},
		{"event with formula", domain.LineTemplate{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindEvent, EventCodes: []string{"X"}, Formula: "1"}},
		{"formula without formula", domain.LineTemplate{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindFormula}},
		{"formula with event codes", domain.LineTemplate{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindFormula, Formula: "1", EventCodes: []string{"X"}}},
		{"unknown kind", domain.LineTemplate{LineCode: "A", DisplayOrder: 1, Kind: "WAT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(&domain.StatementTemplate{StatementCode: "BS", Lines: []domain.LineTemplate{tt.line}})
			mustBeConfigError(t, err)
		})
	}
}

func TestCompileAllowsEventIdentifiersInFormulas(t *testing.T) {
	// identifiers that are not line codes resolve against event sums and
	// are not dependency-checked
	_, err := compile(&domain.StatementTemplate{
		StatementCode: "BS",
		Lines: []domain.LineTemplate{
			{LineCode: "A", DisplayOrder: 1, Kind: domain.LineKindFormula, Formula: "SOME_EVENT * 2"},
		},
	})
	if err != nil {
		t.Fatalf("event identifiers must not trip dependency validation: %v", err)
	}
}
