package formula

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

func evalString(t *testing.T, input string, env *Env) decimal.Decimal {
	t.Helper()

	node, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return Evaluate(node, env)
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "3"},
		{"2 * 3 + 4", "10"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 / 4", "2.5"},
		{"-5 + 2", "-3"},
		{"--5", "5"},
		{"1.5 * 2", "3"},
		{"0.1 + 0.2", "0.3"},
		{"100 - 30 - 20", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalString(t, tt.input, &Env{})
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvaluateFunctions(t *testing.T) {
	env := &Env{
		EventSums: domain.EventSummary{
			"TAX_REVENUE": decimal.NewFromInt(1000),
			"GRANTS":      decimal.NewFromInt(500),
		},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"SUM(TAX_REVENUE, GRANTS)", "1500"},
		{"sum(TAX_REVENUE, GRANTS)", "1500"},
		{"SUM(1, 2, 3, 4)", "10"},
		{"IF(TAX_REVENUE > 0, 1, 2)", "1"},
		{"IF(TAX_REVENUE < 0, 1, 2)", "2"},
		{"IF(TAX_REVENUE = 1000, GRANTS, 0)", "500"},
		{"ABS(0 - GRANTS)", "500"},
		{"MIN(TAX_REVENUE, GRANTS)", "500"},
		{"MAX(TAX_REVENUE, GRANTS, 2000)", "2000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalString(t, tt.input, env)
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIdentifierResolutionOrder(t *testing.T) {
	// A line code shadows an event code with the same name.
	env := &Env{
		LineValues: map[string]decimal.Decimal{"REVENUE": decimal.NewFromInt(7)},
		EventSums:  domain.EventSummary{"REVENUE": decimal.NewFromInt(100)},
	}

	got := evalString(t, "REVENUE", env)
	if got.String() != "7" {
		t.Errorf("got %s, want 7 (line values take precedence)", got)
	}
}

func TestUnknownIdentifierWarnsAndYieldsZero(t *testing.T) {
	var warnings []domain.Warning
	env := &Env{
		OnWarning: func(w domain.Warning) { warnings = append(warnings, w) },
	}

	got := evalString(t, "MISSING + 3", env)
	if got.String() != "3" {
		t.Errorf("got %s, want 3", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Kind != domain.WarningUnknownIdentifier {
		t.Errorf("warning kind = %s, want %s", warnings[0].Kind, domain.WarningUnknownIdentifier)
	}
	if warnings[0].Subject != "MISSING" {
		t.Errorf("warning subject = %s, want MISSING", warnings[0].Subject)
	}
}

func TestDivisionByZeroWarnsAndYieldsZero(t *testing.T) {
	var warnings []domain.Warning
	env := &Env{
		OnWarning: func(w domain.Warning) { warnings = append(warnings, w) },
	}

	got := evalString(t, "10 / 0", env)
	if !got.IsZero() {
		t.Errorf("got %s, want 0", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != domain.WarningDivisionByZero {
		t.Fatalf("expected a single division-by-zero warning, got %v", warnings)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"1 +",
		"(1 + 2",
		"SUM()",
		"IF(1, 2)",
		"FOO(1)",
		"1 ? 2",
		"1..2",
		"ABS(1, 2)",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", input)
			}
			if !errors.Is(err, constants.ErrConfiguration) {
				t.Errorf("Parse(%q) error = %v, want configuration error", input, err)
			}
		})
	}
}

func TestIdentifiers(t *testing.T) {
	node, err := Parse("IF(A > B, SUM(C, D, A), -E)")
	if err != nil {
		t.Fatal(err)
	}

	got := node.Identifiers()
	want := []string{"A", "B", "C", "D", "E"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("identifier[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEvaluateIsExact(t *testing.T) {
	// The classic float trap must not appear with decimal arithmetic.
	got := evalString(t, "0.1 + 0.2 - 0.3", &Env{})
	if !got.IsZero() {
		t.Errorf("0.1 + 0.2 - 0.3 = %s, want exactly 0", got)
	}
}
