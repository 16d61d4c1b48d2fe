package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

type fakeStore struct {
	template *domain.StatementTemplate
	mappings []*domain.EventMapping
	periods  map[int64]*domain.ReportingPeriod
	records  map[int64][]*domain.ActivityRecord

	templateCalls int
	activityCalls int
	activityErr   error
}

func (f *fakeStore) GetActivityRecords(_ context.Context, criteria domain.FilterCriteria) ([]*domain.ActivityRecord, error) {
	f.activityCalls++
	if f.activityErr != nil {
		return nil, f.activityErr
	}
	return f.records[criteria.ReportingPeriodID], nil
}

func (f *fakeStore) GetReportingPeriod(_ context.Context, id int64) (*domain.ReportingPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return p, nil
}

func (f *fakeStore) GetStatementTemplate(_ context.Context, statementCode string) (*domain.StatementTemplate, error) {
	f.templateCalls++
	if f.template == nil || f.template.StatementCode != statementCode {
		return nil, constants.ErrDBNotFound
	}
	return f.template, nil
}

func (f *fakeStore) GetApplicableMappings(_ context.Context, _ domain.AggregationContext) ([]*domain.EventMapping, error) {
	return f.mappings, nil
}

func revExpTemplate() *domain.StatementTemplate {
	return &domain.StatementTemplate{
		StatementCode: "REV_EXP",
		StatementName: "Revenue & Expenditure",
		Version:       3,
		Lines: []domain.LineTemplate{
			{LineCode: "HDR_REVENUE", Label: "Revenue", DisplayOrder: 10, Level: 0, Kind: domain.LineKindHeader},
			{LineCode: "TAX", Label: "Tax Revenue", DisplayOrder: 20, Level: 1, Kind: domain.LineKindEvent, EventCodes: []string{"TAX_REVENUE"}},
			{LineCode: "GRANTS", Label: "Grants", DisplayOrder: 30, Level: 1, Kind: domain.LineKindEvent, EventCodes: []string{"GRANTS"}},
			{LineCode: "TOTAL_REVENUE", Label: "Total Revenue", DisplayOrder: 40, Level: 1, Kind: domain.LineKindFormula, Formula: "SUM(TAX, GRANTS)", IsTotalLine: true},
			{LineCode: "HDR_EXPENSES", Label: "Expenses", DisplayOrder: 50, Level: 0, Kind: domain.LineKindHeader},
			{LineCode: "SALARIES", Label: "Salaries", DisplayOrder: 60, Level: 1, Kind: domain.LineKindEvent, EventCodes: []string{"SALARIES"}},
			{LineCode: "TOTAL_EXPENSES", Label: "Total Expenses", DisplayOrder: 70, Level: 1, Kind: domain.LineKindFormula, Formula: "SUM(SALARIES)", IsTotalLine: true},
			{LineCode: "SURPLUS_DEFICIT", Label: "Surplus / Deficit", DisplayOrder: 80, Level: 0, Kind: domain.LineKindFormula, Formula: "TOTAL_REVENUE - TOTAL_EXPENSES", IsTotalLine: true},
		},
	}
}

func revExpMappings() []*domain.EventMapping {
	return []*domain.EventMapping{
		{ID: 1, StatementCode: "REV_EXP", ActivitySelector: "11*", TargetEventCode: "TAX_REVENUE", MappingType: domain.MappingAggregated},
		{ID: 2, StatementCode: "REV_EXP", ActivitySelector: "13*", TargetEventCode: "GRANTS", MappingType: domain.MappingDirect},
		{ID: 3, StatementCode: "REV_EXP", ActivitySelector: "21*", TargetEventCode: "SALARIES", MappingType: domain.MappingDirect},
	}
}

func newFakeStore() *fakeStore {
	prior := int64(9)
	return &fakeStore{
		template: revExpTemplate(),
		mappings: revExpMappings(),
		periods: map[int64]*domain.ReportingPeriod{
			10: {ID: 10, Name: "FY2025 Q4", PriorPeriodID: &prior},
			9:  {ID: 9, Name: "FY2025 Q3"},
		},
		records: map[int64][]*domain.ActivityRecord{
			10: {
				{Code: "1101", ReportingPeriodID: 10, Q1Amount: decimal.NewFromInt(1000)},
				{Code: "1102", ReportingPeriodID: 10, Q2Amount: decimal.NewFromInt(500)},
				{Code: "1301", ReportingPeriodID: 10, CumulativeAmount: decimal.NewFromInt(500)},
				{Code: "2101", ReportingPeriodID: 10, CumulativeAmount: decimal.NewFromInt(1800)},
			},
			9: {
				{Code: "1101", ReportingPeriodID: 9, Q1Amount: decimal.NewFromInt(800)},
			},
		},
	}
}

func request() *domain.StatementGenerationRequest {
	return &domain.StatementGenerationRequest{
		StatementCode:     "REV_EXP",
		FacilityID:        1,
		ProjectID:         2,
		ReportingPeriodID: 10,
	}
}

func lineValue(t *testing.T, out *domain.StatementOutput, code string) decimal.Decimal {
	t.Helper()
	for _, line := range out.Lines {
		if line.LineCode == code {
			return line.CurrentValue
		}
	}
	t.Fatalf("line %s not found in output", code)
	return decimal.Zero
}

func TestGenerateComputesFormulaLines(t *testing.T) {
	svc := NewService(newFakeStore(), Options{})

	resp, err := svc.Generate(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}

	out := resp.Statement
	cases := map[string]string{
		"HDR_REVENUE":     "0",
		"TAX":             "1500",
		"GRANTS":          "500",
		"TOTAL_REVENUE":   "2000",
		"SALARIES":        "1800",
		"TOTAL_EXPENSES":  "1800",
		"SURPLUS_DEFICIT": "200",
	}
	for code, want := range cases {
		if got := lineValue(t, out, code); got.String() != want {
			t.Errorf("%s = %s, want %s", code, got, want)
		}
	}

	if total, ok := out.Totals["SURPLUS_DEFICIT"]; !ok || total.Current.String() != "200" {
		t.Errorf("Totals[SURPLUS_DEFICIT] = %v, want 200", total)
	}
	if len(out.Totals) != 3 {
		t.Errorf("len(Totals) = %d, want 3", len(out.Totals))
	}
}

func TestGenerateNegativeSurplus(t *testing.T) {
	st := newFakeStore()
	// shrink revenue so expenses dominate: 1000+500 tax, 0 grants vs 1800 salaries
	st.records[10] = []*domain.ActivityRecord{
		{Code: "1101", Q1Amount: decimal.NewFromInt(1000), Q2Amount: decimal.NewFromInt(500)},
		{Code: "2101", CumulativeAmount: decimal.NewFromInt(1800)},
	}
	svc := NewService(st, Options{})

	resp, err := svc.Generate(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}
	if got := lineValue(t, resp.Statement, "SURPLUS_DEFICIT"); got.String() != "-300" {
		t.Errorf("SURPLUS_DEFICIT = %s, want -300", got)
	}
}

func TestGenerateZeroDataCase(t *testing.T) {
	st := newFakeStore()
	st.records = map[int64][]*domain.ActivityRecord{}
	svc := NewService(st, Options{})

	resp, err := svc.Generate(context.Background(), request())
	if err != nil {
		t.Fatalf("zero-activity generation must succeed, got %v", err)
	}

	for _, line := range resp.Statement.Lines {
		if !line.CurrentValue.IsZero() {
			t.Errorf("line %s = %s, want 0", line.LineCode, line.CurrentValue)
		}
	}
	for code, total := range resp.Statement.Totals {
		if !total.Current.IsZero() {
			t.Errorf("total %s = %s, want 0", code, total.Current)
		}
	}
}

func TestGenerateComparativePeriod(t *testing.T) {
	svc := NewService(newFakeStore(), Options{})

	req := request()
	req.IncludeComparativePeriod = true

	resp, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	out := resp.Statement
	if !out.Metadata.IncludesPrior {
		t.Error("IncludesPrior should be set")
	}
	for _, line := range out.Lines {
		if line.LineCode == "TAX" {
			if line.PriorValue.String() != "800" {
				t.Errorf("TAX prior = %s, want 800", line.PriorValue)
			}
			if line.CurrentValue.String() != "1500" {
				t.Errorf("TAX current = %s, want 1500", line.CurrentValue)
			}
		}
	}
}

func TestGenerateForwardReferenceRejected(t *testing.T) {
	st := newFakeStore()
	st.template.Lines = append(st.template.Lines, domain.LineTemplate{
		LineCode: "EARLY", Label: "Early", DisplayOrder: 5, Kind: domain.LineKindFormula, Formula: "SURPLUS_DEFICIT * 2",
	})
	svc := NewService(st, Options{})

	_, err := svc.Generate(context.Background(), request())
	if !errors.Is(err, constants.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if st.activityCalls != 0 {
		t.Errorf("no data collection should happen for an invalid template, got %d calls", st.activityCalls)
	}
}

func TestGenerateMissingEventTolerated(t *testing.T) {
	st := newFakeStore()
	st.template.Lines = append(st.template.Lines, domain.LineTemplate{
		LineCode: "BONUS", Label: "Bonus", DisplayOrder: 90, Kind: domain.LineKindFormula, Formula: "NEVER_MAPPED + 1",
	})
	svc := NewService(st, Options{})

	resp, err := svc.Generate(context.Background(), request())
	if err != nil {
		t.Fatalf("missing event must not fail generation: %v", err)
	}
	if got := lineValue(t, resp.Statement, "BONUS"); got.String() != "1" {
		t.Errorf("BONUS = %s, want 1", got)
	}

	found := false
	for _, w := range resp.Statement.Metadata.Warnings {
		if w.Kind == domain.WarningUnknownIdentifier && w.Subject == "NEVER_MAPPED" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown-identifier warning for NEVER_MAPPED, got %v", resp.Statement.Metadata.Warnings)
	}
}

func TestGenerateStrictModeRejectsUnknownIdentifier(t *testing.T) {
	st := newFakeStore()
	st.template.Lines = append(st.template.Lines, domain.LineTemplate{
		LineCode: "BONUS", Label: "Bonus", DisplayOrder: 90, Kind: domain.LineKindFormula, Formula: "NEVER_MAPPED + 1",
	})
	svc := NewService(st, Options{Strict: true})

	_, err := svc.Generate(context.Background(), request())
	if !errors.Is(err, constants.ErrStrictMode) {
		t.Fatalf("err = %v, want strict-mode error", err)
	}
}

func TestGenerateDeterministicUnderLineReordering(t *testing.T) {
	first := NewService(newFakeStore(), Options{})
	respA, err := first.Generate(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}

	shuffled := newFakeStore()
	lines := shuffled.template.Lines
	// permute unrelated entries without touching display orders
	lines[1], lines[5] = lines[5], lines[1]
	lines[0], lines[4] = lines[4], lines[0]

	second := NewService(shuffled, Options{})
	respB, err := second.Generate(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}

	if len(respA.Statement.Lines) != len(respB.Statement.Lines) {
		t.Fatal("line counts differ")
	}
	for i := range respA.Statement.Lines {
		a, b := respA.Statement.Lines[i], respB.Statement.Lines[i]
		if a.LineCode != b.LineCode || !a.CurrentValue.Equal(b.CurrentValue) {
			t.Errorf("line %d: %s=%s vs %s=%s", i, a.LineCode, a.CurrentValue, b.LineCode, b.CurrentValue)
		}
	}
}

func TestGenerateMemoizesByRequestKey(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st, Options{CacheSize: 8, CacheTTL: time.Minute})

	respA, err := svc.Generate(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}
	callsAfterFirst := st.activityCalls

	respB, err := svc.Generate(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}

	if st.activityCalls != callsAfterFirst {
		t.Errorf("second call should be served from cache, activity calls went %d -> %d", callsAfterFirst, st.activityCalls)
	}
	if respA != respB {
		t.Error("cached response should be the identical value")
	}

	// invalidation forces recomputation
	svc.Invalidate("REV_EXP")
	if _, err := svc.Generate(context.Background(), request()); err != nil {
		t.Fatal(err)
	}
	if st.activityCalls == callsAfterFirst {
		t.Error("invalidation should force a fresh collection")
	}
}

func TestGenerateDataSourceError(t *testing.T) {
	st := newFakeStore()
	st.activityErr = errors.New("connection refused")
	svc := NewService(st, Options{})

	_, err := svc.Generate(context.Background(), request())
	if !errors.Is(err, constants.ErrDataSource) {
		t.Fatalf("err = %v, want data-source error", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	st := newFakeStore()
	st.activityErr = context.DeadlineExceeded
	svc := NewService(st, Options{})

	_, err := svc.Generate(context.Background(), request())
	if !errors.Is(err, constants.ErrTimeout) {
		t.Fatalf("err = %v, want timeout error", err)
	}
}

func TestGenerateUnknownStatementCode(t *testing.T) {
	svc := NewService(newFakeStore(), Options{})

	_, err := svc.Generate(context.Background(), &domain.StatementGenerationRequest{
		StatementCode: "NOPE", FacilityID: 1, ProjectID: 1, ReportingPeriodID: 10,
	})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}
