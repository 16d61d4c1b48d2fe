package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/cache"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/logger"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/metrics"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store"
	"github.com/Bushaija/studious-potato-sub008/internal/service/aggregator"
	"github.com/Bushaija/studious-potato-sub008/internal/service/collector"
	"github.com/Bushaija/studious-potato-sub008/internal/service/validation"
)

// Options configure the generation service.
type Options struct {
	// Strict aborts generation on unmapped activities and unknown formula
	// identifiers instead of defaulting them to zero contributions.
	Strict bool

	CacheSize int
	CacheTTL  time.Duration
}

// Service runs the whole computation pipeline: collect activity, aggregate
// events, evaluate the template, validate, memoize. It holds no cross-call
// state beyond the two caches, so independent calls run fully concurrently.
type Service struct {
	store      store.Store
	collector  *collector.Collector
	aggregator *aggregator.Aggregator
	validator  *validation.Service

	templates *cache.Cache[*compiledTemplate]
	results   *cache.Cache[*domain.GenerationResponse]

	strict bool
}

func NewService(st store.Store, opts Options) *Service {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}

	return &Service{
		store:      st,
		collector:  collector.New(st),
		aggregator: aggregator.New(opts.Strict),
		validator:  validation.New(),
		templates:  cache.New[*compiledTemplate](opts.CacheSize, opts.CacheTTL),
		results:    cache.New[*domain.GenerationResponse](opts.CacheSize, opts.CacheTTL),
		strict:     opts.Strict,
	}
}

// Generate computes one statement, answering from the result cache when the
// same request was already served for the current template version.
func (s *Service) Generate(ctx context.Context, req *domain.StatementGenerationRequest) (*domain.GenerationResponse, error) {
	started := time.Now()

	tpl, err := s.loadTemplate(ctx, req.StatementCode)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(req.StatementCode, "config_error").Inc()
		return nil, err
	}

	key := resultKey(req, tpl.template.Version)
	if resp, ok := s.results.Get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return resp, nil
	}
	metrics.CacheMissesTotal.Inc()

	resp, err := s.generate(ctx, req, tpl)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(req.StatementCode, "error").Inc()
		return nil, err
	}

	// Concurrent misses for the same key may both land here; generation is
	// deterministic for fixed inputs, so last write wins harmlessly.
	s.results.Set(key, resp)

	metrics.GenerationsTotal.WithLabelValues(req.StatementCode, "ok").Inc()
	metrics.GenerationDuration.WithLabelValues(req.StatementCode).Observe(time.Since(started).Seconds())

	return resp, nil
}

// Template returns the validated template, primarily for the API layer.
func (s *Service) Template(ctx context.Context, statementCode string) (*domain.StatementTemplate, error) {
	tpl, err := s.loadTemplate(ctx, statementCode)
	if err != nil {
		return nil, err
	}
	return tpl.template, nil
}

// Invalidate drops every memoized statement and, when statementCode is
// non-empty, that template's compiled form. Called when underlying activity
// data or configuration changed.
func (s *Service) Invalidate(statementCode string) {
	s.results.Purge()
	if statementCode != "" {
		s.templates.Delete(statementCode)
	} else {
		s.templates.Purge()
	}
}

func (s *Service) loadTemplate(ctx context.Context, statementCode string) (*compiledTemplate, error) {
	if tpl, ok := s.templates.Get(statementCode); ok {
		return tpl, nil
	}

	raw, err := s.store.GetStatementTemplate(ctx, statementCode)
	if err != nil {
		return nil, fmt.Errorf("getStatementTemplate: %w", err)
	}

	tpl, err := compile(raw)
	if err != nil {
		logger.Errorf(ctx, "compile template %s: %s", statementCode, err.Error())
		return nil, err
	}

	s.templates.Set(statementCode, tpl)
	return tpl, nil
}

func (s *Service) generate(ctx context.Context, req *domain.StatementGenerationRequest, tpl *compiledTemplate) (*domain.GenerationResponse, error) {
	period, err := s.store.GetReportingPeriod(ctx, req.ReportingPeriodID)
	if err != nil {
		return nil, fmt.Errorf("getReportingPeriod: %w", asDataSource(err))
	}

	currentCriteria := domain.FilterCriteria{
		FacilityID:        req.FacilityID,
		ProjectID:         req.ProjectID,
		ReportingPeriodID: req.ReportingPeriodID,
	}

	var priorCriteria *domain.FilterCriteria
	includesPrior := false
	if req.IncludeComparativePeriod && period.PriorPeriodID != nil {
		priorCriteria = &domain.FilterCriteria{
			FacilityID:        req.FacilityID,
			ProjectID:         req.ProjectID,
			ReportingPeriodID: *period.PriorPeriodID,
		}
		includesPrior = true
	}

	currentRecords, priorRecords, err := s.collector.CollectComparative(ctx, currentCriteria, priorCriteria)
	if err != nil {
		return nil, err
	}

	aggCtx := domain.AggregationContext{
		StatementCode:     req.StatementCode,
		FacilityID:        req.FacilityID,
		ProjectID:         req.ProjectID,
		ReportingPeriodID: req.ReportingPeriodID,
	}

	mappings, err := s.store.GetApplicableMappings(ctx, aggCtx)
	if err != nil {
		return nil, fmt.Errorf("getApplicableMappings: %w", asDataSource(err))
	}

	var warnings []domain.Warning
	collectWarning := func(w domain.Warning) {
		metrics.EvaluationWarningsTotal.WithLabelValues(string(w.Kind)).Inc()
		warnings = append(warnings, w)
	}

	currentSums, aggWarnings, err := s.aggregator.Aggregate(ctx, currentRecords, mappings, aggCtx)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, aggWarnings...)

	priorSums := make(domain.EventSummary)
	if includesPrior {
		priorSums, aggWarnings, err = s.aggregator.Aggregate(ctx, priorRecords, mappings, aggCtx)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, aggWarnings...)
	}

	currentValues := computePeriod(tpl, currentSums, collectWarning)
	priorValues := map[string]decimal.Decimal{}
	if includesPrior {
		priorValues = computePeriod(tpl, priorSums, collectWarning)
	}

	if s.strict {
		for _, w := range warnings {
			if w.Kind == domain.WarningUnknownIdentifier {
				return nil, fmt.Errorf("identifier %q unresolved: %w", w.Subject, constants.ErrStrictMode)
			}
		}
	}

	output := &domain.StatementOutput{
		StatementCode:   tpl.template.StatementCode,
		StatementName:   tpl.template.StatementName,
		GeneratedAt:     time.Now().UTC(),
		ReportingPeriod: period.Name,
		Lines:           make([]domain.StatementLine, 0, len(tpl.lines)),
		Totals:          make(map[string]domain.TotalValue),
		Metadata: domain.OutputMetadata{
			GenerationID:    uuid.NewString(),
			FacilityID:      req.FacilityID,
			ProjectID:       req.ProjectID,
			TemplateVersion: tpl.template.Version,
			IncludesPrior:   includesPrior,
			Warnings:        warnings,
		},
	}

	for _, line := range tpl.lines {
		statementLine := domain.StatementLine{
			LineCode:       line.LineCode,
			Label:          line.Label,
			Level:          line.Level,
			CurrentValue:   currentValues[line.LineCode],
			PriorValue:     priorValues[line.LineCode],
			IsTotalLine:    line.IsTotalLine,
			IsSubtotalLine: line.IsSubtotalLine,
		}
		output.Lines = append(output.Lines, statementLine)

		if line.IsTotalLine {
			output.Totals[line.LineCode] = domain.TotalValue{
				Current: statementLine.CurrentValue,
				Prior:   statementLine.PriorValue,
			}
		}
	}

	findings := s.validator.Validate(output, tpl.template)

	logger.Infof(ctx, "generated statement %s, facility-%d, project-%d, period-%d, lines-%d, warnings-%d",
		req.StatementCode, req.FacilityID, req.ProjectID, req.ReportingPeriodID, len(output.Lines), len(warnings))

	return &domain.GenerationResponse{Statement: output, Findings: findings}, nil
}

func resultKey(req *domain.StatementGenerationRequest, templateVersion int64) string {
	return fmt.Sprintf("%s|%d|%d|%d|%t|%d",
		req.StatementCode, req.FacilityID, req.ProjectID, req.ReportingPeriodID,
		req.IncludeComparativePeriod, templateVersion)
}

// IsNotFound reports whether err means a missing template or period rather
// than a computation failure.
func IsNotFound(err error) bool {
	return errors.Is(err, constants.ErrDBNotFound)
}

// asDataSource classifies repository failures: missing configuration keeps
// its not-found code, anything else is a data-source failure.
func asDataSource(err error) error {
	if errors.Is(err, constants.ErrDBNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", err.Error(), constants.ErrDataSource)
}
