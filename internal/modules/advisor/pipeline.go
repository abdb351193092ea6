package advisor

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/advisor/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResearchUnavailableNotes marks a record whose product research degraded.
// The marker is part of the API behavior: research failures never fail the
// request, they produce an empty recommendation list with this note.
const ResearchUnavailableNotes = "plan search unavailable; no live product research was performed"

// Pipeline orchestrates one advice request: validate, compute, consult the
// reasoning and research collaborators concurrently, assemble the record, and
// append it to history.
//
// Failure policy: a ValidationError aborts before any side effect; a reasoning
// failure fails the whole request (no record is stored); a research failure
// degrades to an empty recommendation list with ResearchUnavailableNotes.
type Pipeline struct {
	validator *Validator
	calc      *Calculator
	reasoning domain.ReasoningClient
	research  domain.ResearchClient
	history   domain.HistoryStore
	timeout   time.Duration
	log       zerolog.Logger
}

// NewPipeline creates an advice pipeline.
// timeout bounds each collaborator call; zero disables the per-call deadline.
func NewPipeline(
	validator *Validator,
	calc *Calculator,
	reasoning domain.ReasoningClient,
	research domain.ResearchClient,
	history domain.HistoryStore,
	timeout time.Duration,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		validator: validator,
		calc:      calc,
		reasoning: reasoning,
		research:  research,
		history:   history,
		timeout:   timeout,
		log:       log.With().Str("service", "advice_pipeline").Logger(),
	}
}

// Run executes the pipeline for one raw profile and returns the stored record.
func (p *Pipeline) Run(ctx context.Context, raw domain.Profile) (domain.AdviceRecord, error) {
	// Validate first - no partial record is ever created for bad input.
	profile, err := p.validator.Validate(raw)
	if err != nil {
		return domain.AdviceRecord{}, err
	}

	coverage, breakdown, assumptions := p.calc.Compute(profile)

	// The two collaborator calls are independent, so issue them concurrently.
	// Completion order does not affect the assembled record.
	var (
		wg             sync.WaitGroup
		reasoningNotes string
		reasoningErr   error
		items          []domain.RecommendationItem
		researchNotes  string
		researchErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		callCtx, cancel := p.callContext(ctx)
		defer cancel()
		reasoningNotes, reasoningErr = p.reasoning.Explain(callCtx, profile, coverage)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := p.callContext(ctx)
		defer cancel()
		items, researchNotes, researchErr = p.research.FindPlans(callCtx, profile, coverage)
	}()
	wg.Wait()

	// Reasoning is essential: its failure fails the request and nothing is stored.
	if reasoningErr != nil {
		p.log.Error().Err(reasoningErr).Msg("Reasoning stage failed")
		return domain.AdviceRecord{}, domain.NewUpstreamError(domain.StageReasoning, reasoningErr)
	}

	// Research is non-critical: degrade with an explicit marker.
	if researchErr != nil {
		p.log.Warn().Err(researchErr).Msg("Research stage failed, degrading")
		items = []domain.RecommendationItem{}
		researchNotes = ResearchUnavailableNotes
	}
	if items == nil {
		items = []domain.RecommendationItem{}
	}

	record := domain.AdviceRecord{
		ID:              uuid.New().String(),
		Profile:         profile,
		Coverage:        coverage,
		Breakdown:       breakdown,
		Assumptions:     assumptions,
		Recommendations: items,
		ResearchNotes:   researchNotes,
		ReasoningNotes:  reasoningNotes,
		Timestamp:       time.Now().UTC(),
	}

	if err := p.history.Append(record); err != nil {
		return domain.AdviceRecord{}, err
	}

	p.log.Info().
		Str("record_id", record.ID).
		Float64("coverage", coverage.CoverageAmount).
		Str("currency", coverage.CoverageCurrency).
		Int("recommendations", len(items)).
		Msg("Advice record created")

	return record, nil
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}
