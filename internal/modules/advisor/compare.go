package advisor

import (
	"context"
	"sync"

	"github.com/aristath/advisor/internal/domain"
	"github.com/rs/zerolog"
)

// ComparisonEntry is one row of a side-by-side comparison: the advice record
// for a profile, optionally extended with its coverage converted to a common
// currency.
type ComparisonEntry struct {
	domain.AdviceRecord
	CoverageNormalized *NormalizedCoverage `json:"coverage_normalized,omitempty"`
	NormalizationNote  string              `json:"normalization_note,omitempty"`
}

// NormalizedCoverage is a coverage amount converted to a comparison currency.
type NormalizedCoverage struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// CompareService runs the advice pipeline across several profiles and
// assembles a side-by-side comparison in input order.
//
// Batch policy: the whole batch is validated up front; an empty batch or any
// invalid profile fails the request with a ValidationError before any pipeline
// run, so comparison never leaves partial history behind on bad input.
type CompareService struct {
	pipeline  *Pipeline
	validator *Validator
	rates     domain.ExchangeRateProvider
	workers   int
	log       zerolog.Logger
}

// NewCompareService creates a comparison service with bounded concurrency.
func NewCompareService(
	pipeline *Pipeline,
	validator *Validator,
	rates domain.ExchangeRateProvider,
	workers int,
	log zerolog.Logger,
) *CompareService {
	if workers <= 0 {
		workers = 4
	}
	return &CompareService{
		pipeline:  pipeline,
		validator: validator,
		rates:     rates,
		workers:   workers,
		log:       log.With().Str("service", "compare").Logger(),
	}
}

// Compare runs every profile through the pipeline and returns one entry per
// profile, in input order. When normalizeCurrency is non-empty, each entry also
// carries its coverage converted to that currency; conversion failures degrade
// per entry and never fail the batch.
func (s *CompareService) Compare(ctx context.Context, raws []domain.Profile, normalizeCurrency string) ([]ComparisonEntry, error) {
	if len(raws) == 0 {
		return nil, domain.NewValidationError("profiles", "comparison requires at least one profile")
	}

	// Validate the whole batch before running anything.
	for _, raw := range raws {
		if _, err := s.validator.Validate(raw); err != nil {
			return nil, err
		}
	}

	// Profiles are independent, so run them on a bounded worker pool.
	type result struct {
		record domain.AdviceRecord
		err    error
	}

	results := make([]result, len(raws))
	sem := make(chan struct{}, s.workers)

	var wg sync.WaitGroup
	for i, raw := range raws {
		wg.Add(1)
		go func(i int, raw domain.Profile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			record, err := s.pipeline.Run(ctx, raw)
			results[i] = result{record: record, err: err}
		}(i, raw)
	}
	wg.Wait()

	entries := make([]ComparisonEntry, 0, len(raws))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		entries = append(entries, ComparisonEntry{AdviceRecord: r.record})
	}

	if normalizeCurrency != "" {
		s.normalize(entries, normalizeCurrency)
	}

	s.log.Info().
		Int("profiles", len(raws)).
		Str("normalize_currency", normalizeCurrency).
		Msg("Comparison completed")

	return entries, nil
}

// normalize attaches converted coverage amounts. Rate lookups degrade per
// entry: a failed conversion leaves the entry without a normalized figure.
func (s *CompareService) normalize(entries []ComparisonEntry, currency string) {
	if s.rates == nil {
		return
	}

	for i := range entries {
		from := entries[i].Coverage.CoverageCurrency
		rate, err := s.rates.GetRate(from, currency)
		if err != nil {
			s.log.Warn().Err(err).Str("from", from).Str("to", currency).Msg("Rate lookup failed")
			entries[i].NormalizationNote = "exchange rate unavailable"
			continue
		}
		entries[i].CoverageNormalized = &NormalizedCoverage{
			Amount:   entries[i].Coverage.CoverageAmount * rate,
			Currency: currency,
			Rate:     rate,
		}
	}
}
