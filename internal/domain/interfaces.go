package domain

import "context"

// ReasoningClient produces a natural-language rationale for a computed coverage
// figure. Implementations are expected to be slow and fallible remote calls;
// the pipeline tags their failures with StageReasoning.
type ReasoningClient interface {
	Explain(ctx context.Context, profile Profile, coverage CoverageResult) (string, error)
}

// ResearchClient finds candidate insurance products for a profile.
// The pipeline tags its failures with StageResearch.
type ResearchClient interface {
	FindPlans(ctx context.Context, profile Profile, coverage CoverageResult) ([]RecommendationItem, string, error)
}

// HistoryStore is an append-only, insertion-ordered collection of advice records.
// Implementations must serialize appends; ListAll returns a snapshot that does not
// reflect subsequent appends. Growth is unbounded - a documented limitation, not
// something implementations may silently cap.
type HistoryStore interface {
	Append(record AdviceRecord) error
	ListAll() ([]AdviceRecord, error)
	Clear() error
}

// ExchangeRateProvider converts between currencies for comparison views.
type ExchangeRateProvider interface {
	GetRate(fromCurrency, toCurrency string) (float64, error)
}
