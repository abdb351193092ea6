package domain

import "time"

// Advisor-agnostic types for the coverage advice pipeline.
// These types abstract away collaborator-specific implementations (Gemini, Firecrawl, etc.)

// Profile is a validated client financial profile. Immutable once constructed;
// the validator is the only producer.
type Profile struct {
	Age                    int     `json:"age"`
	AnnualIncome           float64 `json:"annual_income"`
	Dependents             int     `json:"dependents"`
	Location               string  `json:"location"`
	TotalDebt              float64 `json:"total_debt"`
	AvailableSavings       float64 `json:"available_savings"`
	ExistingLifeInsurance  float64 `json:"existing_life_insurance"`
	IncomeReplacementYears int     `json:"income_replacement_years"`
	Currency               string  `json:"currency"`
}

// CoverageResult is the deterministic output of the coverage calculator.
type CoverageResult struct {
	CoverageAmount   float64 `json:"coverage_amount"`
	CoverageCurrency string  `json:"coverage_currency"`
}

// Breakdown explains how the coverage figure was assembled.
type Breakdown struct {
	IncomeReplacement float64 `json:"income_replacement"`
	DebtObligations   float64 `json:"debt_obligations"`
	AssetsOffset      float64 `json:"assets_offset"`
	Methodology       string  `json:"methodology"`
}

// Assumptions records the inputs of the calculation that are policy rather than data.
type Assumptions struct {
	IncomeReplacementYears int     `json:"income_replacement_years"`
	RealDiscountRate       float64 `json:"real_discount_rate"`
	Notes                  string  `json:"additional_notes,omitempty"`
}

// RecommendationItem is a candidate product returned by the research collaborator.
// The pipeline treats the list as opaque pass-through data; links are not validated.
type RecommendationItem struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Source  string `json:"source,omitempty"`
}

// AdviceRecord is the immutable result of one pipeline run.
type AdviceRecord struct {
	ID              string               `json:"id"`
	Profile         Profile              `json:"profile"`
	Coverage        CoverageResult       `json:"coverage"`
	Breakdown       Breakdown            `json:"breakdown"`
	Assumptions     Assumptions          `json:"assumptions"`
	Recommendations []RecommendationItem `json:"recommendations"`
	ResearchNotes   string               `json:"research_notes"`
	ReasoningNotes  string               `json:"reasoning_notes"`
	Timestamp       time.Time            `json:"timestamp"`
}

// Clone returns a deep copy of the record so history snapshots never alias
// caller-held slices.
func (r AdviceRecord) Clone() AdviceRecord {
	out := r
	if r.Recommendations != nil {
		out.Recommendations = make([]RecommendationItem, len(r.Recommendations))
		copy(out.Recommendations, r.Recommendations)
	}
	return out
}
