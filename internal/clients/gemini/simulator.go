package gemini

import (
	"context"
	"fmt"

	"github.com/aristath/advisor/internal/domain"
)

// Simulator is a deterministic stand-in for the Gemini API. It is selected via
// configuration when no API key is present or simulation is forced, and is also
// the reasoning client used in tests.
type Simulator struct{}

// NewSimulator creates a simulated reasoning client.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Explain produces a deterministic rationale from the profile and coverage numbers.
func (s *Simulator) Explain(_ context.Context, profile domain.Profile, coverage domain.CoverageResult) (string, error) {
	assets := profile.AvailableSavings + profile.ExistingLifeInsurance

	return fmt.Sprintf(
		"A coverage of %.0f %s replaces %d years of a %.0f %s annual income for the household's %d dependent(s), "+
			"retires the outstanding debt of %.0f, and is reduced by %.0f in savings and existing cover. "+
			"This keeps the family's standard of living intact if the insured income stops. (simulated reasoning)",
		coverage.CoverageAmount, coverage.CoverageCurrency,
		profile.IncomeReplacementYears, profile.AnnualIncome, profile.Currency,
		profile.Dependents, profile.TotalDebt, assets,
	), nil
}
