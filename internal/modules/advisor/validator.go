package advisor

import (
	"strings"

	"github.com/aristath/advisor/internal/domain"
)

// Validator checks and normalizes incoming client profiles.
// Validation is pure: it never touches I/O and produces either a normalized
// Profile or a *domain.ValidationError.
type Validator struct{}

// NewValidator creates a profile validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a raw profile and returns a normalized copy.
// Monetary fields must be non-negative, age and income replacement years must
// be positive, and the currency must be a 3-letter code (normalized to upper case).
func (v *Validator) Validate(raw domain.Profile) (domain.Profile, error) {
	if raw.Age <= 0 {
		return domain.Profile{}, domain.NewValidationError("age", "must be positive")
	}
	if raw.AnnualIncome < 0 {
		return domain.Profile{}, domain.NewValidationError("annual_income", "must not be negative")
	}
	if raw.Dependents < 0 {
		return domain.Profile{}, domain.NewValidationError("dependents", "must not be negative")
	}
	if raw.TotalDebt < 0 {
		return domain.Profile{}, domain.NewValidationError("total_debt", "must not be negative")
	}
	if raw.AvailableSavings < 0 {
		return domain.Profile{}, domain.NewValidationError("available_savings", "must not be negative")
	}
	if raw.ExistingLifeInsurance < 0 {
		return domain.Profile{}, domain.NewValidationError("existing_life_insurance", "must not be negative")
	}
	if raw.IncomeReplacementYears <= 0 {
		return domain.Profile{}, domain.NewValidationError("income_replacement_years", "must be positive")
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if !isCurrencyCode(currency) {
		return domain.Profile{}, domain.NewValidationError("currency", "must be a 3-letter code")
	}

	profile := raw
	profile.Currency = currency
	profile.Location = strings.TrimSpace(raw.Location)

	return profile, nil
}

// isCurrencyCode accepts exactly three ASCII letters (ISO 4217 shape).
func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
