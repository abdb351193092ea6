package advisor

import (
	"errors"
	"testing"

	"github.com/aristath/advisor/internal/domain"
	advisortesting "github.com/aristath/advisor/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsAndNormalizes(t *testing.T) {
	v := NewValidator()

	raw := advisortesting.NewProfileFixture()
	raw.Currency = " usd "
	raw.Location = "  Austin, TX "

	profile, err := v.Validate(raw)
	require.NoError(t, err)

	assert.Equal(t, "USD", profile.Currency)
	assert.Equal(t, "Austin, TX", profile.Location)
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*domain.Profile)
		field string
	}{
		{"zero age", func(p *domain.Profile) { p.Age = 0 }, "age"},
		{"negative age", func(p *domain.Profile) { p.Age = -5 }, "age"},
		{"negative income", func(p *domain.Profile) { p.AnnualIncome = -1 }, "annual_income"},
		{"negative dependents", func(p *domain.Profile) { p.Dependents = -1 }, "dependents"},
		{"negative debt", func(p *domain.Profile) { p.TotalDebt = -1 }, "total_debt"},
		{"negative savings", func(p *domain.Profile) { p.AvailableSavings = -1 }, "available_savings"},
		{"negative existing cover", func(p *domain.Profile) { p.ExistingLifeInsurance = -1 }, "existing_life_insurance"},
		{"zero replacement years", func(p *domain.Profile) { p.IncomeReplacementYears = 0 }, "income_replacement_years"},
		{"empty currency", func(p *domain.Profile) { p.Currency = "" }, "currency"},
		{"short currency", func(p *domain.Profile) { p.Currency = "US" }, "currency"},
		{"numeric currency", func(p *domain.Profile) { p.Currency = "U5D" }, "currency"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := advisortesting.NewProfileFixture()
			tt.mod(&raw)

			_, err := v.Validate(raw)
			require.Error(t, err)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "error must be a ValidationError")
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	v := NewValidator()
	raw := advisortesting.NewProfileFixture()
	raw.Currency = "usd"

	_, err := v.Validate(raw)
	require.NoError(t, err)

	// The input is untouched; validation returns a normalized copy.
	assert.Equal(t, "usd", raw.Currency)
}
