package advisor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aristath/advisor/internal/domain"
	advisortesting "github.com/aristath/advisor/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRateProvider is a mock exchange rate provider for testing
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(fromCurrency, toCurrency string) (float64, error) {
	args := m.Called(fromCurrency, toCurrency)
	return args.Get(0).(float64), args.Error(1)
}

func newTestCompareService(history domain.HistoryStore, rates domain.ExchangeRateProvider) *CompareService {
	reasoning := &MockReasoningClient{}
	research := &MockResearchClient{}

	reasoning.On("Explain", mock.Anything, mock.Anything, mock.Anything).Return("rationale", nil)
	research.On("FindPlans", mock.Anything, mock.Anything, mock.Anything).
		Return(advisortesting.NewRecommendationFixtures(), "notes", nil)

	pipeline := newTestPipeline(reasoning, research, history)
	return NewCompareService(pipeline, NewValidator(), rates, 4, zerolog.Nop())
}

func profilesFixture(n int) []domain.Profile {
	profiles := make([]domain.Profile, 0, n)
	for i := 0; i < n; i++ {
		p := advisortesting.NewProfileFixture()
		// Distinct incomes make output order observable
		p.AnnualIncome = float64(50000 + i*10000)
		profiles = append(profiles, p)
	}
	return profiles
}

func TestComparePreservesInputOrder(t *testing.T) {
	history := NewMemoryHistory()
	svc := newTestCompareService(history, nil)

	profiles := profilesFixture(6)

	entries, err := svc.Compare(context.Background(), profiles, "")
	require.NoError(t, err)

	require.Len(t, entries, len(profiles))
	for i, entry := range entries {
		assert.Equal(t, profiles[i].AnnualIncome, entry.Profile.AnnualIncome, "entry %d out of order", i)
	}

	stored, err := history.ListAll()
	require.NoError(t, err)
	assert.Len(t, stored, len(profiles), "every comparison run is recorded")
}

func TestCompareEmptyBatchFails(t *testing.T) {
	history := NewMemoryHistory()
	svc := newTestCompareService(history, nil)

	_, err := svc.Compare(context.Background(), nil, "")
	require.Error(t, err)

	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))

	stored, err := history.ListAll()
	require.NoError(t, err)
	assert.Empty(t, stored, "empty batch must not touch history")
}

func TestCompareFailsWholeBatchOnInvalidProfile(t *testing.T) {
	history := NewMemoryHistory()
	svc := newTestCompareService(history, nil)

	profiles := profilesFixture(3)
	profiles[1].Currency = "nope"

	_, err := svc.Compare(context.Background(), profiles, "")
	require.Error(t, err)

	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))

	stored, err := history.ListAll()
	require.NoError(t, err)
	assert.Empty(t, stored, "invalid batch must not run any pipeline")
}

func TestCompareNormalizesCoverage(t *testing.T) {
	history := NewMemoryHistory()
	rates := &MockRateProvider{}
	rates.On("GetRate", "USD", "EUR").Return(0.9, nil)

	svc := newTestCompareService(history, rates)

	entries, err := svc.Compare(context.Background(), profilesFixture(2), "EUR")
	require.NoError(t, err)

	for _, entry := range entries {
		require.NotNil(t, entry.CoverageNormalized)
		assert.Equal(t, "EUR", entry.CoverageNormalized.Currency)
		assert.InDelta(t, entry.Coverage.CoverageAmount*0.9, entry.CoverageNormalized.Amount, 0.001)
	}
}

func TestCompareNormalizationDegradesPerEntry(t *testing.T) {
	history := NewMemoryHistory()
	rates := &MockRateProvider{}
	rates.On("GetRate", "USD", "EUR").Return(0.0, errors.New("rates down"))

	svc := newTestCompareService(history, rates)

	entries, err := svc.Compare(context.Background(), profilesFixture(2), "EUR")
	require.NoError(t, err, "rate failure must not fail the batch")

	for _, entry := range entries {
		assert.Nil(t, entry.CoverageNormalized)
		assert.Equal(t, "exchange rate unavailable", entry.NormalizationNote)
	}
}

func TestCompareBoundsConcurrency(t *testing.T) {
	history := NewMemoryHistory()

	reasoning := &MockReasoningClient{}
	research := &MockResearchClient{}
	reasoning.On("Explain", mock.Anything, mock.Anything, mock.Anything).
		After(50*time.Millisecond).Return("rationale", nil)
	research.On("FindPlans", mock.Anything, mock.Anything, mock.Anything).
		Return(advisortesting.NewRecommendationFixtures(), "notes", nil)

	pipeline := newTestPipeline(reasoning, research, history)
	svc := NewCompareService(pipeline, NewValidator(), nil, 2, zerolog.Nop())

	entries, err := svc.Compare(context.Background(), profilesFixture(4), "")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestComparePropagatesUpstreamError(t *testing.T) {
	history := NewMemoryHistory()

	reasoning := &MockReasoningClient{}
	research := &MockResearchClient{}
	reasoning.On("Explain", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("model offline"))
	research.On("FindPlans", mock.Anything, mock.Anything, mock.Anything).
		Return(advisortesting.NewRecommendationFixtures(), "notes", nil)

	pipeline := newTestPipeline(reasoning, research, history)
	svc := NewCompareService(pipeline, NewValidator(), nil, 4, zerolog.Nop())

	_, err := svc.Compare(context.Background(), profilesFixture(2), "")
	require.Error(t, err)

	var uErr *domain.UpstreamError
	require.True(t, errors.As(err, &uErr))
	assert.Equal(t, domain.StageReasoning, uErr.Stage)
}
