package advisor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aristath/advisor/internal/domain"
	advisortesting "github.com/aristath/advisor/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordFixture(id string) domain.AdviceRecord {
	return domain.AdviceRecord{
		ID:      id,
		Profile: advisortesting.NewProfileFixture(),
		Coverage: domain.CoverageResult{
			CoverageAmount:   900000,
			CoverageCurrency: "USD",
		},
		Recommendations: advisortesting.NewRecommendationFixtures(),
		ResearchNotes:   "notes",
		ReasoningNotes:  "reasoning",
		Timestamp:       time.Now().UTC(),
	}
}

// historyStores returns every HistoryStore implementation under test.
func historyStores(t *testing.T) map[string]domain.HistoryStore {
	t.Helper()

	db, cleanup := advisortesting.NewTestDB(t, "history")
	t.Cleanup(cleanup)

	return map[string]domain.HistoryStore{
		"memory": NewMemoryHistory(),
		"sqlite": NewSQLiteHistory(db.Conn()),
	}
}

func TestHistoryAppendAndListAll(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Append(newRecordFixture("a")))
			require.NoError(t, store.Append(newRecordFixture("b")))

			records, err := store.ListAll()
			require.NoError(t, err)

			require.Len(t, records, 2)
			assert.Equal(t, "a", records[0].ID)
			assert.Equal(t, "b", records[1].ID)
		})
	}
}

func TestHistorySnapshotSemantics(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Append(newRecordFixture("a")))

			first, err := store.ListAll()
			require.NoError(t, err)
			second, err := store.ListAll()
			require.NoError(t, err)
			assert.Equal(t, first, second, "repeated reads with no append must be equal")

			require.NoError(t, store.Append(newRecordFixture("b")))

			after, err := store.ListAll()
			require.NoError(t, err)
			assert.Len(t, first, 1, "earlier snapshot must not grow")
			require.Len(t, after, 2)
			assert.Equal(t, "b", after[1].ID, "new record must be last")
		})
	}
}

func TestHistoryClear(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Append(newRecordFixture("a")))
			require.NoError(t, store.Clear())

			records, err := store.ListAll()
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestMemoryHistorySnapshotDoesNotAliasRecommendations(t *testing.T) {
	store := NewMemoryHistory()
	require.NoError(t, store.Append(newRecordFixture("a")))

	records, err := store.ListAll()
	require.NoError(t, err)
	records[0].Recommendations[0].Name = "mutated"

	again, err := store.ListAll()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Recommendations[0].Name)
}

func TestMemoryHistoryConcurrentAppends(t *testing.T) {
	store := NewMemoryHistory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(newRecordFixture(fmt.Sprintf("r%d", i)))
		}(i)
	}
	wg.Wait()

	records, err := store.ListAll()
	require.NoError(t, err)
	assert.Len(t, records, 50)
}
