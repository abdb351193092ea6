package clientdata

import (
	"encoding/json"
	"testing"
	"time"

	advisortesting "github.com/aristath/advisor/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestStoreAndGetIfFresh(t *testing.T) {
	db, cleanup := advisortesting.NewTestDB(t, "client_data")
	defer cleanup()

	repo := NewRepository(db.Conn())

	type payload struct {
		Rate float64 `json:"rate"`
	}

	require.NoError(t, repo.Store("exchangerate", "USD:EUR", payload{Rate: 0.92}, TTLExchangeRate))

	data, err := repo.GetIfFresh("exchangerate", "USD:EUR")
	require.NoError(t, err)
	require.NotNil(t, data)

	var got payload
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 0.92, got.Rate)
}

func TestGetIfFreshMissReturnsNil(t *testing.T) {
	db, cleanup := advisortesting.NewTestDB(t, "client_data")
	defer cleanup()

	repo := NewRepository(db.Conn())

	data, err := repo.GetIfFresh("plan_search", "nowhere")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestExpiredEntryIsStaleButRetrievable(t *testing.T) {
	db, cleanup := advisortesting.NewTestDB(t, "client_data")
	defer cleanup()

	repo := NewRepository(db.Conn())

	// Negative TTL stores an already-expired entry
	require.NoError(t, repo.Store("plan_search", "Austin, TX", map[string]string{"note": "stale"}, -time.Hour))

	fresh, err := repo.GetIfFresh("plan_search", "Austin, TX")
	require.NoError(t, err)
	assert.Nil(t, fresh, "expired entry must not be returned as fresh")

	stale, err := repo.Get("plan_search", "Austin, TX")
	require.NoError(t, err)
	assert.NotNil(t, stale, "expired entry must remain available as stale fallback")
}

func TestDeleteExpired(t *testing.T) {
	db, cleanup := advisortesting.NewTestDB(t, "client_data")
	defer cleanup()

	repo := NewRepository(db.Conn())

	require.NoError(t, repo.Store("exchangerate", "USD:EUR", map[string]float64{"rate": 0.9}, -time.Hour))
	require.NoError(t, repo.Store("exchangerate", "USD:GBP", map[string]float64{"rate": 0.8}, time.Hour))

	deleted, err := repo.DeleteExpired("exchangerate")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	fresh, err := repo.GetIfFresh("exchangerate", "USD:GBP")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
}

func TestInvalidTableRejected(t *testing.T) {
	db, cleanup := advisortesting.NewTestDB(t, "client_data")
	defer cleanup()

	repo := NewRepository(db.Conn())

	err := repo.Store("advice_records; DROP TABLE exchangerate", "x", "y", time.Hour)
	assert.Error(t, err)

	_, err = repo.GetIfFresh("unknown_table", "x")
	assert.Error(t, err)
}

func TestCleanupJobRun(t *testing.T) {
	db, cleanup := advisortesting.NewTestDB(t, "client_data")
	defer cleanup()

	repo := NewRepository(db.Conn())
	require.NoError(t, repo.Store("gemini_advice", "hash1", map[string]string{"v": "old"}, -time.Minute))

	job := NewCleanupJob(repo, testLogger())
	require.NoError(t, job.Run())

	stale, err := repo.Get("gemini_advice", "hash1")
	require.NoError(t, err)
	assert.Nil(t, stale, "cleanup must remove expired entries")
}
