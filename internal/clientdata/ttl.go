package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Gemini reasoning runs at temperature 0, so a cached answer for the same
	// profile stays valid for a while.
	TTLGeminiAdvice = 24 * time.Hour // 1 day

	// Product search results change slowly but should not go too stale.
	TTLPlanSearch = 12 * time.Hour // 12 hours

	// Currency exchange rates change frequently.
	TTLExchangeRate = time.Hour // 1 hour
)
