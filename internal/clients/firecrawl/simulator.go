package firecrawl

import (
	"context"
	"fmt"

	"github.com/aristath/advisor/internal/domain"
)

// Simulator is a deterministic stand-in for the Firecrawl search API, selected
// via configuration when no API key is present or simulation is forced.
type Simulator struct{}

// NewSimulator creates a simulated research client.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// FindPlans returns a fixed set of plausible term life products. The list is
// deterministic for a given location so repeated requests stay comparable.
func (s *Simulator) FindPlans(_ context.Context, profile domain.Profile, _ domain.CoverageResult) ([]domain.RecommendationItem, string, error) {
	location := profile.Location
	if location == "" {
		location = "your area"
	}

	items := []domain.RecommendationItem{
		{
			Name:    "SecureTerm 20",
			Summary: "20-year level term policy with fixed premiums and accelerated underwriting",
			Link:    "https://example.com/products/secureterm-20",
			Source:  "example.com",
		},
		{
			Name:    "FamilyShield Term",
			Summary: "Term life with optional child and disability riders",
			Link:    "https://example.com/products/familyshield",
			Source:  "example.com",
		},
		{
			Name:    "LifeBridge Essential",
			Summary: "Budget term coverage with simplified issue up to 1M",
			Link:    "https://example.com/products/lifebridge",
			Source:  "example.com",
		},
	}

	notes := fmt.Sprintf("Simulated product search for term life insurance in %s; no live search was performed.", location)

	return items, notes, nil
}
