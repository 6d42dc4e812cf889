package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sambasci/marketing-tools-backend/internal/clients/dataforseo"
)

func intPtr(i int) *int { return &i }

func flatYear(volume int) []dataforseo.MonthlySearch {
	months := make([]dataforseo.MonthlySearch, 0, 12)
	for m := 12; m >= 1; m-- {
		months = append(months, dataforseo.MonthlySearch{Year: 2025, Month: m, SearchVolume: volume})
	}
	return months
}

func TestOpportunityScoreDefaultsUnknownCompetitionToMedium(t *testing.T) {
	m := dataforseo.KeywordMetrics{Keyword: "crm software", SearchVolume: 300}
	// 300 / (0.5 * 100) = 6.0
	assert.InDelta(t, 6.0, OpportunityScore(m), 0.01)
}

func TestOpportunityScoreIsCappedAtTen(t *testing.T) {
	m := dataforseo.KeywordMetrics{
		Keyword:          "email marketing",
		SearchVolume:     100000,
		CompetitionIndex: intPtr(10),
	}
	assert.InDelta(t, 10.0, OpportunityScore(m), 0.01)
}

func TestOpportunityScoreScalesWithGrowth(t *testing.T) {
	m := dataforseo.KeywordMetrics{
		Keyword:          "ai agents",
		SearchVolume:     200,
		CompetitionIndex: intPtr(50),
		MonthlySearches: []dataforseo.MonthlySearch{
			{Year: 2025, Month: 12, SearchVolume: 400},
			{Year: 2025, Month: 1, SearchVolume: 100},
		},
	}
	// growth factor 4: (200*4)/(0.5*100) = 16, capped to 10
	assert.InDelta(t, 10.0, OpportunityScore(m), 0.01)
}

func TestGrowthRate(t *testing.T) {
	m := dataforseo.KeywordMetrics{
		MonthlySearches: []dataforseo.MonthlySearch{
			{Year: 2025, Month: 12, SearchVolume: 150},
			{Year: 2025, Month: 1, SearchVolume: 100},
		},
	}
	assert.InDelta(t, 50.0, GrowthRate(m), 0.01)

	assert.Zero(t, GrowthRate(dataforseo.KeywordMetrics{}))
	assert.Zero(t, GrowthRate(dataforseo.KeywordMetrics{
		MonthlySearches: []dataforseo.MonthlySearch{
			{Month: 12, SearchVolume: 100},
			{Month: 1, SearchVolume: 0},
		},
	}))
}

func TestDetectSeasonalityNeedsFullYear(t *testing.T) {
	m := dataforseo.KeywordMetrics{
		MonthlySearches: []dataforseo.MonthlySearch{
			{Month: 1, SearchVolume: 100},
			{Month: 2, SearchVolume: 5000},
		},
	}
	s := DetectSeasonality(m)
	assert.False(t, s.IsSeasonal)
	assert.Empty(t, s.PeakMonths)
}

func TestDetectSeasonalityFlagsPeaksAndLows(t *testing.T) {
	months := flatYear(100)
	// December peak, June trough.
	months[0].SearchVolume = 300
	months[6].SearchVolume = 10

	s := DetectSeasonality(dataforseo.KeywordMetrics{MonthlySearches: months})
	assert.True(t, s.IsSeasonal)
	assert.Contains(t, s.PeakMonths, "Dec")
	assert.Contains(t, s.LowMonths, "Jun")
}

func TestDetectSeasonalityFlatVolumeIsNotSeasonal(t *testing.T) {
	s := DetectSeasonality(dataforseo.KeywordMetrics{MonthlySearches: flatYear(100)})
	assert.False(t, s.IsSeasonal)
}

func TestRecommendationTiers(t *testing.T) {
	excellent := dataforseo.KeywordMetrics{SearchVolume: 100000, CompetitionIndex: intPtr(10)}
	assert.Contains(t, Recommendation(excellent), "Excellent opportunity")

	difficult := dataforseo.KeywordMetrics{SearchVolume: 10, CompetitionIndex: intPtr(90), CompetitionLevel: "HIGH"}
	rec := Recommendation(difficult)
	assert.Contains(t, rec, "Difficult keyword")
	assert.Contains(t, rec, "long-tail")

	low := dataforseo.KeywordMetrics{SearchVolume: 500, CompetitionIndex: intPtr(10), CompetitionLevel: "LOW"}
	assert.Contains(t, Recommendation(low), "quick wins")
}

func TestCompanyNameFromLinkedinURL(t *testing.T) {
	assert.Equal(t, "acme", CompanyNameFromLinkedinURL("https://linkedin.com/company/acme"))
	assert.Equal(t, "acme", CompanyNameFromLinkedinURL("https://linkedin.com/company/acme/"))
	assert.Equal(t, "Unknown Client", CompanyNameFromLinkedinURL("  "))
}
