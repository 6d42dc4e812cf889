package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/sambasci/marketing-tools-backend/internal/clients/dataforseo"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Seasonality describes monthly volume swings for a keyword.
type Seasonality struct {
	IsSeasonal bool     `json:"is_seasonal"`
	PeakMonths []string `json:"peak_months"`
	LowMonths  []string `json:"low_months"`
}

// OpportunityScore scores a keyword 0-10: volume scaled by recent growth,
// discounted by competition.
func OpportunityScore(m dataforseo.KeywordMetrics) float64 {
	volume := float64(m.SearchVolume)
	competition := m.Competition()
	if competition == 0 {
		competition = 0.5
	}

	growthFactor := 1.0
	if len(m.MonthlySearches) >= 2 {
		recent := float64(m.MonthlySearches[0].SearchVolume)
		old := float64(m.MonthlySearches[len(m.MonthlySearches)-1].SearchVolume)
		if old > 0 {
			growthFactor = recent / old
		}
	}

	score := (volume * growthFactor) / (competition * 100)
	return math.Round(math.Min(score, 10.0)*10) / 10
}

// GrowthRate is the percentage volume change from the oldest to the newest
// month on record.
func GrowthRate(m dataforseo.KeywordMetrics) float64 {
	if len(m.MonthlySearches) < 2 {
		return 0.0
	}
	recent := float64(m.MonthlySearches[0].SearchVolume)
	old := float64(m.MonthlySearches[len(m.MonthlySearches)-1].SearchVolume)
	if old == 0 {
		return 0.0
	}
	return math.Round(((recent-old)/old)*100*10) / 10
}

// DetectSeasonality flags months more than 25% above or below the yearly
// average. Less than a year of data is never called seasonal.
func DetectSeasonality(m dataforseo.KeywordMetrics) Seasonality {
	monthly := m.MonthlySearches
	if len(monthly) < 12 {
		return Seasonality{PeakMonths: []string{}, LowMonths: []string{}}
	}

	total := 0
	for _, entry := range monthly {
		total += entry.SearchVolume
	}
	avg := float64(total) / float64(len(monthly))
	if avg == 0 {
		return Seasonality{PeakMonths: []string{}, LowMonths: []string{}}
	}

	peaks := []string{}
	lows := []string{}
	for _, entry := range monthly {
		if entry.Month < 1 || entry.Month > 12 {
			continue
		}
		vol := float64(entry.SearchVolume)
		if vol > avg*1.25 {
			peaks = append(peaks, monthNames[entry.Month-1])
		} else if vol < avg*0.75 {
			lows = append(lows, monthNames[entry.Month-1])
		}
	}

	return Seasonality{
		IsSeasonal: len(peaks) > 0 || len(lows) > 0,
		PeakMonths: peaks,
		LowMonths:  lows,
	}
}

// Recommendation renders an actionable one-liner from the derived metrics.
func Recommendation(m dataforseo.KeywordMetrics) string {
	score := OpportunityScore(m)
	growth := GrowthRate(m)
	seasonality := DetectSeasonality(m)
	competition := strings.ToUpper(m.CompetitionLevel)

	var b strings.Builder
	switch {
	case score >= 7.0:
		b.WriteString("Excellent opportunity! ")
	case score >= 4.0:
		b.WriteString("Good opportunity with caveats. ")
	default:
		b.WriteString("Difficult keyword. ")
	}

	if growth > 10 {
		fmt.Fprintf(&b, "Growing fast (+%.1f%%). ", growth)
	} else if growth < -10 {
		fmt.Fprintf(&b, "Declining (%.1f%%). ", growth)
	}

	if seasonality.IsSeasonal && len(seasonality.PeakMonths) > 0 {
		peaks := seasonality.PeakMonths
		if len(peaks) > 3 {
			peaks = peaks[:3]
		}
		fmt.Fprintf(&b, "Peaks in %s. ", strings.Join(peaks, ", "))
	}

	if competition == "HIGH" {
		b.WriteString("High competition - consider long-tail variations.")
	} else if competition == "LOW" {
		b.WriteString("Low competition - great for quick wins!")
	}

	return strings.TrimSpace(b.String())
}
