package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/clients/dataforseo"
	rediscache "github.com/sambasci/marketing-tools-backend/internal/clients/redis"
	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

// KeywordReport is one keyword's fetched metrics plus the derived scores the
// dashboard shows.
type KeywordReport struct {
	Keyword          string                    `json:"keyword"`
	SearchVolume     int                       `json:"search_volume"`
	Competition      float64                   `json:"competition"`
	CompetitionLevel string                    `json:"competition_level"`
	CPC              float64                   `json:"cpc"`
	MonthlySearches  []dataforseo.MonthlySearch `json:"monthly_searches,omitempty"`
	OpportunityScore float64                   `json:"opportunity_score"`
	GrowthRate       float64                   `json:"growth_rate"`
	Seasonality      Seasonality               `json:"seasonality"`
	Recommendation   string                    `json:"recommendation"`
}

type KeywordResearchService interface {
	Lookup(ctx context.Context, keyword string) (*KeywordReport, error)
	Suggestions(ctx context.Context, seed string, limit int) ([]KeywordReport, error)
	ForSite(ctx context.Context, site string, limit int) ([]KeywordReport, error)
	Save(ctx context.Context, reports []KeywordReport) error
	ListSaved(ctx context.Context, limit int) ([]*types.Keyword, error)
}

type keywordResearchService struct {
	db          *gorm.DB
	log         *logger.Logger
	client      dataforseo.Client
	cache       *rediscache.Cache
	cacheTTL    time.Duration
	keywordRepo repos.KeywordRepo
}

func NewKeywordResearchService(
	db *gorm.DB,
	log *logger.Logger,
	client dataforseo.Client,
	cache *rediscache.Cache,
	cacheTTL time.Duration,
	keywordRepo repos.KeywordRepo,
) KeywordResearchService {
	serviceLog := log.With("service", "KeywordResearchService")
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &keywordResearchService{
		db:          db,
		log:         serviceLog,
		client:      client,
		cache:       cache,
		cacheTTL:    cacheTTL,
		keywordRepo: keywordRepo,
	}
}

func (ks *keywordResearchService) requireClient() error {
	if ks.client == nil {
		return fmt.Errorf("%w: DATAFORSEO_LOGIN and DATAFORSEO_PASSWORD must be set for keyword research", pkgerrors.ErrMissingConfiguration)
	}
	return nil
}

func buildReport(m dataforseo.KeywordMetrics) KeywordReport {
	return KeywordReport{
		Keyword:          m.Keyword,
		SearchVolume:     m.SearchVolume,
		Competition:      m.Competition(),
		CompetitionLevel: m.CompetitionLevel,
		CPC:              m.CPC,
		MonthlySearches:  m.MonthlySearches,
		OpportunityScore: OpportunityScore(m),
		GrowthRate:       GrowthRate(m),
		Seasonality:      DetectSeasonality(m),
		Recommendation:   Recommendation(m),
	}
}

func (ks *keywordResearchService) Lookup(ctx context.Context, keyword string) (*KeywordReport, error) {
	if keyword == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if err := ks.requireClient(); err != nil {
		return nil, err
	}

	cacheKey := "keywords:volume:" + keyword
	var cached KeywordReport
	if ks.cache.GetJSON(ctx, cacheKey, &cached) {
		ks.log.Debug("Keyword served from cache", "keyword", keyword)
		return &cached, nil
	}

	metrics, raw, err := ks.client.SearchVolume(ctx, keyword)
	if err != nil {
		return nil, err
	}
	report := buildReport(*metrics)

	monthly, _ := jsonMarshal(metrics.MonthlySearches)
	row := &types.Keyword{
		Keyword:          report.Keyword,
		SearchVolume:     report.SearchVolume,
		Competition:      report.Competition,
		CompetitionLevel: report.CompetitionLevel,
		CPC:              report.CPC,
		OpportunityScore: report.OpportunityScore,
		GrowthRate:       report.GrowthRate,
		MonthlySearches:  monthly,
		RawResponse:      datatypes.JSON(raw),
	}
	if _, err := ks.keywordRepo.Upsert(ctx, nil, []*types.Keyword{row}); err != nil {
		// Persistence failures surface: a lookup the user believes is
		// saved must not silently vanish.
		return nil, err
	}

	ks.cache.SetJSON(ctx, cacheKey, report, ks.cacheTTL)
	return &report, nil
}

func (ks *keywordResearchService) Suggestions(ctx context.Context, seed string, limit int) ([]KeywordReport, error) {
	if seed == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if err := ks.requireClient(); err != nil {
		return nil, err
	}

	items, err := ks.client.KeywordSuggestions(ctx, seed, limit)
	if err != nil {
		return nil, err
	}
	reports := make([]KeywordReport, 0, len(items))
	for _, m := range items {
		reports = append(reports, buildReport(m))
	}
	return reports, nil
}

func (ks *keywordResearchService) ForSite(ctx context.Context, site string, limit int) ([]KeywordReport, error) {
	if site == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if err := ks.requireClient(); err != nil {
		return nil, err
	}

	items, err := ks.client.KeywordsForSite(ctx, site, limit)
	if err != nil {
		return nil, err
	}
	reports := make([]KeywordReport, 0, len(items))
	for _, m := range items {
		reports = append(reports, buildReport(m))
	}
	return reports, nil
}

func (ks *keywordResearchService) Save(ctx context.Context, reports []KeywordReport) error {
	if len(reports) == 0 {
		return nil
	}
	rows := make([]*types.Keyword, 0, len(reports))
	for _, r := range reports {
		monthly, _ := jsonMarshal(r.MonthlySearches)
		rows = append(rows, &types.Keyword{
			Keyword:          r.Keyword,
			SearchVolume:     r.SearchVolume,
			Competition:      r.Competition,
			CompetitionLevel: r.CompetitionLevel,
			CPC:              r.CPC,
			OpportunityScore: r.OpportunityScore,
			GrowthRate:       r.GrowthRate,
			MonthlySearches:  monthly,
		})
	}
	_, err := ks.keywordRepo.Upsert(ctx, nil, rows)
	return err
}

func (ks *keywordResearchService) ListSaved(ctx context.Context, limit int) ([]*types.Keyword, error) {
	return ks.keywordRepo.ListRecent(ctx, nil, limit)
}
