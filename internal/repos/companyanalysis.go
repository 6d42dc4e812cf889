package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

// IdentifierKind selects which key column a lookup runs against.
type IdentifierKind string

const (
	IdentifierCompanyURL         IdentifierKind = "company_url"
	IdentifierLinkedinCompanyURL IdentifierKind = "linkedin_company_url"
)

// CompanyAnalysisRepo is the sole writer of the shared
// linkedin_company_analysis table. Both tools go through SaveResearch, which
// normalizes the overlapping identifier columns before any write: company_url
// is NOT NULL at the storage layer, so when only linkedin_company_url is
// known it is copied across. Writing without either identifier fails with
// ErrMissingRequiredField instead of a silent insert failure.
type CompanyAnalysisRepo interface {
	SaveResearch(ctx context.Context, tx *gorm.DB, rec *types.CompanyAnalysis) (*types.CompanyAnalysis, error)
	SetClassification(ctx context.Context, tx *gorm.DB, linkedinURL, researchType string, competitorOf *string) error
	FindByIdentifier(ctx context.Context, tx *gorm.DB, kind IdentifierKind, value string) (*types.CompanyAnalysis, error)
	ListAll(ctx context.Context, tx *gorm.DB, limit int) ([]*types.CompanyAnalysis, error)
	ListCompetitors(ctx context.Context, tx *gorm.DB, mainLinkedinURL string) ([]*types.CompanyAnalysis, error)
	DeleteByCompanyURL(ctx context.Context, tx *gorm.DB, companyURL string) error
}

type companyAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) CompanyAnalysisRepo {
	repoLog := baseLog.With("repo", "CompanyAnalysisRepo")
	return &companyAnalysisRepo{db: db, log: repoLog}
}

func (cr *companyAnalysisRepo) SaveResearch(ctx context.Context, tx *gorm.DB, rec *types.CompanyAnalysis) (*types.CompanyAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if rec == nil {
		return nil, missingField("company_url")
	}

	linkedinURL := ""
	if rec.LinkedinCompanyURL != nil {
		linkedinURL = *rec.LinkedinCompanyURL
	}
	explicitCompanyURL := rec.CompanyURL != ""

	// Identifier normalization: the research tool only knows the LinkedIn
	// URL, but company_url is NOT NULL in the store.
	if rec.CompanyURL == "" && linkedinURL != "" {
		rec.CompanyURL = linkedinURL
	}
	if rec.CompanyURL == "" {
		return nil, missingField("company_url")
	}

	// The identifier that drove the write decides both the lookup and which
	// unique index a duplicate failure is attributed to.
	kind := IdentifierCompanyURL
	value := rec.CompanyURL
	if linkedinURL != "" {
		kind = IdentifierLinkedinCompanyURL
		value = linkedinURL
	}

	existing, err := cr.FindByIdentifier(ctx, transaction, kind, value)
	if err != nil && !errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if rec.ResearchType == "" {
			rec.ResearchType = types.ResearchTypePrimary
		}
		if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
			cr.log.Error("Failed to create company analysis", "identifier", value, "error", err)
			return nil, mapStorageError(err, string(kind))
		}
		return rec, nil
	}

	updates := map[string]interface{}{}
	if explicitCompanyURL {
		updates["company_url"] = rec.CompanyURL
	}
	if rec.LinkedinCompanyURL != nil {
		updates["linkedin_company_url"] = *rec.LinkedinCompanyURL
	}
	if rec.WebsiteURL != nil {
		updates["website_url"] = *rec.WebsiteURL
	}
	if rec.CompanyName != nil {
		updates["company_name"] = *rec.CompanyName
	}
	if rec.GrokResearch != nil {
		updates["grok_research"] = rec.GrokResearch
	}
	if rec.ClaudeResearch != nil {
		updates["claude_research"] = rec.ClaudeResearch
	}
	if rec.VoiceProfile != nil {
		updates["voice_profile"] = rec.VoiceProfile
	}
	if rec.ContentPillars != nil {
		updates["content_pillars"] = rec.ContentPillars
	}
	if rec.EngagementMetrics != nil {
		updates["engagement_metrics"] = rec.EngagementMetrics
	}
	if rec.TopPosts != nil {
		updates["top_posts"] = rec.TopPosts
	}
	if rec.PostsAnalyzed != nil {
		updates["posts_analyzed"] = *rec.PostsAnalyzed
	}
	if rec.RankedKeywords != nil {
		updates["ranked_keywords"] = rec.RankedKeywords
	}
	if rec.RankedKeywordsDomain != nil {
		updates["ranked_keywords_domain"] = *rec.RankedKeywordsDomain
	}
	if rec.AIPerception != nil {
		updates["ai_perception"] = rec.AIPerception
	}
	if rec.AnalysisModel != nil {
		updates["analysis_model"] = *rec.AnalysisModel
	}
	// research_type and competitor_of are deliberately absent here: the
	// classification is fixed at first creation and only changes through
	// SetClassification.

	if len(updates) > 0 {
		if err := transaction.WithContext(ctx).
			Model(&types.CompanyAnalysis{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			cr.log.Error("Failed to update company analysis", "identifier", value, "error", err)
			return nil, mapStorageError(err, string(kind))
		}
	}

	return cr.FindByIdentifier(ctx, transaction, kind, value)
}

func (cr *companyAnalysisRepo) SetClassification(ctx context.Context, tx *gorm.DB, linkedinURL, researchType string, competitorOf *string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if linkedinURL == "" {
		return missingField("linkedin_company_url")
	}
	updates := map[string]interface{}{
		"research_type": researchType,
		"competitor_of": competitorOf,
	}
	result := transaction.WithContext(ctx).
		Model(&types.CompanyAnalysis{}).
		Where("linkedin_company_url = ?", linkedinURL).
		Updates(updates)
	if result.Error != nil {
		return mapStorageError(result.Error, "linkedin_company_url")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (cr *companyAnalysisRepo) FindByIdentifier(ctx context.Context, tx *gorm.DB, kind IdentifierKind, value string) (*types.CompanyAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if value == "" {
		return nil, missingField(string(kind))
	}

	var column string
	switch kind {
	case IdentifierCompanyURL:
		column = "company_url"
	case IdentifierLinkedinCompanyURL:
		column = "linkedin_company_url"
	default:
		return nil, missingField(string(kind))
	}

	var result types.CompanyAnalysis
	if err := transaction.WithContext(ctx).
		Where(column+" = ?", value).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, mapStorageError(err, column)
	}
	return &result, nil
}

func (cr *companyAnalysisRepo) ListAll(ctx context.Context, tx *gorm.DB, limit int) ([]*types.CompanyAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if limit <= 0 {
		limit = 100
	}

	var results []*types.CompanyAnalysis
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, mapStorageError(err, "")
	}
	return results, nil
}

func (cr *companyAnalysisRepo) ListCompetitors(ctx context.Context, tx *gorm.DB, mainLinkedinURL string) ([]*types.CompanyAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.CompanyAnalysis
	if err := transaction.WithContext(ctx).
		Where("competitor_of = ?", mainLinkedinURL).
		Where("research_type = ?", types.ResearchTypeCompetitor).
		Find(&results).Error; err != nil {
		return nil, mapStorageError(err, "")
	}
	return results, nil
}

func (cr *companyAnalysisRepo) DeleteByCompanyURL(ctx context.Context, tx *gorm.DB, companyURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if companyURL == "" {
		return missingField("company_url")
	}

	if err := transaction.WithContext(ctx).
		Where("company_url = ?", companyURL).
		Delete(&types.CompanyAnalysis{}).Error; err != nil {
		return mapStorageError(err, "company_url")
	}
	return nil
}
