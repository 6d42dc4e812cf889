package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CompanyAnalysis is the shared company-research row written by both the
// company-intelligence and company-research tools. CompanyURL is the legacy
// NOT NULL key; LinkedinCompanyURL is the research tool's preferred key.
type CompanyAnalysis struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyURL           string         `gorm:"uniqueIndex;not null;column:company_url" json:"company_url"`
	LinkedinCompanyURL   *string        `gorm:"uniqueIndex;column:linkedin_company_url" json:"linkedin_company_url,omitempty"`
	WebsiteURL           *string        `gorm:"column:website_url" json:"website_url,omitempty"`
	CompanyName          *string        `gorm:"column:company_name" json:"company_name,omitempty"`
	GrokResearch         datatypes.JSON `gorm:"type:jsonb;column:grok_research" json:"grok_research,omitempty"`
	ClaudeResearch       datatypes.JSON `gorm:"type:jsonb;column:claude_research" json:"claude_research,omitempty"`
	CompetitorOf         *string        `gorm:"index;column:competitor_of" json:"competitor_of,omitempty"`
	ResearchType         string         `gorm:"index;column:research_type;default:primary" json:"research_type"`
	VoiceProfile         datatypes.JSON `gorm:"type:jsonb;column:voice_profile" json:"voice_profile,omitempty"`
	ContentPillars       datatypes.JSON `gorm:"type:jsonb;column:content_pillars" json:"content_pillars,omitempty"`
	EngagementMetrics    datatypes.JSON `gorm:"type:jsonb;column:engagement_metrics" json:"engagement_metrics,omitempty"`
	TopPosts             datatypes.JSON `gorm:"type:jsonb;column:top_posts" json:"top_posts,omitempty"`
	PostsAnalyzed        *int           `gorm:"column:posts_analyzed" json:"posts_analyzed,omitempty"`
	RankedKeywords       datatypes.JSON `gorm:"type:jsonb;column:ranked_keywords" json:"ranked_keywords,omitempty"`
	RankedKeywordsDomain *string        `gorm:"column:ranked_keywords_domain" json:"ranked_keywords_domain,omitempty"`
	AIPerception         datatypes.JSON `gorm:"type:jsonb;column:ai_perception" json:"ai_perception,omitempty"`
	AnalysisModel        *string        `gorm:"column:analysis_model" json:"analysis_model,omitempty"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
}

func (CompanyAnalysis) TableName() string {
	return "linkedin_company_analysis"
}

const (
	ResearchTypePrimary    = "primary"
	ResearchTypeCompetitor = "competitor"
)
