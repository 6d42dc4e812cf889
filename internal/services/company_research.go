package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/clients/anthropic"
	"github.com/sambasci/marketing-tools-backend/internal/clients/xai"
	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

const researchSummaryLimit = 2000

// ResearchOutcome reports each research phase separately so one provider
// failing does not discard the other's results.
type ResearchOutcome struct {
	CompanyName string                 `json:"company_name"`
	Steps       map[string]StepResult  `json:"steps"`
	Analysis    *types.CompanyAnalysis `json:"analysis,omitempty"`
}

// CompanyResearchService is the deep-research tool: Grok for social/community
// signal, Claude with web tools for website and industry analysis.
type CompanyResearchService interface {
	ResearchCompany(ctx context.Context, linkedinURL, websiteURL, companyName string, competitors []string) (*ResearchOutcome, error)
	ResearchCompetitor(ctx context.Context, mainLinkedinURL, competitorLinkedinURL, competitorName string) (*ResearchOutcome, error)
	Competitors(ctx context.Context, mainLinkedinURL string) ([]*types.CompanyAnalysis, error)
	SynthesizeReport(ctx context.Context, linkedinURL string) (string, error)
}

type companyResearchService struct {
	db              *gorm.DB
	log             *logger.Logger
	grokClient      xai.Client
	anthropicClient anthropic.Client
	analysisRepo    repos.CompanyAnalysisRepo
}

func NewCompanyResearchService(
	db *gorm.DB,
	log *logger.Logger,
	grokClient xai.Client,
	anthropicClient anthropic.Client,
	analysisRepo repos.CompanyAnalysisRepo,
) CompanyResearchService {
	serviceLog := log.With("service", "CompanyResearchService")
	return &companyResearchService{
		db:              db,
		log:             serviceLog,
		grokClient:      grokClient,
		anthropicClient: anthropicClient,
		analysisRepo:    analysisRepo,
	}
}

func (rs *companyResearchService) requireClients() error {
	if rs.grokClient == nil && rs.anthropicClient == nil {
		return fmt.Errorf("%w: XAI_API_KEY or ANTHROPIC_API_KEY must be set for company research", pkgerrors.ErrMissingConfiguration)
	}
	return nil
}

// runResearch runs both providers and saves each result as soon as it
// arrives, keyed only by the LinkedIn URL. The storage layer fills in the
// company_url column from it on first write.
func (rs *companyResearchService) runResearch(ctx context.Context, linkedinURL, websiteURL, companyName string, competitors []string) (*ResearchOutcome, error) {
	linkedinURL = strings.TrimSpace(linkedinURL)
	if linkedinURL == "" {
		return nil, fmt.Errorf("%w: LinkedIn company URL is required", pkgerrors.ErrInvalidArgument)
	}
	if err := rs.requireClients(); err != nil {
		return nil, err
	}
	if companyName == "" {
		companyName = CompanyNameFromLinkedinURL(linkedinURL)
	}
	researchTarget := linkedinURL
	if websiteURL != "" {
		researchTarget = websiteURL
	}

	outcome := &ResearchOutcome{
		CompanyName: companyName,
		Steps:       map[string]StepResult{},
	}

	base := &types.CompanyAnalysis{
		LinkedinCompanyURL: &linkedinURL,
		CompanyName:        &companyName,
	}
	if websiteURL != "" {
		base.WebsiteURL = &websiteURL
	}
	saved, err := rs.analysisRepo.SaveResearch(ctx, nil, base)
	if err != nil {
		return nil, err
	}
	outcome.Analysis = saved

	if rs.grokClient != nil {
		grok, err := rs.grokClient.Research(ctx, researchTarget, companyName, competitors)
		if err != nil {
			rs.log.Warn("Grok research failed", "company", companyName, "error", err)
			outcome.Steps["grok"] = StepResult{Status: "failed", Error: err.Error()}
		} else {
			grokJSON, _ := jsonMarshal(grok)
			update := &types.CompanyAnalysis{
				LinkedinCompanyURL: &linkedinURL,
				GrokResearch:       grokJSON,
			}
			if saved, err = rs.analysisRepo.SaveResearch(ctx, nil, update); err != nil {
				outcome.Steps["grok"] = StepResult{Status: "failed", Error: err.Error()}
			} else {
				outcome.Analysis = saved
				outcome.Steps["grok"] = StepResult{Status: "success"}
			}
		}
	} else {
		outcome.Steps["grok"] = StepResult{Status: "skipped", Error: "XAI_API_KEY not configured"}
	}

	if rs.anthropicClient != nil {
		claude, err := rs.anthropicClient.Research(ctx, researchTarget, companyName, competitors)
		if err != nil {
			rs.log.Warn("Claude research failed", "company", companyName, "error", err)
			outcome.Steps["claude"] = StepResult{Status: "failed", Error: err.Error()}
		} else {
			claudeJSON, _ := jsonMarshal(claude)
			update := &types.CompanyAnalysis{
				LinkedinCompanyURL: &linkedinURL,
				ClaudeResearch:     claudeJSON,
			}
			if saved, err = rs.analysisRepo.SaveResearch(ctx, nil, update); err != nil {
				outcome.Steps["claude"] = StepResult{Status: "failed", Error: err.Error()}
			} else {
				outcome.Analysis = saved
				outcome.Steps["claude"] = StepResult{Status: "success"}
			}
		}
	} else {
		outcome.Steps["claude"] = StepResult{Status: "skipped", Error: "ANTHROPIC_API_KEY not configured"}
	}

	return outcome, nil
}

func (rs *companyResearchService) ResearchCompany(ctx context.Context, linkedinURL, websiteURL, companyName string, competitors []string) (*ResearchOutcome, error) {
	return rs.runResearch(ctx, linkedinURL, websiteURL, companyName, competitors)
}

func (rs *companyResearchService) ResearchCompetitor(ctx context.Context, mainLinkedinURL, competitorLinkedinURL, competitorName string) (*ResearchOutcome, error) {
	mainLinkedinURL = strings.TrimSpace(mainLinkedinURL)
	if mainLinkedinURL == "" {
		return nil, fmt.Errorf("%w: main company LinkedIn URL is required", pkgerrors.ErrInvalidArgument)
	}

	outcome, err := rs.runResearch(ctx, competitorLinkedinURL, "", competitorName, nil)
	if err != nil {
		return nil, err
	}

	// Classification is an explicit overwrite so re-researching a competitor
	// never silently promotes it back to a primary record.
	if err := rs.analysisRepo.SetClassification(ctx, nil, competitorLinkedinURL, types.ResearchTypeCompetitor, &mainLinkedinURL); err != nil {
		return nil, err
	}
	outcome.Analysis, err = rs.analysisRepo.FindByIdentifier(ctx, nil, repos.IdentifierLinkedinCompanyURL, competitorLinkedinURL)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (rs *companyResearchService) Competitors(ctx context.Context, mainLinkedinURL string) ([]*types.CompanyAnalysis, error) {
	return rs.analysisRepo.ListCompetitors(ctx, nil, mainLinkedinURL)
}

func (rs *companyResearchService) SynthesizeReport(ctx context.Context, linkedinURL string) (string, error) {
	if rs.anthropicClient == nil {
		return "", fmt.Errorf("%w: ANTHROPIC_API_KEY must be set for report synthesis", pkgerrors.ErrMissingConfiguration)
	}

	analysis, err := rs.analysisRepo.FindByIdentifier(ctx, nil, repos.IdentifierLinkedinCompanyURL, linkedinURL)
	if err != nil {
		return "", err
	}

	grokSummary := truncateForPrompt(string(analysis.GrokResearch), researchSummaryLimit)
	claudeSummary := truncateForPrompt(string(analysis.ClaudeResearch), researchSummaryLimit)
	if grokSummary == "" && claudeSummary == "" {
		return "", fmt.Errorf("%w: no research on record for %q", pkgerrors.ErrNotFound, linkedinURL)
	}

	companyName := linkedinURL
	if analysis.CompanyName != nil && *analysis.CompanyName != "" {
		companyName = *analysis.CompanyName
	}

	prompt := fmt.Sprintf(`Synthesize a strategic marketing report for %s from two research documents.

Social and community research:
%s

Website and industry research:
%s

Produce a structured report with: executive summary, positioning, competitive landscape, content opportunities, and recommended next steps.`,
		companyName, grokSummary, claudeSummary)

	return rs.anthropicClient.Complete(ctx, prompt, 4096)
}

func truncateForPrompt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
