package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/clients/dataforseo"
	"github.com/sambasci/marketing-tools-backend/internal/clients/linkedin"
	"github.com/sambasci/marketing-tools-backend/internal/clients/openrouter"
	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

const (
	onboardPostLimit   = 50
	onboardKeywordLimit = 500
)

// StepResult is one onboarding step outcome; failed steps carry the error so
// the caller can show partial success.
type StepResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OnboardResult aggregates the client-onboarding pipeline.
type OnboardResult struct {
	CompanyName string                `json:"company_name"`
	Steps       map[string]StepResult `json:"steps"`
	Analysis    *types.CompanyAnalysis `json:"analysis,omitempty"`
}

// CompanyIntelService is the LinkedIn analysis tool: it onboards clients,
// analyzes their posting voice, and generates content in that voice.
type CompanyIntelService interface {
	Onboard(ctx context.Context, linkedinURL, domain string) (*OnboardResult, error)
	GenerateContent(ctx context.Context, companyURL, topic, contentType string) (*types.GeneratedPost, error)
	List(ctx context.Context, limit int) ([]*types.CompanyAnalysis, error)
	Get(ctx context.Context, kind repos.IdentifierKind, value string) (*types.CompanyAnalysis, error)
	Delete(ctx context.Context, companyURL string) error
	ListGeneratedPosts(ctx context.Context, companyURL string, limit int) ([]*types.GeneratedPost, error)
}

type companyIntelService struct {
	db             *gorm.DB
	log            *logger.Logger
	linkedinClient linkedin.Client
	aiClient       openrouter.Client
	seoClient      dataforseo.Client
	analysisModel  string
	analysisRepo   repos.CompanyAnalysisRepo
	postRepo       repos.LinkedinPostRepo
	generatedRepo  repos.GeneratedPostRepo
}

func NewCompanyIntelService(
	db *gorm.DB,
	log *logger.Logger,
	linkedinClient linkedin.Client,
	aiClient openrouter.Client,
	seoClient dataforseo.Client,
	analysisModel string,
	analysisRepo repos.CompanyAnalysisRepo,
	postRepo repos.LinkedinPostRepo,
	generatedRepo repos.GeneratedPostRepo,
) CompanyIntelService {
	serviceLog := log.With("service", "CompanyIntelService")
	if analysisModel == "" {
		analysisModel = openrouter.DefaultModel
	}
	return &companyIntelService{
		db:             db,
		log:            serviceLog,
		linkedinClient: linkedinClient,
		aiClient:       aiClient,
		seoClient:      seoClient,
		analysisModel:  analysisModel,
		analysisRepo:   analysisRepo,
		postRepo:       postRepo,
		generatedRepo:  generatedRepo,
	}
}

// CompanyNameFromLinkedinURL pulls the slug out of a company page URL.
func CompanyNameFromLinkedinURL(linkedinURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(linkedinURL), "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 && idx < len(trimmed)-1 {
		return trimmed[idx+1:]
	}
	if trimmed == "" {
		return "Unknown Client"
	}
	return trimmed
}

func (cs *companyIntelService) Onboard(ctx context.Context, linkedinURL, domain string) (*OnboardResult, error) {
	linkedinURL = strings.TrimSpace(linkedinURL)
	domain = strings.TrimSpace(domain)
	if linkedinURL == "" {
		return nil, fmt.Errorf("%w: client LinkedIn URL is required", pkgerrors.ErrInvalidArgument)
	}
	if domain == "" {
		return nil, fmt.Errorf("%w: client website domain is required", pkgerrors.ErrInvalidArgument)
	}
	if cs.linkedinClient == nil {
		return nil, fmt.Errorf("%w: RAPIDAPI_KEY must be set for LinkedIn analysis", pkgerrors.ErrMissingConfiguration)
	}
	if cs.aiClient == nil {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY must be set for LinkedIn analysis", pkgerrors.ErrMissingConfiguration)
	}

	companyName := CompanyNameFromLinkedinURL(linkedinURL)
	result := &OnboardResult{
		CompanyName: companyName,
		Steps:       map[string]StepResult{},
	}

	// Step 1: fetch and persist the raw posts.
	fetched, err := cs.linkedinClient.FetchCompanyPosts(ctx, linkedinURL)
	if err != nil {
		result.Steps["posts"] = StepResult{Status: "failed", Error: err.Error()}
		return result, err
	}
	if _, err := cs.postRepo.Create(ctx, nil, linkedinURL, datatypes.JSON(fetched.Raw)); err != nil {
		cs.log.Warn("Failed to persist raw posts, continuing", "url", linkedinURL, "error", err)
	}
	result.Steps["posts"] = StepResult{Status: "success"}

	// Step 2: voice, strategy, engagement analysis over the posts.
	postsText := renderPostsForPrompt(fetched.Posts, onboardPostLimit)
	postsAnalyzed := len(fetched.Posts)
	if postsAnalyzed > onboardPostLimit {
		postsAnalyzed = onboardPostLimit
	}

	analysis := &types.CompanyAnalysis{
		CompanyURL:    linkedinURL,
		CompanyName:   &companyName,
		AnalysisModel: &cs.analysisModel,
		PostsAnalyzed: &postsAnalyzed,
	}
	if top := topPostsByReactions(fetched.Posts, 5); len(top) > 0 {
		analysis.TopPosts, _ = jsonMarshal(top)
	}

	voice, err := cs.aiClient.ChatJSON(ctx, cs.analysisModel, voiceProfilePrompt(companyName, postsText), 2000)
	if err != nil {
		result.Steps["voice"] = StepResult{Status: "failed", Error: err.Error()}
	} else {
		analysis.VoiceProfile, _ = jsonMarshal(voice)
		result.Steps["voice"] = StepResult{Status: "success"}
	}

	pillars, err := cs.aiClient.ChatJSON(ctx, cs.analysisModel, contentStrategyPrompt(companyName, postsText), 2000)
	if err != nil {
		result.Steps["strategy"] = StepResult{Status: "failed", Error: err.Error()}
	} else {
		analysis.ContentPillars, _ = jsonMarshal(pillars)
		result.Steps["strategy"] = StepResult{Status: "success"}
	}

	engagement, err := cs.aiClient.ChatJSON(ctx, cs.analysisModel, engagementPrompt(companyName, postsText), 2500)
	if err != nil {
		result.Steps["engagement"] = StepResult{Status: "failed", Error: err.Error()}
	} else {
		analysis.EngagementMetrics, _ = jsonMarshal(engagement)
		result.Steps["engagement"] = StepResult{Status: "success"}
	}

	saved, err := cs.analysisRepo.SaveResearch(ctx, nil, analysis)
	if err != nil {
		// A failed save must never read as a successful onboarding.
		result.Steps["save"] = StepResult{Status: "failed", Error: err.Error()}
		return result, err
	}
	result.Analysis = saved

	// Step 3: ranked keywords for the client domain.
	if cs.seoClient != nil {
		ranked, err := cs.seoClient.RankedKeywords(ctx, domain, onboardKeywordLimit, false, nil)
		if err != nil {
			result.Steps["keywords"] = StepResult{Status: "failed", Error: err.Error()}
		} else {
			rankedJSON, _ := jsonMarshal(ranked)
			update := &types.CompanyAnalysis{
				CompanyURL:           linkedinURL,
				RankedKeywords:       rankedJSON,
				RankedKeywordsDomain: &domain,
			}
			if saved, err = cs.analysisRepo.SaveResearch(ctx, nil, update); err != nil {
				result.Steps["keywords"] = StepResult{Status: "failed", Error: err.Error()}
			} else {
				result.Analysis = saved
				result.Steps["keywords"] = StepResult{Status: "success"}
			}
		}

		// Step 4: AI perception of the company.
		perception, err := cs.queryAIPerception(ctx, companyName, domain)
		if err != nil {
			result.Steps["ai_perception"] = StepResult{Status: "failed", Error: err.Error()}
		} else {
			perceptionJSON, _ := jsonMarshal(perception)
			update := &types.CompanyAnalysis{
				CompanyURL:   linkedinURL,
				AIPerception: perceptionJSON,
			}
			if saved, err = cs.analysisRepo.SaveResearch(ctx, nil, update); err != nil {
				result.Steps["ai_perception"] = StepResult{Status: "failed", Error: err.Error()}
			} else {
				result.Analysis = saved
				result.Steps["ai_perception"] = StepResult{Status: "success"}
			}
		}
	} else {
		result.Steps["keywords"] = StepResult{Status: "skipped", Error: "DataForSEO credentials not configured"}
		result.Steps["ai_perception"] = StepResult{Status: "skipped", Error: "DataForSEO credentials not configured"}
	}

	return result, nil
}

func (cs *companyIntelService) queryAIPerception(ctx context.Context, companyName, domain string) (map[string]any, error) {
	domainText := ""
	if domain != "" {
		domainText = fmt.Sprintf(" (website: %s)", domain)
	}
	prompts := []string{
		fmt.Sprintf("What do you know about %s%s?", companyName, domainText),
		fmt.Sprintf("What is %s's main value proposition and target market?", companyName),
		fmt.Sprintf("What industry is %s in and who are their main competitors?", companyName),
	}

	answers := make([]*dataforseo.LLMAnswer, 0, len(prompts))
	totalTokens := 0
	anySuccess := false
	for _, prompt := range prompts {
		answer, err := cs.seoClient.LLMResponse(ctx, "chatgpt", prompt)
		if err != nil {
			answers = append(answers, &dataforseo.LLMAnswer{Prompt: prompt})
			continue
		}
		answers = append(answers, answer)
		totalTokens += answer.TokensUsed
		if answer.Response != "" {
			anySuccess = true
		}
	}
	if !anySuccess {
		return nil, fmt.Errorf("all AI perception queries failed for %q", companyName)
	}

	return map[string]any{
		"provider":     "chatgpt",
		"company_name": companyName,
		"domain":       domain,
		"responses":    answers,
		"total_tokens": totalTokens,
	}, nil
}

func (cs *companyIntelService) GenerateContent(ctx context.Context, companyURL, topic, contentType string) (*types.GeneratedPost, error) {
	if cs.aiClient == nil {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY must be set for content generation", pkgerrors.ErrMissingConfiguration)
	}
	if companyURL == "" || topic == "" {
		return nil, fmt.Errorf("%w: company URL and topic are required", pkgerrors.ErrInvalidArgument)
	}
	if contentType == "" {
		contentType = "linkedin_post"
	}

	analysis, err := cs.analysisRepo.FindByIdentifier(ctx, nil, repos.IdentifierCompanyURL, companyURL)
	if err != nil {
		return nil, err
	}

	voiceProfile := "{}"
	if analysis.VoiceProfile != nil {
		voiceProfile = string(analysis.VoiceProfile)
	}
	content, err := cs.aiClient.Chat(ctx, cs.analysisModel, contentGenerationPrompt(voiceProfile, topic, contentType), 2000)
	if err != nil {
		return nil, err
	}

	params, _ := jsonMarshal(map[string]string{"content_type": contentType})
	post := &types.GeneratedPost{
		CompanyURL: companyURL,
		Topic:      topic,
		Content:    content,
		Model:      cs.analysisModel,
		Params:     params,
	}
	return cs.generatedRepo.Create(ctx, nil, post)
}

func (cs *companyIntelService) List(ctx context.Context, limit int) ([]*types.CompanyAnalysis, error) {
	return cs.analysisRepo.ListAll(ctx, nil, limit)
}

func (cs *companyIntelService) Get(ctx context.Context, kind repos.IdentifierKind, value string) (*types.CompanyAnalysis, error) {
	return cs.analysisRepo.FindByIdentifier(ctx, nil, kind, value)
}

func (cs *companyIntelService) Delete(ctx context.Context, companyURL string) error {
	return cs.analysisRepo.DeleteByCompanyURL(ctx, nil, companyURL)
}

func (cs *companyIntelService) ListGeneratedPosts(ctx context.Context, companyURL string, limit int) ([]*types.GeneratedPost, error) {
	return cs.generatedRepo.ListByCompany(ctx, nil, companyURL, limit)
}

// topPostsByReactions keeps the n highest-reaction posts from a fetch.
func topPostsByReactions(posts []map[string]any, n int) []map[string]any {
	sorted := make([]map[string]any, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return reactionCount(sorted[i]) > reactionCount(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func reactionCount(post map[string]any) float64 {
	for _, key := range []string{"num_reactions", "reactions", "like_count"} {
		if v, ok := post[key].(float64); ok {
			return v
		}
	}
	return 0
}

// renderPostsForPrompt flattens fetched posts into a bounded text block.
func renderPostsForPrompt(posts []map[string]any, limit int) string {
	var b strings.Builder
	count := 0
	for _, post := range posts {
		if count >= limit {
			break
		}
		text, _ := post["text"].(string)
		if text == "" {
			continue
		}
		if len(text) > 600 {
			text = text[:600]
		}
		count++
		fmt.Fprintf(&b, "Post %d: %s\n\n", count, text)
	}
	return b.String()
}

func voiceProfilePrompt(companyName, postsText string) string {
	return fmt.Sprintf(`Analyze the LinkedIn voice and tone of %s from their recent posts.

Return ONLY a JSON object with keys: "tone" (list of adjectives), "vocabulary_level", "sentence_structure", "emoji_usage", "hashtag_style", "distinctive_patterns" (list), "summary".

Posts:
%s`, companyName, postsText)
}

func contentStrategyPrompt(companyName, postsText string) string {
	return fmt.Sprintf(`Identify the content strategy and pillars of %s from their recent LinkedIn posts.

Return ONLY a JSON object with keys: "content_pillars" (list of {"name", "share", "description"}), "posting_frequency", "formats" (list), "summary".

Posts:
%s`, companyName, postsText)
}

func engagementPrompt(companyName, postsText string) string {
	return fmt.Sprintf(`Analyze the engagement patterns of %s from their recent LinkedIn posts.

Return ONLY a JSON object with keys: "top_performing_themes" (list), "average_engagement", "best_post_types" (list), "recommendations" (list), "summary".

Posts:
%s`, companyName, postsText)
}

func contentGenerationPrompt(voiceProfile, topic, contentType string) string {
	return fmt.Sprintf(`Write a %s about "%s" in the voice described by this profile:

%s

Match the tone, vocabulary and structure exactly. Return only the post text.`, contentType, topic, voiceProfile)
}
