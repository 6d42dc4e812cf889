package repos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

const (
	testLinkedinURL = "https://linkedin.com/company/acme"
	testWebsiteURL  = "https://acme.example.com"
)

func TestSaveResearchFillsCompanyURLFromLinkedinURL(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())
	ctx := context.Background()

	saved, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{
		LinkedinCompanyURL: strPtr(testLinkedinURL),
		CompanyName:        strPtr("Acme"),
	})
	require.NoError(t, err)
	assert.Equal(t, testLinkedinURL, saved.CompanyURL)
	assert.Equal(t, types.ResearchTypePrimary, saved.ResearchType)

	// The record is reachable through both identifier columns.
	byCompany, err := repo.FindByIdentifier(ctx, nil, IdentifierCompanyURL, testLinkedinURL)
	require.NoError(t, err)
	byLinkedin, err := repo.FindByIdentifier(ctx, nil, IdentifierLinkedinCompanyURL, testLinkedinURL)
	require.NoError(t, err)
	assert.Equal(t, byCompany.ID, byLinkedin.ID)
}

func TestSaveResearchRejectsRecordWithoutAnyIdentifier(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())
	ctx := context.Background()

	_, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{
		CompanyName: strPtr("Nameless"),
	})
	require.ErrorIs(t, err, ErrMissingRequiredField)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "company_url", fieldErr.Field)

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&types.CompanyAnalysis{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveResearchUpdatesOnlyProvidedFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())
	ctx := context.Background()

	first, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{
		LinkedinCompanyURL: strPtr(testLinkedinURL),
		CompanyName:        strPtr("Acme"),
		WebsiteURL:         strPtr(testWebsiteURL),
	})
	require.NoError(t, err)

	second, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{
		LinkedinCompanyURL: strPtr(testLinkedinURL),
		GrokResearch:       datatypes.JSON(`{"response":"grok findings"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.JSONEq(t, `{"response":"grok findings"}`, string(second.GrokResearch))
	// Fields absent from the second write survive.
	require.NotNil(t, second.CompanyName)
	assert.Equal(t, "Acme", *second.CompanyName)
	require.NotNil(t, second.WebsiteURL)
	assert.Equal(t, testWebsiteURL, *second.WebsiteURL)
}

func TestSaveResearchDoesNotResetClassification(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())
	ctx := context.Background()

	competitorURL := "https://linkedin.com/company/rival"
	_, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{
		LinkedinCompanyURL: strPtr(competitorURL),
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetClassification(ctx, nil, competitorURL, types.ResearchTypeCompetitor, strPtr(testLinkedinURL)))

	// A later research write for the same record keeps the competitor label.
	updated, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{
		LinkedinCompanyURL: strPtr(competitorURL),
		ClaudeResearch:     datatypes.JSON(`{"response":"claude findings"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, types.ResearchTypeCompetitor, updated.ResearchType)
	require.NotNil(t, updated.CompetitorOf)
	assert.Equal(t, testLinkedinURL, *updated.CompetitorOf)
}

func TestSetClassificationUnknownRecord(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())

	err := repo.SetClassification(context.Background(), nil, "https://linkedin.com/company/ghost", types.ResearchTypeCompetitor, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestListCompetitorsFiltersByMainCompany(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())
	ctx := context.Background()

	_, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{LinkedinCompanyURL: strPtr(testLinkedinURL)})
	require.NoError(t, err)

	for _, slug := range []string{"rival-one", "rival-two"} {
		url := "https://linkedin.com/company/" + slug
		_, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{LinkedinCompanyURL: strPtr(url)})
		require.NoError(t, err)
		require.NoError(t, repo.SetClassification(ctx, nil, url, types.ResearchTypeCompetitor, strPtr(testLinkedinURL)))
	}

	competitors, err := repo.ListCompetitors(ctx, nil, testLinkedinURL)
	require.NoError(t, err)
	assert.Len(t, competitors, 2)
	for _, comp := range competitors {
		assert.Equal(t, types.ResearchTypeCompetitor, comp.ResearchType)
	}

	// The primary record itself is not listed.
	none, err := repo.ListCompetitors(ctx, nil, "https://linkedin.com/company/other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByIdentifierNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())

	_, err := repo.FindByIdentifier(context.Background(), nil, IdentifierCompanyURL, "https://nowhere.example.com")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestDeleteByCompanyURL(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyAnalysisRepo(db, newTestLogger())
	ctx := context.Background()

	_, err := repo.SaveResearch(ctx, nil, &types.CompanyAnalysis{CompanyURL: testLinkedinURL})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByCompanyURL(ctx, nil, testLinkedinURL))

	_, err = repo.FindByIdentifier(ctx, nil, IdentifierCompanyURL, testLinkedinURL)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}
