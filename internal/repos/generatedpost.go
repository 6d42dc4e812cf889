package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

type GeneratedPostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, post *types.GeneratedPost) (*types.GeneratedPost, error)
	ListByCompany(ctx context.Context, tx *gorm.DB, companyURL string, limit int) ([]*types.GeneratedPost, error)
}

type generatedPostRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedPostRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedPostRepo {
	repoLog := baseLog.With("repo", "GeneratedPostRepo")
	return &generatedPostRepo{db: db, log: repoLog}
}

func (gr *generatedPostRepo) Create(ctx context.Context, tx *gorm.DB, post *types.GeneratedPost) (*types.GeneratedPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if post == nil || post.CompanyURL == "" {
		return nil, missingField("company_url")
	}

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(post).Error; err != nil {
		gr.log.Error("Failed to save generated post", "company_url", post.CompanyURL, "error", err)
		return nil, mapStorageError(err, "company_url")
	}
	return post, nil
}

func (gr *generatedPostRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyURL string, limit int) ([]*types.GeneratedPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if limit <= 0 {
		limit = 50
	}

	query := transaction.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if companyURL != "" {
		query = query.Where("company_url = ?", companyURL)
	}

	var results []*types.GeneratedPost
	if err := query.Find(&results).Error; err != nil {
		return nil, mapStorageError(err, "")
	}
	return results, nil
}
