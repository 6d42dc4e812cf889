package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

type LinkedinPostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, url string, postData datatypes.JSON) (*types.LinkedinPost, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LinkedinPost, error)
	ListByURL(ctx context.Context, tx *gorm.DB, url string) ([]*types.LinkedinPost, error)
}

type linkedinPostRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkedinPostRepo(db *gorm.DB, baseLog *logger.Logger) LinkedinPostRepo {
	repoLog := baseLog.With("repo", "LinkedinPostRepo")
	return &linkedinPostRepo{db: db, log: repoLog}
}

func (lr *linkedinPostRepo) Create(ctx context.Context, tx *gorm.DB, url string, postData datatypes.JSON) (*types.LinkedinPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if url == "" {
		return nil, missingField("url")
	}

	post := &types.LinkedinPost{
		ID:       uuid.New(),
		URL:      url,
		PostData: postData,
	}
	if err := transaction.WithContext(ctx).Create(post).Error; err != nil {
		lr.log.Error("Failed to save linkedin posts", "url", url, "error", err)
		return nil, mapStorageError(err, "url")
	}
	return post, nil
}

func (lr *linkedinPostRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LinkedinPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if limit <= 0 {
		limit = 50
	}

	var results []*types.LinkedinPost
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, mapStorageError(err, "")
	}
	return results, nil
}

func (lr *linkedinPostRepo) ListByURL(ctx context.Context, tx *gorm.DB, url string) ([]*types.LinkedinPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*types.LinkedinPost
	if err := transaction.WithContext(ctx).
		Where("url = ?", url).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, mapStorageError(err, "")
	}
	return results, nil
}
