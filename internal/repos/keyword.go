package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

type KeywordRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, keywords []*types.Keyword) ([]*types.Keyword, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Keyword, error)
}

type keywordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKeywordRepo(db *gorm.DB, baseLog *logger.Logger) KeywordRepo {
	repoLog := baseLog.With("repo", "KeywordRepo")
	return &keywordRepo{db: db, log: repoLog}
}

// Upsert writes researched keywords, refreshing metrics in place when the
// keyword was looked up before.
func (kr *keywordRepo) Upsert(ctx context.Context, tx *gorm.DB, keywords []*types.Keyword) ([]*types.Keyword, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	if len(keywords) == 0 {
		return []*types.Keyword{}, nil
	}

	for _, kw := range keywords {
		if kw.Keyword == "" {
			return nil, missingField("keyword")
		}
		if kw.ID == uuid.Nil {
			kw.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "keyword"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"search_volume", "competition", "competition_level", "cpc",
				"opportunity_score", "growth_rate", "monthly_searches",
				"raw_response", "updated_at",
			}),
		}).
		Create(&keywords).Error; err != nil {
		kr.log.Error("Failed to upsert keywords", "count", len(keywords), "error", err)
		return nil, mapStorageError(err, "keyword")
	}
	return keywords, nil
}

func (kr *keywordRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Keyword, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	if limit <= 0 {
		limit = 1000
	}

	var results []*types.Keyword
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, mapStorageError(err, "")
	}
	return results, nil
}
