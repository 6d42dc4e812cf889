package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

type SessionTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, accessToken string, expiresAt time.Time) (*types.SessionToken, error)
	GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.SessionToken, error)
	DeleteByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) error
	DeleteExpired(ctx context.Context, tx *gorm.DB) error
}

type sessionTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionTokenRepo(db *gorm.DB, baseLog *logger.Logger) SessionTokenRepo {
	repoLog := baseLog.With("repo", "SessionTokenRepo")
	return &sessionTokenRepo{db: db, log: repoLog}
}

func (sr *sessionTokenRepo) Create(ctx context.Context, tx *gorm.DB, accessToken string, expiresAt time.Time) (*types.SessionToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if accessToken == "" {
		return nil, missingField("access_token")
	}

	token := &types.SessionToken{
		ID:          uuid.New(),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}
	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		sr.log.Error("Failed to create session token", "error", err)
		return nil, mapStorageError(err, "access_token")
	}
	return token, nil
}

func (sr *sessionTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.SessionToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.SessionToken
	if err := transaction.WithContext(ctx).
		Where("access_token = ?", accessToken).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, mapStorageError(err, "access_token")
	}
	return &result, nil
}

func (sr *sessionTokenRepo) DeleteByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).
		Where("access_token = ?", accessToken).
		Delete(&types.SessionToken{}).Error; err != nil {
		return mapStorageError(err, "access_token")
	}
	return nil
}

func (sr *sessionTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&types.SessionToken{}).Error; err != nil {
		return mapStorageError(err, "")
	}
	return nil
}
