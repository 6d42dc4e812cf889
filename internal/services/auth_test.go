package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
	"github.com/sambasci/marketing-tools-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.SessionToken{},
		&types.CompanyAnalysis{},
		&types.LinkedinPost{},
		&types.GeneratedPost{},
		&types.Keyword{},
	))
	return db
}

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newTestAuthService(t *testing.T, db *gorm.DB) AuthService {
	t.Helper()
	sessionRepo := repos.NewSessionTokenRepo(db, newTestLogger())
	svc, err := NewAuthService(db, newTestLogger(), sessionRepo, "admin", "hunter2", "test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewAuthServiceRequiresCredentials(t *testing.T) {
	db := newTestDB(t)
	sessionRepo := repos.NewSessionTokenRepo(db, newTestLogger())

	cases := []struct {
		name     string
		username string
		password string
		secret   string
	}{
		{"no username", "", "hunter2", "secret"},
		{"no password", "admin", "", "secret"},
		{"no jwt secret", "admin", "hunter2", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAuthService(db, newTestLogger(), sessionRepo, tc.username, tc.password, tc.secret, time.Hour)
			assert.ErrorIs(t, err, pkgerrors.ErrMissingConfiguration)
		})
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	svc := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "intruder", "hunter2")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	svc := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	token, expiresIn, err := svc.Login(ctx, "admin", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)

	assert.NoError(t, svc.ValidateToken(ctx, token))
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin", "hunter2")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	// The signature is still valid but the session row is gone.
	assert.ErrorIs(t, svc.ValidateToken(ctx, token), pkgerrors.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, svc.ValidateToken(ctx, ""), pkgerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, svc.ValidateToken(ctx, "not-a-jwt"), pkgerrors.ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)

	otherRepo := repos.NewSessionTokenRepo(db, newTestLogger())
	other, err := NewAuthService(db, newTestLogger(), otherRepo, "admin", "hunter2", "different-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := other.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ValidateToken(context.Background(), token), pkgerrors.ErrInvalidCredentials)
}
