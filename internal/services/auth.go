package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/pkg/logger"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
)

// AuthService is the single authority on whether a request may reach the
// dashboard or any tool. Nothing downstream re-checks credentials; the
// middleware asks ValidateToken and aborts the request on failure.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, int, error)
	Logout(ctx context.Context, accessToken string) error
	ValidateToken(ctx context.Context, accessToken string) error
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.SessionTokenRepo
	username     string
	passwordHash []byte
	jwtSecretKey string
	accessTTL    time.Duration
}

// NewAuthService fails closed: missing dashboard credentials or signing key
// refuse to construct the gate rather than granting any default.
func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.SessionTokenRepo,
	username string,
	password string,
	jwtSecretKey string,
	accessTTL time.Duration,
) (AuthService, error) {
	serviceLog := log.With("service", "AuthService")
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: APP_USERNAME and APP_PASSWORD must be set", pkgerrors.ErrMissingConfiguration)
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET_KEY must be set", pkgerrors.ErrMissingConfiguration)
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash configured password: %w", err)
	}
	return &authService{
		db:           db,
		log:          serviceLog,
		sessionRepo:  sessionRepo,
		username:     username,
		passwordHash: hash,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (string, int, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(as.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(as.passwordHash, []byte(password))
	if !usernameOK || passwordErr != nil {
		as.log.Warn("Login rejected", "username", username)
		return "", 0, pkgerrors.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(as.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   as.username,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}

	if _, err := as.sessionRepo.Create(ctx, nil, accessToken, expiresAt); err != nil {
		return "", 0, fmt.Errorf("failed to store session: %w", err)
	}

	as.log.Info("Login accepted")
	return accessToken, int(as.accessTTL.Seconds()), nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return pkgerrors.ErrInvalidCredentials
	}
	if err := as.sessionRepo.DeleteByAccessToken(ctx, nil, accessToken); err != nil {
		return err
	}
	as.log.Info("Session cleared")
	return nil
}

func (as *authService) ValidateToken(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return pkgerrors.ErrInvalidCredentials
	}

	parsed, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return pkgerrors.ErrInvalidCredentials
	}

	// The signed token alone is not enough: the session row must still
	// exist, so logout invalidates tokens immediately.
	session, err := as.sessionRepo.GetByAccessToken(ctx, nil, accessToken)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return pkgerrors.ErrInvalidCredentials
		}
		return err
	}
	if session.ExpiresAt.Before(time.Now()) {
		_ = as.sessionRepo.DeleteByAccessToken(ctx, nil, accessToken)
		return pkgerrors.ErrInvalidCredentials
	}
	return nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
