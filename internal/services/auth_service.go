package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"stagebook/internal/caching"
	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// failed logins allowed per email within the window
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// dummyHash keeps the timing of unknown-email logins close to wrong-password ones
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stagebook-dummy-password"), bcrypt.DefaultCost)

// AuthService issues and validates access tokens and rotating refresh tokens
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	IssueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.TokenClaims, error)
}

type AuthOptions struct {
	JWTSecret       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type authService struct {
	userRepo repositories.UserRepository
	cache    caching.CacheService
	opts     AuthOptions
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, cache caching.CacheService, opts AuthOptions, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		cache:    cache,
		opts:     opts,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("email", "email and password are required")
	}

	limitKey := "login:" + email
	failures, err := s.cache.FailureCount(ctx, limitKey)
	if err != nil {
		s.log.Warn("rate limit check failed", zap.Error(err))
	}
	if failures >= loginAttemptLimit {
		return nil, fmt.Errorf("too many failed login attempts: %w", common.ErrRateLimited)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.recordLoginFailure(ctx, limitKey)
			return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected", zap.String("user_id", user.ID.String()))
		s.recordLoginFailure(ctx, limitKey)
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	if failures > 0 {
		if err := s.cache.ResetFailures(ctx, limitKey); err != nil {
			s.log.Warn("failed to reset login failures", zap.Error(err))
		}
	}
	return s.IssueTokens(ctx, user)
}

func (s *authService) recordLoginFailure(ctx context.Context, key string) {
	if _, err := s.cache.RecordFailure(ctx, key, loginAttemptWindow); err != nil {
		s.log.Warn("failed to record login failure", zap.Error(err))
	}
}

func (s *authService) IssueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	if s.opts.JWTSecret == "" {
		return nil, fmt.Errorf("local token signing is disabled: %w", common.ErrUnauthorized)
	}

	now := s.now()
	claims := models.TokenClaims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.opts.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}
	session := &models.RefreshSession{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.RefreshTokenTTL),
	}
	if err := s.cache.SetRefreshSession(ctx, hashToken(refreshToken), session, s.opts.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.opts.AccessTokenTTL.Seconds()),
		RefreshToken: refreshToken,
		UserID:       user.ID,
		TenantID:     user.TenantID,
		Role:         user.Role,
		IssuedAt:     now,
	}, nil
}

// Refresh consumes the refresh token and issues a fresh pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	if refreshToken == "" {
		return nil, common.NewValidationError("refresh_token", "is required")
	}
	hash := hashToken(refreshToken)

	// consuming is atomic, so of two concurrent refreshes only one sees the session
	session, err := s.cache.ConsumeRefreshSession(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	if session == nil || s.now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("refresh token is invalid or expired: %w", common.ErrUnauthorized)
	}

	// role may have changed since the session was issued
	user, err := s.userRepo.GetByID(ctx, session.TenantID, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user no longer exists: %w", common.ErrUnauthorized)
		}
		return nil, err
	}
	return s.IssueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return common.NewValidationError("refresh_token", "is required")
	}
	return s.cache.DeleteRefreshSession(ctx, hashToken(refreshToken))
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.TokenClaims, error) {
	if s.opts.JWTSecret == "" {
		return nil, fmt.Errorf("local token signing is disabled: %w", common.ErrUnauthorized)
	}
	claims := &models.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.opts.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", common.ErrUnauthorized)
	}
	if claims.UserID == uuid.Nil || claims.TenantID == uuid.Nil {
		return nil, fmt.Errorf("token is missing identity claims: %w", common.ErrUnauthorized)
	}
	return claims, nil
}

func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
