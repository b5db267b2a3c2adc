package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const claimsContextKey = "claims"

// TokenValidator verifies locally issued access tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.TokenClaims, error)
}

// JWTOptions selects the key source. When JWKSURL is set tokens are verified
// against the remote key set, otherwise against the local HS256 secret.
type JWTOptions struct {
	JWKSURL string
	Issuer  string
}

// JWTAuth holds the configured echo-jwt middleware and the JWKS refresher, if any
type JWTAuth struct {
	jwks *keyfunc.JWKS
	log  *zap.Logger
	mw   echo.MiddlewareFunc
}

func NewJWTAuth(validator TokenValidator, opts JWTOptions, log *zap.Logger) (*JWTAuth, error) {
	a := &JWTAuth{log: log.Named("jwt")}

	parse := func(c echo.Context, auth string) (interface{}, error) {
		return validator.ValidateToken(c.Request().Context(), auth)
	}

	if opts.JWKSURL != "" {
		jwks, err := keyfunc.Get(opts.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				a.log.Warn("jwks refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load jwks: %w", err)
		}
		a.jwks = jwks
		parse = func(c echo.Context, auth string) (interface{}, error) {
			return parseWithKeyfunc(auth, jwks.Keyfunc, opts.Issuer)
		}
	}

	a.mw = echojwt.WithConfig(echojwt.Config{
		ContextKey:     claimsContextKey,
		ParseTokenFunc: parse,
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(claimsContextKey).(*models.TokenClaims)
			if !ok {
				return
			}
			ctx := common.WithIdentity(c.Request().Context(), claims.UserID, claims.TenantID, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			a.log.Debug("rejected token", zap.String("path", c.Path()), zap.Error(err))
			return fmt.Errorf("%v: %w", err, common.ErrUnauthorized)
		},
	})
	return a, nil
}

func (a *JWTAuth) Middleware() echo.MiddlewareFunc {
	return a.mw
}

// Close stops the background JWKS refresh
func (a *JWTAuth) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

// parseWithKeyfunc validates a token signed by an external identity provider.
// The provider must place user_id, tenant_id and role in the token.
func parseWithKeyfunc(token string, keyFunc jwt.Keyfunc, issuer string) (*models.TokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "EdDSA"})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &models.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, keyFunc, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.UserID == uuid.Nil || claims.TenantID == uuid.Nil {
		return nil, errors.New("token is missing identity claims")
	}
	return claims, nil
}

// ClaimsFromContext returns the verified claims stored by the JWT middleware
func ClaimsFromContext(c echo.Context) (*models.TokenClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*models.TokenClaims)
	return claims, ok
}
