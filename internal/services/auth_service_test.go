package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type AuthServiceTestSuite struct {
	suite.Suite
	users   *MockUserRepository
	cache   *MockCacheService
	service *authService
	ctx     context.Context
	now     time.Time
	user    *models.User
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.users = &MockUserRepository{}
	suite.cache = &MockCacheService{}
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	svc := NewAuthService(suite.users, suite.cache, AuthOptions{
		JWTSecret:       testSecret,
		Issuer:          "stagebook",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}, zap.NewNop()).(*authService)
	svc.now = func() time.Time { return suite.now }
	suite.service = svc

	hash, err := bcrypt.GenerateFromPassword([]byte("stage-door"), bcrypt.MinCost)
	suite.Require().NoError(err)
	suite.user = &models.User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "crew@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleManager,
	}
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.users.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

const loginKey = "login:crew@example.com"

func (suite *AuthServiceTestSuite) expectLoginAllowed() {
	suite.cache.On("FailureCount", suite.ctx, loginKey).Return(0, nil)
}

func (suite *AuthServiceTestSuite) expectSessionStored() {
	suite.cache.On("SetRefreshSession", suite.ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(s *models.RefreshSession) bool {
		return s.UserID == suite.user.ID && s.ExpiresAt.Equal(suite.now.Add(7*24*time.Hour))
	}), 7*24*time.Hour).Return(nil)
}

func (suite *AuthServiceTestSuite) TestLogin_IssuesValidTokens() {
	suite.expectLoginAllowed()
	suite.users.On("GetByEmail", suite.ctx, "crew@example.com").Return(suite.user, nil)
	suite.expectSessionStored()

	tokens, err := suite.service.Login(suite.ctx, " Crew@Example.com ", "stage-door")
	suite.Require().NoError(err)
	suite.Equal("Bearer", tokens.TokenType)
	suite.Equal(900, tokens.ExpiresIn)
	suite.Equal(models.RoleManager, tokens.Role)
	suite.NotEmpty(tokens.RefreshToken)

	claims, err := suite.service.ValidateToken(suite.ctx, tokens.AccessToken)
	suite.Require().NoError(err)
	suite.Equal(suite.user.ID, claims.UserID)
	suite.Equal(suite.user.TenantID, claims.TenantID)
	suite.Equal(models.RoleManager, claims.Role)

	suite.cache.AssertNotCalled(suite.T(), "RecordFailure", mock.Anything, mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "ResetFailures", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_RepeatedSuccessNeverLocksOut() {
	suite.expectLoginAllowed()
	suite.users.On("GetByEmail", suite.ctx, "crew@example.com").Return(suite.user, nil)
	suite.expectSessionStored()

	for i := 0; i < loginAttemptLimit+2; i++ {
		_, err := suite.service.Login(suite.ctx, "crew@example.com", "stage-door")
		suite.Require().NoError(err, "login %d", i+1)
	}
}

func (suite *AuthServiceTestSuite) TestLogin_SuccessResetsFailures() {
	suite.cache.On("FailureCount", suite.ctx, loginKey).Return(3, nil)
	suite.users.On("GetByEmail", suite.ctx, "crew@example.com").Return(suite.user, nil)
	suite.cache.On("ResetFailures", suite.ctx, loginKey).Return(nil).Once()
	suite.expectSessionStored()

	_, err := suite.service.Login(suite.ctx, "crew@example.com", "stage-door")
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.expectLoginAllowed()
	suite.users.On("GetByEmail", suite.ctx, "crew@example.com").Return(suite.user, nil)
	suite.cache.On("RecordFailure", suite.ctx, loginKey, loginAttemptWindow).Return(1, nil).Once()

	_, err := suite.service.Login(suite.ctx, "crew@example.com", "guess")
	suite.ErrorIs(err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.expectLoginAllowed()
	suite.users.On("GetByEmail", suite.ctx, "crew@example.com").Return(nil, common.ErrNotFound)
	suite.cache.On("RecordFailure", suite.ctx, loginKey, loginAttemptWindow).Return(1, nil).Once()

	_, err := suite.service.Login(suite.ctx, "crew@example.com", "stage-door")
	suite.ErrorIs(err, common.ErrUnauthorized)
	suite.NotErrorIs(err, common.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestLogin_RateLimited() {
	suite.cache.On("FailureCount", suite.ctx, loginKey).Return(loginAttemptLimit, nil)

	_, err := suite.service.Login(suite.ctx, "crew@example.com", "stage-door")
	suite.ErrorIs(err, common.ErrRateLimited)
	suite.users.AssertNotCalled(suite.T(), "GetByEmail", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_LimiterUnavailableStillAuthenticates() {
	suite.cache.On("FailureCount", suite.ctx, loginKey).Return(0, errors.New("redis down"))
	suite.users.On("GetByEmail", suite.ctx, "crew@example.com").Return(suite.user, nil)
	suite.cache.On("RecordFailure", suite.ctx, loginKey, loginAttemptWindow).Return(0, errors.New("redis down"))

	_, err := suite.service.Login(suite.ctx, "crew@example.com", "guess")
	suite.ErrorIs(err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	oldToken := "old-refresh-token"
	oldHash := hashToken(oldToken)
	session := &models.RefreshSession{
		UserID:    suite.user.ID,
		TenantID:  suite.user.TenantID,
		IssuedAt:  suite.now.Add(-time.Hour),
		ExpiresAt: suite.now.Add(time.Hour),
	}
	suite.cache.On("ConsumeRefreshSession", suite.ctx, oldHash).Return(session, nil).Once()
	suite.users.On("GetByID", suite.ctx, suite.user.TenantID, suite.user.ID).Return(suite.user, nil)
	suite.cache.On("SetRefreshSession", suite.ctx, mock.MatchedBy(func(h string) bool { return h != oldHash }),
		mock.Anything, 7*24*time.Hour).Return(nil)

	tokens, err := suite.service.Refresh(suite.ctx, oldToken)
	suite.Require().NoError(err)
	suite.NotEqual(oldToken, tokens.RefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefresh_TokenRedeemedOnce() {
	token := "shared-refresh-token"
	session := &models.RefreshSession{
		UserID:    suite.user.ID,
		TenantID:  suite.user.TenantID,
		ExpiresAt: suite.now.Add(time.Hour),
	}
	// the second caller finds the session already consumed
	suite.cache.On("ConsumeRefreshSession", suite.ctx, hashToken(token)).Return(session, nil).Once()
	suite.cache.On("ConsumeRefreshSession", suite.ctx, hashToken(token)).Return(nil, nil).Once()
	suite.users.On("GetByID", suite.ctx, suite.user.TenantID, suite.user.ID).Return(suite.user, nil).Once()
	suite.cache.On("SetRefreshSession", suite.ctx, mock.AnythingOfType("string"), mock.Anything, 7*24*time.Hour).Return(nil).Once()

	_, err := suite.service.Refresh(suite.ctx, token)
	suite.Require().NoError(err)

	_, err = suite.service.Refresh(suite.ctx, token)
	suite.ErrorIs(err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_UnknownOrExpired() {
	suite.cache.On("ConsumeRefreshSession", suite.ctx, hashToken("missing")).Return(nil, nil)
	_, err := suite.service.Refresh(suite.ctx, "missing")
	suite.ErrorIs(err, common.ErrUnauthorized)

	suite.cache.On("ConsumeRefreshSession", suite.ctx, hashToken("stale")).Return(&models.RefreshSession{
		ExpiresAt: suite.now.Add(-time.Second),
	}, nil)
	_, err = suite.service.Refresh(suite.ctx, "stale")
	suite.ErrorIs(err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogout() {
	suite.cache.On("DeleteRefreshSession", suite.ctx, hashToken("some-token")).Return(nil)
	suite.NoError(suite.service.Logout(suite.ctx, "some-token"))
	suite.ErrorIs(suite.service.Logout(suite.ctx, ""), common.ErrInvalidInput)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Rejections() {
	sign := func(method jwt.SigningMethod, key interface{}, claims models.TokenClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		suite.Require().NoError(err)
		return token
	}
	valid := models.TokenClaims{
		UserID:   suite.user.ID,
		TenantID: suite.user.TenantID,
		Role:     models.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "stagebook",
			ExpiresAt: jwt.NewNumericDate(suite.now.Add(time.Minute)),
		},
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(suite.now.Add(-time.Minute))
	foreignIssuer := valid
	foreignIssuer.Issuer = "someone-else"
	anonymous := valid
	anonymous.TenantID = uuid.Nil

	for name, token := range map[string]string{
		"expired":        sign(jwt.SigningMethodHS256, []byte(testSecret), expired),
		"wrong secret":   sign(jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), valid),
		"wrong issuer":   sign(jwt.SigningMethodHS256, []byte(testSecret), foreignIssuer),
		"missing tenant": sign(jwt.SigningMethodHS256, []byte(testSecret), anonymous),
		"other alg":      sign(jwt.SigningMethodHS512, []byte(testSecret), valid),
		"garbage":        "not.a.jwt",
	} {
		_, err := suite.service.ValidateToken(suite.ctx, token)
		suite.ErrorIs(err, common.ErrUnauthorized, name)
	}

	_, err := suite.service.ValidateToken(suite.ctx, sign(jwt.SigningMethodHS256, []byte(testSecret), valid))
	suite.NoError(err)
}
