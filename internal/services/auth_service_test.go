package services

import (
	"context"
	"testing"
	"time"

	"rentzy/internal/models"
	"rentzy/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  *authService
	user     *models.User
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockUserRepository{}
	suite.service = NewAuthService(suite.mockRepo, "access-secret", "refresh-secret").(*authService)
	suite.mockRepo.Test(suite.T())

	suite.user = &models.User{
		ID:              uuid.New(),
		Name:            "Jamie Rivera",
		Email:           "jamie@example.com",
		Role:            models.RoleTenant,
		IsEmailVerified: true,
	}
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestGenerateAndValidate_RoundTrip() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), tokens.AccessToken)
	assert.NotEmpty(suite.T(), tokens.RefreshToken)
	assert.Equal(suite.T(), "24h", tokens.ExpiresIn)
	assert.Equal(suite.T(), suite.user.Email, tokens.User.Email)

	claims, err := suite.service.ValidateAccessToken(tokens.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.user.ID.String(), claims.UserID)
	assert.Equal(suite.T(), "tenant", claims.Role)
	assert.Equal(suite.T(), suite.user.Email, claims.Email)
	assert.True(suite.T(), claims.IsEmailVerified)
	assert.Equal(suite.T(), "rentzy-app", claims.Issuer)
	assert.Contains(suite.T(), claims.Audience, "rentzy-users")
}

func (suite *AuthServiceTestSuite) TestValidate_ExpiredToken() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	// Move the service clock past the access token lifetime.
	suite.service.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = suite.service.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(suite.T(), err, ErrTokenExpired)
}

func (suite *AuthServiceTestSuite) TestValidate_WrongSignature() {
	ctx := context.Background()

	other := NewAuthService(suite.mockRepo, "a-different-secret", "refresh-secret").(*authService)
	tokens, err := other.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	_, err = suite.service.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(suite.T(), err, ErrTokenInvalid)
}

func (suite *AuthServiceTestSuite) TestValidate_MalformedToken() {
	_, err := suite.service.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(suite.T(), err, ErrTokenInvalid)
}

func (suite *AuthServiceTestSuite) TestValidate_RefreshTokenRejectedAsAccess() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	// A refresh token is signed with a different secret, so it must not pass
	// access validation.
	_, err = suite.service.ValidateAccessToken(tokens.RefreshToken)
	assert.ErrorIs(suite.T(), err, ErrTokenInvalid)
}

func (suite *AuthServiceTestSuite) TestExchangeRefresh_Success() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	suite.mockRepo.On("GetByID", ctx, suite.user.ID).Return(suite.user, nil)

	refreshed, err := suite.service.ExchangeRefreshToken(ctx, tokens.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), refreshed.AccessToken)
	assert.Empty(suite.T(), refreshed.RefreshToken, "refresh tokens are single-generation")

	claims, err := suite.service.ValidateAccessToken(refreshed.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.user.ID.String(), claims.UserID)
}

func (suite *AuthServiceTestSuite) TestExchangeRefresh_ExpiredToken() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	suite.service.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	_, err = suite.service.ExchangeRefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(suite.T(), err, ErrRefreshInvalid)
}

func (suite *AuthServiceTestSuite) TestExchangeRefresh_AccessTokenRejected() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	_, err = suite.service.ExchangeRefreshToken(ctx, tokens.AccessToken)
	assert.ErrorIs(suite.T(), err, ErrRefreshInvalid)
}

func (suite *AuthServiceTestSuite) TestExchangeRefresh_DeletedUser() {
	ctx := context.Background()

	tokens, err := suite.service.GenerateTokens(ctx, suite.user)
	assert.NoError(suite.T(), err)

	suite.mockRepo.On("GetByID", ctx, suite.user.ID).Return(nil, repositories.ErrNotFound)

	_, err = suite.service.ExchangeRefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(suite.T(), err, ErrRefreshInvalid)
}
