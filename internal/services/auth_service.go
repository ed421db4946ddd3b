package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentzy/internal/models"
	"rentzy/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenIssuer   = "rentzy-app"
	tokenAudience = "rentzy-users"
)

var (
	// ErrTokenExpired means the signature checked out but the token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenVerification covers every other verification failure.
	ErrTokenVerification = errors.New("token verification failed")
	// ErrRefreshInvalid is the single error for any refresh-exchange failure.
	ErrRefreshInvalid = errors.New("invalid or expired refresh token")
)

// AccessClaims is the self-contained payload of an access token.
type AccessClaims struct {
	UserID          string `json:"user_id"`
	Role            string `json:"role"`
	Email           string `json:"email"`
	IsEmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user id; a refresh token mints new access
// tokens and nothing else.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies the bearer tokens. Tokens are never stored
// server-side.
type AuthService interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	ValidateAccessToken(token string) (*AccessClaims, error)
	// ExchangeRefreshToken mints a new access token for a live refresh token.
	// The refresh token itself is not reissued.
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
}

type authService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret, refreshSecret string) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	refreshClaims := RefreshClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    "24h",
		User:         user.Public(),
	}, nil
}

func (s *authService) signAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID:          user.ID.String(),
		Role:            user.Role.String(),
		Email:           user.Email,
		IsEmailVerified: user.IsEmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

func (s *authService) ValidateAccessToken(token string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenInvalid
		default:
			return nil, ErrTokenVerification
		}
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenVerification
	}
	return claims, nil
}

func (s *authService) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	parsed, err := jwt.ParseWithClaims(refreshToken, &RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.refreshSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	claims, ok := parsed.Claims.(*RefreshClaims)
	if !ok || !parsed.Valid {
		return nil, ErrRefreshInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   "24h",
	}, nil
}
