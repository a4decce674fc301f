package services

import (
	"context"
	"errors"
	"log"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"
	"shelfwise/internal/pkg/jwt"
	"shelfwise/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("member account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles authentication business logic
type AuthService struct {
	memberRepo       repositories.MemberRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		memberRepo:       memberRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.MemberResponse `json:"member"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Login authenticates a member by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	member, err := s.memberRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !member.IsActive() {
		return nil, ErrAccountDisabled
	}

	if !password.Verify(input.Password, member.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Member logged in: %s", member.Email)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	if !member.IsActive() {
		return nil, ErrAccountDisabled
	}

	// Token rotation: the old refresh token dies with this exchange
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for a member
func (s *AuthService) LogoutAll(ctx context.Context, memberID uint) error {
	return s.refreshTokenRepo.RevokeAllByMemberID(ctx, memberID)
}

// GetMemberByID gets a member by ID
func (s *AuthService) GetMemberByID(ctx context.Context, memberID uint) (*models.Member, error) {
	return s.memberRepo.GetByID(ctx, memberID)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(member *models.Member) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		member.ID,
		member.MemberNo,
		member.Email,
		member.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		member.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, memberID uint, refreshToken string) error {
	token := &models.RefreshToken{
		MemberID:  memberID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
