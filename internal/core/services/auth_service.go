package services

import (
	"context"
	"strings"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/adapters/persistence/repositories"
	"coopwelfare/internal/config"
	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/pkg/jwt"
	"coopwelfare/internal/pkg/password"

	"github.com/google/uuid"
)

// LoginInput carries login credentials
type LoginInput struct {
	Username string
	Password string
}

// CreateUserInput carries a new user account
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	MemberID *uint
}

// AuthService handles authentication and account management
type AuthService struct {
	users         repositories.UserRepository
	refreshTokens repositories.RefreshTokenRepository
	jwtConfig     config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	refreshTokens repositories.RefreshTokenRepository,
	jwtConfig config.JWTConfig,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		jwtConfig:     jwtConfig,
	}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, *domain.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, domain.ErrUserInactive
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		if err == jwt.ErrTokenExpired {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	hash := password.HashToken(refreshToken)
	stored, err := s.refreshTokens.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.IsRevoked() || stored.IsExpired() {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := s.refreshTokens.RevokeByTokenHash(ctx, hash); err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	hash := password.HashToken(refreshToken)
	return s.refreshTokens.RevokeByTokenHash(ctx, hash)
}

// issueTokenPair creates access and refresh tokens and stores the
// refresh token hash.
func (s *AuthService) issueTokenPair(ctx context.Context, user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Username, user.Role,
		s.jwtConfig.Secret, s.jwtConfig.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID, tokenID,
		s.jwtConfig.RefreshSecret, s.jwtConfig.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.jwtConfig.RefreshTokenDays),
	}
	if err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// CreateUser creates a new user account
func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if !password.Validate(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	switch input.Role {
	case models.RoleAdmin, models.RoleFinance, models.RoleMember:
	default:
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		Role:     input.Role,
		MemberID: input.MemberID,
		IsActive: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser fetches a user by id
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
