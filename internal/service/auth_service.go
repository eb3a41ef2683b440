package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/avdeyev/contacts-service/internal/domain"
	"github.com/avdeyev/contacts-service/internal/dto"
	"github.com/avdeyev/contacts-service/internal/mailer"
	"github.com/avdeyev/contacts-service/internal/repository"
	"github.com/avdeyev/contacts-service/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthResult carries the auth response plus the refresh token, which goes
// into an httpOnly cookie instead of the JSON body.
type AuthResult struct {
	AuthResponse *dto.AuthResponse
	RefreshToken string
	ExpiresIn    int // Refresh token expiry in seconds
}

// authService implements AuthService interface
type authService struct {
	userRepo           repository.UserRepository
	jwtManager         *utils.JWTManager
	blacklist          *TokenBlacklistService
	mail               mailer.Mailer
	avatars            AvatarStorage
	logger             *zap.Logger
	bcryptCost         int
	refreshTokenExpiry time.Duration
	baseURL            string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	blacklist *TokenBlacklistService,
	mail mailer.Mailer,
	avatars AvatarStorage,
	logger *zap.Logger,
	bcryptCost int,
	refreshTokenExpiry time.Duration,
	baseURL string,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		jwtManager:         jwtManager,
		blacklist:          blacklist,
		mail:               mail,
		avatars:            avatars,
		logger:             logger,
		bcryptCost:         bcryptCost,
		refreshTokenExpiry: refreshTokenExpiry,
		baseURL:            baseURL,
	}
}

// Register creates a new user account and dispatches the verification email
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	email := utils.SanitizeEmail(req.Email)

	if !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, ErrWeakPassword
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.dispatchVerificationEmail(user.Email)

	return s.issueTokens(user)
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	user, err := s.authenticate(ctx, utils.SanitizeEmail(req.Email), req.Password)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// authenticate resolves a user by email and checks the password. An unknown
// email and a wrong password produce the identical failure.
func (s *authService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Refresh validates a refresh token and mints a fresh access token. The
// presented refresh token is echoed back unchanged; it stays valid until
// its own expiry or an explicit logout.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	blacklisted, err := s.blacklist.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return nil, fmt.Errorf("refresh token revoked: %w", utils.ErrTokenInvalid)
	}

	email, err := s.jwtManager.ParseSubject(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("subject %s: %w", email, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResult{
		AuthResponse: &dto.AuthResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
			User: dto.UserInfo{
				ID:    user.ID,
				Email: user.Email,
			},
		},
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtManager.GetRefreshTokenExpiry(),
	}, nil
}

// Logout revokes a refresh token until its natural expiry
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := s.blacklist.AddToken(ctx, refreshToken, s.refreshTokenExpiry); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// CurrentUser resolves the account behind an access token. The gate has
// exactly two outcomes: a resolved user, or a typed rejection.
func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	email, err := s.jwtManager.ParseSubject(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("subject %s: %w", email, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// VerifyEmail decodes a verification token and marks its subject verified.
// A second call for an already verified account is a no-op success.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.jwtManager.ParseSubject(token)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetVerified(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("subject %s: %w", email, ErrUserNotFound)
		}
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return nil
}

// UpdateAvatar uploads the image to object storage and persists its URL
func (s *authService) UpdateAvatar(ctx context.Context, userID int64, filename, contentType string, file io.Reader) (string, error) {
	objectName := fmt.Sprintf("avatars/%s%s", uuid.New().String(), path.Ext(filename))

	avatarURL, err := s.avatars.Upload(ctx, objectName, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
		}
		return "", err
	}

	return avatarURL, nil
}

// dispatchVerificationEmail sends the verification link in the background.
// Delivery failures are logged, never surfaced to the registering user.
func (s *authService) dispatchVerificationEmail(email string) {
	token, err := s.jwtManager.GenerateVerificationToken(email)
	if err != nil {
		s.logger.Error("failed to generate verification token", zap.Error(err))
		return
	}

	verifyURL := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.baseURL, token)

	go func() {
		if err := s.mail.SendVerificationEmail(email, verifyURL); err != nil {
			s.logger.Error("failed to send verification email",
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}()
}

// issueTokens builds the token pair for a freshly authenticated user
func (s *authService) issueTokens(user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResult{
		AuthResponse: &dto.AuthResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
			User: dto.UserInfo{
				ID:    user.ID,
				Email: user.Email,
			},
		},
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtManager.GetRefreshTokenExpiry(),
	}, nil
}
