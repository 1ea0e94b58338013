package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/auth"
	"github.com/campuslink/campuslink/internal/pkg/email"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

const verificationTokenTTL = 24 * time.Hour

// authProfileRepository is the slice of the profile repository the auth
// service consumes.
type authProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id string) error
	SetEmailVerified(ctx context.Context, id string) error
}

// tokenRepository persists refresh and verification tokens.
type tokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ConsumeRefreshToken(ctx context.Context, token string) (string, error)
	RevokeRefreshTokens(ctx context.Context, userID string) error
	StoreVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
}

// AuthService defines the interface for account lifecycle operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	Logout(ctx context.Context, userID string) error
}

type authServiceImpl struct {
	profiles authProfileRepository
	tokens   tokenRepository
	jwt      *auth.JWTService
	mailer   email.EmailService
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profiles authProfileRepository,
	tokens tokenRepository,
	jwt *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		profiles: profiles,
		tokens:   tokens,
		jwt:      jwt,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates an account. The college domain is derived from the email
// address; the requested role is normalized, and student-track accounts with
// a past graduation year are classified as alumni immediately.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.Profile, error) {
	fullName, err := validation.RequiredText("fullName", req.FullName, validation.NameMaxLength)
	if err != nil {
		return nil, err
	}

	domain := tenant.FromEmail(req.Email)
	if domain == "" {
		return nil, apperrors.NewValidationError("email address has no usable domain")
	}

	role, ok := permissions.NormalizeRole(req.Role)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role")
	}
	if role == permissions.RoleStudent && req.GraduationYear != nil {
		role = permissions.ClassifyByGraduationYear(*req.GraduationYear, time.Now())
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	profile := &models.Profile{
		ID:             uuid.New().String(),
		Email:          req.Email,
		Password:       hashed,
		FullName:       fullName,
		Role:           string(role),
		CollegeDomain:  domain,
		GraduationYear: req.GraduationYear,
		IsActive:       true,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	token := uuid.New().String()
	if err := s.tokens.StoreVerificationToken(ctx, profile.ID, token, time.Now().Add(verificationTokenTTL)); err != nil {
		return nil, fmt.Errorf("storing verification token: %w", err)
	}

	goBackground(s.logger, "send_verification_email", func(context.Context) error {
		return s.mailer.SendVerificationEmail(profile.Email, profile.FullName, token)
	})

	s.logger.Info().Str("userId", profile.ID).Str("domain", domain).Msg("Account registered")
	return profile, nil
}

// Login authenticates by email and password and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	profile, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}
	if !auth.CheckPassword(req.Password, profile.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, err
	}

	goBackground(s.logger, "update_last_login", func(ctx context.Context) error {
		return s.profiles.UpdateLastLogin(ctx, profile.ID)
	})

	return pair, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. Refresh tokens
// are single use; a replayed token fails.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokens.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	return s.issueTokens(ctx, profile)
}

// VerifyEmail consumes a verification token and marks the account verified
func (s *authServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.profiles.SetEmailVerified(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("userId", userID).Msg("Email verified")
	return nil
}

// Logout revokes all of the user's refresh tokens
func (s *authServiceImpl) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeRefreshTokens(ctx, userID)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, profile *models.Profile) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(profile.ID, profile.Email, profile.Role)
	if err != nil {
		return nil, fmt.Errorf("generating token pair: %w", err)
	}
	if err := s.tokens.StoreRefreshToken(ctx, profile.ID, refreshToken, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
