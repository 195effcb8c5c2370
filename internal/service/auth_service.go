package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/repository"
	"lifeos-backend/pkg/hash"
	"lifeos-backend/pkg/jwt"

	"github.com/google/uuid"
)

const TokenType = "bearer"

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExp time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. A duplicate email is rejected before anything is written.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hashedPassword, err := hash.Hash(password)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooShort) || errors.Is(err, hash.ErrPasswordTooLong) {
			return &ValidationError{Field: "password", Message: err.Error()}
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	contextutil.LoggerFromContext(ctx).Info("User registered", "user_id", user.ID)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !hash.Matches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.IssueToken(user.ID, user.Email, s.jwtExpiration)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken: accessToken,
		TokenType:   TokenType,
	}, nil
}

// IssueToken signs an access token whose subject is the user's email.
func (s *AuthService) IssueToken(userID, email string, ttl time.Duration) (string, error) {
	token, err := jwt.GenerateToken(userID, email, ttl, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}

func (s *AuthService) VerifyToken(token string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
