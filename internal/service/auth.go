package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/auth"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/id"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// AuthService registers users and checks their credentials.
// There are no tokens: a successful login hands back the identity the
// client keeps locally.
type AuthService struct {
	store  store.Users
	hasher *auth.Hasher
	logger *logger.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users store.Users, hasher *auth.Hasher, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Discard()
	}
	return &AuthService{store: users, hasher: hasher, logger: log}
}

// SignupRequest contains user registration data.
type SignupRequest struct {
	UserName  string `json:"user_name" validate:"notblank,max=100"`
	UserEmail string `json:"user_email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Password  string `json:"password" validate:"required,max=1024"`
}

// Signup creates an account. Emails are unique regardless of case.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Name:         req.UserName,
		Email:        req.UserEmail,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("User with this email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and returns the caller's identity.
// Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (domain.Identity, error) {
	if err := validate.Validate(req); err != nil {
		return domain.Identity{}, err
	}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.UserEmail))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, domainerrors.InvalidCredentials("Invalid credentials.")
		}
		return domain.Identity{}, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.logger.Debug("login rejected", "user_id", user.ID)
		return domain.Identity{}, domainerrors.InvalidCredentials("Invalid credentials.")
	}

	return domain.Identity{UserID: user.ID, UserName: user.Name}, nil
}
