package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already taken")
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateAuthHash(ctx context.Context, id int64, hash string) error
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserStore
	themes *ThemeService
	hasher *crypto.Hasher
	tokens *crypto.TokenIssuer

	// dummyHash is verified against when the email is unknown, so a miss
	// costs the same Argon2 work as a wrong password.
	dummyHash string
	verify    func(password, encodedHash string) (bool, error)
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, themes *ThemeService, hasher *crypto.Hasher, tokens *crypto.TokenIssuer) *AuthService {
	dummy, err := hasher.Hash("passgen-unknown-account")
	if err != nil {
		slog.Warn("creating dummy credentials hash failed", "error", err)
	}
	return &AuthService{
		users:     users,
		themes:    themes,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
		verify:    hasher.Verify,
	}
}

// OwnerKey is the preference owner key of a user.
func OwnerKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.CredentialsRequest) (model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Email:    email,
		AuthHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	return s.authResponse(ctx, user)
}

// Login authenticates a user and returns an auth token. Hashes made with
// outdated parameters are replaced on success.
func (s *AuthService) Login(ctx context.Context, req model.CredentialsRequest) (model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if s.dummyHash != "" {
				_, _ = s.verify(req.Password, s.dummyHash)
			}
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.verify(req.Password, user.AuthHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.AuthHash) {
		s.rehash(ctx, user, req.Password)
	}

	return s.authResponse(ctx, user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return s.userResponse(ctx, user)
}

func (s *AuthService) rehash(ctx context.Context, user *model.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		slog.Warn("rehash failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.users.UpdateAuthHash(ctx, user.ID, hash); err != nil {
		slog.Warn("storing rehashed credentials failed", "user_id", user.ID, "error", err)
		return
	}
	user.AuthHash = hash
}

func (s *AuthService) authResponse(ctx context.Context, user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	resp, err := s.userResponse(ctx, user)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Token: token, User: resp}, nil
}

func (s *AuthService) userResponse(ctx context.Context, user *model.User) (model.UserResponse, error) {
	theme, err := s.themes.LoadTheme(ctx, OwnerKey(user.ID))
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Theme:     theme,
		CreatedAt: user.CreatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
