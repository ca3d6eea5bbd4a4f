package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

type memoryUsers struct {
	byID    map[int64]*model.User
	updates int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*model.User)}
}

func (m *memoryUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = int64(len(m.byID) + 1)
	user.CreatedAt = time.Now()
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (m *memoryUsers) UpdateAuthHash(_ context.Context, id int64, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AuthHash = hash
	m.updates++
	return nil
}

var testHashParams = crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestAuthService(users *memoryUsers, params crypto.HashParams) *AuthService {
	return NewAuthService(
		users,
		NewThemeService(newMemoryStore(), nil),
		crypto.NewHasher(params),
		crypto.NewTokenIssuer("test-secret", time.Hour),
	)
}

func TestRegister_EmptyEmail(t *testing.T) {
	svc := newTestAuthService(newMemoryUsers(), testHashParams)

	_, err := svc.Register(context.Background(), model.CredentialsRequest{
		Email:    "  ",
		Password: "password123",
	})

	if err != ErrEmailRequired {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestRegister_EmptyPassword(t *testing.T) {
	svc := newTestAuthService(newMemoryUsers(), testHashParams)

	_, err := svc.Register(context.Background(), model.CredentialsRequest{
		Email:    "test@example.com",
		Password: "",
	})

	if err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(newMemoryUsers(), testHashParams)
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.CredentialsRequest{Email: "Test@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Token == "" {
		t.Error("expected a token")
	}
	if reg.User.Email != "test@example.com" {
		t.Errorf("expected normalized email, got %q", reg.User.Email)
	}
	if reg.User.Theme != model.ThemeLight {
		t.Errorf("expected default light theme, got %q", reg.User.Theme)
	}

	login, err := svc.Login(ctx, model.CredentialsRequest{Email: "test@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("expected user %d, got %d", reg.User.ID, login.User.ID)
	}

	if _, err := svc.Register(ctx, model.CredentialsRequest{Email: "test@example.com", Password: "x"}); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(newMemoryUsers(), testHashParams)
	ctx := context.Background()

	if _, err := svc.Register(ctx, model.CredentialsRequest{Email: "a@example.com", Password: "right"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []model.CredentialsRequest{
		{Email: "a@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "right"},
	}
	for _, req := range tests {
		if _, err := svc.Login(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s): expected ErrInvalidCredentials, got %v", req.Email, err)
		}
	}
}

func TestLogin_UnknownEmailStillVerifies(t *testing.T) {
	svc := newTestAuthService(newMemoryUsers(), testHashParams)
	ctx := context.Background()

	if svc.dummyHash == "" {
		t.Fatal("expected a dummy hash to be prepared")
	}

	var verified []string
	verify := svc.verify
	svc.verify = func(password, encodedHash string) (bool, error) {
		verified = append(verified, encodedHash)
		return verify(password, encodedHash)
	}

	if _, err := svc.Login(ctx, model.CredentialsRequest{Email: "ghost@example.com", Password: "guess"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(verified) != 1 || verified[0] != svc.dummyHash {
		t.Errorf("expected one verification against the dummy hash, got %v", verified)
	}
}

func TestLogin_RehashesOutdatedHash(t *testing.T) {
	users := newMemoryUsers()
	ctx := context.Background()

	if _, err := newTestAuthService(users, testHashParams).Register(ctx, model.CredentialsRequest{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stronger := testHashParams
	stronger.Iterations = 2
	svc := newTestAuthService(users, stronger)

	if _, err := svc.Login(ctx, model.CredentialsRequest{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.updates != 1 {
		t.Fatalf("expected 1 hash update, got %d", users.updates)
	}

	// The upgraded hash verifies and is not rehashed again.
	if _, err := svc.Login(ctx, model.CredentialsRequest{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.updates != 1 {
		t.Errorf("expected no further updates, got %d", users.updates)
	}
}

func TestGetUser_IncludesTheme(t *testing.T) {
	users := newMemoryUsers()
	themes := NewThemeService(newMemoryStore(), nil)
	svc := NewAuthService(users, themes, crypto.NewHasher(testHashParams), crypto.NewTokenIssuer("s", time.Hour))
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.CredentialsRequest{Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := themes.SaveTheme(ctx, OwnerKey(reg.User.ID), model.ThemeDark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := svc.GetUser(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Theme != model.ThemeDark {
		t.Errorf("expected dark, got %q", user.Theme)
	}

	if _, err := svc.GetUser(ctx, 999); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
