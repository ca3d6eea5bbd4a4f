package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

// memoryStore is an in-memory PreferenceStore for tests.
type memoryStore struct {
	values map[string]string
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) LoadPreference(_ context.Context, owner, name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	v, ok := s.values[owner+"/"+name]
	if !ok {
		return "", repository.ErrPreferenceNotFound
	}
	return v, nil
}

func (s *memoryStore) SavePreference(_ context.Context, owner, name, value string) error {
	if s.err != nil {
		return s.err
	}
	s.values[owner+"/"+name] = value
	return nil
}

func TestLoadTheme_DefaultsToLight(t *testing.T) {
	svc := NewThemeService(newMemoryStore(), nil)

	theme, err := svc.LoadTheme(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != model.ThemeLight {
		t.Errorf("expected light, got %q", theme)
	}
}

func TestLoadTheme_IgnoresUnknownValue(t *testing.T) {
	store := newMemoryStore()
	store.values["1/theme"] = "solarized"
	svc := NewThemeService(store, nil)

	theme, err := svc.LoadTheme(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != model.ThemeLight {
		t.Errorf("expected light, got %q", theme)
	}
}

func TestSaveTheme(t *testing.T) {
	store := newMemoryStore()
	svc := NewThemeService(store, nil)
	ctx := context.Background()

	if err := svc.SaveTheme(ctx, "1", model.ThemeDark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	theme, err := svc.LoadTheme(ctx, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != model.ThemeDark {
		t.Errorf("expected dark, got %q", theme)
	}

	// Owners are isolated.
	other, err := svc.LoadTheme(ctx, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other != model.ThemeLight {
		t.Errorf("expected light for other owner, got %q", other)
	}
}

func TestSaveTheme_Invalid(t *testing.T) {
	svc := NewThemeService(newMemoryStore(), nil)

	for _, theme := range []string{"", "Dark", "blue"} {
		if err := svc.SaveTheme(context.Background(), "1", theme); !errors.Is(err, ErrInvalidTheme) {
			t.Errorf("SaveTheme(%q): expected ErrInvalidTheme, got %v", theme, err)
		}
	}
}

func TestToggleTheme(t *testing.T) {
	svc := NewThemeService(newMemoryStore(), nil)
	ctx := context.Background()

	for _, want := range []string{model.ThemeDark, model.ThemeLight, model.ThemeDark} {
		got, err := svc.ToggleTheme(ctx, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestTheme_StoreErrorsPropagate(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	svc := NewThemeService(store, nil)

	if _, err := svc.LoadTheme(context.Background(), "1"); err == nil {
		t.Error("expected LoadTheme error")
	}
	if _, err := svc.ToggleTheme(context.Background(), "1"); err == nil {
		t.Error("expected ToggleTheme error")
	}
}
