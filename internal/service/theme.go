package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

const themePreference = "theme"

var ErrInvalidTheme = errors.New("theme must be \"light\" or \"dark\"")

// PreferenceStore persists string preferences per owner.
type PreferenceStore interface {
	LoadPreference(ctx context.Context, owner, name string) (string, error)
	SavePreference(ctx context.Context, owner, name, value string) error
}

// ThemeService loads and saves the light/dark theme of an owner.
type ThemeService struct {
	store   PreferenceStore
	metrics *metrics.Metrics
}

// NewThemeService creates a new ThemeService.
func NewThemeService(store PreferenceStore, m *metrics.Metrics) *ThemeService {
	return &ThemeService{store: store, metrics: m}
}

// LoadTheme returns the owner's theme, or light when none is stored.
func (s *ThemeService) LoadTheme(ctx context.Context, owner string) (string, error) {
	theme, err := s.store.LoadPreference(ctx, owner, themePreference)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return model.ThemeLight, nil
		}
		return "", err
	}

	if !validTheme(theme) {
		slog.Warn("ignoring unrecognized stored theme", "owner", owner, "theme", theme)
		return model.ThemeLight, nil
	}
	return theme, nil
}

// SaveTheme stores theme for owner.
func (s *ThemeService) SaveTheme(ctx context.Context, owner, theme string) error {
	if !validTheme(theme) {
		return ErrInvalidTheme
	}
	if err := s.store.SavePreference(ctx, owner, themePreference, theme); err != nil {
		return err
	}
	s.metrics.ObserveThemeChange(theme)
	return nil
}

// ToggleTheme flips the owner's theme and returns the new value.
func (s *ThemeService) ToggleTheme(ctx context.Context, owner string) (string, error) {
	current, err := s.LoadTheme(ctx, owner)
	if err != nil {
		return "", err
	}

	next := model.ThemeDark
	if current == model.ThemeDark {
		next = model.ThemeLight
	}

	if err := s.SaveTheme(ctx, owner, next); err != nil {
		return "", err
	}
	return next, nil
}

func validTheme(theme string) bool {
	return theme == model.ThemeLight || theme == model.ThemeDark
}
