package service

import (
	"context"
	"fmt"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// ThemeKey is the preference key holding the theme choice.
const ThemeKey = "theme"

// ThemeState is the stored preference and what it resolves to.
type ThemeState struct {
	Preference entity.ThemePreference `json:"preference"`
	Effective  entity.ThemePreference `json:"effective"`
}

// ThemeService reads and writes the color scheme preference
type ThemeService interface {
	Get(ctx context.Context, signal string) (*ThemeState, error)
	Set(ctx context.Context, pref entity.ThemePreference, signal string) (*ThemeState, error)
}

type themeServiceImpl struct {
	store  port.PreferenceStore
	logger Logger
}

// NewThemeService creates a new ThemeService
func NewThemeService(store port.PreferenceStore, logger Logger) ThemeService {
	return &themeServiceImpl{store: store, logger: logger}
}

// Get returns the stored preference (system when unset or unreadable as a
// theme) resolved against signal, the client's reported color scheme.
func (s *themeServiceImpl) Get(ctx context.Context, signal string) (*ThemeState, error) {
	raw, ok, err := s.store.Get(ctx, ThemeKey)
	if err != nil {
		s.logger.Error("Failed to read theme preference", "error", err)
		return nil, fmt.Errorf("get theme: %w", err)
	}

	pref := entity.ThemeSystem
	if ok && entity.ThemePreference(raw).IsValid() {
		pref = entity.ThemePreference(raw)
	}
	return &ThemeState{Preference: pref, Effective: pref.Resolve(signal)}, nil
}

// Set stores pref and returns it resolved against signal
func (s *themeServiceImpl) Set(ctx context.Context, pref entity.ThemePreference, signal string) (*ThemeState, error) {
	if !pref.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTheme, pref)
	}
	if err := s.store.Set(ctx, ThemeKey, string(pref)); err != nil {
		s.logger.Error("Failed to save theme preference", "error", err)
		return nil, fmt.Errorf("set theme: %w", err)
	}
	s.logger.Info("Theme preference saved", "theme", pref)
	return &ThemeState{Preference: pref, Effective: pref.Resolve(signal)}, nil
}
