package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"userdir/internal/domain"
	"userdir/internal/platform/core"
	"userdir/internal/platform/logging"
)

// ThemeKey is the settings key holding the persisted mode.
const ThemeKey = "theme"

// DefaultTheme applies when nothing (or something unknown) is persisted.
const DefaultTheme = domain.ThemeLight

// Store is the settings persistence the theme needs.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// ThemeService owns the persisted light/dark preference. The mode is held in
// memory once loaded; writes go to the store first.
type ThemeService struct {
	store    Store
	log      *zap.SugaredLogger
	notifier core.Notifier[domain.ThemeMode]

	mu      sync.Mutex
	mode    domain.ThemeMode
	version uint64
}

// NewThemeService returns a service in the default mode. Call Load or Restore
// to pick up the persisted value.
func NewThemeService(store Store, log *zap.SugaredLogger) *ThemeService {
	return &ThemeService{store: store, log: logging.OrNop(log), mode: DefaultTheme}
}

// NormalizeMode maps any stored value onto a known mode.
func NormalizeMode(value string) domain.ThemeMode {
	switch domain.ThemeMode(strings.ToLower(strings.TrimSpace(value))) {
	case domain.ThemeDark:
		return domain.ThemeDark
	case domain.ThemeLight:
		return domain.ThemeLight
	default:
		return DefaultTheme
	}
}

// Load reads the persisted mode; read failures fall back to the default.
func (s *ThemeService) Load(ctx context.Context) {
	value, _, err := s.store.GetSetting(ctx, ThemeKey)
	if err != nil {
		s.log.Warnw("theme read failed", "error", err)
		value = ""
	}
	s.Restore(value)
}

// Restore applies an already-read persisted value without writing it back.
func (s *ThemeService) Restore(value string) {
	s.mu.Lock()
	s.mode = NormalizeMode(value)
	mode, v := s.mode, s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, mode)
}

// Mode returns the current theme.
func (s *ThemeService) Mode() domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Set persists mode. Unknown modes are normalized first.
func (s *ThemeService) Set(ctx context.Context, mode domain.ThemeMode) (domain.ThemeMode, error) {
	return s.apply(ctx, func(domain.ThemeMode) domain.ThemeMode { return NormalizeMode(string(mode)) })
}

// Toggle flips light and dark and returns the new mode.
func (s *ThemeService) Toggle(ctx context.Context) (domain.ThemeMode, error) {
	next, err := s.apply(ctx, func(current domain.ThemeMode) domain.ThemeMode {
		if current == domain.ThemeDark {
			return domain.ThemeLight
		}
		return domain.ThemeDark
	})
	if err == nil {
		s.log.Debugw("theme toggled", "mode", next)
	}
	return next, err
}

// apply persists the mode derived from the current one. On failure the
// current mode is kept and returned.
func (s *ThemeService) apply(ctx context.Context, derive func(domain.ThemeMode) domain.ThemeMode) (domain.ThemeMode, error) {
	s.mu.Lock()
	next := derive(s.mode)
	if err := s.store.SetSetting(ctx, ThemeKey, string(next)); err != nil {
		current := s.mode
		s.mu.Unlock()
		return current, fmt.Errorf("persist theme: %w", err)
	}
	s.mode = next
	v := s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, next)
	return next, nil
}

func (s *ThemeService) bumpLocked() uint64 {
	s.version++
	return s.version
}

// Subscribe registers fn to receive every change.
func (s *ThemeService) Subscribe(fn func(domain.ThemeMode)) func() {
	return s.notifier.Subscribe(fn)
}
