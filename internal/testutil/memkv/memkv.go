// Package memkv is an in-memory settings repository for tests.
package memkv

import (
	"context"
	"sync"
)

// Store implements settings.Repository in memory. Setting Fail makes every
// write return that error; ReadFail does the same for GetSettings.
type Store struct {
	mu       sync.Mutex
	values   map[string]string
	Fail     error
	ReadFail error
	Writes   int
}

func New() *Store {
	return &Store{values: map[string]string{}}
}

// Seed stores a raw value without counting it as a write.
func (s *Store) Seed(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Raw returns the stored value for key.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadFail != nil {
		return nil, s.ReadFail
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	v, ok := s.Raw(key)
	return v, ok, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.Writes++
	s.values[key] = value
	return nil
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.Writes++
	delete(s.values, key)
	return nil
}
