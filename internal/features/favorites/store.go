package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"userdir/internal/domain"
	"userdir/internal/platform/core"
	"userdir/internal/platform/logging"
)

// StorageKey is the settings key holding the serialized favorites list.
const StorageKey = "favorites"

// ErrParse marks persisted favorites that could not be decoded. It is logged, never returned.
var ErrParse = errors.New("favorites: malformed persisted data")

// KV is the durable key/value storage the store persists into.
type KV interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// Store is the locally persisted set of favorite users, unique by id, in insertion order.
type Store struct {
	kv       KV
	log      *zap.SugaredLogger
	notifier core.Notifier[[]domain.User]

	mu      sync.Mutex
	list    []domain.User
	version uint64
}

// New returns an empty store persisting into kv. Call Load or Restore to hydrate it.
func New(kv KV, log *zap.SugaredLogger) *Store {
	return &Store{kv: kv, log: logging.OrNop(log)}
}

// NewStore hydrates the set from kv. Missing or corrupt data yields an empty set.
func NewStore(ctx context.Context, kv KV, log *zap.SugaredLogger) *Store {
	s := New(kv, log)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory set with the persisted one.
func (s *Store) Load(ctx context.Context) {
	raw, _, err := s.kv.GetSetting(ctx, StorageKey)
	if err != nil {
		s.log.Warnw("favorites reset to empty", "error", fmt.Errorf("read favorites: %w", err))
		raw = ""
	}
	s.Restore(raw)
}

// Restore replaces the in-memory set with an already-read persisted value
// without writing it back. Blank input is an empty set.
func (s *Store) Restore(raw string) {
	var list []domain.User
	if strings.TrimSpace(raw) != "" {
		decoded, err := Decode([]byte(raw))
		if err != nil {
			s.log.Warnw("favorites reset to empty", "error", err)
		} else {
			list = decoded
		}
	}
	s.mu.Lock()
	s.list = list
	snap, v := domain.CloneUsers(s.list), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, snap)
}

func (s *Store) bumpLocked() uint64 {
	s.version++
	return s.version
}

// Decode parses a serialized favorites list, dropping duplicate ids.
func Decode(raw []byte) ([]domain.User, error) {
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	seen := make(map[int]struct{}, len(users))
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

// Encode serializes the list as a JSON array (never null).
func Encode(users []domain.User) ([]byte, error) {
	if users == nil {
		users = []domain.User{}
	}
	return json.Marshal(users)
}

// Toggle removes the user if a favorite with the same id exists, otherwise
// appends it. The full resulting set is persisted before it becomes visible.
func (s *Store) Toggle(ctx context.Context, user domain.User) (bool, error) {
	s.mu.Lock()
	next, added := toggled(s.list, user)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.list = next
	snap, v := domain.CloneUsers(next), s.bumpLocked()
	s.mu.Unlock()

	s.notifier.Publish(v, snap)
	s.log.Debugw("favorite toggled", "id", user.ID, "added", added, "count", len(snap))
	return added, nil
}

func toggled(list []domain.User, user domain.User) ([]domain.User, bool) {
	next := make([]domain.User, 0, len(list)+1)
	removed := false
	for _, u := range list {
		if u.SameUser(user) {
			removed = true
			continue
		}
		next = append(next, u)
	}
	if removed {
		return next, false
	}
	return append(next, user), true
}

// Clear empties the set and removes the persisted key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.kv.DeleteSetting(ctx, StorageKey); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear favorites: %w", err)
	}
	s.list = nil
	v := s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, nil)
	return nil
}

func (s *Store) persist(ctx context.Context, list []domain.User) error {
	raw, err := Encode(list)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.SetSetting(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.list {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Lookup returns the stored copy of favorite id.
func (s *Store) Lookup(id int) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.list {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// List returns the favorites in insertion order.
func (s *Store) List() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneUsers(s.list)
}

// Snapshot is List under the name every store shares.
func (s *Store) Snapshot() []domain.User {
	return s.List()
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// Subscribe registers fn to receive the list after every change.
func (s *Store) Subscribe(fn func([]domain.User)) func() {
	return s.notifier.Subscribe(fn)
}
