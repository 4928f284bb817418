package detail

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"userdir/internal/domain"
	"userdir/internal/platform/core"
	"userdir/internal/platform/logging"
)

// ErrSuperseded is returned by a selection that was replaced or cleared before it resolved.
var ErrSuperseded = errors.New("detail request superseded")

// Source is the user-lookup half of the remote gateway.
type Source interface {
	FetchUserByID(ctx context.Context, id int) (domain.User, error)
}

// Snapshot is an immutable copy of the detail state.
type Snapshot struct {
	Selected *domain.User `json:"selected"`
	Loading  bool         `json:"loading"`
	Err      string       `json:"error,omitempty"`
}

// State holds the user shown in the detail view.
type State struct {
	source   Source
	log      *zap.SugaredLogger
	notifier core.Notifier[Snapshot]

	mu      sync.Mutex
	snap    Snapshot
	seq     uint64
	version uint64
}

func NewState(source Source, log *zap.SugaredLogger) *State {
	return &State{source: source, log: logging.OrNop(log)}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Subscribe registers fn to receive every new snapshot.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	return s.notifier.Subscribe(fn)
}

// Select loads user id. On failure the selection is cleared and the message recorded.
func (s *State) Select(ctx context.Context, id int) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.snap.Loading = true
	s.snap.Err = ""
	loading, v := s.copyLocked(), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, loading)

	user, err := s.source.FetchUserByID(ctx, id)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.log.Debugw("discarding stale detail result", "id", id, "seq", seq)
		return ErrSuperseded
	}
	s.snap.Loading = false
	if err != nil {
		s.snap.Selected = nil
		s.snap.Err = err.Error()
	} else {
		s.snap.Selected = &user
	}
	done, v := s.copyLocked(), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, done)
	return err
}

// Clear drops the selection when the detail view is dismissed. Any request
// still in flight is discarded when it resolves.
func (s *State) Clear() {
	s.mu.Lock()
	s.seq++
	s.snap = Snapshot{}
	snap, v := s.copyLocked(), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, snap)
}

func (s *State) bumpLocked() uint64 {
	s.version++
	return s.version
}

func (s *State) copyLocked() Snapshot {
	out := s.snap
	if s.snap.Selected != nil {
		u := *s.snap.Selected
		out.Selected = &u
	}
	return out
}
