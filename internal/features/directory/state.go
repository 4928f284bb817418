package directory

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"userdir/internal/domain"
	"userdir/internal/platform/core"
	"userdir/internal/platform/logging"
)

const (
	initialPage    = 1
	initialPerPage = 6
)

// ErrSuperseded is returned by a page request whose result arrived after a newer request was issued.
var ErrSuperseded = errors.New("page request superseded")

// Status is the lifecycle of the most recent page fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Source is the page-fetching half of the remote gateway.
type Source interface {
	FetchPage(ctx context.Context, page int) (domain.Page, error)
}

// Snapshot is an immutable copy of the directory state.
type Snapshot struct {
	Items      []domain.User `json:"items"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Status     Status        `json:"-"`
	Loading    bool          `json:"loading"`
	Err        string        `json:"error,omitempty"`
	SearchTerm string        `json:"search_term"`
}

// Visible returns the items matching the current search term.
func (s Snapshot) Visible() []domain.User {
	return Filter(s.Items, s.SearchTerm)
}

// PrevPage is the page before the current one, never below 1. A page past
// the end steps back to the last known page.
func (s Snapshot) PrevPage() int {
	if s.Page <= 1 {
		return 1
	}
	if s.TotalPages > 0 && s.Page > s.TotalPages {
		return s.TotalPages
	}
	return s.Page - 1
}

// NextPage is the page after the current one, never beyond TotalPages.
func (s Snapshot) NextPage() int {
	if s.TotalPages < 1 || s.Page >= s.TotalPages {
		return s.Page
	}
	return s.Page + 1
}

func (s Snapshot) HasPrev() bool { return s.Page > 1 }

func (s Snapshot) HasNext() bool { return s.Page < s.TotalPages }

// State owns the current page, its load status and the search term.
type State struct {
	source   Source
	log      *zap.SugaredLogger
	notifier core.Notifier[Snapshot]

	mu      sync.Mutex
	snap    Snapshot
	seq     uint64
	version uint64
}

// NewState returns an idle directory positioned on page 1.
func NewState(source Source, log *zap.SugaredLogger) *State {
	return &State{
		source: source,
		log:    logging.OrNop(log),
		snap: Snapshot{
			Page:    initialPage,
			PerPage: initialPerPage,
			Status:  StatusIdle,
		},
	}
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

// VisibleItems applies the search term to the current page.
func (s *State) VisibleItems() []domain.User {
	return s.Snapshot().Visible()
}

// SetPage records the page the caller intends to view. It does not fetch.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.update(func(snap *Snapshot) { snap.Page = page })
}

// SetSearchTerm replaces the search term. It has no network effect.
func (s *State) SetSearchTerm(term string) {
	s.update(func(snap *Snapshot) { snap.SearchTerm = term })
}

// RequestPage enters Loading, fetches page and applies the outcome unless a
// newer request was issued meanwhile. On failure the previous items are kept.
func (s *State) RequestPage(ctx context.Context, page int) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.snap.Status = StatusLoading
	s.snap.Loading = true
	s.snap.Err = ""
	loading, v := s.copyLocked(), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, loading)

	result, err := s.source.FetchPage(ctx, page)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.log.Debugw("discarding stale page result", "page", page, "seq", seq)
		return ErrSuperseded
	}
	s.snap.Loading = false
	if err != nil {
		s.snap.Status = StatusFailed
		s.snap.Err = errorMessage(err)
	} else {
		s.snap.Status = StatusLoaded
		s.snap.Items = domain.CloneUsers(result.Data)
		s.snap.Page = result.Page
		s.snap.PerPage = result.PerPage
		s.snap.Total = result.Total
		s.snap.TotalPages = result.TotalPages
	}
	done, v := s.copyLocked(), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, done)

	if err != nil {
		s.log.Infow("page request failed", "page", page, "error", err)
	}
	return err
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	snap, v := s.copyLocked(), s.bumpLocked()
	s.mu.Unlock()
	s.notifier.Publish(v, snap)
}

// bumpLocked assigns the version of the snapshot about to be published.
func (s *State) bumpLocked() uint64 {
	s.version++
	return s.version
}

func (s *State) copyLocked() Snapshot {
	out := s.snap
	out.Items = domain.CloneUsers(s.snap.Items)
	return out
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed"
}
