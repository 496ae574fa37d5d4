package core

import (
	"sync"
	"time"

	"github.com/JonMunkholm/easyfin/internal/table"
)

// DefaultViewTTL is how long an untouched view survives.
const DefaultViewTTL = 30 * time.Minute

type viewKey struct {
	session string
	table   string
}

// view is one mounted table: a controller plus the lock that serialises
// access to it.
type view struct {
	mu       sync.Mutex
	ctrl     *table.Controller
	loaded   bool
	lastUsed time.Time
}

// ViewStore keeps one table.Controller per (session, table). A view lives
// until it has been idle longer than the TTL; the sweeper then drops it,
// which is the server-side equivalent of unmounting the table.
type ViewStore struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	views map[viewKey]*view
}

// NewViewStore creates a store that evicts views idle for longer than ttl.
func NewViewStore(ttl time.Duration) *ViewStore {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &ViewStore{
		ttl:   ttl,
		now:   time.Now,
		views: make(map[viewKey]*view),
	}
}

// acquire returns the locked view for (session, key), creating it with
// newCtrl when absent. The caller must unlock the view.
func (s *ViewStore) acquire(session, key string, newCtrl func() *table.Controller) *view {
	k := viewKey{session: session, table: key}

	s.mu.Lock()
	v, ok := s.views[k]
	if !ok {
		v = &view{ctrl: newCtrl()}
		s.views[k] = v
	}
	v.lastUsed = s.now()
	s.mu.Unlock()

	v.mu.Lock()
	return v
}

// rows returns the full collection of a loaded view, if one is mounted.
func (s *ViewStore) rows(session, key string) ([]table.Row, bool) {
	s.mu.Lock()
	v, ok := s.views[viewKey{session: session, table: key}]
	if ok {
		v.lastUsed = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		return nil, false
	}
	return v.ctrl.Rows(), true
}

// Len returns the number of mounted views.
func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Drop unmounts every view of a session.
func (s *ViewStore) Drop(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.views {
		if k.session == session {
			delete(s.views, k)
			n++
		}
	}
	return n
}

// Sweep evicts views idle longer than the TTL and returns how many went.
func (s *ViewStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, v := range s.views {
		if v.lastUsed.Before(cutoff) {
			delete(s.views, k)
			n++
		}
	}
	return n
}
