// ABOUTME: Session store keeps open editor sessions with idle expiry
// ABOUTME: Backed by go-cache; an evicted or deleted session is closed

package editor

import (
	"time"

	"github.com/patrickmn/go-cache"

	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/interfaces"
)

// DefaultSessionTTL is how long an untouched session stays open
const DefaultSessionTTL = 2 * time.Hour

// Store is a registry of open sessions keyed by id
type Store struct {
	sessions *cache.Cache
	ttl      time.Duration
	logger   interfaces.Logger
}

// NewStore creates a session store. Sessions idle for longer than ttl are closed.
func NewStore(ttl time.Duration, logger interfaces.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	cleanup := ttl / 4
	if cleanup < time.Second {
		cleanup = time.Second
	}

	st := &Store{sessions: cache.New(ttl, cleanup), ttl: ttl, logger: logger}
	st.sessions.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
		}
		st.logger.Debug("Editor session evicted", map[string]interface{}{
			"session_id": id,
		})
	})
	return st
}

// Add registers s
func (st *Store) Add(s *Session) {
	st.sessions.Set(s.ID(), s, cache.DefaultExpiration)
}

// Get returns the session and extends its lifetime
func (st *Store) Get(id string) (*Session, error) {
	v, ok := st.sessions.Get(id)
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "session", ID: id}
	}
	s := v.(*Session)
	if s.Closed() {
		st.sessions.Delete(id)
		return nil, &coreerrors.NotFoundError{Resource: "session", ID: id}
	}
	st.sessions.Set(id, s, cache.DefaultExpiration)
	return s, nil
}

// GetOwned returns the session when owner may drive it
func (st *Store) GetOwned(id, owner string) (*Session, error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(owner); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete closes and removes the session
func (st *Store) Delete(id string) {
	st.sessions.Delete(id)
}

// Len returns the number of open sessions
func (st *Store) Len() int {
	return st.sessions.ItemCount()
}

// Close closes every open session
func (st *Store) Close() {
	for id := range st.sessions.Items() {
		st.sessions.Delete(id)
	}
}
