package engine

import (
	"sync"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Session carries the state shared by a sequence of execution calls: the
// variables declared so far plus bookkeeping. Fields are not internally
// locked; the caller serializes calls on one session id (concurrent use of
// a single id is undefined by contract).
type Session struct {
	ID      string
	Created time.Time

	vars  map[string]cty.Value
	calls int
}

// Calls returns how many executions have committed into this session.
func (s *Session) Calls() int { return s.calls }

// snapshot returns a working copy of the session's variables for one call.
func (s *Session) snapshot() map[string]cty.Value {
	vars := make(map[string]cty.Value, len(s.vars))
	for k, v := range s.vars {
		vars[k] = v
	}
	return vars
}

// commit replaces the session state with the variables produced by a
// successful call. Failed calls leave the session untouched.
func (s *Session) commit(vars map[string]cty.Value) {
	s.vars = vars
	s.calls++
}

// Store is the explicit session registry: a map from id to session with a
// create/evict lifecycle, passed into the engine rather than held in
// package state.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it on first use. The
// second result reports whether the session was just created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, false
	}
	sess := &Session{ID: id, Created: time.Now(), vars: make(map[string]cty.Value)}
	s.sessions[id] = sess
	return sess, true
}

// Evict removes a session. It reports whether the id existed.
func (s *Store) Evict(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Clear drops every session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*Session)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
