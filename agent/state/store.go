package state

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrStateNotFound   = errors.New("session state not found")
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

// Store is the persistence contract for session state.
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, st *SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// GetOrCreate loads the state for sessionID, constructing and persisting a
// fresh one on first reference. Repeated calls with the same id never reset
// existing progress.
func GetOrCreate(ctx context.Context, store Store, sessionID string, now time.Time) (*SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	st, err := store.Load(ctx, sessionID)
	if err == nil {
		st.EnsureInitialized()
		return st, nil
	}
	if !errors.Is(err, ErrStateNotFound) {
		return nil, err
	}

	st = NewSessionState(sessionID, now)
	if err := store.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// MemoryStore keeps session state in-process. It is the default backend:
// state lives for the process lifetime with no eviction, matching a
// stateless-serving deployment where sessions are expendable on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionState),
	}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	m.mu.RLock()
	st, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return st.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, st *SessionState) error {
	if st == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	m.sessions[st.SessionID] = st.Clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// SessionLocks serializes work on one session without blocking others. The
// merge → transition → write-back sequence is not atomic at the store level,
// so callers hold the session's lock across the whole turn.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Acquire locks the mutex owned by sessionID and returns its unlock func.
func (l *SessionLocks) Acquire(sessionID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[sessionID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
