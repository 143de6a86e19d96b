package repository

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is what the repository needs from a live session.
type Session interface {
	ID() string
	Close()
}

type entry[T Session] struct {
	session  T
	lastSeen time.Time
}

// SessionRepo is an in-memory registry of live sessions. Sessions idle for
// longer than the TTL are closed and dropped by Reap.
type SessionRepo[T Session] struct {
	mu       sync.Mutex
	sessions map[string]*entry[T]
	ttl      time.Duration
	now      func() time.Time
	log      *zap.Logger
	stop     chan struct{}
	reaper   sync.WaitGroup
	stopOnce sync.Once
}

type (
	FormRepo = SessionRepo[*service.FormSession]
	ChatRepo = SessionRepo[*service.ChatSession]
)

func NewSessionRepo[T Session](ttl time.Duration, log *zap.Logger) *SessionRepo[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRepo[T]{
		sessions: map[string]*entry[T]{},
		ttl:      ttl,
		now:      time.Now,
		log:      log,
		stop:     make(chan struct{}),
	}
}

func NewFormRepo(ttl time.Duration, log *zap.Logger) *FormRepo {
	return NewSessionRepo[*service.FormSession](ttl, log.With(zap.String("repo", "forms")))
}

func NewChatRepo(ttl time.Duration, log *zap.Logger) *ChatRepo {
	return NewSessionRepo[*service.ChatSession](ttl, log.With(zap.String("repo", "chats")))
}

func (r *SessionRepo[T]) Add(s T) {
	r.mu.Lock()
	r.sessions[s.ID()] = &entry[T]{session: s, lastSeen: r.now()}
	r.mu.Unlock()
}

// Get returns the session with id and marks it as recently used.
func (r *SessionRepo[T]) Get(id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Remove closes the session with id and drops it.
func (r *SessionRepo[T]) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.session.Close()
	return nil
}

func (r *SessionRepo[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap closes every session idle for longer than the TTL and returns how
// many were closed. A zero TTL disables reaping.
func (r *SessionRepo[T]) Reap() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var idle []T
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		r.log.Info("idle session reaped", zap.String("session_id", s.ID()))
	}
	return len(idle)
}

// StartReaper calls Reap every interval until Close.
func (r *SessionRepo[T]) StartReaper(interval time.Duration) {
	r.reaper.Add(1)
	go func() {
		defer r.reaper.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.Reap()
			}
		}
	}()
}

// Close stops the reaper if one is running and closes every session.
func (r *SessionRepo[T]) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.reaper.Wait()

	r.mu.Lock()
	all := make([]T, 0, len(r.sessions))
	for id, e := range r.sessions {
		all = append(all, e.session)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
