// Package scheduler runs deferred tasks for a single session.
//
// Each Scheduler owns one loop goroutine. Task actions and closures passed
// to Do run on that goroutine one at a time, which makes it the session's
// only thread of control: state touched exclusively from the loop needs no
// locking. Tasks fire in due-time order; tasks due at the same instant fire
// in the order they were scheduled.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

var (
	// ErrHandleInvalid is returned when cancelling a handle that already
	// fired, was already cancelled, or never existed. It is safe to ignore.
	ErrHandleInvalid = errors.New("scheduler: handle invalid")
	ErrClosed        = errors.New("scheduler: closed")
)

// Handle identifies one scheduled task. The zero Handle is never issued.
type Handle uint64

// Observer is told about task outcomes, typically to feed metrics.
type Observer interface {
	TaskFired()
	TasksCancelled(n int)
}

type Option func(*Scheduler)

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.obs = o }
}

type Scheduler struct {
	mu     sync.Mutex
	tasks  taskHeap
	byID   map[Handle]*task
	nextID uint64
	closed bool

	wake    chan struct{}
	calls   chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	obs Observer
}

// New starts a scheduler loop. Close must be called to stop it.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		byID:    map[Handle]*task{},
		wake:    make(chan struct{}, 1),
		calls:   make(chan func()),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.run()
	return s
}

// Schedule arranges for action to run on the loop once, no earlier than
// delay from now, unless the returned handle is cancelled first.
func (s *Scheduler) Schedule(delay time.Duration, action func()) (Handle, error) {
	if delay < 0 {
		delay = 0
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	s.nextID++
	t := &task{
		id:     Handle(s.nextID),
		due:    time.Now().Add(delay),
		action: action,
	}
	heap.Push(&s.tasks, t)
	s.byID[t.id] = t
	head := s.tasks[0] == t
	s.mu.Unlock()

	if head {
		s.poke()
	}
	return t.id, nil
}

// Cancel prevents a pending task from running. Cancelling a handle that is
// no longer pending returns ErrHandleInvalid and changes nothing.
func (s *Scheduler) Cancel(h Handle) error {
	s.mu.Lock()
	t, ok := s.byID[h]
	if !ok {
		s.mu.Unlock()
		return ErrHandleInvalid
	}
	heap.Remove(&s.tasks, t.index)
	delete(s.byID, h)
	s.mu.Unlock()

	if s.obs != nil {
		s.obs.TasksCancelled(1)
	}
	s.poke()
	return nil
}

// Pending returns the number of tasks that have neither fired nor been
// cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from a task action or from inside another Do, since the loop would wait on
// itself.
func (s *Scheduler) Do(fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case s.calls <- wrapped:
	case <-s.quit:
		return ErrClosed
	}
	<-done
	return nil
}

// Close cancels every pending task, stops the loop and waits for it to
// exit. A task action that is already running finishes first. Close is
// idempotent and returns the number of tasks it cancelled.
func (s *Scheduler) Close() int {
	s.mu.Lock()
	n := len(s.tasks)
	s.closed = true
	s.tasks = nil
	s.byID = map[Handle]*task{}
	s.mu.Unlock()

	s.once.Do(func() { close(s.quit) })
	<-s.stopped

	if n > 0 && s.obs != nil {
		s.obs.TasksCancelled(n)
	}
	return n
}

func (s *Scheduler) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer close(s.stopped)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var timerC <-chan time.Time
		if wait, ok := s.nextWait(); ok {
			timer.Reset(wait)
			timerC = timer.C
		}

		select {
		case <-s.quit:
			return
		case fn := <-s.calls:
			fn()
		case <-s.wake:
		case <-timerC:
			s.fireDue()
		}
		timer.Stop()
	}
}

func (s *Scheduler) nextWait() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return 0, false
	}
	return max(time.Until(s.tasks[0].due), 0), true
}

// fireDue runs due tasks one at a time, re-checking the heap between them
// so an action may cancel a task that is also due.
func (s *Scheduler) fireDue() {
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		s.mu.Lock()
		if len(s.tasks) == 0 || s.tasks[0].due.After(time.Now()) {
			s.mu.Unlock()
			return
		}
		t := heap.Pop(&s.tasks).(*task)
		delete(s.byID, t.id)
		s.mu.Unlock()

		t.action()
		if s.obs != nil {
			s.obs.TaskFired()
		}
	}
}
