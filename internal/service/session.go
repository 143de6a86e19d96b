package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/scheduler"
)

// Option configures a FormSession or ChatSession.
type Option func(*session)

func WithLogger(l *zap.Logger) Option {
	return func(s *session) { s.log = l }
}

func WithMetrics(m metrics.Recorder) Option {
	return func(s *session) { s.metrics = m }
}

// WithOnChange registers fn to run after every successful mutation. fn runs
// on the session loop, so it must not block or call back into the session.
func WithOnChange(fn func()) Option {
	return func(s *session) { s.onChange = fn }
}

// session is the part both session kinds share: identity, the scheduler
// loop that serializes all state access, and the context that bounds
// backend calls made on the session's behalf.
type session struct {
	id        string
	kind      string
	createdAt time.Time

	sched    *scheduler.Scheduler
	log      *zap.Logger
	metrics  metrics.Recorder
	onChange func()

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func (s *session) init(kind string, opts []Option) {
	s.id = uuid.NewString()
	s.kind = kind
	s.createdAt = time.Now().UTC()
	s.log = zap.NewNop()
	s.metrics = metrics.Nop{}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("session_id", s.id), zap.String("kind", kind))
	s.sched = scheduler.New(scheduler.WithObserver(s.metrics))
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.metrics.SessionOpened(kind)
}

func (s *session) ID() string { return s.id }

// do runs fn on the session loop and reports the change when fn succeeds.
func (s *session) do(fn func() error) error {
	var err error
	if derr := s.sched.Do(func() {
		err = fn()
		if err == nil && s.onChange != nil {
			s.onChange()
		}
	}); derr != nil {
		return ErrSessionClosed
	}
	return err
}

func (s *session) read(fn func()) error {
	if err := s.sched.Do(fn); err != nil {
		return ErrSessionClosed
	}
	return nil
}

// Close cancels outstanding deferred work and in-flight backend calls and
// waits for the session's goroutines to exit. Later calls are no-ops.
func (s *session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		n := s.sched.Close()
		s.wg.Wait()
		s.metrics.SessionClosed(s.kind)
		s.log.Debug("session closed", zap.Int("cancelled_tasks", n))
	})
}
