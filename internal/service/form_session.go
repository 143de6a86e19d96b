package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/binding"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

// DefaultSubmitDelay is how long a submission stays in flight before the
// backend is called.
const DefaultSubmitDelay = 3 * time.Second

type FormConfig struct {
	SubmitDelay time.Duration
	Retry       RetryPolicy
}

func DefaultFormConfig() FormConfig {
	return FormConfig{
		SubmitDelay: DefaultSubmitDelay,
		Retry:       RetryPolicy{Attempts: 3, Timeout: 10 * time.Second, Backoff: 500 * time.Millisecond},
	}
}

type formPhase int

const (
	phaseEditing formPhase = iota
	phaseSubmitting
	phaseSubmitted
)

// FormSession drives one applicant through category selection, document
// collection and submission.
type FormSession struct {
	session
	backend SubmissionBackend
	cfg     FormConfig

	// Owned by the scheduler loop.
	store        *binding.Store
	phase        formPhase
	confirmation *models.Confirmation
	lastErr      error
}

// FormView is a point-in-time copy of a form session for rendering.
type FormView struct {
	ID           string                 `json:"id"`
	Category     models.Category        `json:"category,omitempty"`
	CategoryName string                 `json:"categoryName,omitempty"`
	State        models.SubmissionState `json:"state"`
	Documents    []models.Binding       `json:"documents"`
	CanSubmit    bool                   `json:"canSubmit"`
	Confirmation *models.Confirmation   `json:"confirmation,omitempty"`
	LastError    string                 `json:"lastError,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func NewFormSession(backend SubmissionBackend, cfg FormConfig, opts ...Option) *FormSession {
	s := &FormSession{
		backend: backend,
		cfg:     cfg,
		store:   binding.NewStore(),
	}
	s.init(metrics.KindForm, opts)
	s.log.Info("form session started")
	return s
}

// SelectCategory starts document collection for c with no files attached.
func (s *FormSession) SelectCategory(c models.Category) error {
	return s.mutate(func() error {
		if err := s.editable(); err != nil {
			return err
		}
		if err := s.store.Select(c); err != nil {
			return err
		}
		s.lastErr = nil
		s.log.Info("category selected", zap.String("category", string(c)))
		return nil
	})
}

// Attach binds ref to label; a nil ref clears the binding.
func (s *FormSession) Attach(label models.DocumentLabel, ref *models.FileRef) error {
	return s.mutate(func() error {
		if err := s.editable(); err != nil {
			return err
		}
		if err := s.store.Attach(label, ref); err != nil {
			return err
		}
		s.log.Debug("document attached",
			zap.String("label", string(label)),
			zap.Bool("bound", ref != nil))
		return nil
	})
}

func (s *FormSession) IsBound(label models.DocumentLabel) (bool, error) {
	var bound bool
	err := s.read(func() { bound = s.store.IsBound(label) })
	return bound, err
}

func (s *FormSession) State() (models.SubmissionState, error) {
	var st models.SubmissionState
	err := s.read(func() { st = s.state() })
	return st, err
}

func (s *FormSession) View() (FormView, error) {
	var v FormView
	err := s.read(func() { v = s.view() })
	return v, err
}

// Submit moves a ready form into Submitting and schedules the backend call.
// It fails with ErrNotReady unless the form is ReadyToSubmit.
func (s *FormSession) Submit() error {
	return s.mutate(func() error {
		switch st := s.state(); st {
		case models.StateReadyToSubmit:
		case models.StateSubmitting:
			return fmt.Errorf("%w: %w", ErrNotReady, ErrSubmissionInFlight)
		case models.StateSubmitted:
			return fmt.Errorf("%w: %w", ErrNotReady, ErrAlreadySubmitted)
		default:
			return fmt.Errorf("%w: state %s", ErrNotReady, st)
		}

		c, _ := s.store.Category()
		bindings := s.store.Bindings()
		if _, err := s.sched.Schedule(s.cfg.SubmitDelay, func() { s.dispatch(c, bindings) }); err != nil {
			return ErrSessionClosed
		}
		s.phase = phaseSubmitting
		s.lastErr = nil
		s.log.Info("submission scheduled", zap.Duration("delay", s.cfg.SubmitDelay))
		return nil
	})
}

// dispatch runs on the loop when the submit delay elapses and hands the
// backend call to a goroutine bound to the session context.
func (s *FormSession) dispatch(c models.Category, bindings []models.Binding) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		start := time.Now()
		var conf models.Confirmation
		attempts, err := s.cfg.Retry.run(s.ctx, func(ctx context.Context) error {
			var err error
			conf, err = s.backend.Submit(ctx, c, bindings)
			return classifySubmission(err)
		}, retryableSubmission)
		if s.ctx.Err() != nil {
			return
		}

		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		s.metrics.SubmissionFinished(outcome, attempts, time.Since(start))

		_ = s.mutate(func() error {
			s.finish(conf, attempts, err)
			return nil
		})
	}()
}

func (s *FormSession) finish(conf models.Confirmation, attempts int, err error) {
	if err != nil {
		s.phase = phaseEditing
		s.lastErr = err
		s.log.Warn("submission failed", zap.Int("attempts", attempts), zap.Error(err))
		return
	}
	s.phase = phaseSubmitted
	s.confirmation = &conf
	s.log.Info("submission confirmed",
		zap.String("confirmation_id", conf.ID),
		zap.Int("attempts", attempts))
}

// mutate runs fn on the loop and records any state transition it caused.
func (s *FormSession) mutate(fn func() error) error {
	return s.do(func() error {
		before := s.state()
		if err := fn(); err != nil {
			return err
		}
		if after := s.state(); after != before {
			s.metrics.Transition(before, after)
			s.log.Debug("state changed",
				zap.String("from", string(before)),
				zap.String("to", string(after)))
		}
		return nil
	})
}

func (s *FormSession) editable() error {
	switch s.phase {
	case phaseSubmitting:
		return ErrSubmissionInFlight
	case phaseSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

// state derives the workflow state. Readiness is computed from the current
// bindings on every call and never stored.
func (s *FormSession) state() models.SubmissionState {
	switch s.phase {
	case phaseSubmitting:
		return models.StateSubmitting
	case phaseSubmitted:
		return models.StateSubmitted
	}
	if _, ok := s.store.Category(); !ok {
		return models.StateIdle
	}
	if s.store.Complete() {
		return models.StateReadyToSubmit
	}
	return models.StateCollectingDocuments
}

func (s *FormSession) view() FormView {
	st := s.state()
	v := FormView{
		ID:        s.id,
		State:     st,
		Documents: s.store.Bindings(),
		CanSubmit: st == models.StateReadyToSubmit,
		CreatedAt: s.createdAt,
	}
	if c, ok := s.store.Category(); ok {
		v.Category = c
		v.CategoryName = c.Label()
	}
	if s.confirmation != nil {
		cp := *s.confirmation
		v.Confirmation = &cp
	}
	if s.lastErr != nil {
		v.LastError = s.lastErr.Error()
	}
	return v
}
