package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotReady           = errors.New("form is not ready to submit")
	ErrSubmissionInFlight = errors.New("submission in progress")
	ErrAlreadySubmitted   = errors.New("form already submitted")
	ErrTooManyPending     = errors.New("too many replies pending")
	ErrSessionClosed      = errors.New("session closed")
)

// Failure kinds carried by SubmissionError and MessagingError.
var (
	ErrRejected  = errors.New("rejected")
	ErrTimeout   = errors.New("timed out")
	ErrTransport = errors.New("transport failure")
)

// SubmissionError is a failed hand-off to the submission backend. Kind is
// one of ErrRejected, ErrTimeout or ErrTransport and matches with errors.Is.
type SubmissionError struct {
	Kind error
	Err  error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("submission %s", e.Kind)
	}
	return fmt.Sprintf("submission %s: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() []error { return []error{e.Kind, e.Err} }

// MessagingError is a failed call to the messaging backend. Kind is
// ErrTimeout or ErrTransport.
type MessagingError struct {
	Kind error
	Err  error
}

func (e *MessagingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("messaging %s", e.Kind)
	}
	return fmt.Sprintf("messaging %s: %v", e.Kind, e.Err)
}

func (e *MessagingError) Unwrap() []error { return []error{e.Kind, e.Err} }

func classifySubmission(err error) error {
	if err == nil {
		return nil
	}
	var se *SubmissionError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &SubmissionError{Kind: ErrTimeout, Err: err}
	}
	return &SubmissionError{Kind: ErrTransport, Err: err}
}

func classifyMessaging(err error) error {
	if err == nil {
		return nil
	}
	var me *MessagingError
	if errors.As(err, &me) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &MessagingError{Kind: ErrTimeout, Err: err}
	}
	return &MessagingError{Kind: ErrTransport, Err: err}
}

func retryableSubmission(err error) bool {
	return !errors.Is(err, ErrRejected)
}

func retryableMessaging(error) bool { return true }
