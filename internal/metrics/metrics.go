// Package metrics records session engine activity.
package metrics

import (
	"time"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

// Session kinds used as metric labels.
const (
	KindForm = "form"
	KindChat = "chat"
)

// Outcomes used as metric labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder receives engine events. It also satisfies scheduler.Observer.
type Recorder interface {
	SessionOpened(kind string)
	SessionClosed(kind string)
	Transition(from, to models.SubmissionState)
	SubmissionFinished(outcome string, attempts int, d time.Duration)
	ReplyFinished(outcome string, d time.Duration)
	TaskFired()
	TasksCancelled(n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) SessionOpened(string) {}
func (Nop) SessionClosed(string) {}
func (Nop) Transition(models.SubmissionState, models.SubmissionState) {}
func (Nop) SubmissionFinished(string, int, time.Duration) {}
func (Nop) ReplyFinished(string, time.Duration) {}
func (Nop) TaskFired() {}
func (Nop) TasksCancelled(int) {}
