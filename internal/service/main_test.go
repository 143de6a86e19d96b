package service_test

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// transitionLog records submission state transitions.
type transitionLog struct {
	mu    sync.Mutex
	steps [][2]models.SubmissionState
	fired int
}

func (l *transitionLog) SessionOpened(string) {}
func (l *transitionLog) SessionClosed(string) {}
func (l *transitionLog) Transition(from, to models.SubmissionState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = append(l.steps, [2]models.SubmissionState{from, to})
}
func (l *transitionLog) SubmissionFinished(string, int, time.Duration) {}
func (l *transitionLog) ReplyFinished(string, time.Duration) {}
func (l *transitionLog) TaskFired() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired++
}
func (l *transitionLog) TasksCancelled(int) {}

func (l *transitionLog) snapshot() [][2]models.SubmissionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][2]models.SubmissionState(nil), l.steps...)
}
