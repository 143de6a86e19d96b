package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.SessionOpened(metrics.KindForm)
	rec.SessionOpened(metrics.KindForm)
	rec.SessionClosed(metrics.KindForm)
	rec.Transition(models.StateReadyToSubmit, models.StateSubmitting)
	rec.SubmissionFinished(metrics.OutcomeSuccess, 1, 10*time.Millisecond)
	rec.ReplyFinished(metrics.OutcomeFailure, time.Millisecond)
	rec.TaskFired()
	rec.TasksCancelled(3)

	expected := `
# HELP portal_scheduler_tasks_cancelled_total Deferred tasks cancelled before running
# TYPE portal_scheduler_tasks_cancelled_total counter
portal_scheduler_tasks_cancelled_total 3
# HELP portal_sessions_open Number of live sessions by kind
# TYPE portal_sessions_open gauge
portal_sessions_open{kind="form"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"portal_scheduler_tasks_cancelled_total", "portal_sessions_open"))

	n, err := testutil.GatherAndCount(reg, "portal_submission_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r metrics.Recorder = metrics.Nop{}
	r.SessionOpened(metrics.KindChat)
	r.TasksCancelled(1)
}
