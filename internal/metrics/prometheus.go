package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	sessionsOpen       *prometheus.GaugeVec
	sessionsTotal      *prometheus.CounterVec
	transitionsTotal   *prometheus.CounterVec
	submissionsTotal   *prometheus.CounterVec
	submissionAttempts prometheus.Histogram
	submissionDuration *prometheus.HistogramVec
	repliesTotal       *prometheus.CounterVec
	replyDuration      *prometheus.HistogramVec
	tasksFired         prometheus.Counter
	tasksCancelled     prometheus.Counter
}

// NewPrometheusRecorder registers the portal metrics with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	f := promauto.With(reg)
	return &PrometheusRecorder{
		sessionsOpen: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "portal_sessions_open",
				Help: "Number of live sessions by kind",
			},
			[]string{"kind"},
		),
		sessionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_sessions_total",
				Help: "Total number of sessions opened by kind",
			},
			[]string{"kind"},
		),
		transitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_submission_transitions_total",
				Help: "Submission workflow state transitions",
			},
			[]string{"from", "to"},
		),
		submissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_submissions_total",
				Help: "Submissions handed to the backend by outcome",
			},
			[]string{"outcome"},
		),
		submissionAttempts: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portal_submission_attempts",
				Help:    "Backend attempts needed per submission",
				Buckets: []float64{1, 2, 3, 5, 8},
			},
		),
		submissionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_submission_duration_seconds",
				Help:    "Time spent in the submission backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		repliesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_chat_replies_total",
				Help: "Assistant replies by outcome",
			},
			[]string{"outcome"},
		),
		replyDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_chat_reply_duration_seconds",
				Help:    "Time spent in the messaging backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		tasksFired: f.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_scheduler_tasks_fired_total",
				Help: "Deferred tasks that ran",
			},
		),
		tasksCancelled: f.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_scheduler_tasks_cancelled_total",
				Help: "Deferred tasks cancelled before running",
			},
		),
	}
}

func (p *PrometheusRecorder) SessionOpened(kind string) {
	p.sessionsOpen.WithLabelValues(kind).Inc()
	p.sessionsTotal.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) SessionClosed(kind string) {
	p.sessionsOpen.WithLabelValues(kind).Dec()
}

func (p *PrometheusRecorder) Transition(from, to models.SubmissionState) {
	p.transitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (p *PrometheusRecorder) SubmissionFinished(outcome string, attempts int, d time.Duration) {
	p.submissionsTotal.WithLabelValues(outcome).Inc()
	p.submissionAttempts.Observe(float64(attempts))
	p.submissionDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ReplyFinished(outcome string, d time.Duration) {
	p.repliesTotal.WithLabelValues(outcome).Inc()
	p.replyDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (p *PrometheusRecorder) TaskFired() { p.tasksFired.Inc() }

func (p *PrometheusRecorder) TasksCancelled(n int) { p.tasksCancelled.Add(float64(n)) }
