package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// Metrics 考勤相关 Prometheus 指标
// 所有方法对 nil 接收者安全，测试中可直接传 nil
type Metrics struct {
	marks         *prometheus.CounterVec
	upsertRetries prometheus.Counter
	sweepRuns     *prometheus.CounterVec
	sweepExpired  prometheus.Counter
	sweepFailures prometheus.Counter
	sweepDuration prometheus.Histogram
	resetRows     prometheus.Counter
}

// New 在 reg 上注册全部指标
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		marks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marks_total",
			Help:      "Attendance marks applied, by resulting status.",
		}, []string{"status"}),
		upsertRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upsert_retries_total",
			Help:      "Mark upserts retried after a uniqueness conflict.",
		}),
		sweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Expiry sweep passes, by outcome.",
		}, []string{"outcome"}),
		sweepExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_expired_total",
			Help:      "PRESENT records demoted to ABSENT by the expiry sweep.",
		}),
		sweepFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_row_failures_total",
			Help:      "Rows the expiry sweep failed to update.",
		}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of expiry sweep passes.",
			Buckets:   prometheus.DefBuckets,
		}),
		resetRows: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_reset_rows_total",
			Help:      "Rows set to ABSENT by the daily reset.",
		}),
	}
}

func (m *Metrics) ObserveMark(status string) {
	if m == nil {
		return
	}
	m.marks.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveUpsertRetry() {
	if m == nil {
		return
	}
	m.upsertRetries.Inc()
}

// ObserveSweep 记录一次扫描；outcome 取 ok / error / skipped
func (m *Metrics) ObserveSweep(outcome string, seconds float64, expired, failed int) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(outcome).Inc()
	m.sweepDuration.Observe(seconds)
	m.sweepExpired.Add(float64(expired))
	m.sweepFailures.Add(float64(failed))
}

func (m *Metrics) ObserveReset(rows int64) {
	if m == nil {
		return
	}
	m.resetRows.Add(float64(rows))
}
