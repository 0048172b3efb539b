package report

import (
	"path/filepath"
	"time"

	"github.com/titanic-qa/api-contract-tests/apitests"
	"github.com/titanic-qa/api-contract-tests/framework"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsFileName is the name of the Prometheus textfile written into the results directory.
const MetricsFileName = "titanic_api_tests.prom"

// Metrics counts test outcomes and cleanup deletions for one run. It implements
// framework.TestLogger so it can be combined with other loggers in a MultiTestLogger.
type Metrics struct {
	registry        *prometheus.Registry
	tests           *prometheus.CounterVec
	testDuration    prometheus.Histogram
	cleanupDeletes  *prometheus.CounterVec
	cleanupLingered prometheus.Counter
	startTimes      map[string]time.Time
	now             func() time.Time
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titanic_api_tests_total",
				Help: "Number of test cases run, by outcome.",
			},
			[]string{"outcome"},
		),
		testDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "titanic_api_test_duration_seconds",
			Help:    "Duration of each test case.",
			Buckets: prometheus.DefBuckets,
		}),
		cleanupDeletes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titanic_api_cleanup_deletions_total",
				Help: "Number of passenger deletions attempted during cleanup, by outcome.",
			},
			[]string{"outcome"},
		),
		cleanupLingered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "titanic_api_cleanup_lingering_total",
			Help: "Number of deleted passengers that could still be read afterward.",
		}),
		startTimes: make(map[string]time.Time),
		now:        time.Now,
	}
	m.registry.MustRegister(m.tests, m.testDuration, m.cleanupDeletes, m.cleanupLingered)
	for _, outcome := range []string{StatusPassed, StatusFailed, StatusSkipped} {
		m.tests.WithLabelValues(outcome)
	}
	for _, outcome := range []string{"deleted", "forbidden", "failed"} {
		m.cleanupDeletes.WithLabelValues(outcome)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TestStarted(id framework.TestID) {
	m.startTimes[id.String()] = m.now()
}

func (m *Metrics) TestError(framework.TestID, error) {}

func (m *Metrics) TestFinished(id framework.TestID, failed bool, _ framework.CapturedOutput) {
	if failed {
		m.tests.WithLabelValues(StatusFailed).Inc()
	} else {
		m.tests.WithLabelValues(StatusPassed).Inc()
	}
	if start, ok := m.startTimes[id.String()]; ok {
		m.testDuration.Observe(m.now().Sub(start).Seconds())
		delete(m.startTimes, id.String())
	}
}

func (m *Metrics) TestSkipped(id framework.TestID, _ string) {
	m.tests.WithLabelValues(StatusSkipped).Inc()
	delete(m.startTimes, id.String())
}

// CleanupDone records the outcome of one cleanup pass. It can be used as
// apitests.SuiteOptions.OnCleanup.
func (m *Metrics) CleanupDone(r apitests.CleanupReport) {
	m.cleanupDeletes.WithLabelValues("deleted").Add(float64(len(r.Deleted)))
	m.cleanupDeletes.WithLabelValues("forbidden").Add(float64(len(r.Forbidden)))
	m.cleanupDeletes.WithLabelValues("failed").Add(float64(len(r.Failed)))
	m.cleanupLingered.Add(float64(len(r.Lingering)))
}

// WriteTextfile writes the current values to MetricsFileName in dir, in the format read by
// the node exporter's textfile collector.
func (m *Metrics) WriteTextfile(dir string) (string, error) {
	path := filepath.Join(dir, MetricsFileName)
	return path, prometheus.WriteToTextfile(path, m.registry)
}
