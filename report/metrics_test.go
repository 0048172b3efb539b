package report

import (
	"os"
	"testing"

	"github.com/titanic-qa/api-contract-tests/apitests"
	"github.com/titanic-qa/api-contract-tests/framework"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountTestOutcomes(t *testing.T) {
	m := NewMetrics()
	var filters framework.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("skipped"))

	framework.Run(filters.AsFilter, framework.MultiTestLogger{m}, nil, func(c *framework.Context) {
		c.Run("ok 1", func(c *framework.Context) {})
		c.Run("ok 2", func(c *framework.Context) {})
		c.Run("bad", func(c *framework.Context) { c.FailNow() })
		c.Run("skipped", func(c *framework.Context) {})
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tests.WithLabelValues(StatusPassed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tests.WithLabelValues(StatusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tests.WithLabelValues(StatusSkipped)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.testDuration))
	assert.Len(t, m.startTimes, 0)
}

func TestMetricsCountCleanupOutcomes(t *testing.T) {
	m := NewMetrics()
	m.CleanupDone(apitests.CleanupReport{Deleted: []int{1, 2}, Forbidden: []int{3}})
	m.CleanupDone(apitests.CleanupReport{Deleted: []int{4}, Failed: []int{5}, Lingering: []int{4}})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.cleanupDeletes.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleanupDeletes.WithLabelValues("forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleanupDeletes.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleanupLingered))
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.CleanupDone(apitests.CleanupReport{Deleted: []int{1}})

	path, err := m.WriteTextfile(t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), `titanic_api_cleanup_deletions_total{outcome="deleted"} 1`)
	assert.Contains(t, string(data), `titanic_api_tests_total{outcome="passed"} 0`)
}

func TestMetricsRegistryExposesAllSeries(t *testing.T) {
	m := NewMetrics()

	count, err := testutil.GatherAndCount(m.Registry(),
		"titanic_api_tests_total", "titanic_api_cleanup_deletions_total")
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
