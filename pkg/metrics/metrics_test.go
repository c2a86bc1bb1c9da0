package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersOnProvidedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("medspa", reg)

	m.DatasetLoads.WithLabelValues("success").Inc()
	m.SnapshotCache.WithLabelValues("hit").Add(2)
	m.ObserveQuery("demographics", time.Now())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetLoads.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SnapshotCache.WithLabelValues("hit")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "medspa_query_duration_seconds")

	// a second registry accepts the same names
	assert.NotPanics(t, func() { NewMetrics("medspa", prometheus.NewRegistry()) })
}

func TestObserveQueryNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveQuery("x", time.Now()) })
}
