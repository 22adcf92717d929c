package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRegister(t *testing.T) {
	m := New()

	m.ScoresComputed.Inc()
	m.ScoreValue.WithLabelValues("u1").Set(58)
	m.InsightsGenerated.WithLabelValues("trend").Add(2)
	m.WeightAdaptations.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.ScoresComputed), 1e-9)
	assert.InDelta(t, 58, testutil.ToFloat64(m.ScoreValue.WithLabelValues("u1")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.InsightsGenerated.WithLabelValues("trend")), 1e-9)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ScoresComputed.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.ScoresComputed), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(b.ScoresComputed), 1e-9)
}
