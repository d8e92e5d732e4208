package metrics_test

import (
	"context"
	"registration/pkg/metrics"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMeterProvider_HistogramUsesDefaultBuckets(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	h, err := mp.Meter("test").Float64Histogram("test.latency")
	require.NoError(t, err)
	h.Record(context.Background(), 0.02)

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "test_latency") {
			continue
		}
		found = true
		require.Len(t, f.GetMetric(), 1)
		hist := f.GetMetric()[0].GetHistogram()
		require.Equal(t, uint64(1), hist.GetSampleCount())
		require.Len(t, hist.GetBucket(), len(metrics.DefaultBuckets))
	}
	require.True(t, found, "histogram not exported")
}
