package xmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestRecorder 创建带 ManualReader 的 Recorder，便于断言导出数据。
func newTestRecorder(t *testing.T) (Recorder, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := NewOTelRecorder(WithMeterProvider(provider))
	require.NoError(t, err)
	return rec, reader
}

// collect 读取一次导出数据并按指标名索引。
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestOTelRecorderIncr(t *testing.T) {
	t.Parallel()

	rec, reader := newTestRecorder(t)
	ctx := context.Background()

	rec.Incr(ctx, EventRead, 3)
	rec.Incr(ctx, EventRead, 2)
	rec.Incr(ctx, EventTieBreak, 1)

	metrics := collect(t, reader)
	m, ok := metrics[metricSamplingEvents]
	require.True(t, ok, "events counter not exported")

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byEvent := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attribute.Key(attrKeyEvent)); found {
			byEvent[v.AsString()] = dp.Value
		}
	}
	assert.Equal(t, int64(5), byEvent[string(EventRead)])
	assert.Equal(t, int64(1), byEvent[string(EventTieBreak)])
}

func TestOTelRecorderRunCompleted(t *testing.T) {
	t.Parallel()

	rec, reader := newTestRecorder(t)
	rec.RunCompleted(context.Background(), 250*time.Millisecond, StatusOK, 10)

	metrics := collect(t, reader)

	dur, ok := metrics[metricSamplingRunDuration]
	require.True(t, ok, "duration histogram not exported")
	hist, ok := dur.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.InDelta(t, 0.25, hist.DataPoints[0].Sum, 1e-9)

	status, found := hist.DataPoints[0].Attributes.Value(attribute.Key(attrKeyStatus))
	require.True(t, found)
	assert.Equal(t, string(StatusOK), status.AsString())

	ret, ok := metrics[metricSamplingRetained]
	require.True(t, ok, "retained histogram not exported")
	rhist, ok := ret.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, rhist.DataPoints, 1)
	assert.Equal(t, int64(10), rhist.DataPoints[0].Sum)
}

func TestOTelRecorderNilContext(t *testing.T) {
	t.Parallel()

	rec, reader := newTestRecorder(t)

	// nil ctx 不应 panic
	rec.Incr(nil, EventDropped, 1) //nolint:staticcheck // 验证 nil ctx 兜底
	rec.RunCompleted(nil, time.Second, StatusError, 0)

	metrics := collect(t, reader)
	assert.Contains(t, metrics, metricSamplingEvents)
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	rec := Noop()
	rec.Incr(context.Background(), EventRead, 1)
	rec.RunCompleted(context.Background(), time.Second, StatusOK, 5)

	assert.Equal(t, Noop(), Noop(), "Noop should return the same instance")
}
