package xmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/samplekit/pkg/observability/xmetrics"

	metricSamplingEvents      = "samplekit.sampling.events"
	metricSamplingRunDuration = "samplekit.sampling.run.duration"
	metricSamplingRetained    = "samplekit.sampling.retained"

	attrKeyEvent  = "event"
	attrKeyStatus = "status"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Recorder 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder。
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	events, err := meter.Int64Counter(
		metricSamplingEvents,
		metric.WithDescription("sampling run events by kind"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create events counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		metricSamplingRunDuration,
		metric.WithDescription("sampling run duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create duration histogram: %w", err)
	}

	retained, err := meter.Int64Histogram(
		metricSamplingRetained,
		metric.WithDescription("records retained per sampling run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create retained histogram: %w", err)
	}

	return &otelRecorder{
		events:   events,
		duration: duration,
		retained: retained,
	}, nil
}

type otelRecorder struct {
	events   metric.Int64Counter
	duration metric.Float64Histogram
	retained metric.Int64Histogram
}

// Incr 对事件计数加 n。
func (r *otelRecorder) Incr(ctx context.Context, event Event, n int64) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.events.Add(ctx, n, metric.WithAttributes(
		attribute.String(attrKeyEvent, string(event)),
	))
}

// RunCompleted 记录一次运行的结束。
func (r *otelRecorder) RunCompleted(ctx context.Context, d time.Duration, status Status, retained int) {
	if ctx == nil {
		ctx = context.Background()
	}
	statusAttr := metric.WithAttributes(attribute.String(attrKeyStatus, string(status)))
	r.duration.Record(ctx, d.Seconds(), statusAttr)
	r.retained.Record(ctx, int64(retained), statusAttr)
}

// 编译时接口检查
var _ Recorder = (*otelRecorder)(nil)
