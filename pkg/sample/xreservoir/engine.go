package xreservoir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/samplekit/pkg/observability/xlog"
	"github.com/omeyang/samplekit/pkg/observability/xmetrics"
	"github.com/omeyang/samplekit/pkg/sample/xrand"
)

// RecordSource 记录输入协作者
//
// 产出一条有限的惰性记录序列。具体编码（分隔文本等）由协作者负责，
// 引擎只看到字段切片。
type RecordSource interface {
	// Schema 返回输入的字段名列表（有序）
	//
	// 在读取任何记录之前调用一次，用于列名解析。
	Schema() ([]string, error)

	// Next 返回下一条记录的字段值
	//
	// 流结束时返回 io.EOF。形状不一致的记录应返回 *SchemaError。
	Next() ([]string, error)
}

// RecordSink 记录输出协作者
//
// 先接受一次 schema，然后依次接受每条保留的记录，最后 Flush。
// 引擎只在运行成功完成时写出，流中途致命错误不产生任何输出。
type RecordSink interface {
	// WriteSchema 写出字段名列表
	WriteSchema(fields []string) error

	// Write 写出一条保留的记录
	Write(fields []string) error

	// Flush 冲刷并结束输出
	Flush() error
}

// Config 单次采样运行的配置面
type Config struct {
	// SampleCount 请求的样本数 K，必须为正
	SampleCount int

	// WeightField 权重列名；为空表示所有记录权重统一为 1.0
	WeightField string

	// IDField 身份列名；为空表示使用第一列
	IDField string

	// Include 强制包含的身份集合
	Include []string

	// Exclude 无条件排除的身份集合；与 Include 冲突时排除优先
	Exclude []string
}

// Summary 单次采样运行的结果统计
type Summary struct {
	// RunID 运行标识
	RunID string
	// Read 读取的记录总数
	Read int64
	// Excluded 被排除集合丢弃的记录数
	Excluded int64
	// ForcedIncludes 强制包含的记录数
	ForcedIncludes int64
	// WeightAbsent 权重缺失（值不可解析）按最差 key 处理的记录数
	WeightAbsent int64
	// Offered 提交到选择器的候选数
	Offered int64
	// Dropped 选择器丢弃（逐出 + 拒绝）的候选数
	Dropped int64
	// TieBreaks 退化比较（随机平局裁决）次数
	TieBreaks int64
	// Retained 最终保留的记录数
	Retained int
	// Duration 运行耗时
	Duration time.Duration
}

// Engine 采样引擎（编排方）
//
// 状态机 Init → Streaming → Finalizing → Done：
// 初始化时校验配置，流式阶段单遍消费记录（过滤 → key → Offer），
// 流结束后 Drain 选择器，最后按到达序发给输出协作者。
//
// 同一个 Engine 可对不同的输入流多次调用 Run，每次运行独立创建
// 选择器；但运行之间共享随机源，顺序消费。非并发安全。
type Engine struct {
	cfg     Config
	src     xrand.Source
	logger  xlog.Logger
	metrics xmetrics.Recorder
	runID   string
}

// Option 配置 Engine 的可选参数
type Option func(*Engine)

// WithSource 设置随机源
//
// 默认为 xrand.NewCrypto()（不可复现）。需要可复现运行时传入
// xrand.NewPCG 或 xrand.NewSeeded。
func WithSource(src xrand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithLogger 设置诊断日志
//
// 平局裁决、逐出、权重缺失等事件经由该 Logger 输出，仅供诊断，
// 不影响选择结果。默认丢弃所有日志。
func WithLogger(logger xlog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder 设置指标记录器
//
// 默认为 xmetrics.Noop()。
func WithRecorder(r xmetrics.Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithRunID 设置运行标识
//
// 默认生成 UUID。运行标识只用于日志与指标关联，不参与采样。
func WithRunID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}

// New 创建采样引擎
//
// 立即校验与 schema 无关的配置（SampleCount）；列名解析依赖输入
// schema，推迟到 Run 的 Init 阶段、读取任何记录之前完成。
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.SampleCount <= 0 {
		return nil, &ConfigurationError{
			Field:  "sample_count",
			Reason: fmt.Sprintf("must be a positive integer, got %d", cfg.SampleCount),
		}
	}

	e := &Engine{
		cfg:     cfg,
		src:     xrand.NewCrypto(),
		logger:  xlog.Discard(),
		metrics: xmetrics.Noop(),
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RunID 返回运行标识
func (e *Engine) RunID() string { return e.runID }

// Run 执行一次完整的采样运行
//
// 单遍消费 src 的记录流，结束后把保留的记录按到达序写到 sink。
// 任何致命错误（配置、schema、权重）都会中止整个运行并返回，
// 此时 sink 未收到任何写入——运行要么整体完成，要么整体失败。
//
// ctx 仅用于宿主层的中止与日志关联；核心算法本身无超时语义。
func (e *Engine) Run(ctx context.Context, src RecordSource, sink RecordSink) (*Summary, error) {
	if src == nil {
		return nil, ErrNilRecordSource
	}
	if sink == nil {
		return nil, ErrNilRecordSink
	}

	start := time.Now()
	logger := e.logger.With(slog.String("run_id", e.runID))
	sum := &Summary{RunID: e.runID}

	status := xmetrics.StatusError
	defer func() {
		sum.Duration = time.Since(start)
		e.metrics.RunCompleted(ctx, sum.Duration, status, sum.Retained)
	}()

	// Init: 解析 schema 与列下标，失败在读取任何记录之前返回
	schema, err := src.Schema()
	if err != nil {
		return nil, fmt.Errorf("xreservoir: read schema: %w", err)
	}
	weightIdx, idIdx, err := resolveColumns(schema, e.cfg)
	if err != nil {
		return nil, err
	}

	filter := NewIdentityFilter(e.cfg.Include, e.cfg.Exclude)
	selector, err := NewSelector(e.cfg.SampleCount, e.src,
		WithTieBreakHook(func(a, b *Candidate) {
			e.metrics.Incr(ctx, xmetrics.EventTieBreak, 1)
			logger.Warn(ctx, "degenerate key comparison, resolving tie randomly",
				slog.Int("arrival_a", a.Arrival),
				slog.Int("arrival_b", b.Arrival),
				slog.Float64("key_a", a.Key),
				slog.Float64("key_b", b.Key),
			)
		}),
		WithEvictHook(func(dropped *Candidate) {
			e.metrics.Incr(ctx, xmetrics.EventDropped, 1)
			logger.Debug(ctx, "candidate dropped",
				slog.Int("arrival", dropped.Arrival),
				slog.Float64("key", dropped.Key),
			)
		}),
	)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sampling run started",
		slog.Int("sample_count", e.cfg.SampleCount),
		slog.String("weight_field", e.cfg.WeightField),
		slog.String("id_field", e.cfg.IDField),
		slog.Int("include", filter.IncludeCount()),
		slog.Int("exclude", filter.ExcludeCount()),
	)

	// Streaming: 单遍消费，到达序号对所有读到的记录严格递增分配
	arrival := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("xreservoir: run aborted: %w", err)
		}

		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var schemaErr *SchemaError
			if errors.As(err, &schemaErr) {
				return nil, err
			}
			return nil, &SchemaError{Arrival: arrival, Err: err}
		}

		idx := arrival
		arrival++
		sum.Read++
		e.metrics.Incr(ctx, xmetrics.EventRead, 1)

		if idIdx >= len(fields) {
			return nil, &SchemaError{Arrival: idx, Want: len(schema), Got: len(fields)}
		}

		cls := filter.Classify(fields[idIdx])
		if cls == Excluded {
			sum.Excluded++
			e.metrics.Incr(ctx, xmetrics.EventExcluded, 1)
			logger.Debug(ctx, "record excluded",
				slog.Int("arrival", idx), slog.String("id", fields[idIdx]))
			continue
		}

		// 每条非排除记录恰好消费一次抽取（强制包含也消费），
		// 保证抽取序列与记录序列对齐，固定 seed 下可复现
		u := e.src.Float64()

		weight, raw, absent, err := resolveWeight(fields, weightIdx, len(schema), idx)
		if err != nil {
			return nil, err
		}

		var key float64
		switch {
		case cls == ForcedInclude:
			key = ForcedKey()
			sum.ForcedIncludes++
			e.metrics.Incr(ctx, xmetrics.EventForcedInclude, 1)
		case absent:
			key = WorstKey()
			sum.WeightAbsent++
			e.metrics.Incr(ctx, xmetrics.EventWeightAbsent, 1)
			logger.Warn(ctx, "weight value missing or unparseable, assigning worst key",
				slog.Int("arrival", idx),
				slog.String("column", e.cfg.WeightField),
				slog.String("value", raw),
			)
		default:
			key, err = Key(weight, u, idx, e.cfg.WeightField, raw)
			if err != nil {
				return nil, err
			}
		}

		if _, err := selector.Offer(&Candidate{
			Fields:     fields,
			Weight:     weight,
			Randomness: u,
			Key:        key,
			Arrival:    idx,
		}); err != nil {
			return nil, err
		}
		sum.Offered++
		e.metrics.Incr(ctx, xmetrics.EventOffered, 1)
	}

	// Finalizing: 排空选择器
	retained, err := selector.Drain()
	if err != nil {
		return nil, err
	}
	sum.Dropped = selector.Evictions()
	sum.TieBreaks = selector.TieBreaks()
	sum.Retained = len(retained)

	// Done: 按到达序发给输出协作者
	if err := sink.WriteSchema(schema); err != nil {
		return nil, fmt.Errorf("xreservoir: write schema: %w", err)
	}
	for _, c := range retained {
		if err := sink.Write(c.Fields); err != nil {
			return nil, fmt.Errorf("xreservoir: write record %d: %w", c.Arrival, err)
		}
	}
	if err := sink.Flush(); err != nil {
		return nil, fmt.Errorf("xreservoir: flush output: %w", err)
	}

	status = xmetrics.StatusOK
	logger.Info(ctx, "sampling run completed",
		slog.Int64("read", sum.Read),
		slog.Int64("excluded", sum.Excluded),
		slog.Int64("forced_includes", sum.ForcedIncludes),
		slog.Int64("weight_absent", sum.WeightAbsent),
		slog.Int64("dropped", sum.Dropped),
		slog.Int64("tie_breaks", sum.TieBreaks),
		slog.Int("retained", sum.Retained),
	)
	return sum, nil
}

// resolveColumns 在 schema 中解析权重列与身份列下标
//
// weightIdx 为 -1 表示未配置权重列（统一权重 1.0）。
func resolveColumns(schema []string, cfg Config) (weightIdx, idIdx int, err error) {
	if len(schema) == 0 {
		return 0, 0, &ConfigurationError{Reason: "input schema is empty"}
	}

	weightIdx = -1
	if cfg.WeightField != "" {
		weightIdx = fieldIndex(schema, cfg.WeightField)
		if weightIdx < 0 {
			return 0, 0, &ConfigurationError{Field: cfg.WeightField, Reason: "weight column not found in schema"}
		}
	}

	idIdx = 0
	if cfg.IDField != "" {
		idIdx = fieldIndex(schema, cfg.IDField)
		if idIdx < 0 {
			return 0, 0, &ConfigurationError{Field: cfg.IDField, Reason: "id column not found in schema"}
		}
	}
	return weightIdx, idIdx, nil
}

// fieldIndex 返回列名在 schema 中的下标，不存在时返回 -1。
func fieldIndex(schema []string, name string) int {
	for i, f := range schema {
		if f == name {
			return i
		}
	}
	return -1
}

// resolveWeight 解析一条记录的权重
//
// 未配置权重列时统一为 1.0。字段值不可解析时按"权重缺失"处理
// （absent = true，weight 为 NaN），由调用方赋最差 key——这是
// 有意选择的显式策略：近似排除而非静默传播极端数值或整个运行失败。
func resolveWeight(fields []string, weightIdx, schemaWidth, arrival int) (weight float64, raw string, absent bool, err error) {
	if weightIdx < 0 {
		return 1.0, "", false, nil
	}
	if weightIdx >= len(fields) {
		return 0, "", false, &SchemaError{Arrival: arrival, Want: schemaWidth, Got: len(fields)}
	}

	raw = fields[weightIdx]
	w, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if perr != nil {
		return math.NaN(), raw, true, nil
	}
	return w, raw, false, nil
}
