package xreservoir

import (
	"errors"
	"fmt"
)

// 采样运行相关的哨兵错误
var (
	// ErrSelectorDrained 表示选择器已被 Drain，不可复用
	ErrSelectorDrained = errors.New("xreservoir: selector already drained")

	// ErrNilSource 表示随机源为 nil
	ErrNilSource = errors.New("xreservoir: random source must not be nil")

	// ErrNilCandidate 表示向选择器 Offer 了 nil 候选
	ErrNilCandidate = errors.New("xreservoir: candidate must not be nil")

	// ErrNilRecordSource 表示记录输入协作者为 nil
	ErrNilRecordSource = errors.New("xreservoir: record source must not be nil")

	// ErrNilRecordSink 表示记录输出协作者为 nil
	ErrNilRecordSink = errors.New("xreservoir: record sink must not be nil")
)

// ConfigurationError 流前配置错误
//
// 在读取任何记录之前检测并返回：采样数非正、指定的权重列或
// 身份列在输入 schema 中不存在等。
type ConfigurationError struct {
	// Field 出错的配置项或列名
	Field string
	// Reason 错误原因
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("xreservoir: configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("xreservoir: configuration error: %s: %s", e.Field, e.Reason)
}

// SchemaError 流中途的记录形状错误
//
// 记录的字段数量与声明的 schema 不一致时返回，携带到达序号以便定位。
// 致命错误：整个运行失败，不产生任何输出。
type SchemaError struct {
	// Arrival 记录的到达序号（从 0 开始）
	Arrival int
	// Want 期望的字段数
	Want int
	// Got 实际的字段数
	Got int
	// Err 底层错误（如解析器错误），可为 nil
	Err error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xreservoir: schema error at record %d: %v", e.Arrival, e.Err)
	}
	return fmt.Sprintf("xreservoir: schema error at record %d: got %d fields, want %d", e.Arrival, e.Got, e.Want)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// WeightError 流中途的权重错误
//
// Normal 分类的记录解析出恰好为零、负数或 NaN 的权重时返回。
// 零权重使 key 公式（除以权重）退化，这意味着数据或配置问题，
// 静默跳过会使样本产生偏差，因此整个运行失败。
//
// 注意与"权重缺失"区分：权重字段值缺失或不可解析按最差 key 处理
// （近似排除），不是错误。
type WeightError struct {
	// Arrival 记录的到达序号（从 0 开始）
	Arrival int
	// Field 权重列名
	Field string
	// Value 原始字段值
	Value string
	// Reason 错误原因
	Reason string
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("xreservoir: weight error at record %d (column %q, value %q): %s",
		e.Arrival, e.Field, e.Value, e.Reason)
}
