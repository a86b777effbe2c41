// Package xmetrics 提供采样运行的指标记录。
//
// 指标是纯粹的旁路观测：记录读取/排除/提交/丢弃/平局等事件计数
// 与运行耗时，永远不影响选择结果。默认实现基于 OpenTelemetry
// metric API；不需要指标时使用 Noop()。
package xmetrics

import (
	"context"
	"time"
)

// Event 采样运行中的可计数事件
type Event string

// 采样事件枚举
const (
	// EventRead 读取了一条记录
	EventRead Event = "read"
	// EventExcluded 记录被排除集合丢弃
	EventExcluded Event = "excluded"
	// EventOffered 候选被提交到选择器
	EventOffered Event = "offered"
	// EventForcedInclude 记录被强制包含
	EventForcedInclude Event = "forced_include"
	// EventDropped 候选被选择器丢弃（逐出或拒绝）
	EventDropped Event = "dropped"
	// EventTieBreak 发生一次退化比较（随机平局裁决）
	EventTieBreak Event = "tie_break"
	// EventWeightAbsent 权重值缺失或不可解析，按最差 key 处理
	EventWeightAbsent Event = "weight_absent"
)

// Status 运行结束状态
type Status string

const (
	// StatusOK 运行成功完成
	StatusOK Status = "ok"
	// StatusError 运行因致命错误中止
	StatusError Status = "error"
)

// Recorder 采样指标记录接口
//
// 实现必须是旁路的：任何失败都不得影响采样运行本身。
type Recorder interface {
	// Incr 对事件计数加 n
	Incr(ctx context.Context, event Event, n int64)

	// RunCompleted 记录一次运行的结束：耗时、状态与保留数
	RunCompleted(ctx context.Context, d time.Duration, status Status, retained int)
}

// noopRecorder 空实现
type noopRecorder struct{}

// noopInstance 空实现单例
var noopInstance = noopRecorder{}

// Noop 返回丢弃所有指标的 Recorder
//
// 用作未配置指标时的默认值，调用方无需做 nil 检查。
func Noop() Recorder {
	return noopInstance
}

func (noopRecorder) Incr(context.Context, Event, int64)                       {}
func (noopRecorder) RunCompleted(context.Context, time.Duration, Status, int) {}

// 编译时接口检查
var _ Recorder = noopRecorder{}
