package xlog

import (
	"context"
	"log/slog"
)

// discardLogger 丢弃所有日志的空实现
type discardLogger struct{}

// discardInstance 空实现单例
var discardInstance = discardLogger{}

// Discard 返回丢弃所有日志的 Logger
//
// 用作未配置日志时的默认值，调用方无需做 nil 检查。
func Discard() Logger {
	return discardInstance
}

func (discardLogger) Debug(context.Context, string, ...slog.Attr) {}
func (discardLogger) Info(context.Context, string, ...slog.Attr)  {}
func (discardLogger) Warn(context.Context, string, ...slog.Attr)  {}
func (discardLogger) Error(context.Context, string, ...slog.Attr) {}

func (d discardLogger) With(...slog.Attr) Logger { return d }
func (d discardLogger) WithGroup(string) Logger  { return d }

// 编译时接口检查
var _ Logger = discardLogger{}
