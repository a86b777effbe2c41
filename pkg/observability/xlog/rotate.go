package xlog

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转默认配置值
const (
	// DefaultMaxSizeMB 默认单个日志文件最大大小（MB）
	DefaultMaxSizeMB = 100

	// DefaultMaxBackups 默认保留的备份文件数量
	DefaultMaxBackups = 7

	// DefaultMaxAgeDays 默认保留备份的天数
	DefaultMaxAgeDays = 30

	// maxSizeMB 单个日志文件大小上限（10 GB）
	maxSizeMB = 10240
)

// ErrEmptyFilename 表示轮转文件名为空
var ErrEmptyFilename = errors.New("xlog: rotation filename must not be empty")

// RotateOption 配置日志轮转的可选参数
type RotateOption func(*lumberjack.Logger)

// WithMaxSizeMB 设置单个日志文件最大大小（MB），超过时触发轮转。
func WithMaxSizeMB(size int) RotateOption {
	return func(l *lumberjack.Logger) {
		if size > 0 {
			l.MaxSize = size
		}
	}
}

// WithMaxBackups 设置保留的备份文件数量，0 表示不按数量清理。
func WithMaxBackups(n int) RotateOption {
	return func(l *lumberjack.Logger) {
		if n >= 0 {
			l.MaxBackups = n
		}
	}
}

// WithMaxAgeDays 设置保留备份的天数，0 表示不按天数清理。
func WithMaxAgeDays(days int) RotateOption {
	return func(l *lumberjack.Logger) {
		if days >= 0 {
			l.MaxAge = days
		}
	}
}

// WithCompress 设置是否压缩备份文件。
func WithCompress(enable bool) RotateOption {
	return func(l *lumberjack.Logger) {
		l.Compress = enable
	}
}

// rotator 基于 lumberjack 的大小轮转 writer
type rotator struct {
	*lumberjack.Logger
}

// newRotator 创建轮转 writer
func newRotator(filename string, opts ...RotateOption) (*rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if !filepath.IsAbs(filename) {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return nil, fmt.Errorf("xlog: resolve rotation path: %w", err)
		}
		filename = abs
	}

	l := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.MaxSize > maxSizeMB {
		return nil, fmt.Errorf("xlog: max size %d MB exceeds limit %d MB", l.MaxSize, maxSizeMB)
	}
	return &rotator{Logger: l}, nil
}
