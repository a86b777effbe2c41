package xconf

import (
	"fmt"
	"unicode/utf8"

	"github.com/omeyang/samplekit/pkg/observability/xlog"
)

// LogSpec 日志输出配置
type LogSpec struct {
	// Level 日志级别：debug、info、warn、error
	Level string `koanf:"level"`

	// Format 输出格式：text 或 json
	Format string `koanf:"format"`

	// File 日志文件路径，为空时输出到 stderr
	File string `koanf:"file"`
}

// RunSpec 描述一次采样运行的全部参数。
//
// 命令行参数优先级高于配置文件：调用方应先加载文件，
// 再用命令行值覆盖对应字段，最后调用 Validate 校验。
type RunSpec struct {
	// SampleCount 保留的样本数量上限
	SampleCount int `koanf:"sample_count"`

	// WeightField 权重列名，为空表示所有记录统一权重 1.0
	WeightField string `koanf:"weight_field"`

	// IDField 身份列名，用于 Include/Exclude 匹配，为空表示使用第一列
	IDField string `koanf:"id_field"`

	// Include 强制保留的身份集合
	Include []string `koanf:"include"`

	// Exclude 强制排除的身份集合，与 Include 冲突时排除优先
	Exclude []string `koanf:"exclude"`

	// Seed 随机种子字符串，为空时使用加密随机源
	Seed string `koanf:"seed"`

	// Delimiter 字段分隔符，必须是单个字符，默认制表符
	Delimiter string `koanf:"delimiter"`

	// Log 日志配置
	Log LogSpec `koanf:"log"`
}

// DefaultRunSpec 返回填充默认值的运行配置。
// SampleCount 没有合理默认值，保持为 0，由 Validate 拒绝。
// WeightField 与 IDField 默认为空：空权重列表示统一权重 1.0，
// 空身份列表示使用第一列。
func DefaultRunSpec() *RunSpec {
	return &RunSpec{
		Delimiter: "\t",
		Log: LogSpec{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate 校验运行配置。
// 应在所有覆盖（命令行参数等）完成之后调用。
func (s *RunSpec) Validate() error {
	if s.SampleCount <= 0 {
		return fmt.Errorf("%w: sample_count must be positive, got %d", ErrInvalidSpec, s.SampleCount)
	}
	if _, err := s.DelimiterRune(); err != nil {
		return err
	}
	if s.Log.Level != "" {
		if _, err := xlog.ParseLevel(s.Log.Level); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
	}
	switch s.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidSpec, s.Log.Format)
	}
	return nil
}

// DelimiterRune 返回分隔符对应的 rune。
// 分隔符必须恰好是一个字符，不能是换行或回车。
func (s *RunSpec) DelimiterRune() (rune, error) {
	r, size := utf8.DecodeRuneInString(s.Delimiter)
	if r == utf8.RuneError || size != len(s.Delimiter) {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidSpec, s.Delimiter)
	}
	if r == '\n' || r == '\r' {
		return 0, fmt.Errorf("%w: delimiter must not be a line terminator", ErrInvalidSpec)
	}
	return r, nil
}
