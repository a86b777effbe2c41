package xconf

import "errors"

// 预定义错误，调用方可通过 errors.Is 判断。
var (
	// ErrEmptyPath 配置文件路径为空
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 不支持的配置格式
	ErrUnsupportedFormat = errors.New("xconf: unsupported format")

	// ErrLoadFailed 配置文件读取失败
	ErrLoadFailed = errors.New("xconf: load failed")

	// ErrParseFailed 配置内容解析失败
	ErrParseFailed = errors.New("xconf: parse failed")

	// ErrUnmarshalFailed 配置反序列化失败
	ErrUnmarshalFailed = errors.New("xconf: unmarshal failed")

	// ErrInvalidSpec 运行配置校验失败
	ErrInvalidSpec = errors.New("xconf: invalid run spec")
)
