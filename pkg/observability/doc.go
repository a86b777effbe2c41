// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持文件轮转
//   - xmetrics: 采样运行指标，基于 OpenTelemetry metric API
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 采样核心只依赖小接口（Logger/Recorder），具体后端可替换
package observability
