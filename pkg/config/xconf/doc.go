// Package xconf 提供采样运行配置（run spec）的加载与校验。
//
// 基于 koanf v2 实现，支持 YAML 和 JSON 两种格式，
// 根据文件扩展名自动检测。配置文件描述一次采样运行的
// 全部参数：样本数量、权重列、身份列、包含/排除集合、
// 随机种子以及日志选项。
//
// 典型用法：
//
//	spec, err := xconf.Load("/etc/samplekit/run.yaml")
//	if err != nil {
//	    return err
//	}
//	// 命令行参数覆盖文件值后再校验
//	if err := spec.Validate(); err != nil {
//	    return err
//	}
//
// 对于长驻进程，Watch 提供基于 fsnotify 的文件变更监视，
// 变更后自动重载并通过回调通知调用方。
package xconf
