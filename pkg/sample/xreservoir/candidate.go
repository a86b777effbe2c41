package xreservoir

// Candidate 选择器中的采样候选
//
// 生命周期：记录通过身份过滤后创建；或者在选择器中被逐出丢弃，
// 或者存活到流结束成为最终样本的一员。
//
// Key 只计算一次，之后不再重算。Randomness 保留计算 key 时消费的
// 原始抽取值，用于诊断与测试断言。
type Candidate struct {
	// Fields 记录的字段值（按 schema 顺序）
	Fields []string

	// Weight 解析出的权重；权重缺失时为 NaN
	Weight float64

	// Randomness 计算 key 时消费的均匀抽取值 u ∈ [0,1)
	Randomness float64

	// Key 采样 key，越大越优；强制包含为 +Inf，权重缺失为 -Inf
	Key float64

	// Arrival 到达序号（从 0 开始，按读取顺序严格递增），
	// 对所有读到的记录分配，与过滤结果无关，保证平局规则
	// 相对输入顺序良定且可复现
	Arrival int
}
