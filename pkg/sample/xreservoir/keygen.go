package xreservoir

import "math"

// 采样 key 的哨兵值
var (
	// forcedKey 强制包含记录的哨兵 key，必然胜过任何正常计算的 key
	forcedKey = math.Inf(1)

	// worstKey 权重缺失记录的哨兵 key，必然败给任何正常计算的 key
	worstKey = math.Inf(-1)
)

// ForcedKey 返回强制包含记录使用的哨兵 key（+Inf）
//
// 正常计算的 key 满足 key ≤ 0（log₂(u) ≤ 0 对 u ∈ (0,1)），
// 因此 +Inf 严格胜过所有正常 key。多个强制包含记录之间 key 相等，
// 由平局规则决定相对顺序。
func ForcedKey() float64 { return forcedKey }

// WorstKey 返回权重缺失记录使用的哨兵 key（-Inf）
//
// 权重字段存在但值缺失或不可解析时使用：记录仍进入选择器，
// 但只会在候选总数不足 K 时被保留（近似排除而非静默丢弃）。
func WorstKey() float64 { return worstKey }

// Key 由权重与一次均匀随机抽取计算采样 key
//
// key = (1/w) · log₂(u)，其中 w > 0、u ∈ [0,1)。
// 该变换与经典顺序统计量 key u^(1/w) 单调等价：取对数保序，
// 同时避免极端权重下 u^(1/w) 的上溢/下溢。log₂(u) ≤ 0，
// 权重越大 key 越接近零，即越靠近排序的"最优"端。
//
// 数值边界：
//   - u == 0: log₂(0) = -Inf，得到最差 key（合法，不是错误）
//   - w == 0: 除零退化，返回 *WeightError（致命）
//   - w < 0 / NaN / +Inf: 权重域违约，返回 *WeightError（致命）；
//     +Inf 权重会使 key 在 u == 0 时退化为 NaN，与零权重同等对待
//
// arrival 仅用于错误上下文，field/value 同理。
func Key(weight, u float64, arrival int, field, value string) (float64, error) {
	switch {
	case math.IsNaN(weight):
		return 0, &WeightError{Arrival: arrival, Field: field, Value: value, Reason: "weight is NaN"}
	case weight < 0:
		return 0, &WeightError{Arrival: arrival, Field: field, Value: value, Reason: "weight must be non-negative"}
	case weight == 0:
		return 0, &WeightError{Arrival: arrival, Field: field, Value: value, Reason: "weight must be non-zero"}
	case math.IsInf(weight, 1):
		return 0, &WeightError{Arrival: arrival, Field: field, Value: value, Reason: "weight must be finite"}
	}
	return (1.0 / weight) * math.Log2(u), nil
}
