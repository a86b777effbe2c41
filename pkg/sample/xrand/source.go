package xrand

import "math/rand/v2"

// Source 顺序随机源接口
//
// 所有方法每次调用恰好消费一次底层抽取，调用顺序决定抽取序列。
// 实现不要求并发安全：采样引擎独占消费。
type Source interface {
	// Float64 返回 [0.0, 1.0) 范围内的均匀随机浮点数
	Float64() float64

	// Coin 返回一次无偏硬币抛掷结果
	//
	// 恰好消费一次底层抽取，保证抽取序列与调用序列一一对应。
	Coin() bool
}

// pcgSource 基于 math/rand/v2 PCG 的可复现随机源
type pcgSource struct {
	r *rand.Rand
}

// NewPCG 创建可复现的 PCG 随机源
//
// 相同的 (seed1, seed2) 产生相同的抽取序列。
// 用于测试以及用户显式指定 seed 的采样运行。
func NewPCG(seed1, seed2 uint64) Source {
	return &pcgSource{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *pcgSource) Float64() float64 {
	return s.r.Float64()
}

func (s *pcgSource) Coin() bool {
	return s.r.Float64() < 0.5
}

// 编译时接口检查
var _ Source = (*pcgSource)(nil)
