package xrand

import (
	"crypto/rand"
	"encoding/binary"
)

// 浮点数转换常量
const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

// cryptoSource 基于 crypto/rand 的不可复现随机源
type cryptoSource struct{}

// NewCrypto 创建基于 crypto/rand 的随机源
//
// 用于未指定 seed 的采样运行，每次运行产生独立的样本。
//
// 设计决策 - panic 行为说明：
// crypto/rand.Read 失败表示操作系统熵源不可用（如 /dev/urandom 无法访问），
// 这是极其罕见的系统级故障。此时继续运行会产生不可预测的采样行为，
// 因此选择 panic 作为快速失败策略，便于问题定位。
func NewCrypto() Source {
	return cryptoSource{}
}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("xrand: crypto/rand.Read failed: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}

func (c cryptoSource) Coin() bool {
	return c.Float64() < 0.5
}

// 编译时接口检查
var _ Source = cryptoSource{}
