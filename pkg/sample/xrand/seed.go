package xrand

import "github.com/cespare/xxhash/v2"

// seedDomain 派生第二个 PCG 种子时使用的域分隔后缀
//
// 避免 seed1 与 seed2 相同导致的种子空间退化。
const seedDomain = "\x00samplekit.seed2"

// SeedFromString 将任意字符串派生为 64 位种子
//
// 使用 xxhash 确定性哈希：相同字符串在所有进程、所有平台上
// 派生出相同的种子，便于跨环境复现同一次采样。
func SeedFromString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// NewSeeded 从人类可读的 seed 字符串创建可复现随机源
//
// 等价于 NewPCG(SeedFromString(s), SeedFromString(s+域分隔符))。
// 空字符串也是合法 seed（产生固定序列），是否允许由调用方决定。
func NewSeeded(s string) Source {
	return NewPCG(SeedFromString(s), xxhash.Sum64String(s+seedDomain))
}
