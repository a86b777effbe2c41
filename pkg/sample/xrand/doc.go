// Package xrand 提供采样运行使用的顺序随机源。
//
// 采样引擎的可复现性依赖"单一顺序随机源、严格按调用顺序消费"：
// 每个非排除记录消费一次 Float64 抽取，每次退化比较消费一次 Coin 抽取。
// 固定随机源即可固定整条抽取序列，从而固定采样结果。
//
// # 实现
//
//   - NewPCG(seed1, seed2): 基于 math/rand/v2 PCG 的可复现源，用于测试与带 seed 的运行
//   - NewSeeded(s): 将人类可读的 seed 字符串经 xxhash 派生为 PCG 种子
//   - NewCrypto(): 基于 crypto/rand 的不可复现源，用于未指定 seed 的生产运行
//
// # 并发安全
//
// Source 不是并发安全的。采样引擎单线程消费随机源，这是设计约束而非缺陷。
package xrand
