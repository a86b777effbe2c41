// Package sample 聚合加权流式采样相关的子包。
//
// 子包:
//   - xreservoir: 核心采样引擎（key 生成、身份过滤、有界选择器、单遍编排）
//   - xrand: 采样运行使用的顺序随机源
package sample
