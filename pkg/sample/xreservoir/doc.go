// Package xreservoir 实现单遍加权无放回随机采样。
//
// 从记录流中抽取固定大小的加权样本：内存占用与输入规模无关，
// 每条记录只读取一次，选中概率与记录权重成正比，并支持按身份
// 强制包含/排除特定记录。
//
// # 算法
//
// 经典的 A-Res 加权蓄水池采样的对数变体：对每条权重为 w 的记录
// 抽取一次均匀随机数 u ∈ [0,1)，计算采样 key = (1/w)·log₂(u)。
// 该 key 与顺序统计量 u^(1/w) 单调等价（取对数保序，且避免极端
// 权重下的上溢/下溢）。key 越大越优；维护一个容量为 K 的最小堆，
// 堆满后新候选仅在 key 大于当前最小者时将其逐出。
//
// # 组件
//
//   - IdentityFilter: 将记录身份分类为 Normal / Excluded / ForcedInclude
//   - Key: 由权重与随机抽取计算采样 key；强制包含使用 +Inf 哨兵 key
//   - Selector: 容量受限的优先结构，维护当前最优的 K 个候选
//   - Engine: 单遍编排：过滤 → 计算 key → Offer → Drain → 输出
//
// # 平局与退化比较
//
// 两个 key 相等或不可比（NaN 退化）时，用随机源的一次无偏硬币抛掷
// 决定按到达序正向还是反向比较，避免系统性偏向早到或晚到的记录。
// 该事件会记录 Warn 诊断并计入指标，但除平局规则本身外不影响选择结果。
//
// # 可复现性
//
// 固定输入流与固定随机源（xrand.NewPCG / xrand.NewSeeded）时，
// 输出逐位一致。随机源按严格调用顺序消费：每条非排除记录一次
// Float64 抽取，每次退化比较一次 Coin 抽取。
//
// # 错误语义
//
// 配置错误（采样数 ≤ 0、列名不存在）在读取任何记录前返回；
// 流中途的 SchemaError / WeightError 中止整个运行且不产生任何输出，
// 不存在部分成功模式。
//
// # 并发安全
//
// Engine 与 Selector 均非并发安全：单次采样运行由单个 goroutine
// 独占执行，这是单遍算法的设计约束。
package xreservoir
