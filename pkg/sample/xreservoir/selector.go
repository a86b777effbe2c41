package xreservoir

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/omeyang/samplekit/pkg/sample/xrand"
)

// SelectorOption 配置 Selector 的可选参数
type SelectorOption func(*Selector)

// WithTieBreakHook 设置退化比较回调
//
// 两个候选的 key 相等或不可比、需要随机平局裁决时调用，
// 用于诊断日志与指标计数。回调在比较热路径上同步执行，应保持轻量。
// nil 回调会被忽略。
func WithTieBreakHook(fn func(a, b *Candidate)) SelectorOption {
	return func(s *Selector) {
		if fn != nil {
			s.onTieBreak = fn
		}
	}
}

// WithEvictHook 设置丢弃回调
//
// 候选被逐出或新候选被拒绝时调用（参数为未被保留的一方），
// 仅用于诊断，不影响选择结果。nil 回调会被忽略。
func WithEvictHook(fn func(dropped *Candidate)) SelectorOption {
	return func(s *Selector) {
		if fn != nil {
			s.onEvict = fn
		}
	}
}

// Selector 容量受限的采样候选选择器
//
// 不变式：任意时刻持有至多 capacity 个候选，且恰为当前已处理候选中
// key 最大的那一批（受平局规则影响）。内部是按 key 的最小堆，
// 堆顶即当前最弱候选，Offer 的代价为 O(log K)。
//
// 单次采样运行单用：Drain 之后不可再 Offer。非并发安全，
// 由编排方独占持有。
type Selector struct {
	capacity   int
	src        xrand.Source
	h          *candidateHeap
	drained    bool
	tieBreaks  int64
	evictions  int64
	onTieBreak func(a, b *Candidate)
	onEvict    func(dropped *Candidate)
}

// NewSelector 创建选择器
//
// capacity 为请求的样本数 K，必须为正；src 为运行的顺序随机源，
// 用于平局裁决，不能为 nil。
func NewSelector(capacity int, src xrand.Source, opts ...SelectorOption) (*Selector, error) {
	if capacity <= 0 {
		return nil, &ConfigurationError{Field: "sample_count", Reason: "must be a positive integer"}
	}
	if src == nil {
		return nil, ErrNilSource
	}

	s := &Selector{
		capacity: capacity,
		src:      src,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.h = &candidateHeap{cmp: s.compare}
	return s, nil
}

// compare 返回两个候选的顺序：正数表示 a 更优（key 更大）
//
// key 相等或不可比（NaN 退化）时，用一次无偏硬币抛掷决定按到达序
// 正向还是反向裁决，避免系统性偏向早到或晚到的记录。
// 每次退化比较恰好消费一次 Coin 抽取，固定随机源即可复现。
func (s *Selector) compare(a, b *Candidate) int {
	switch {
	case a.Key > b.Key:
		return 1
	case a.Key < b.Key:
		return -1
	}

	s.tieBreaks++
	if s.onTieBreak != nil {
		s.onTieBreak(a, b)
	}
	if s.src.Coin() {
		return cmp.Compare(a.Arrival, b.Arrival)
	}
	return cmp.Compare(b.Arrival, a.Arrival)
}

// Offer 向选择器提交一个候选
//
// 未满时无条件插入；满时与当前最弱候选比较，更优则逐出最弱者，
// 否则丢弃新候选。返回值为本次未被保留的候选（可能是被逐出的
// 旧候选，也可能是被拒绝的新候选），未发生丢弃时为 nil。
func (s *Selector) Offer(c *Candidate) (dropped *Candidate, err error) {
	if s.drained {
		return nil, ErrSelectorDrained
	}
	if c == nil {
		return nil, ErrNilCandidate
	}

	if s.h.Len() < s.capacity {
		heap.Push(s.h, c)
		return nil, nil
	}

	weakest := s.h.cands[0]
	if s.compare(c, weakest) <= 0 {
		// 新候选不优于当前最弱者，拒绝
		s.drop(c)
		return c, nil
	}

	s.h.cands[0] = c
	heap.Fix(s.h, 0)
	s.drop(weakest)
	return weakest, nil
}

// drop 记录一次丢弃事件
func (s *Selector) drop(c *Candidate) {
	s.evictions++
	if s.onEvict != nil {
		s.onEvict(c)
	}
}

// Drain 取出全部保留的候选并使选择器失效
//
// 返回的候选按到达序升序排列，保证固定随机源下的输出稳定。
// 选择器单用：Drain 之后再次调用 Drain 或 Offer 返回 ErrSelectorDrained。
func (s *Selector) Drain() ([]*Candidate, error) {
	if s.drained {
		return nil, ErrSelectorDrained
	}
	s.drained = true

	out := s.h.cands
	s.h.cands = nil
	slices.SortFunc(out, func(a, b *Candidate) int {
		return cmp.Compare(a.Arrival, b.Arrival)
	})
	return out, nil
}

// Len 返回当前持有的候选数量
func (s *Selector) Len() int { return s.h.Len() }

// Capacity 返回选择器容量（请求的样本数 K）
func (s *Selector) Capacity() int { return s.capacity }

// TieBreaks 返回累计的退化比较次数，用于诊断与测试。
func (s *Selector) TieBreaks() int64 { return s.tieBreaks }

// Evictions 返回累计的丢弃次数（逐出 + 拒绝），用于诊断与测试。
func (s *Selector) Evictions() int64 { return s.evictions }

// candidateHeap 按 key 的最小堆，堆顶为当前最弱候选
//
// Less 委托给 Selector.compare，平局裁决（含随机抽取）因此也发生在
// 堆的下沉/上浮路径中；给定固定随机源，堆操作序列是确定的。
type candidateHeap struct {
	cands []*Candidate
	cmp   func(a, b *Candidate) int
}

func (h *candidateHeap) Len() int           { return len(h.cands) }
func (h *candidateHeap) Less(i, j int) bool { return h.cmp(h.cands[i], h.cands[j]) < 0 }
func (h *candidateHeap) Swap(i, j int)      { h.cands[i], h.cands[j] = h.cands[j], h.cands[i] }

func (h *candidateHeap) Push(x any) {
	h.cands = append(h.cands, x.(*Candidate))
}

func (h *candidateHeap) Pop() any {
	old := h.cands
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	h.cands = old[:n-1]
	return c
}

// 编译时接口检查
var _ heap.Interface = (*candidateHeap)(nil)
