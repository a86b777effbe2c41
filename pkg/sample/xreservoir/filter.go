package xreservoir

import "strconv"

// Classification 身份过滤结果
type Classification int

const (
	// Normal 正常记录，进入 key 计算与加权选择
	Normal Classification = iota
	// Excluded 被排除的记录，立即丢弃，不进入选择器
	Excluded
	// ForcedInclude 强制包含的记录，绕过 key 计算，使用哨兵 key
	ForcedInclude
)

// String 返回分类的可读字符串表示，用于调试和日志输出。
func (c Classification) String() string {
	switch c {
	case Normal:
		return "Normal"
	case Excluded:
		return "Excluded"
	case ForcedInclude:
		return "ForcedInclude"
	default:
		return "Classification(" + strconv.Itoa(int(c)) + ")"
	}
}

// IdentityFilter 身份过滤器
//
// 按记录身份对照包含集与排除集做纯分类，无副作用。
// 两个集合在运行期间只读，过滤器可安全地被单个运行复用。
//
// 设计决策: 同一身份同时出现在包含集与排除集时，排除优先。
// 排除语义是"无论权重如何都不得出现在输出中"，比强制包含更强；
// 反向裁决会让一条 exclude 规则被另一处的 include 静默失效，
// 更难排查。该行为有专门测试固定。
type IdentityFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewIdentityFilter 创建身份过滤器
//
// include 与 exclude 均可为 nil 或空，表示不启用对应规则。
// 重复条目会被自然去重。
func NewIdentityFilter(include, exclude []string) *IdentityFilter {
	f := &IdentityFilter{
		include: make(map[string]struct{}, len(include)),
		exclude: make(map[string]struct{}, len(exclude)),
	}
	for _, id := range include {
		f.include[id] = struct{}{}
	}
	for _, id := range exclude {
		f.exclude[id] = struct{}{}
	}
	return f
}

// Classify 对记录身份做分类
//
// 排除优先于强制包含（见类型注释）。
func (f *IdentityFilter) Classify(id string) Classification {
	if _, ok := f.exclude[id]; ok {
		return Excluded
	}
	if _, ok := f.include[id]; ok {
		return ForcedInclude
	}
	return Normal
}

// IncludeCount 返回包含集大小，用于日志与配置校验。
func (f *IdentityFilter) IncludeCount() int { return len(f.include) }

// ExcludeCount 返回排除集大小，用于日志与配置校验。
func (f *IdentityFilter) ExcludeCount() int { return len(f.exclude) }
