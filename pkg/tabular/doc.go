// Package tabular 聚合表格数据输入/输出相关的子包。
//
// 子包:
//   - xdelim: 分隔文本（TSV/CSV）的流式读写，实现采样引擎的输入/输出协作者接口
package tabular
