// Package xdelim 提供分隔文本（TSV/CSV）的流式读写。
//
// Reader 实现 xreservoir.RecordSource，Writer 实现
// xreservoir.RecordSink：第一行是 schema（字段名），
// 之后每行一条记录。默认分隔符为制表符（TSV）。
//
// 记录惰性读取，内存占用与输入行数无关；字段数与 schema
// 不一致的行以 *xreservoir.SchemaError 上报，携带到达序号。
package xdelim

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/omeyang/samplekit/pkg/sample/xreservoir"
)

// DefaultDelimiter 默认字段分隔符（制表符）
const DefaultDelimiter = '\t'

// ErrDuplicateSchema 表示 WriteSchema 被调用了多次
var ErrDuplicateSchema = errors.New("xdelim: schema already written")

// validDelimiter 检查分隔符是否为 encoding/csv 接受的合法值。
func validDelimiter(d rune) bool {
	switch d {
	case 0, '"', '\r', '\n', 0xFFFD:
		return false
	}
	return true
}

// ReaderOption 配置 Reader 的可选参数
type ReaderOption func(*Reader)

// WithDelimiter 设置字段分隔符
//
// 默认为制表符。非法分隔符（引号、换行等）使 NewReader 返回错误。
func WithDelimiter(d rune) ReaderOption {
	return func(r *Reader) {
		r.delimiter = d
	}
}

// Reader 分隔文本的流式读取器
//
// 第一行作为 schema，经 Schema() 暴露；Next() 逐行产出记录字段，
// 流结束返回 io.EOF。非并发安全。
type Reader struct {
	csv       *csv.Reader
	delimiter rune
	schema    []string
	arrival   int
}

// NewReader 创建读取器
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	rd := &Reader{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(rd)
	}
	if !validDelimiter(rd.delimiter) {
		return nil, fmt.Errorf("xdelim: invalid delimiter %q", rd.delimiter)
	}

	c := csv.NewReader(r)
	c.Comma = rd.delimiter
	c.ReuseRecord = false
	rd.csv = c
	return rd, nil
}

// Schema 返回输入的字段名列表
//
// 首次调用读取第一行；必须在 Next 之前调用（引擎的 Init 阶段
// 保证这一点），否则第一行会被当作数据行消费。
func (r *Reader) Schema() ([]string, error) {
	if r.schema != nil {
		return r.schema, nil
	}

	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("xdelim: input is empty: %w", err)
		}
		return nil, fmt.Errorf("xdelim: read schema: %w", err)
	}
	r.schema = fields
	return r.schema, nil
}

// Next 返回下一条记录的字段值
//
// 流结束返回 io.EOF；字段数与 schema 不一致返回 *xreservoir.SchemaError。
func (r *Reader) Next() ([]string, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		// encoding/csv 在首行之后自动校验字段数
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, &xreservoir.SchemaError{
				Arrival: r.arrival,
				Want:    len(r.schema),
				Got:     len(fields),
				Err:     err,
			}
		}
		return nil, &xreservoir.SchemaError{Arrival: r.arrival, Err: err}
	}
	r.arrival++
	return fields, nil
}

// WriterOption 配置 Writer 的可选参数
type WriterOption func(*Writer)

// WithWriteDelimiter 设置输出的字段分隔符，默认为制表符。
func WithWriteDelimiter(d rune) WriterOption {
	return func(w *Writer) {
		w.delimiter = d
	}
}

// Writer 分隔文本的流式写入器
//
// 先 WriteSchema 一次，然后逐条 Write，最后 Flush。非并发安全。
type Writer struct {
	csv           *csv.Writer
	delimiter     rune
	schemaWritten bool
}

// NewWriter 创建写入器
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	wr := &Writer{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(wr)
	}
	if !validDelimiter(wr.delimiter) {
		return nil, fmt.Errorf("xdelim: invalid delimiter %q", wr.delimiter)
	}

	c := csv.NewWriter(w)
	c.Comma = wr.delimiter
	wr.csv = c
	return wr, nil
}

// WriteSchema 写出字段名行
//
// 只允许调用一次，重复调用返回 ErrDuplicateSchema。
func (w *Writer) WriteSchema(fields []string) error {
	if w.schemaWritten {
		return ErrDuplicateSchema
	}
	w.schemaWritten = true
	if err := w.csv.Write(fields); err != nil {
		return fmt.Errorf("xdelim: write schema: %w", err)
	}
	return nil
}

// Write 写出一条记录
func (w *Writer) Write(fields []string) error {
	if err := w.csv.Write(fields); err != nil {
		return fmt.Errorf("xdelim: write record: %w", err)
	}
	return nil
}

// Flush 冲刷缓冲并返回累积的写错误
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("xdelim: flush: %w", err)
	}
	return nil
}

// 编译时接口检查
var (
	_ xreservoir.RecordSource = (*Reader)(nil)
	_ xreservoir.RecordSink   = (*Writer)(nil)
)
