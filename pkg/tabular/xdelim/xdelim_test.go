package xdelim

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/samplekit/pkg/sample/xreservoir"
)

func TestReaderTSV(t *testing.T) {
	t.Parallel()

	input := "id\tname\tweight\n" +
		"a\talpha\t1.5\n" +
		"b\tbeta\t2.0\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	schema, err := r.Schema()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "weight"}, schema)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "alpha", "1.5"}, rec)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "beta", "2.0"}, rec)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSchemaIdempotent(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("id\tw\nx\t1\n"))
	require.NoError(t, err)

	first, err := r.Schema()
	require.NoError(t, err)
	second, err := r.Schema()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "1"}, rec)
}

func TestReaderCustomDelimiter(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("id,w\na,1\n"), WithDelimiter(','))
	require.NoError(t, err)

	schema, err := r.Schema()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "w"}, schema)
}

func TestReaderInvalidDelimiter(t *testing.T) {
	t.Parallel()

	for _, d := range []rune{'"', '\n', '\r', 0} {
		_, err := NewReader(strings.NewReader(""), WithDelimiter(d))
		assert.Error(t, err, "delimiter %q should be rejected", d)
	}
}

func TestReaderEmptyInput(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader(""))
	require.NoError(t, err)

	_, err = r.Schema()
	assert.Error(t, err)
}

func TestReaderFieldCountMismatch(t *testing.T) {
	t.Parallel()

	input := "id\tname\tweight\n" +
		"a\talpha\t1.5\n" +
		"b\tbeta\n" // 缺一列

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	_, err = r.Schema()
	require.NoError(t, err)

	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	var schemaErr *xreservoir.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 1, schemaErr.Arrival)
	assert.Equal(t, 3, schemaErr.Want)
	assert.Equal(t, 2, schemaErr.Got)
}

func TestWriterRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteSchema([]string{"id", "weight"}))
	require.NoError(t, w.Write([]string{"a", "1.5"}))
	require.NoError(t, w.Write([]string{"b", "2.0"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "id\tweight\na\t1.5\nb\t2.0\n", buf.String())
}

func TestWriterDuplicateSchema(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(&bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, w.WriteSchema([]string{"id"}))
	assert.ErrorIs(t, w.WriteSchema([]string{"id"}), ErrDuplicateSchema)
}

func TestWriterFlushSurfacesError(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(failWriter{})
	require.NoError(t, err)

	_ = w.WriteSchema([]string{"id"})
	assert.Error(t, w.Flush())
}

// failWriter 总是失败的 io.Writer
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
