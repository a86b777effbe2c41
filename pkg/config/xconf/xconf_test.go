package xconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Load / FromBytes 单元测试
// =============================================================================

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "run.yaml")
	content := `sample_count: 100
weight_field: mass
id_field: name
include:
  - alpha
  - beta
exclude:
  - gamma
seed: trial-7
delimiter: ","
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	spec, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, spec.SampleCount)
	assert.Equal(t, "mass", spec.WeightField)
	assert.Equal(t, "name", spec.IDField)
	assert.Equal(t, []string{"alpha", "beta"}, spec.Include)
	assert.Equal(t, []string{"gamma"}, spec.Exclude)
	assert.Equal(t, "trial-7", spec.Seed)
	assert.Equal(t, ",", spec.Delimiter)
	assert.Equal(t, "debug", spec.Log.Level)
	assert.Equal(t, "json", spec.Log.Format)
	assert.NoError(t, spec.Validate())
}

func TestLoad_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "run.json")
	content := `{"sample_count": 5, "weight_field": "w"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	spec, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, spec.SampleCount)
	assert.Equal(t, "w", spec.WeightField)
	// 未设置的字段保持默认值：身份列为空（使用第一列）
	assert.Empty(t, spec.IDField)
	assert.Equal(t, "\t", spec.Delimiter)
	assert.Equal(t, "info", spec.Log.Level)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := Load("run.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestFromBytes_Empty(t *testing.T) {
	// 空数据返回纯默认配置
	spec, err := FromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultRunSpec(), spec)
}

func TestFromBytes_InvalidFormat(t *testing.T) {
	_, err := FromBytes([]byte("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFromBytes_ParseError(t *testing.T) {
	_, err := FromBytes([]byte("sample_count: [unclosed"), FormatYAML)
	assert.ErrorIs(t, err, ErrParseFailed)
}

// =============================================================================
// Validate 单元测试
// =============================================================================

func TestRunSpec_Validate(t *testing.T) {
	valid := func() *RunSpec {
		s := DefaultRunSpec()
		s.SampleCount = 10
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*RunSpec)
		wantErr bool
	}{
		{"valid defaults", func(s *RunSpec) {}, false},
		{"zero sample count", func(s *RunSpec) { s.SampleCount = 0 }, true},
		{"negative sample count", func(s *RunSpec) { s.SampleCount = -3 }, true},
		// 空权重列/身份列合法：统一权重 1.0、使用第一列
		{"empty weight field", func(s *RunSpec) { s.WeightField = "" }, false},
		{"empty id field", func(s *RunSpec) { s.IDField = "" }, false},
		{"named weight and id fields", func(s *RunSpec) { s.WeightField = "mass"; s.IDField = "name" }, false},
		{"empty delimiter", func(s *RunSpec) { s.Delimiter = "" }, true},
		{"multi-char delimiter", func(s *RunSpec) { s.Delimiter = "::" }, true},
		{"newline delimiter", func(s *RunSpec) { s.Delimiter = "\n" }, true},
		{"comma delimiter", func(s *RunSpec) { s.Delimiter = "," }, false},
		{"unknown log level", func(s *RunSpec) { s.Log.Level = "verbose" }, true},
		{"empty log level", func(s *RunSpec) { s.Log.Level = "" }, false},
		{"unknown log format", func(s *RunSpec) { s.Log.Format = "xml" }, true},
		{"empty log format", func(s *RunSpec) { s.Log.Format = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid()
			tt.mutate(spec)
			err := spec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSpec)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunSpec_DelimiterRune(t *testing.T) {
	spec := DefaultRunSpec()
	r, err := spec.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, '\t', r)

	spec.Delimiter = "、"
	r, err = spec.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, '、', r)

	spec.Delimiter = "ab"
	_, err = spec.DelimiterRune()
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
