package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeInput 写入测试输入文件并返回路径。
func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.tsv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

const basicInput = "id\tweight\tlabel\n" +
	"r1\t1.0\talpha\n" +
	"r2\t2.0\tbeta\n" +
	"r3\t3.0\tgamma\n" +
	"r4\t4.0\tdelta\n"

func TestRun_EndToEnd(t *testing.T) {
	input := writeInput(t, basicInput)
	output := filepath.Join(t.TempDir(), "out.tsv")

	code := run([]string{"samplectl", "-q", "-n", "2", "--seed", "trial-1", "-f", input, "-o", output})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "id\tweight\tlabel" {
		t.Errorf("header = %q, want original schema", lines[0])
	}
	if got := len(lines) - 1; got != 2 {
		t.Errorf("retained %d records, want 2", got)
	}
}

func TestRun_Deterministic(t *testing.T) {
	input := writeInput(t, basicInput)
	dir := t.TempDir()
	out1 := filepath.Join(dir, "a.tsv")
	out2 := filepath.Join(dir, "b.tsv")

	for _, out := range []string{out1, out2} {
		code := run([]string{"samplectl", "-q", "-n", "2", "--seed", "rerun", "-f", input, "-o", out})
		if code != 0 {
			t.Fatalf("run() = %d, want 0", code)
		}
	}

	a, _ := os.ReadFile(out1)
	b, _ := os.ReadFile(out2)
	if string(a) != string(b) {
		t.Errorf("same seed produced different output:\n%s\nvs\n%s", a, b)
	}
}

func TestRun_ExcludeWins(t *testing.T) {
	input := writeInput(t, basicInput)
	output := filepath.Join(t.TempDir(), "out.tsv")

	code := run([]string{"samplectl", "-q", "-n", "4", "--seed", "x",
		"--exclude", "r2", "--include", "r2", "-f", input, "-o", output})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, _ := os.ReadFile(output)
	if strings.Contains(string(data), "r2\t") {
		t.Errorf("excluded identity r2 appeared in output:\n%s", data)
	}
}

func TestRun_DefaultColumns(t *testing.T) {
	// 不提供 --weights / --id-col 时统一权重 1.0、身份取第一列，
	// 输入不含 weight/id 列也必须采样成功
	input := writeInput(t, "name\tscore\n"+
		"alice\t90\n"+
		"bob\t85\n"+
		"carol\t70\n"+
		"dave\t60\n")
	output := filepath.Join(t.TempDir(), "out.tsv")

	code := run([]string{"samplectl", "-q", "-n", "2", "--seed", "uniform",
		"--exclude", "bob", "-f", input, "-o", output})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "name\tscore" {
		t.Errorf("header = %q, want original schema", lines[0])
	}
	if got := len(lines) - 1; got != 2 {
		t.Errorf("retained %d records, want 2", got)
	}
	// 身份默认匹配第一列，被排除的 bob 不得出现
	if strings.Contains(string(data), "bob\t") {
		t.Errorf("excluded identity bob appeared in output:\n%s", data)
	}
}

func TestRun_MissingSampleCount(t *testing.T) {
	input := writeInput(t, basicInput)
	code := run([]string{"samplectl", "-q", "-f", input})
	if code != 2 {
		t.Errorf("run() = %d, want 2 for missing sample count", code)
	}
}

func TestRun_InvalidDelimiter(t *testing.T) {
	input := writeInput(t, basicInput)
	code := run([]string{"samplectl", "-q", "-n", "2", "-d", "::", "-f", input})
	if code != 2 {
		t.Errorf("run() = %d, want 2 for multi-char delimiter", code)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	code := run([]string{"samplectl", "--no-such-flag"})
	if code != 2 {
		t.Errorf("run() = %d, want 2 for unknown flag", code)
	}
}

func TestRun_MissingInput(t *testing.T) {
	code := run([]string{"samplectl", "-q", "-n", "2", "-f", filepath.Join(t.TempDir(), "absent.tsv")})
	if code != 1 {
		t.Errorf("run() = %d, want 1 for missing input", code)
	}
}

func TestRun_FatalWeightRemovesOutput(t *testing.T) {
	// 零权重是致命错误，不得产生任何输出文件
	input := writeInput(t, "id\tweight\nr1\t1.0\nr2\t0\n")
	output := filepath.Join(t.TempDir(), "out.tsv")

	code := run([]string{"samplectl", "-q", "-n", "2", "--seed", "z", "-w", "weight", "-f", input, "-o", output})
	if code != 1 {
		t.Fatalf("run() = %d, want 1 for zero weight", code)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output file should be removed after fatal error, stat err = %v", err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	input := writeInput(t, basicInput)
	output := filepath.Join(t.TempDir(), "out.tsv")
	configPath := filepath.Join(t.TempDir(), "run.yaml")
	config := "sample_count: 3\nseed: from-file\n"
	if err := os.WriteFile(configPath, []byte(config), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	code := run([]string{"samplectl", "-q", "-c", configPath, "-f", input, "-o", output})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, _ := os.ReadFile(output)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if got := len(lines) - 1; got != 3 {
		t.Errorf("retained %d records, want 3 from config file", got)
	}

	// 命令行参数覆盖配置文件
	code = run([]string{"samplectl", "-q", "-c", configPath, "-n", "1", "-f", input, "-o", output})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	data, _ = os.ReadFile(output)
	lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if got := len(lines) - 1; got != 1 {
		t.Errorf("retained %d records, want 1 from flag override", got)
	}
}

func TestRun_Validate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(configPath, []byte("sample_count: 10\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if code := run([]string{"samplectl", "validate", "-c", configPath}); code != 0 {
		t.Errorf("validate = %d, want 0 for valid spec", code)
	}

	if code := run([]string{"samplectl", "validate"}); code != 2 {
		t.Errorf("validate = %d, want 2 for missing sample count", code)
	}
}

func TestUsageError(t *testing.T) {
	err := usageErrorf("test %s", "error")
	if err.Error() != "test error" {
		t.Errorf("usageError.Error() = %q, want %q", err.Error(), "test error")
	}
	var target *usageError
	if !errors.As(err, &target) {
		t.Error("errors.As failed for *usageError")
	}
}

func TestIsCLIUsageError(t *testing.T) {
	if !isCLIUsageError(errors.New("flag provided but not defined: -bogus")) {
		t.Error("flag parse error should be a usage error")
	}
	if isCLIUsageError(errors.New("disk on fire")) {
		t.Error("runtime error should not be a usage error")
	}
}
