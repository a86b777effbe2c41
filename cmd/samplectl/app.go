package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/samplekit/pkg/config/xconf"
	"github.com/omeyang/samplekit/pkg/observability/xlog"
	"github.com/omeyang/samplekit/pkg/sample/xrand"
	"github.com/omeyang/samplekit/pkg/sample/xreservoir"
	"github.com/omeyang/samplekit/pkg/tabular/xdelim"
)

// usageError 表示参数或配置错误，映射到退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// isCLIUsageError 判断是否为 CLI 框架产生的参数错误。
func isCLIUsageError(err error) bool {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "invalid value") ||
		strings.Contains(msg, "No help topic for")
}

// createValidateCommand 创建 validate 子命令（仅校验 run spec，不执行采样）。
func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "校验 run spec 配置（配置文件与命令行参数合并后）",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			spec, err := buildSpec(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "run spec OK: sample_count=%d weight_field=%s id_field=%s include=%d exclude=%d\n",
				spec.SampleCount, spec.WeightField, spec.IDField, len(spec.Include), len(spec.Exclude))
			return nil
		},
	}
}

// buildSpec 合并配置文件与命令行参数并校验。
// 优先级：命令行参数 > 配置文件 > 默认值。
func buildSpec(cmd *cli.Command) (*xconf.RunSpec, error) {
	var spec *xconf.RunSpec
	if path := cmd.String("config"); path != "" {
		loaded, err := xconf.Load(path)
		if err != nil {
			return nil, usageErrorf("加载配置失败: %v", err)
		}
		spec = loaded
	} else {
		spec = xconf.DefaultRunSpec()
	}

	if cmd.IsSet("sample-count") {
		spec.SampleCount = cmd.Int("sample-count")
	}
	if cmd.IsSet("weights") {
		spec.WeightField = cmd.String("weights")
	}
	if cmd.IsSet("id-col") {
		spec.IDField = cmd.String("id-col")
	}
	if cmd.IsSet("include") {
		spec.Include = cmd.StringSlice("include")
	}
	if cmd.IsSet("exclude") {
		spec.Exclude = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("delimiter") {
		spec.Delimiter = cmd.String("delimiter")
	}
	if cmd.IsSet("seed") {
		spec.Seed = cmd.String("seed")
	}
	if cmd.IsSet("log-level") {
		spec.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		spec.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		spec.Log.File = cmd.String("log-file")
	}

	if err := spec.Validate(); err != nil {
		return nil, usageErrorf("%v", err)
	}
	return spec, nil
}

// buildLogger 根据 run spec 构建日志器。
// 返回的 cleanup 必须在进程退出前调用，确保轮转文件句柄关闭。
func buildLogger(spec *xconf.RunSpec, quiet bool) (xlog.Logger, func() error, error) {
	if quiet {
		return xlog.Discard(), func() error { return nil }, nil
	}

	b := xlog.New().
		SetOutput(os.Stderr).
		SetFormat(spec.Log.Format)
	if spec.Log.Level != "" {
		b = b.SetLevelString(spec.Log.Level)
	}
	if spec.Log.File != "" {
		b = b.SetRotation(spec.Log.File)
	}

	logger, cleanup, err := b.Build()
	if err != nil {
		return nil, nil, usageErrorf("日志配置无效: %v", err)
	}
	return logger, cleanup, nil
}

// buildSource 根据种子选择随机源。
// 种子为空时使用加密随机源，每次运行结果不同。
func buildSource(seed string) xrand.Source {
	if seed == "" {
		return xrand.NewCrypto()
	}
	return xrand.NewSeeded(seed)
}

// openInput 打开输入流。空路径或 "-" 表示 stdin。
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开输入失败: %w", err)
	}
	return f, nil
}

// cmdSample 执行一次采样运行（根命令动作）。
func cmdSample(ctx context.Context, cmd *cli.Command) error {
	spec, err := buildSpec(cmd)
	if err != nil {
		return err
	}

	delim, err := spec.DelimiterRune()
	if err != nil {
		return usageErrorf("%v", err)
	}

	logger, cleanup, err := buildLogger(spec, cmd.Bool("quiet"))
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	in, err := openInput(cmd.String("file"))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// 输出文件。引擎只在采样成功后写出，失败时删除残留文件。
	outPath := cmd.String("output")
	var out io.Writer = os.Stdout
	var outFile *os.File
	if outPath != "" {
		outFile, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("创建输出失败: %w", err)
		}
		out = outFile
	}

	summary, err := runSample(ctx, spec, delim, in, out, logger)

	if outFile != nil {
		closeErr := outFile.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}
	if err != nil {
		var cfgErr *xreservoir.ConfigurationError
		if errors.As(err, &cfgErr) {
			return usageErrorf("%v", cfgErr)
		}
		return err
	}

	logger.Info(ctx, "sampling finished",
		slog.Int64("read", summary.Read),
		slog.Int("retained", summary.Retained),
	)
	return nil
}

// runSample 组装读写两端并驱动采样引擎。
func runSample(ctx context.Context, spec *xconf.RunSpec, delim rune, in io.Reader, out io.Writer, logger xlog.Logger) (*xreservoir.Summary, error) {
	reader, err := xdelim.NewReader(in, xdelim.WithDelimiter(delim))
	if err != nil {
		return nil, err
	}
	writer, err := xdelim.NewWriter(out, xdelim.WithWriteDelimiter(delim))
	if err != nil {
		return nil, err
	}

	engine, err := xreservoir.New(xreservoir.Config{
		SampleCount: spec.SampleCount,
		WeightField: spec.WeightField,
		IDField:     spec.IDField,
		Include:     spec.Include,
		Exclude:     spec.Exclude,
	},
		xreservoir.WithSource(buildSource(spec.Seed)),
		xreservoir.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return engine.Run(ctx, reader, writer)
}
