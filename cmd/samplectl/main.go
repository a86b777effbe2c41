// samplectl 是 samplekit 的命令行入口，对带表头的分隔文本流
// 做单遍加权随机采样。
//
// 用法:
//
//	samplectl [选项]
//	samplectl validate --config <run spec 文件>
//
// 主要选项:
//
//	-f, --file          输入文件路径（默认: stdin，"-" 亦表示 stdin）
//	-o, --output        输出文件路径（默认: stdout）
//	-n, --sample-count  保留的样本数量（必需，可由配置文件提供）
//	-w, --weights       权重列名（默认: 空，所有记录统一权重 1.0）
//	    --id-col        身份列名（默认: 空，使用第一列）
//	    --include       强制保留的身份，可重复指定
//	    --exclude       强制排除的身份，可重复指定（排除优先于保留）
//	-d, --delimiter     字段分隔符（默认: 制表符）
//	    --seed          随机种子字符串；为空时每次运行结果不同
//	-c, --config        run spec 配置文件（YAML/JSON），命令行参数优先
//	    --log-level     日志级别（debug/info/warn/error，默认: info）
//	    --log-format    日志格式（text/json，默认: text）
//	    --log-file      日志文件路径（默认: stderr，带轮转）
//	-q, --quiet         关闭日志输出
//
// 退出码:
//
//	0: 采样成功完成（validate 命令: 配置有效）
//	1: 运行失败（输入读取失败、权重非法、schema 错误等）
//	2: 参数或配置错误（缺少样本数、非法分隔符、未知 flag 等）
//
// 示例:
//
//	samplectl -n 1000 -f records.tsv > sample.tsv
//	samplectl -n 50 --seed trial-7 --exclude ctrl-01 --exclude ctrl-02 -f cohort.tsv
//	samplectl -c run.yaml -f records.tsv -o sample.tsv
//	samplectl validate -c run.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "samplectl",
		Usage:   "对分隔文本流做单遍加权随机采样",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "输入文件路径，空或 \"-\" 表示 stdin",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "输出文件路径，空表示 stdout",
			},
			&cli.IntFlag{
				Name:    "sample-count",
				Aliases: []string{"n"},
				Usage:   "保留的样本数量",
			},
			&cli.StringFlag{
				Name:    "weights",
				Aliases: []string{"w"},
				Usage:   "权重列名，为空表示统一权重 1.0",
			},
			&cli.StringFlag{
				Name:  "id-col",
				Usage: "身份列名，为空表示使用第一列",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "强制保留的身份，可重复指定",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "强制排除的身份，可重复指定",
			},
			&cli.StringFlag{
				Name:    "delimiter",
				Aliases: []string{"d"},
				Usage:   "字段分隔符",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "随机种子字符串",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "run spec 配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别（debug/info/warn/error）",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式（text/json）",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，空表示 stderr",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "关闭日志输出",
			},
		},
		Commands: []*cli.Command{
			createValidateCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdSample(ctx, cmd)
		},
		Authors: []any{
			"SampleKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// 当采样阻塞在输入流上时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
