package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"codestats/internal/config"
	"codestats/internal/languages"
	"codestats/internal/logging"
	"codestats/internal/report"
	"codestats/internal/scanner"

	"github.com/spf13/cobra"
)

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	codestats scan .
//	codestats scan ./project --format json --output result.json
//	codestats scan ./project --ignore target --ignore .git --max-depth 5
func newScanCmd(registry *languages.Registry, global *globalOptions) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描目录或文件并输出函数与类/结构体统计",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, registry, global, args[0])
		},
	}

	addAnalyzeFlags(scanCmd)
	return scanCmd
}

// addAnalyzeFlags 注册分析相关参数，默认值与配置默认值一致。
func addAnalyzeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("format", "f", string(report.FormatSummary), "输出格式: "+strings.Join(report.ValidFormats(), ", "))
	flags.BoolP("detail", "d", false, "summary 切换为逐文件明细")
	flags.StringSlice("ignore", nil, "忽略包含该子串的路径，可重复指定")
	flags.Bool("follow-links", false, "进入符号链接指向的目录")
	flags.Int("max-depth", scanner.DefaultMaxDepth, "最大遍历深度")
	flags.Int("workers", 1, "并发 worker 数量")
	flags.String("output", "", "同时把报告导出到该文件")
}

// runAnalyze 加载配置，按路径类型执行单文件分析或目录扫描并输出报告。
func runAnalyze(cmd *cobra.Command, registry *languages.Registry, global *globalOptions, path string) error {
	cfg, err := config.Load(global.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, logging.Options{
		Debug: global.debug,
		Quiet: global.quiet,
		Out:   cmd.ErrOrStderr(),
	})

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Detail && format == report.FormatSummary {
		format = report.FormatDetail
	}

	service := scanner.NewService(registry, logger)
	ctx := cmd.Context()

	var buffer bytes.Buffer
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		result, scanErr := service.ScanDirectory(ctx, path, scanner.Options{
			MaxDepth:       cfg.MaxDepth,
			FollowLinks:    cfg.FollowLinks,
			IgnorePatterns: cfg.Ignore,
			Workers:        cfg.Workers,
		})
		if scanErr != nil {
			return scanErr
		}
		if err := report.RenderDirectory(&buffer, result.Stats, format); err != nil {
			return err
		}
	} else {
		fileStats, analyzeErr := service.AnalyzeFile(ctx, path)
		if analyzeErr != nil {
			return analyzeErr
		}
		if err := report.RenderFile(&buffer, fileStats, format); err != nil {
			return err
		}
	}

	if _, err := cmd.OutOrStdout().Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if outputPath := strings.TrimSpace(cfg.Output); outputPath != "" {
		if err := report.WriteFile(outputPath, buffer.Bytes()); err != nil {
			return err
		}
		logger.Info().Str("path", outputPath).Msg("report exported")
	}
	return nil
}
