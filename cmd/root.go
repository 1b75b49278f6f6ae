// Package cmd 提供 codestats 的命令行入口与子命令编排。
package cmd

import (
	"codestats/internal/languages"

	"github.com/spf13/cobra"
)

// globalOptions 存放所有子命令共享的参数。
type globalOptions struct {
	configPath string
	debug      bool
	quiet      bool
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
// 根命令本身等价于 scan：codestats <path> 与 codestats scan <path> 行为一致。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	global := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "codestats [path]",
		Short: "Analyze code statistics for functions and classes",
		Long: "codestats 基于 tree-sitter 语法树统计函数与类/结构体数量，\n" +
			"支持 Rust、Go、Python、JavaScript、TypeScript、Java，按文件、语言与总计汇总。",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, registry, global, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&global.configPath, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "输出 debug 日志")
	rootCmd.PersistentFlags().BoolVar(&global.quiet, "quiet", false, "关闭全部日志输出")
	addAnalyzeFlags(rootCmd)

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(registry, global))

	return rootCmd
}
