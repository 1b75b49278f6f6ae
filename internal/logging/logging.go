// Package logging 基于 zerolog 创建 codestats 的日志记录器。
// 支持控制台、文件（lumberjack 轮转）以及两者同时输出；标准输出保留给报告内容。
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"codestats/internal/config"
)

// Options 是命令行层面的日志开关。
type Options struct {
	Debug bool      // 强制 debug 级别并附带调用位置
	Quiet bool      // 丢弃全部日志
	Out   io.Writer // 控制台输出目标，默认 os.Stderr
}

// New 按配置创建日志记录器。
// 优先级：quiet > debug > config.Level
func New(cfg config.LogConfig, options Options) zerolog.Logger {
	if options.Quiet {
		return zerolog.Nop()
	}

	level := parseLevel(cfg.Level)
	if options.Debug {
		level = zerolog.DebugLevel
	}

	console := options.Out
	if console == nil {
		console = os.Stderr
	}

	var writers []io.Writer
	switch strings.ToLower(cfg.Mode) {
	case "file":
		writers = append(writers, createFileWriter(cfg, console))
	case "both":
		writers = append(writers, createConsoleWriter(console, cfg.JSON))
		writers = append(writers, createFileWriter(cfg, console))
	default:
		writers = append(writers, createConsoleWriter(console, cfg.JSON))
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	context := zerolog.New(output).Level(level).With().Timestamp()
	if options.Debug {
		context = context.Caller()
	}
	return context.Logger()
}

// createConsoleWriter 创建控制台输出写入器
func createConsoleWriter(out io.Writer, useJSON bool) io.Writer {
	if useJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// createFileWriter 创建文件输出写入器，目录无法创建时退回控制台。
func createFileWriter(cfg config.LogConfig, fallback io.Writer) io.Writer {
	logDir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fallback
	}

	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,    // megabytes
		MaxBackups: cfg.MaxBackups, // 保留备份数量
		MaxAge:     cfg.MaxAge,     // days
		Compress:   true,
	}
}

// parseLevel 解析日志级别，未知值按 info 处理。
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
