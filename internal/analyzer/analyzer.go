// Package analyzer 负责单文件分析：读取内容、识别语言、复用解析器并统计结构。
package analyzer

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"codestats/internal/languages"
	"codestats/internal/model"
)

// Analyzer 是单次分析过程使用的文件分析器。
// 内部的解析器缓存不是并发安全的，一个 Analyzer 只应在一个 goroutine 中使用。
type Analyzer struct {
	registry *languages.Registry
	cache    *ParserCache
}

// New 创建使用注册表语法的分析器。
func New(registry *languages.Registry) *Analyzer {
	return NewWithCache(registry, NewParserCache(registry.Grammar))
}

// NewWithCache 使用调用方提供的解析器缓存创建分析器。
func NewWithCache(registry *languages.Registry, cache *ParserCache) *Analyzer {
	return &Analyzer{
		registry: registry,
		cache:    cache,
	}
}

// AnalyzeFile 分析单个文件。
//
// 错误顺序：非普通文件 -> 不支持的后缀 -> 读取失败 -> 语法绑定失败 -> 解析失败。
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (model.FileStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileStats{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !info.Mode().IsRegular() {
		return model.FileStats{}, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	language, ok := a.registry.Resolve(path)
	if !ok {
		return model.FileStats{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}

	return a.analyzeResolved(ctx, path, language)
}

// analyzeResolved 在语言已知时读取并统计文件，供目录扫描跳过重复检查。
func (a *Analyzer) analyzeResolved(ctx context.Context, path string, language model.Language) (model.FileStats, error) {
	source, err := readSource(path)
	if err != nil {
		return model.FileStats{}, err
	}

	stats, err := a.AnalyzeSource(ctx, path, language, source)
	if err != nil {
		return model.FileStats{}, err
	}

	return model.FileStats{
		Path:     path,
		Language: language,
		Stats:    stats,
	}, nil
}

// AnalyzeSource 解析源码字节并返回统计值，path 只用于错误信息。
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, language model.Language, source []byte) (model.CodeStats, error) {
	parser, err := a.cache.Get(language)
	if err != nil {
		return model.CodeStats{}, err
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return model.CodeStats{}, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if tree == nil {
		return model.CodeStats{}, fmt.Errorf("%w: %s", ErrParse, path)
	}
	defer tree.Close()

	return Classify(tree.RootNode(), language), nil
}

// Close 释放缓存中的解析器。
func (a *Analyzer) Close() {
	a.cache.Close()
}

// readSource 读取完整文件内容，二进制或非 UTF-8 内容视为读取失败。
func readSource(path string) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrIO, path, err)
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrIO, path, errInvalidUTF8)
	}
	return source, nil
}
