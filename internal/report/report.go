// Package report 提供 codestats 的输出能力。
// 当前实现支持 summary/detail 文本格式以及 JSON、YAML、TOML 结构化格式（含文件导出）。
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"codestats/internal/model"
)

// Format 输出格式类型。
type Format string

const (
	// FormatSummary 只输出语言汇总与总计。
	FormatSummary Format = "summary"
	// FormatDetail 先输出每个文件，再输出汇总。
	FormatDetail Format = "detail"
	// FormatJSON 输出缩进 JSON。
	FormatJSON Format = "json"
	// FormatYAML 输出 YAML。
	FormatYAML Format = "yaml"
	// FormatTOML 输出 TOML。
	FormatTOML Format = "toml"
)

// ValidFormats 返回所有有效的输出格式。
func ValidFormats() []string {
	return []string{string(FormatSummary), string(FormatDetail), string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// ParseFormat 解析输出格式字符串，不区分大小写。
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "summary", "":
		return FormatSummary, nil
	case "detail":
		return FormatDetail, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, allowed values: %s", format, strings.Join(ValidFormats(), ", "))
	}
}

// codeStatsDocument 是 CodeStats 的序列化形状。
type codeStatsDocument struct {
	FunctionCount    int64 `json:"function_count" yaml:"function_count" toml:"function_count"`
	ClassStructCount int64 `json:"class_struct_count" yaml:"class_struct_count" toml:"class_struct_count"`
}

// fileDocument 是 FileStats 的序列化形状。
type fileDocument struct {
	Path     string            `json:"path" yaml:"path" toml:"path"`
	Language string            `json:"language" yaml:"language" toml:"language"`
	Stats    codeStatsDocument `json:"stats" yaml:"stats" toml:"stats"`
}

// languageDocument 是 LanguageStats 的序列化形状。
type languageDocument struct {
	FileCount        int64 `json:"file_count" yaml:"file_count" toml:"file_count"`
	FunctionCount    int64 `json:"function_count" yaml:"function_count" toml:"function_count"`
	ClassStructCount int64 `json:"class_struct_count" yaml:"class_struct_count" toml:"class_struct_count"`
}

// directoryDocument 是 DirectoryStats 的序列化形状，字段名属于对下游的稳定约定。
type directoryDocument struct {
	Files           []fileDocument              `json:"files" yaml:"files" toml:"files"`
	TotalByLanguage map[string]languageDocument `json:"total_by_language" yaml:"total_by_language" toml:"total_by_language"`
	TotalStats      codeStatsDocument           `json:"total_stats" yaml:"total_stats" toml:"total_stats"`
}

func newCodeStatsDocument(stats model.CodeStats) codeStatsDocument {
	return codeStatsDocument{
		FunctionCount:    stats.FunctionCount,
		ClassStructCount: stats.ClassStructCount,
	}
}

func newFileDocument(file model.FileStats) fileDocument {
	return fileDocument{
		Path:     file.Path,
		Language: file.Language.String(),
		Stats:    newCodeStatsDocument(file.Stats),
	}
}

func newDirectoryDocument(stats *model.DirectoryStats) directoryDocument {
	document := directoryDocument{
		Files:           make([]fileDocument, 0, len(stats.Files)),
		TotalByLanguage: make(map[string]languageDocument, len(stats.TotalByLanguage)),
		TotalStats:      newCodeStatsDocument(stats.TotalStats),
	}
	for _, file := range stats.Files {
		document.Files = append(document.Files, newFileDocument(file))
	}
	for language, summary := range stats.TotalByLanguage {
		document.TotalByLanguage[language.String()] = languageDocument{
			FileCount:        summary.FileCount,
			FunctionCount:    summary.FunctionCount,
			ClassStructCount: summary.ClassStructCount,
		}
	}
	return document
}

// RenderDirectory 按格式把目录统计写入 writer。
func RenderDirectory(writer io.Writer, stats *model.DirectoryStats, format Format) error {
	switch format {
	case FormatSummary:
		return writeText(writer, formatSummary(stats))
	case FormatDetail:
		return writeText(writer, formatDetail(stats))
	case FormatJSON, FormatYAML, FormatTOML:
		return encode(writer, newDirectoryDocument(stats), format)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// RenderFile 按格式把单文件统计写入 writer。
// summary 与 detail 对单文件输出相同的可读文本。
func RenderFile(writer io.Writer, file model.FileStats, format Format) error {
	switch format {
	case FormatSummary, FormatDetail:
		return writeText(writer, formatSingleFile(file))
	case FormatJSON, FormatYAML, FormatTOML:
		return encode(writer, newFileDocument(file), format)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// formatSingleFile 输出单文件的可读统计。
func formatSingleFile(file model.FileStats) string {
	return fmt.Sprintf(
		"Analyzing file: %s (Language: %s)\nCode Statistics:\nFunctions: %d\nClasses/Structs: %d\n",
		file.Path,
		file.Language,
		file.Stats.FunctionCount,
		file.Stats.ClassStructCount,
	)
}

// formatSummary 输出语言汇总（按名称排序）与总计。
func formatSummary(stats *model.DirectoryStats) string {
	var builder strings.Builder
	builder.WriteString("Language Summary:\n")

	languages := make([]model.Language, 0, len(stats.TotalByLanguage))
	for language := range stats.TotalByLanguage {
		languages = append(languages, language)
	}
	sort.Slice(languages, func(i int, j int) bool {
		return languages[i].String() < languages[j].String()
	})

	for _, language := range languages {
		summary := stats.TotalByLanguage[language]
		fmt.Fprintf(
			&builder,
			"  %-12s %4d functions, %4d structs/classes in %d files\n",
			language.String()+":",
			summary.FunctionCount,
			summary.ClassStructCount,
			summary.FileCount,
		)
	}

	fmt.Fprintf(
		&builder,
		"\nTotal: %d functions, %d structs/classes in %d files\n",
		stats.TotalStats.FunctionCount,
		stats.TotalStats.ClassStructCount,
		stats.TotalFiles(),
	)
	return builder.String()
}

// formatDetail 先按路径排序输出每个文件，再追加汇总。
func formatDetail(stats *model.DirectoryStats) string {
	files := append([]model.FileStats(nil), stats.Files...)
	sort.Slice(files, func(i int, j int) bool {
		return files[i].Path < files[j].Path
	})

	var builder strings.Builder
	for _, file := range files {
		fmt.Fprintf(
			&builder,
			"%s (%s):\n  Functions: %d\n  Structs/Classes: %d\n\n",
			file.Path,
			file.Language,
			file.Stats.FunctionCount,
			file.Stats.ClassStructCount,
		)
	}
	builder.WriteString(formatSummary(stats))
	return builder.String()
}

// encode 把文档编码为结构化格式。
func encode(writer io.Writer, document any, format Format) error {
	content, err := Marshal(document, format)
	if err != nil {
		return err
	}
	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// Marshal 按结构化格式编码任意文档，输出以换行结尾。
func Marshal(document any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		content, err := json.MarshalIndent(document, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(content, '\n'), nil
	case FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(2)
		if err := encoder.Encode(document); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return buffer.Bytes(), nil
	case FormatTOML:
		content, err := toml.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("marshal toml: %w", err)
		}
		return content, nil
	default:
		return nil, errors.New("format is not a structured encoding")
	}
}

// writeText 写入纯文本内容。
func writeText(writer io.Writer, text string) error {
	if _, err := io.WriteString(writer, text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteFile 将渲染好的报告导出到指定路径。
// 如果目录不存在会自动创建。
func WriteFile(path string, content []byte) error {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
