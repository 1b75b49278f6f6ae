package analyzer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"codestats/internal/languages"
	"codestats/internal/model"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture file failed: %v", err)
	}
}

// TestAnalyzeFileSuccess 验证单文件分析返回路径、语言与统计值。
func TestAnalyzeFileSuccess(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "test.rs")
	writeFixtureFile(t, filePath, strings.Join([]string{
		"fn main() {",
		"    println!(\"Hello\");",
		"}",
		"",
		"struct TestStruct {",
		"    field: i32,",
		"}",
	}, "\n"))

	analyzer := New(languages.NewRegistry())
	defer analyzer.Close()

	result, err := analyzer.AnalyzeFile(context.Background(), filePath)
	if err != nil {
		t.Fatalf("analyze file failed: %v", err)
	}
	if result.Path != filePath {
		t.Fatalf("expected path %s, got %s", filePath, result.Path)
	}
	if result.Language != model.LanguageRust {
		t.Fatalf("expected Rust, got %s", result.Language)
	}
	expectStats(t, result.Stats, 1, 1)
}

// TestAnalyzeFileRejectsDirectory 验证目录路径返回“不是普通文件”。
func TestAnalyzeFileRejectsDirectory(t *testing.T) {
	analyzer := New(languages.NewRegistry())
	defer analyzer.Close()

	_, err := analyzer.AnalyzeFile(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotRegularFile) {
		t.Fatalf("expected ErrNotRegularFile, got %v", err)
	}
}

// TestAnalyzeFileUnsupportedType 验证不支持的后缀返回 ErrUnsupportedFileType。
func TestAnalyzeFileUnsupportedType(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "test.txt")
	writeFixtureFile(t, filePath, "Not code")

	analyzer := New(languages.NewRegistry())
	defer analyzer.Close()

	_, err := analyzer.AnalyzeFile(context.Background(), filePath)
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported file type") || !strings.Contains(err.Error(), "test.txt") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

// TestAnalyzeFileMissing 验证不存在的文件返回包装了 fs.ErrNotExist 的 IO 错误。
func TestAnalyzeFileMissing(t *testing.T) {
	analyzer := New(languages.NewRegistry())
	defer analyzer.Close()

	_, err := analyzer.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.rs"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

// TestAnalyzeFileInvalidUTF8 验证二进制内容按读取失败处理。
func TestAnalyzeFileInvalidUTF8(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "binary.py")
	if err := os.WriteFile(filePath, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644); err != nil {
		t.Fatalf("write fixture file failed: %v", err)
	}

	analyzer := New(languages.NewRegistry())
	defer analyzer.Close()

	_, err := analyzer.AnalyzeFile(context.Background(), filePath)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

// TestParserCacheReusesParser 验证同语言的多个文件只创建一个解析器。
func TestParserCacheReusesParser(t *testing.T) {
	tempDir := t.TempDir()
	first := filepath.Join(tempDir, "a.rs")
	second := filepath.Join(tempDir, "b.rs")
	script := filepath.Join(tempDir, "c.py")
	writeFixtureFile(t, first, "fn a() {}")
	writeFixtureFile(t, second, "fn b() {} struct S {}")
	writeFixtureFile(t, script, "def c(): pass")

	registry := languages.NewRegistry()
	cache := NewParserCache(registry.Grammar)
	analyzer := NewWithCache(registry, cache)
	defer analyzer.Close()

	for _, path := range []string{first, second, first} {
		if _, err := analyzer.AnalyzeFile(context.Background(), path); err != nil {
			t.Fatalf("analyze %s failed: %v", path, err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 cached parser, got %d", cache.Len())
	}

	if _, err := analyzer.AnalyzeFile(context.Background(), script); err != nil {
		t.Fatalf("analyze %s failed: %v", script, err)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached parsers, got %d", cache.Len())
	}

	parser, err := cache.Get(model.LanguageRust)
	if err != nil {
		t.Fatalf("get cached parser failed: %v", err)
	}
	again, err := cache.Get(model.LanguageRust)
	if err != nil || again != parser {
		t.Fatalf("expected the same parser instance, got %p and %p (%v)", parser, again, err)
	}
}

// TestParserCacheSetupFailureIsIsolated 验证语法绑定失败不会写入缓存，也不影响其他语言。
func TestParserCacheSetupFailureIsIsolated(t *testing.T) {
	registry := languages.NewRegistry()
	attempts := 0
	cache := NewParserCache(func(language model.Language) (*sitter.Language, error) {
		if language == model.LanguageGo {
			attempts++
			return nil, errors.New("grammar missing")
		}
		return registry.Grammar(language)
	})
	defer cache.Close()

	analyzer := NewWithCache(registry, cache)
	tempDir := t.TempDir()
	goFile := filepath.Join(tempDir, "main.go")
	rustFile := filepath.Join(tempDir, "main.rs")
	writeFixtureFile(t, goFile, "package main\nfunc main() {}")
	writeFixtureFile(t, rustFile, "fn main() {}")

	for i := 0; i < 2; i++ {
		_, err := analyzer.AnalyzeFile(context.Background(), goFile)
		if !errors.Is(err, ErrLanguageSetup) {
			t.Fatalf("expected ErrLanguageSetup, got %v", err)
		}
	}
	if attempts != 2 {
		t.Fatalf("expected a fresh setup attempt per call, got %d attempts", attempts)
	}

	result, err := analyzer.AnalyzeFile(context.Background(), rustFile)
	if err != nil {
		t.Fatalf("rust analysis should not be affected: %v", err)
	}
	expectStats(t, result.Stats, 1, 0)
	if cache.Len() != 1 {
		t.Fatalf("expected only the rust parser to be cached, got %d", cache.Len())
	}
}

// TestParserCacheCloseEmpties 验证 Close 会清空缓存。
func TestParserCacheCloseEmpties(t *testing.T) {
	registry := languages.NewRegistry()
	cache := NewParserCache(registry.Grammar)
	for _, language := range model.AllLanguages() {
		if _, err := cache.Get(language); err != nil {
			t.Fatalf("get %s failed: %v", language, err)
		}
	}
	if cache.Len() != len(model.AllLanguages()) {
		t.Fatalf("expected %d parsers, got %d", len(model.AllLanguages()), cache.Len())
	}

	cache.Close()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after close, got %d", cache.Len())
	}
}
