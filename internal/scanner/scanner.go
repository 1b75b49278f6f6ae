// Package scanner 提供目录遍历与扫描调度能力。
// 该层负责目录遍历、过滤、任务分发、并发执行和结果聚合，不负责语法解析细节。
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"codestats/internal/analyzer"
	"codestats/internal/languages"
	"codestats/internal/model"
)

// DefaultMaxDepth 是未指定时的最大遍历深度。
const DefaultMaxDepth = 100

// Options 存放一次目录扫描的可配置参数。
type Options struct {
	// MaxDepth 限制遍历层级，根目录为第 0 层，其直接子项为第 1 层。
	MaxDepth int
	// FollowLinks 为 true 时会进入指向目录的符号链接。
	FollowLinks bool
	// IgnorePatterns 中任意一个是完整路径的子串时跳过该路径。
	IgnorePatterns []string
	// Workers 是并发分析的 worker 数量，小于 1 时按 1 处理。
	Workers int
}

// FileError 记录单个路径的分析或遍历失败。
type FileError struct {
	Path string
	Err  error
}

// Error 实现 error 接口。
func (e *FileError) Error() string {
	return e.Err.Error()
}

// Unwrap 暴露底层错误，便于 errors.Is 判断类别。
func (e *FileError) Unwrap() error {
	return e.Err
}

// Result 是目录扫描的输出。
// Errors 按收集顺序记录被吞掉的单文件失败，不会出现在 Stats 中。
type Result struct {
	Stats  *model.DirectoryStats
	Errors []error
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	logger   zerolog.Logger
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	path string
}

// workerResult 表示 worker 或遍历过程的执行产物，两个字段恰好一个非空。
type workerResult struct {
	fileStats *model.FileStats
	scanError error
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, logger zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

// AnalyzeFile 分析用户直接指定的单个文件，遇到的第一个错误直接返回。
func (s *Service) AnalyzeFile(ctx context.Context, path string) (model.FileStats, error) {
	fileAnalyzer := analyzer.New(s.registry)
	defer fileAnalyzer.Close()

	s.logger.Debug().Str("path", path).Msg("analyzing single file")
	return fileAnalyzer.AnalyzeFile(ctx, path)
}

// ScanDirectory 遍历目录并聚合全部可识别文件的统计值。
//
// 单文件失败只会记录到 Result.Errors；只有一个文件都没有成功且存在错误时，
// 才返回第一个记录到的错误。
func (s *Service) ScanDirectory(ctx context.Context, root string, options Options) (Result, error) {
	workers := options.Workers
	if workers < 1 {
		workers = 1
	}

	logger := s.logger.With().Str("scan_id", uuid.NewString()).Logger()

	result := Result{
		Stats:  model.NewDirectoryStats(),
		Errors: make([]error, 0),
	}

	logger.Debug().
		Str("root", root).
		Int("max_depth", options.MaxDepth).
		Bool("follow_links", options.FollowLinks).
		Strs("ignore", options.IgnorePatterns).
		Int("workers", workers).
		Msg("directory scan started")

	tasks := make(chan scanTask, workers*4)
	results := make(chan workerResult, workers*4)

	var workerGroup sync.WaitGroup
	for i := 0; i < workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(ctx, tasks, results)
		}()
	}

	walkDone := make(chan struct{})
	go func() {
		defer close(walkDone)
		defer close(tasks)
		w := &walker{
			registry: s.registry,
			options:  options,
			tasks:    tasks,
			results:  results,
		}
		w.walk(ctx, root)
	}()

	go func() {
		<-walkDone
		workerGroup.Wait()
		close(results)
	}()

	// 单一收集者负责全部聚合，保证 Add 不被并发调用。
	for item := range results {
		if item.fileStats != nil {
			result.Stats.Add(*item.fileStats)
		}
		if item.scanError != nil {
			result.Errors = append(result.Errors, item.scanError)
			logger.Warn().Err(item.scanError).Msg("skipping file")
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if len(result.Errors) > 0 {
		logger.Info().
			Int("failed", len(result.Errors)).
			Int("analyzed", result.Stats.TotalFiles()).
			Msg("some files could not be analyzed")
	}

	if result.Stats.TotalFiles() == 0 && len(result.Errors) > 0 {
		return result, result.Errors[0]
	}

	logger.Debug().
		Int("files", result.Stats.TotalFiles()).
		Int64("functions", result.Stats.TotalStats.FunctionCount).
		Int64("class_structs", result.Stats.TotalStats.ClassStructCount).
		Msg("directory scan finished")

	return result, nil
}

// runWorker 执行真实的文件读取和语法统计。
// 每个 worker 持有独立的分析器，解析器缓存不会跨 goroutine 共享。
func (s *Service) runWorker(ctx context.Context, tasks <-chan scanTask, results chan<- workerResult) {
	fileAnalyzer := analyzer.New(s.registry)
	defer fileAnalyzer.Close()

	for task := range tasks {
		fileStats, err := fileAnalyzer.AnalyzeFile(ctx, task.path)
		if err != nil {
			results <- workerResult{scanError: &FileError{Path: task.path, Err: err}}
			continue
		}
		results <- workerResult{fileStats: &fileStats}
	}
}

// walker 负责按深度与符号链接策略枚举目录项。
type walker struct {
	registry *languages.Registry
	options  Options
	tasks    chan<- scanTask
	results  chan<- workerResult
}

// walk 从根路径开始遍历。根路径本身处于第 0 层。
func (w *walker) walk(ctx context.Context, root string) {
	info, err := os.Stat(root)
	if err != nil {
		w.fail(root, fmt.Errorf("%w: %w", analyzer.ErrIO, err))
		return
	}

	if !info.IsDir() {
		w.visitFile(ctx, root)
		return
	}

	w.walkDirectory(ctx, root, 0, []os.FileInfo{info})
}

// walkDirectory 读取目录并处理其子项，ancestors 用于识别符号链接环。
func (w *walker) walkDirectory(ctx context.Context, dir string, depth int, ancestors []os.FileInfo) {
	if depth >= w.options.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.fail(dir, fmt.Errorf("%w: %w", analyzer.ErrIO, err))
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		path := filepath.Join(dir, entry.Name())
		if w.ignored(path) {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 && w.options.FollowLinks {
			target, statErr := os.Stat(path)
			if statErr != nil {
				w.fail(path, fmt.Errorf("%w: %w", analyzer.ErrIO, statErr))
				continue
			}
			if target.IsDir() {
				if loopsBack(target, ancestors) {
					w.fail(path, fmt.Errorf("%w: file system loop found: %s points to an ancestor", analyzer.ErrIO, path))
					continue
				}
				w.walkDirectory(ctx, path, depth+1, append(ancestors, target))
				continue
			}
		}

		if isDir {
			info, infoErr := entry.Info()
			if infoErr != nil {
				w.fail(path, fmt.Errorf("%w: %w", analyzer.ErrIO, infoErr))
				continue
			}
			w.walkDirectory(ctx, path, depth+1, append(ancestors, info))
			continue
		}

		w.visitFile(ctx, path)
	}
}

// visitFile 过滤非普通文件、忽略路径与不支持的语言，其余提交给 worker。
func (w *walker) visitFile(ctx context.Context, path string) {
	if w.ignored(path) {
		return
	}

	// os.Stat 会跟随链接，与“是否文件”的判定保持一致。
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	if _, ok := w.registry.Resolve(path); !ok {
		return
	}

	select {
	case w.tasks <- scanTask{path: path}:
	case <-ctx.Done():
	}
}

// ignored 判断路径是否包含任意忽略子串。
func (w *walker) ignored(path string) bool {
	for _, pattern := range w.options.IgnorePatterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// fail 把遍历错误交给收集者。
func (w *walker) fail(path string, err error) {
	w.results <- workerResult{scanError: &FileError{Path: path, Err: err}}
}

// loopsBack 判断目录是否是当前路径上的某个祖先。
func loopsBack(target os.FileInfo, ancestors []os.FileInfo) bool {
	for _, ancestor := range ancestors {
		if os.SameFile(target, ancestor) {
			return true
		}
	}
	return false
}

