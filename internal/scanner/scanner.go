// Package scanner 提供批处理调度能力。
// 该层负责路径解析、文件去重、任务分发、并发执行和结果合并，不负责词法细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"classcomments/internal/attribution"
	"classcomments/internal/languages"
	"classcomments/internal/lexer"
	"classcomments/internal/logging"
	"classcomments/internal/model"
)

// ErrNoDeclarations 表示声明清单中没有可处理的行。
var ErrNoDeclarations = errors.New("no processable declarations")

// errFileNotFound 用于记录两种候选路径都不存在的文件。
var errFileNotFound = errors.New("file not found")

// Options 是扫描服务的可配置参数。
type Options struct {
	// Workers 是并发处理文件的数量，<= 0 时按 1 处理。
	Workers int
	// Exclude 是 doublestar 风格的相对路径排除模式。
	Exclude []string
	// DropMissing 为 true 时，读取失败文件的预置键会从结果中移除。
	DropMissing bool
	Logger      *zap.Logger
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	options  Options
	logger   *zap.Logger
}

// scanTask 表示一个待归属文件任务。
type scanTask struct {
	absolutePath string
	displayPath  string
	dialect      *languages.Dialect
}

// workerResult 表示单个任务的执行产物。
type workerResult struct {
	aggregator *attribution.Aggregator
	scanError  *model.ScanError
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, options Options) *Service {
	if registry == nil {
		registry = languages.NewRegistry()
	}
	if options.Workers <= 0 {
		options.Workers = 1
	}
	return &Service{
		registry: registry,
		options:  options,
		logger:   logging.OrNop(options.Logger),
	}
}

// NormalizePath 把声明清单中的相对路径转换为结果表使用的键路径。
func NormalizePath(relative string) string {
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(relative)))
}

// candidatePaths 返回解析顺序：先规范化形式，再原样拼接。
// 清单中的绝对路径（CK 的默认输出）不拼接仓库根目录。
func candidatePaths(root string, relative string) []string {
	normalized := filepath.Join(root, filepath.Clean(filepath.FromSlash(relative)))
	raw := root + string(filepath.Separator) + relative
	if filepath.IsAbs(filepath.FromSlash(relative)) {
		normalized = filepath.Clean(filepath.FromSlash(relative))
		raw = relative
	}
	if raw == normalized {
		return []string{normalized}
	}
	return []string{normalized, raw}
}

// locate 返回第一个存在的候选路径。
func locate(root string, relative string) (string, bool) {
	for _, candidate := range candidatePaths(root, relative) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// Run 按声明清单归属整个仓库的注释。
// 同一个绝对路径只读取一次；找不到或读取失败的文件只记录错误，不中断整批处理。
func (s *Service) Run(ctx context.Context, repoRoot string, declarations []model.Declaration) (model.AttributionResult, error) {
	var result model.AttributionResult

	trimmedRoot := strings.TrimSpace(repoRoot)
	if trimmedRoot == "" {
		return result, errors.New("repository root is empty")
	}

	absoluteRoot, err := filepath.Abs(trimmedRoot)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteRoot)
	if err != nil {
		return result, fmt.Errorf("stat repository root: %w", err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("repository root is not a directory: %s", absoluteRoot)
	}

	for _, pattern := range s.options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return result, fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	result.RunID = uuid.NewString()
	result.RepoRoot = absoluteRoot
	logger := s.logger.With(zap.String("run_id", result.RunID))

	aggregator := attribution.NewAggregator()
	accepted := s.seed(aggregator, declarations, logger)
	if len(accepted) == 0 {
		return result, ErrNoDeclarations
	}
	result.Declarations = len(accepted)

	tasks, missing := s.plan(absoluteRoot, accepted)
	for _, path := range missing {
		logger.Warn("source file not found", zap.String("file", path))
		result.Errors = append(result.Errors, model.ScanError{Path: path, Error: errFileNotFound.Error()})
	}
	result.MissingFiles = len(missing)

	results, err := s.execute(ctx, tasks, logger)
	if err != nil {
		return result, err
	}

	unreadable := make([]string, 0)
	for _, item := range results {
		if item.scanError != nil {
			result.Errors = append(result.Errors, *item.scanError)
			unreadable = append(unreadable, item.scanError.Path)
			continue
		}
		aggregator.Merge(item.aggregator)
		result.ScannedFiles++
	}

	if s.options.DropMissing {
		for _, path := range append(missing, unreadable...) {
			removed := aggregator.Drop(path)
			logger.Debug("dropped rows of unreadable file", zap.String("file", path), zap.Int("rows", removed))
		}
	}

	sort.SliceStable(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})
	result.Rows = aggregator.Rows()

	logger.Info("attribution finished",
		zap.Int("declarations", result.Declarations),
		zap.Int("scanned_files", result.ScannedFiles),
		zap.Int("missing_files", result.MissingFiles),
		zap.Int("errors", len(result.Errors)),
		zap.Int("rows", len(result.Rows)),
	)
	return result, nil
}

// seed 过滤排除路径，并在任何扫描之前为每个声明预置全零计数。
func (s *Service) seed(aggregator *attribution.Aggregator, declarations []model.Declaration, logger *zap.Logger) []model.Declaration {
	accepted := make([]model.Declaration, 0, len(declarations))
	for _, decl := range declarations {
		if decl.File == "" || decl.Class == "" {
			logger.Debug("skipping incomplete declaration", zap.String("file", decl.File), zap.String("class", decl.Class))
			continue
		}

		key := NormalizePath(decl.File)
		if s.excluded(key) {
			logger.Debug("skipping excluded declaration", zap.String("file", key), zap.String("class", decl.Class))
			continue
		}

		aggregator.Ensure(model.AttributionKey{File: key, Class: decl.Class})
		accepted = append(accepted, decl)
	}
	return accepted
}

// excluded 判断相对路径是否命中排除模式。
func (s *Service) excluded(path string) bool {
	for _, pattern := range s.options.Exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// plan 按声明清单顺序解析路径，生成去重后的任务列表与缺失文件列表。
func (s *Service) plan(root string, declarations []model.Declaration) ([]scanTask, []string) {
	tasks := make([]scanTask, 0)
	missing := make([]string, 0)
	processed := make(map[string]struct{})
	missingSeen := make(map[string]struct{})

	for _, decl := range declarations {
		displayPath := NormalizePath(decl.File)

		absolutePath, ok := locate(root, decl.File)
		if !ok {
			if _, seen := missingSeen[displayPath]; !seen {
				missingSeen[displayPath] = struct{}{}
				missing = append(missing, displayPath)
			}
			continue
		}

		cleaned := filepath.Clean(absolutePath)
		if _, done := processed[cleaned]; done {
			continue
		}
		processed[cleaned] = struct{}{}

		tasks = append(tasks, scanTask{
			absolutePath: absolutePath,
			displayPath:  displayPath,
			dialect:      s.registry.DialectForFile(absolutePath),
		})
	}
	return tasks, missing
}

// execute 并发处理任务，每个文件得到独立的局部聚合器。
// 结果按任务顺序返回，合并发生在全部任务结束之后，因此无需加锁。
func (s *Service) execute(ctx context.Context, tasks []scanTask, logger *zap.Logger) ([]workerResult, error) {
	results := make([]workerResult, len(tasks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.options.Workers)

	for idx, task := range tasks {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[idx] = s.runTask(task, logger)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runTask 执行真实的文件读取和注释归属。
func (s *Service) runTask(task scanTask, logger *zap.Logger) workerResult {
	content, err := readSource(task.absolutePath)
	if err != nil {
		logger.Warn("cannot read source file", zap.String("file", task.displayPath), zap.Error(err))
		return workerResult{
			scanError: &model.ScanError{
				Path:  task.displayPath,
				Error: err.Error(),
			},
		}
	}

	local := attribution.NewAggregator()
	stats := attribution.AttributeFile(local, task.displayPath, content, task.dialect)
	logger.Debug("file attributed",
		zap.String("file", task.displayPath),
		zap.String("dialect", task.dialect.Name()),
		zap.Int("declarations", stats.Declarations),
		zap.Int("comments", stats.Comments),
	)
	return workerResult{aggregator: local}
}

// readSource 读取文件并丢弃非法 UTF-8 字节。
func readSource(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), ""), nil
}

// ScanFile 归属单个源码文件，不依赖外部声明清单。
// 文件中定位到的每个声明都会出现在结果中（即使没有注释）。
func (s *Service) ScanFile(path string) ([]model.Row, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, errors.New("scan path is empty")
	}

	info, err := os.Stat(trimmedPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("scan path is a directory: %s", trimmedPath)
	}

	content, err := readSource(trimmedPath)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}

	displayPath := filepath.Base(trimmedPath)
	dialect := s.registry.DialectForFile(trimmedPath)

	aggregator := attribution.NewAggregator()
	for _, declRange := range lexer.ResolveRanges(content, dialect) {
		aggregator.Ensure(model.AttributionKey{File: displayPath, Class: declRange.Name})
	}
	attribution.AttributeFile(aggregator, displayPath, content, dialect)

	return aggregator.Rows(), nil
}
