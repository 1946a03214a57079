// Package model 定义 classcomments 的核心数据模型。
// 这些结构会被词法扫描、归属解析、批处理调度和输出层共同使用。
package model

// FileLevelClass 是哨兵声明名。
// 不落在任何声明体内的注释统一归属到 (file, "<file_level>")。
const FileLevelClass = "<file_level>"

// CommentKind 表示注释形态。
type CommentKind int

const (
	// LineComment 对应 // 到行尾。
	LineComment CommentKind = iota
	// BlockComment 对应 /* ... */。
	BlockComment
)

// String 返回注释形态的可读名称。
func (k CommentKind) String() string {
	if k == BlockComment {
		return "block"
	}
	return "line"
}

// CommentToken 表示源码中的一个注释片段。
// Start/End 是内容中的字节偏移，区间为半开区间 [Start, End)。
type CommentToken struct {
	Kind  CommentKind
	Start int
	End   int
	// Lines = 片段内换行符数量 + 1。
	Lines int
}

// DeclarationRange 表示一个类型声明的声明体区间。
// 区间从左花括号开始，到匹配右花括号的下一个位置结束（半开，包含两个花括号）。
type DeclarationRange struct {
	Name  string
	Start int
	End   int
}

// Width 返回区间宽度。
func (r DeclarationRange) Width() int {
	return r.End - r.Start
}

// Contains 判断偏移是否落在 [Start, End) 内。
func (r DeclarationRange) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// AttributionKey 是聚合表的主键。
type AttributionKey struct {
	File  string `json:"file"`
	Class string `json:"class"`
}

// Less 按 (file, class) 字典序比较。
func (k AttributionKey) Less(other AttributionKey) bool {
	if k.File != other.File {
		return k.File < other.File
	}
	return k.Class < other.Class
}

// Counters 是单个键上的注释统计值。
//
// 不变量：
// - TotalComments == LineComments + BlockComments
// - CommentLines >= TotalComments（每个注释至少占一行）
type Counters struct {
	LineComments  int64 `json:"line_comments"`
	BlockComments int64 `json:"block_comments"`
	CommentLines  int64 `json:"comment_lines"`
	TotalComments int64 `json:"total_comments"`
}

// Add 将另一个统计结果叠加到当前对象。
func (c *Counters) Add(other Counters) {
	c.LineComments += other.LineComments
	c.BlockComments += other.BlockComments
	c.CommentLines += other.CommentLines
	c.TotalComments += other.TotalComments
}

// AddToken 按注释形态累加一个注释。
func (c *Counters) AddToken(token CommentToken) {
	if token.Kind == BlockComment {
		c.BlockComments++
	} else {
		c.LineComments++
	}
	c.CommentLines += int64(token.Lines)
	c.TotalComments++
}

// Row 是输出表中的一行。
type Row struct {
	AttributionKey
	Counters
}

// Declaration 是权威声明清单中的一项（通常来自外部度量工具输出的 class.csv）。
type Declaration struct {
	File  string
	Class string
}

// ScanError 记录单文件处理失败信息。
// 设计为“错误不阻断整批处理”，便于大仓库分析时容错。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// AttributionResult 是一次批处理的完整输出模型。
type AttributionResult struct {
	RunID        string      `json:"run_id"`
	RepoRoot     string      `json:"repo_root"`
	Declarations int         `json:"declarations"`
	ScannedFiles int         `json:"scanned_files"`
	MissingFiles int         `json:"missing_files"`
	Rows         []Row       `json:"rows"`
	Errors       []ScanError `json:"errors"`
}

// Totals 汇总全部行的统计值。
func (r AttributionResult) Totals() Counters {
	var total Counters
	for _, row := range r.Rows {
		total.Add(row.Counters)
	}
	return total
}
