package attribution

import (
	"classcomments/internal/languages"
	"classcomments/internal/lexer"
	"classcomments/internal/model"
)

// Resolve 返回包含 offset 的最内层声明名。
// ranges 必须按宽度升序排列（见 lexer.ResolveRanges），第一个满足 start <= offset < end 的区间胜出。
// 没有任何区间包含 offset 时返回哨兵 model.FileLevelClass。
func Resolve(ranges []model.DeclarationRange, offset int) string {
	for _, declRange := range ranges {
		if declRange.Contains(offset) {
			return declRange.Name
		}
	}
	return model.FileLevelClass
}

// FileStats 是单文件归属的附带统计。
type FileStats struct {
	Declarations int
	Comments     int
}

// AttributeFile 扫描一份源码内容并把每个注释累加到 aggregator。
// file 是写入键中的相对路径；dialect 为 nil 时使用 Java 关键字。
func AttributeFile(aggregator *Aggregator, file string, content string, dialect *languages.Dialect) FileStats {
	ranges := lexer.ResolveRanges(content, dialect)
	stats := FileStats{Declarations: len(ranges)}

	for token := range lexer.ScanComments(content) {
		key := model.AttributionKey{File: file, Class: Resolve(ranges, token.Start)}
		aggregator.Add(key, token)
		stats.Comments++
	}
	return stats
}
