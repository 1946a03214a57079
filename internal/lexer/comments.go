// Package lexer 提供基于正则与花括号计数的轻量词法扫描。
//
// 扫描不建立语法树，也不识别字符串/字符字面量：
// 字面量中的 // 或 /* 会被当作注释，字面量中的 { } 会参与深度计数。
package lexer

import (
	"iter"
	"regexp"
	"strings"

	"classcomments/internal/model"
)

// commentPattern 匹配行注释（不含换行符）或最短的块注释。
// 块注释不支持嵌套，遇到第一个 */ 即结束；缺少 */ 的块注释不会产生片段。
var commentPattern = regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/`)

// ScanComments 返回内容中全部注释片段的惰性序列。
// 序列按起始偏移升序、互不重叠，且可重复遍历（每次遍历都从头扫描）。
func ScanComments(content string) iter.Seq[model.CommentToken] {
	return func(yield func(model.CommentToken) bool) {
		offset := 0
		for offset < len(content) {
			loc := commentPattern.FindStringIndex(content[offset:])
			if loc == nil {
				return
			}

			start := offset + loc[0]
			end := offset + loc[1]
			if !yield(newToken(content[start:end], start, end)) {
				return
			}
			offset = end
		}
	}
}

// newToken 根据匹配文本构造注释片段。
func newToken(text string, start int, end int) model.CommentToken {
	kind := model.LineComment
	if strings.HasPrefix(text, "/*") {
		kind = model.BlockComment
	}
	return model.CommentToken{
		Kind:  kind,
		Start: start,
		End:   end,
		Lines: strings.Count(text, "\n") + 1,
	}
}
