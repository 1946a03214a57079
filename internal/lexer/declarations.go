package lexer

import (
	"sort"
	"strings"

	"classcomments/internal/languages"
	"classcomments/internal/model"
)

// Declaration 是定位到的类型声明及其左花括号位置。
type Declaration struct {
	Name      string
	OpenBrace int
}

// LocateDeclarations 找出全部类型声明。
// 每个声明从标识符之后向前查找第一个 {；找不到时该声明被丢弃。
func LocateDeclarations(content string, dialect *languages.Dialect) []Declaration {
	if dialect == nil {
		dialect = languages.Java
	}

	matches := dialect.DeclarationPattern().FindAllStringSubmatchIndex(content, -1)
	result := make([]Declaration, 0, len(matches))
	for _, match := range matches {
		// match[4:6] 是标识符子匹配。
		nameStart, nameEnd := match[4], match[5]

		brace := strings.IndexByte(content[nameEnd:], '{')
		if brace < 0 {
			continue
		}

		result = append(result, Declaration{
			Name:      content[nameStart:nameEnd],
			OpenBrace: nameEnd + brace,
		})
	}
	return result
}

// matchBrace 从左花括号开始做深度计数，返回匹配右花括号的下一个位置。
// 深度无法归零时返回 false。
func matchBrace(content string, open int) (int, bool) {
	depth := 0
	for idx := open; idx < len(content); idx++ {
		switch content[idx] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return idx + 1, true
			}
		}
	}
	return 0, false
}

// ResolveRanges 计算全部声明体区间，并按宽度升序稳定排序。
// 归属解析依赖该顺序：第一个包含注释起点的区间即最内层声明。
func ResolveRanges(content string, dialect *languages.Dialect) []model.DeclarationRange {
	declarations := LocateDeclarations(content, dialect)

	ranges := make([]model.DeclarationRange, 0, len(declarations))
	for _, decl := range declarations {
		end, ok := matchBrace(content, decl.OpenBrace)
		if !ok {
			continue
		}
		ranges = append(ranges, model.DeclarationRange{
			Name:  decl.Name,
			Start: decl.OpenBrace,
			End:   end,
		})
	}

	sort.SliceStable(ranges, func(i int, j int) bool {
		return ranges[i].Width() < ranges[j].Width()
	})
	return ranges
}
