// Package languages 维护声明方言注册表。
// 所有方言共用 C 风格注释（// 与 /* */），差别只在类型声明关键字。
package languages

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Dialect 描述一种语言的类型声明关键字。
type Dialect struct {
	name       string
	extensions []string
	keywords   []string
	declRe     *regexp.Regexp
}

// 声明前缀与分隔空白按 Unicode 判定：RE2 的 \b 与 \s 只认 ASCII。
const (
	// wordBoundary 匹配文本开头或一个非单词字符（字母、数字、下划线之外）。
	wordBoundary = `(?:\A|[^\p{L}\p{N}_])`
	// unicodeSpace 覆盖 \t-\r、\x1c-\x1f、\x85 以及全部 Z 类字符（含不换行空格）。
	unicodeSpace = `[\t-\r\x{1c}-\x{1f}\x{85}\p{Z}]+`
)

// NewDialect 根据关键字列表编译声明匹配正则。
// 关键字按整词匹配，后接空白与标识符（字母或下划线开头，后续可含数字、下划线与 $）。
// 第 1 个子匹配是关键字，第 2 个是标识符；整体匹配可能带一个前导分隔字符。
func NewDialect(name string, extensions []string, keywords ...string) *Dialect {
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(keyword))
	}
	pattern := wordBoundary + `(` + strings.Join(quoted, "|") + `)` + unicodeSpace + `([A-Za-z_][A-Za-z0-9_$]*)`

	return &Dialect{
		name:       name,
		extensions: extensions,
		keywords:   keywords,
		declRe:     regexp.MustCompile(pattern),
	}
}

// Name 返回方言名称。
func (d *Dialect) Name() string {
	return d.name
}

// Extensions 返回方言后缀（包含点号）。
func (d *Dialect) Extensions() []string {
	return d.extensions
}

// Keywords 返回声明关键字。
func (d *Dialect) Keywords() []string {
	return d.keywords
}

// DeclarationPattern 返回已编译的声明正则，第 2 个子匹配是标识符。
func (d *Dialect) DeclarationPattern() *regexp.Regexp {
	return d.declRe
}

// Java 是默认方言。
var Java = NewDialect("Java", []string{".java"}, "class", "interface", "enum")

// LanguageDescriptor 用于对外展示方言及后缀信息。
type LanguageDescriptor struct {
	Name       string
	Extensions []string
	Keywords   []string
}

// Registry 管理方言注册与后缀映射。
type Registry struct {
	dialects     []*Dialect
	dialectByExt map[string]*Dialect
	fallback     *Dialect
}

// NewRegistry 创建并注册所有内置方言。
func NewRegistry() *Registry {
	dialects := []*Dialect{
		Java,
		NewDialect("C#", []string{".cs"}, "class", "interface", "enum", "struct", "record"),
		NewDialect("Kotlin", []string{".kt", ".kts"}, "class", "interface", "object"),
		NewDialect("TypeScript", []string{".ts", ".tsx"}, "class", "interface", "enum"),
		NewDialect("Scala", []string{".scala"}, "class", "trait", "object"),
	}

	registry := &Registry{
		dialects:     dialects,
		dialectByExt: make(map[string]*Dialect),
		fallback:     Java,
	}

	for _, dialect := range dialects {
		for _, ext := range dialect.Extensions() {
			registry.dialectByExt[strings.ToLower(ext)] = dialect
		}
	}

	return registry
}

// DialectForFile 根据文件后缀查找方言，未知后缀回退到 Java。
func (r *Registry) DialectForFile(path string) *Dialect {
	ext := strings.ToLower(filepath.Ext(path))
	if dialect, ok := r.dialectByExt[ext]; ok {
		return dialect
	}
	return r.fallback
}

// Languages 返回已注册方言清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.dialects))
	for _, dialect := range r.dialects {
		extensions := append([]string(nil), dialect.Extensions()...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Name:       dialect.Name(),
			Extensions: extensions,
			Keywords:   append([]string(nil), dialect.Keywords()...),
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
