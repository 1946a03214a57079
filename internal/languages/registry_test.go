package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryLanguages 确认注册中心包含全部内置方言。
func TestRegistryLanguages(t *testing.T) {
	registry := NewRegistry()
	languages := registry.Languages()

	require.Len(t, languages, 5)

	names := make([]string, 0, len(languages))
	for _, item := range languages {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"C#", "Java", "Kotlin", "Scala", "TypeScript"}, names)
}

func TestDialectForFile(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		path string
		want string
	}{
		{"src/main/java/Foo.java", "Java"},
		{"Foo.JAVA", "Java"},
		{"lib/Bar.cs", "C#"},
		{"app/Baz.kt", "Kotlin"},
		{"web/qux.tsx", "TypeScript"},
		{"core/Main.scala", "Scala"},
		{"README", "Java"},
		{"notes.txt", "Java"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, registry.DialectForFile(tt.path).Name())
		})
	}
}

func TestDeclarationPattern(t *testing.T) {
	pattern := Java.DeclarationPattern()

	match := pattern.FindStringSubmatch("public final class Outer$1_x extends Base {")
	require.NotNil(t, match)
	assert.Equal(t, "class", match[1])
	assert.Equal(t, "Outer$1_x", match[2])

	// 关键字必须整词匹配。
	assert.Nil(t, pattern.FindStringSubmatch("subclass Foo {"))
	assert.Nil(t, pattern.FindStringSubmatch("classy Foo {"))
	// 标识符不能以数字开头。
	assert.Nil(t, pattern.FindStringSubmatch("enum 1Foo {"))
	// Foo.class 之后没有空白+标识符，不构成声明。
	assert.Nil(t, pattern.FindStringSubmatch("register(Foo.class);"))
}

func TestDeclarationPatternUnicode(t *testing.T) {
	pattern := Java.DeclarationPattern()

	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "不换行空格", content: "class\u00a0Foo {", want: "Foo"},
		{name: "全角空格", content: "enum\u3000Bar {", want: "Bar"},
		{name: "垂直制表符", content: "interface\vBaz {", want: "Baz"},
		{name: "非 ASCII 标点前缀", content: "«class Qux {", want: "Qux"},
		{name: "重音字母前缀", content: "éclass Foo {"},
		{name: "汉字前缀", content: "类class Foo {"},
		{name: "非 ASCII 数字前缀", content: "٣class Foo {"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			match := pattern.FindStringSubmatch(tc.content)
			if tc.want == "" {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, tc.want, match[2])
		})
	}
}
