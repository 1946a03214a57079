package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classcomments/internal/languages"
	"classcomments/internal/lexer"
	"classcomments/internal/model"
)

func key(file string, class string) model.AttributionKey {
	return model.AttributionKey{File: file, Class: class}
}

func counts(t *testing.T, aggregator *Aggregator, k model.AttributionKey) model.Counters {
	t.Helper()
	got, ok := aggregator.Get(k)
	require.True(t, ok, "missing key %+v", k)
	return got
}

func TestResolveInnermostWins(t *testing.T) {
	ranges := []model.DeclarationRange{
		{Name: "B", Start: 40, End: 60},
		{Name: "A", Start: 0, End: 100},
	}

	assert.Equal(t, "B", Resolve(ranges, 45))
	assert.Equal(t, "A", Resolve(ranges, 39))
	assert.Equal(t, "A", Resolve(ranges, 60))
	assert.Equal(t, model.FileLevelClass, Resolve(ranges, 100))
}

func TestResolveBoundaries(t *testing.T) {
	ranges := []model.DeclarationRange{{Name: "A", Start: 10, End: 20}}

	assert.Equal(t, "A", Resolve(ranges, 10), "start offset is inside")
	assert.Equal(t, "A", Resolve(ranges, 19))
	assert.Equal(t, model.FileLevelClass, Resolve(ranges, 20), "one past closing brace is outside")
	assert.Equal(t, model.FileLevelClass, Resolve(ranges, 9))
}

func TestResolveSentinelWithoutDeclarations(t *testing.T) {
	assert.Equal(t, model.FileLevelClass, Resolve(nil, 0))
}

func TestAttributeFileNested(t *testing.T) {
	aggregator := NewAggregator()

	stats := AttributeFile(aggregator, "A.java", "class A { // hi\nclass B { /* x */ } }", languages.Java)

	assert.Equal(t, FileStats{Declarations: 2, Comments: 2}, stats)
	assert.Equal(t, model.Counters{LineComments: 1, CommentLines: 1, TotalComments: 1}, counts(t, aggregator, key("A.java", "A")))
	assert.Equal(t, model.Counters{BlockComments: 1, CommentLines: 1, TotalComments: 1}, counts(t, aggregator, key("A.java", "B")))
	assert.False(t, aggregator.Has(key("A.java", model.FileLevelClass)))
}

func TestAttributeFileTopLevelComment(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.Seed([]model.Declaration{{File: "C.java", Class: "C"}})

	AttributeFile(aggregator, "C.java", "// top\nclass C {}", languages.Java)

	assert.Equal(t, model.Counters{LineComments: 1, CommentLines: 1, TotalComments: 1}, counts(t, aggregator, key("C.java", model.FileLevelClass)))
	assert.Equal(t, model.Counters{}, counts(t, aggregator, key("C.java", "C")))
}

func TestAttributeFileSameClassInTwoFiles(t *testing.T) {
	aggregator := NewAggregator()

	AttributeFile(aggregator, "a/Foo.java", "class Foo { // one\n}", languages.Java)
	AttributeFile(aggregator, "b/Foo.java", "class Foo { /* two\nlines */ /* three */ }", languages.Java)

	assert.Equal(t, model.Counters{LineComments: 1, CommentLines: 1, TotalComments: 1}, counts(t, aggregator, key("a/Foo.java", "Foo")))
	assert.Equal(t, model.Counters{BlockComments: 2, CommentLines: 3, TotalComments: 2}, counts(t, aggregator, key("b/Foo.java", "Foo")))
	assert.Equal(t, 2, aggregator.Len())
}

func TestAttributeFileConservation(t *testing.T) {
	contents := []string{
		"",
		"// only a comment",
		"/** doc */\npublic class Outer {\n  // field\n  int x; /* a\n b\n c */\n  static class Inner {\n    // inner\n  }\n  enum Mode { ON, OFF } // trailing\n}\n// eof",
		"class Broken { { // never closed\n/* block */",
		"interface I { void f(); } /* after */ class K { String s = \"//not really\"; }",
	}

	for _, content := range contents {
		aggregator := NewAggregator()
		AttributeFile(aggregator, "F.java", content, nil)

		var wantTokens, wantLines int64
		for token := range lexer.ScanComments(content) {
			wantTokens++
			wantLines += int64(token.Lines)
		}

		var gotTokens, gotLines int64
		for _, row := range aggregator.Rows() {
			assert.Equal(t, row.LineComments+row.BlockComments, row.TotalComments)
			assert.GreaterOrEqual(t, row.CommentLines, row.TotalComments)
			gotTokens += row.LineComments + row.BlockComments
			gotLines += row.CommentLines
		}

		assert.Equal(t, wantTokens, gotTokens, "content %q", content)
		assert.Equal(t, wantLines, gotLines, "content %q", content)
	}
}

func TestAggregatorMergeMatchesSequential(t *testing.T) {
	files := map[string]string{
		"x/One.java": "// head\nclass One { // body\n}",
		"x/Two.java": "class Two { /* a */ class Inner { // b\n } }",
	}

	sequential := NewAggregator()
	for file, content := range files {
		AttributeFile(sequential, file, content, languages.Java)
	}

	merged := NewAggregator()
	merged.Seed([]model.Declaration{{File: "x/One.java", Class: "One"}})
	for file, content := range files {
		local := NewAggregator()
		AttributeFile(local, file, content, languages.Java)
		merged.Merge(local)
	}
	merged.Merge(nil)

	assert.Equal(t, sequential.Rows(), merged.Rows())
}

func TestAggregatorEnsureDoesNotReset(t *testing.T) {
	aggregator := NewAggregator()
	k := key("A.java", "A")

	aggregator.Add(k, model.CommentToken{Kind: model.BlockComment, Lines: 3})
	aggregator.Ensure(k)

	assert.Equal(t, model.Counters{BlockComments: 1, CommentLines: 3, TotalComments: 1}, counts(t, aggregator, k))
}

func TestAggregatorDrop(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.Seed([]model.Declaration{
		{File: "a.java", Class: "A"},
		{File: "a.java", Class: "B"},
		{File: "b.java", Class: "A"},
	})

	assert.Equal(t, 2, aggregator.Drop("a.java"))
	assert.Equal(t, 0, aggregator.Drop("missing.java"))
	assert.Equal(t, 1, aggregator.Len())
	assert.True(t, aggregator.Has(key("b.java", "A")))
}

func TestAggregatorRowsSorted(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.Seed([]model.Declaration{
		{File: "b.java", Class: "Z"},
		{File: "a.java", Class: "Y"},
		{File: "b.java", Class: "A"},
		{File: "a.java", Class: model.FileLevelClass},
	})

	rows := aggregator.Rows()

	require.Len(t, rows, 4)
	assert.Equal(t, key("a.java", model.FileLevelClass), rows[0].AttributionKey)
	assert.Equal(t, key("a.java", "Y"), rows[1].AttributionKey)
	assert.Equal(t, key("b.java", "A"), rows[2].AttributionKey)
	assert.Equal(t, key("b.java", "Z"), rows[3].AttributionKey)
}
