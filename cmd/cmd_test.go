package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classcomments/internal/languages"
)

// runRoot 在隔离目录中执行根命令并返回标准输出。
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd("test", languages.NewRegistry())
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAttributeCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	repo := filepath.Join(dir, "repo")
	writeFile(t, filepath.Join(repo, "src", "A.java"), "class A { // hi\nclass B { /* x */ } }")
	writeFile(t, filepath.Join(repo, "src", "C.java"), "// top\nclass C {}")
	classes := filepath.Join(dir, "ck", "class.csv")
	writeFile(t, classes, "file,class,type,loc\n"+
		"src/C.java,C,class,1\n"+
		"src/A.java,A,class,2\n"+
		"src/A.java,B,class,1\n"+
		"src/Missing.java,M,class,1\n")
	outDir := filepath.Join(dir, "out")

	stdout, err := runRoot(t, "attribute", "--classes", classes, "--repo", repo, "--output-dir", outDir, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CSV exported to")
	assert.Contains(t, stdout, "src/Missing.java")

	content, err := os.ReadFile(filepath.Join(outDir, "comments_by_class.csv"))
	require.NoError(t, err)
	assert.Equal(t, "file,class,line_comments,block_comments,comment_lines,total_comments\n"+
		"src/A.java,A,1,0,1,1\n"+
		"src/A.java,B,0,1,1,1\n"+
		"src/C.java,<file_level>,1,0,1,1\n"+
		"src/C.java,C,0,0,0,0\n"+
		"src/Missing.java,M,0,0,0,0\n", string(content))

	// 重复执行输出字节级一致。
	_, err = runRoot(t, "attribute", "--classes", classes, "--repo", repo, "--output-dir", outDir)
	require.NoError(t, err)
	again, err := os.ReadFile(filepath.Join(outDir, "comments_by_class.csv"))
	require.NoError(t, err)
	assert.Equal(t, content, again)

	_, err = runRoot(t, "attribute", "--classes", classes, "--repo", repo, "--output-dir", outDir, "--drop-missing")
	require.NoError(t, err)
	dropped, err := os.ReadFile(filepath.Join(outDir, "comments_by_class.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(dropped), "Missing.java")
}

func TestAttributeCommandFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join(dir, "repo", "A.java"), "class A { /* a */ }")
	writeFile(t, filepath.Join(dir, "class.csv"), "file,class\nA.java,A\n")
	writeFile(t, filepath.Join(dir, "classcomments.yaml"), "classes: class.csv\nrepo: repo\noutput_dir: result\n")

	_, err := runRoot(t, "attribute", "--format", "json")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "result", "comments_by_class.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "A.java,A,0,1,1,1")
}

func TestAttributeCommandErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := runRoot(t, "attribute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--classes")

	writeFile(t, filepath.Join(dir, "empty.csv"), "file,class\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "repo"), 0o755))
	_, err = runRoot(t, "attribute", "--classes", "empty.csv", "--repo", "repo")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "comments_by_class.csv"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = runRoot(t, "attribute", "--classes", "empty.csv", "--repo", "repo", "--format", "xml")
	require.Error(t, err)
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "Foo.java"), "// head\nclass Foo { /* body */ }")

	stdout, err := runRoot(t, "scan", "Foo.java")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<file_level>")
	assert.Contains(t, stdout, "Foo")

	stdout, err = runRoot(t, "scan", "Foo.java", "--format", "json", "--output", "out/foo.json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"block_comments": 1`)
	assert.FileExists(t, filepath.Join(dir, "out", "foo.json"))
}

func TestLanguageAndVersionCommands(t *testing.T) {
	stdout, err := runRoot(t, "language")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Java")
	assert.Contains(t, stdout, "class, interface, enum")

	stdout, err = runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "classcomments version test")
}
