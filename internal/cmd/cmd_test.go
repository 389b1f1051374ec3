package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdplay/internal/mdcode"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := rootCmd(&stdout, &stderr)
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.yaml")
}

func TestRunCmdFlags(t *testing.T) {
	cmd := runCmd(new(options))

	assert.Equal(t, "run [flags] filename", cmd.Use)
	assert.NotEmpty(t, cmd.Long)

	for _, flag := range []string{"line", "tool", "command", "dir", "temp-dir", "keep", "log-level", "lang"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s should exist", flag)
	}
}

func TestRunAppendsOutput(t *testing.T) {
	path := writeDoc(t, "text\n```v\nprintln(1+1)\n```\nmore\n")

	_, _, err := execute(t, "run", "-c", noConfig(t), "--line", "3", "--command", "echo 2", "--temp-dir", t.TempDir(), path)
	require.NoError(t, err)

	assert.Equal(t, "text\n```v\nprintln(1+1)\n```\n\n```\n2\n```\nmore\n", readFile(t, path))
}

func TestRunUsesDocumentDirectory(t *testing.T) {
	path := writeDoc(t, "```v\n```\n")

	_, _, err := execute(t, "run", "-c", noConfig(t), "-n", "1", "--command", "pwd", "--temp-dir", t.TempDir(), path)
	require.NoError(t, err)

	assert.Equal(t, "```v\n```\n\n```\n"+filepath.Dir(path)+"\n```\n", readFile(t, path))
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".mdplay.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("lang: sh\ncommand: \"echo {lang}\"\n"), 0o644))

	path := writeDoc(t, "```sh\necho hi\n```\n")

	_, _, err := execute(t, "run", "-c", cfgPath, "-n", "2", "--temp-dir", t.TempDir(), path)
	require.NoError(t, err)

	assert.Equal(t, "```sh\necho hi\n```\n\n```\nsh\n```\n", readFile(t, path))
}

func TestRunNotFound(t *testing.T) {
	content := "text\n```v\nprintln(1)\n```\n"
	path := writeDoc(t, content)

	_, stderr, err := execute(t, "run", "-c", noConfig(t), "-n", "1", "--command", "echo 2", path)
	require.NoError(t, err)

	assert.Contains(t, stderr, "no code section found")
	assert.Equal(t, content, readFile(t, path))
}

func TestRunToolFailure(t *testing.T) {
	content := "```v\nbad\n```\n"
	path := writeDoc(t, content)

	_, stderr, err := execute(t, "run", "-c", noConfig(t), "-n", "2", "--command", "echo 'error: bad' >&2; exit 1", "--temp-dir", t.TempDir(), path)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "command exited with 1: error: bad")
	assert.Contains(t, stderr, "error: bad")
	assert.Equal(t, content, readFile(t, path))
}

func TestRunInvalidLine(t *testing.T) {
	path := writeDoc(t, "```v\n```\n")

	_, _, err := execute(t, "run", "-c", noConfig(t), path)
	assert.ErrorIs(t, err, errInvalidLine)
}

func TestRunLineOutOfRange(t *testing.T) {
	path := writeDoc(t, "```v\n```\n")

	_, _, err := execute(t, "run", "-c", noConfig(t), "-n", "10", "--command", "echo 2", path)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	path := writeDoc(t, "# Doc\n\n```v file=a.v\nprintln(1)\n```\n\n```go\nfmt.Println(1)\n```\n\n```\nplain\n```\n")

	stdout, _, err := execute(t, "list", "-c", noConfig(t), path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Regexp(t, `^Line\s+Lang\s+File\s+Runnable`, string(lines[0]))
	assert.Regexp(t, `^4\s+v\s+a\.v\s+yes`, string(lines[1]))
	assert.Regexp(t, `^8\s+go\s+no`, string(lines[2]))
	assert.Regexp(t, `^12\s+-\s+no`, string(lines[3]))
}

func TestListMatch(t *testing.T) {
	path := writeDoc(t, "```v\na\n```\n\n```go\nb\n```\n")

	stdout, _, err := execute(t, "list", "-c", noConfig(t), "--match", "g*", "--lang", "go", path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Regexp(t, `^6\s+go\s+yes`, string(lines[1]))
}

func TestListEmptyPlainFence(t *testing.T) {
	path := writeDoc(t, "Text\n\n```\n```\n")

	stdout, _, err := execute(t, "list", "-c", noConfig(t), path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Regexp(t, `^4\s+-\s+no`, string(lines[1]))
}

func TestListBadPattern(t *testing.T) {
	path := writeDoc(t, "```v\na\n```\n")

	_, _, err := execute(t, "list", "-c", noConfig(t), "--match", "[", path)
	assert.Error(t, err)
}

func TestSelectBlocks(t *testing.T) {
	blocks := mdcode.Blocks{{Lang: "v"}, {Lang: "go"}, {Lang: ""}, {Lang: "vue"}}

	match, err := filter([]string{"v*"})
	require.NoError(t, err)

	selected := selectBlocks(blocks, match)
	require.Len(t, selected, 2)
	assert.Equal(t, "v", selected[0].Lang)
	assert.Equal(t, "vue", selected[1].Lang)
}

func TestFilter(t *testing.T) {
	match, err := filter([]string{"v", "go*"})
	require.NoError(t, err)

	assert.True(t, match("v"))
	assert.True(t, match("golang"))
	assert.False(t, match("vue"))
	assert.False(t, match(""))

	all, err := filter([]string{"*"})
	require.NoError(t, err)
	assert.True(t, all(""))
}
