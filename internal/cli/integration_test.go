package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ipmt/internal/cli"
	"github.com/yaklabco/ipmt/pkg/reporter"
)

// execute runs ipmt with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// corpus writes two small texts into a new directory.
func corpus(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world\nsay hello\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("nothing here\n"), 0o644))
	return dir
}

// indexed writes the corpus and indexes it with the given compression.
func indexed(t *testing.T, compression string) string {
	t.Helper()

	dir := corpus(t)
	_, err := execute(t, "index", "-c", compression, filepath.Join(dir, "*.txt"))
	require.NoError(t, err)
	return dir
}

func TestIntegration_Index(t *testing.T) {
	t.Parallel()

	dir := corpus(t)

	output, err := execute(t, "index", filepath.Join(dir, "*.txt"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "a.idx"))
	assert.FileExists(t, filepath.Join(dir, "b.idx"))
	assert.Contains(t, output, "SOURCE")
	assert.Contains(t, output, "huffman")
	assert.Contains(t, output, "Indexed 2 files")

	// Index files are never indexed themselves.
	output, err = execute(t, "index", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Indexed 2 files")
}

func TestIntegration_IndexJSON(t *testing.T) {
	t.Parallel()

	dir := corpus(t)

	output, err := execute(t, "index", "-c", "lz78", "--format", "json", filepath.Join(dir, "a.txt"))
	require.NoError(t, err)

	var got reporter.JSONIndexOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Files, 1)
	assert.Equal(t, "lz78", got.Files[0].Compression)
	assert.Equal(t, int64(22), got.Files[0].TextBytes)
	assert.Equal(t, 1, got.Summary.FilesIndexed)
}

func TestIntegration_Search(t *testing.T) {
	t.Parallel()

	for _, compression := range []string{"huffman", "lz78"} {
		t.Run(compression, func(t *testing.T) {
			t.Parallel()

			dir := indexed(t, compression)

			output, err := execute(t, "search", "hello", filepath.Join(dir, "*.idx"))
			require.NoError(t, err)

			assert.Contains(t, output, `(2 occurrences of "hello")`)
			assert.Contains(t, output, "1: hello world")
			assert.Contains(t, output, "2: say hello")
			assert.NotContains(t, output, "nothing here")
			assert.Contains(t, output, "2 occurrences of 1 pattern in 2 indexes")
		})
	}
}

func TestIntegration_SearchNoMatches(t *testing.T) {
	t.Parallel()

	dir := indexed(t, "huffman")

	output, err := execute(t, "search", "absent", dir)
	require.ErrorIs(t, err, cli.ErrNoMatches)
	assert.Equal(t, cli.ExitNoMatches, cli.ExitCode(err))
	assert.Contains(t, output, "No occurrences found")
}

func TestIntegration_SearchCount(t *testing.T) {
	t.Parallel()

	dir := indexed(t, "huffman")

	output, err := execute(t, "search", "-c", "--no-summary", "hello", dir)
	require.NoError(t, err)

	assert.Contains(t, output, filepath.Join(dir, "a.idx")+`: "hello": 2`)
	assert.Contains(t, output, filepath.Join(dir, "b.idx")+`: "hello": 0`)
	assert.NotContains(t, output, "say hello")
}

func TestIntegration_SearchPatternFile(t *testing.T) {
	t.Parallel()

	dir := indexed(t, "lz78")
	patterns := filepath.Join(t.TempDir(), "patterns.txt")
	require.NoError(t, os.WriteFile(patterns, []byte("hello\n\nhere\r\n"), 0o644))

	output, err := execute(t, "search", "-p", "--format", "json", "--compact", patterns, dir)
	require.NoError(t, err)

	var got reporter.JSONSearchOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Results, 4)
	assert.Equal(t, 2, got.Summary.Patterns)
	assert.Equal(t, 3, got.Summary.Occurrences)

	counts := make(map[string]int)
	for _, r := range got.Results {
		counts[filepath.Base(r.Index)+" "+r.Pattern] = r.Count
	}
	assert.Equal(t, map[string]int{
		"a.idx hello": 2,
		"a.idx here":  0,
		"b.idx hello": 0,
		"b.idx here":  1,
	}, counts)
}

func TestIntegration_SearchEmptyPatternFile(t *testing.T) {
	t.Parallel()

	dir := indexed(t, "huffman")
	patterns := filepath.Join(t.TempDir(), "patterns.txt")
	require.NoError(t, os.WriteFile(patterns, []byte("\n\n"), 0o644))

	_, err := execute(t, "search", "-p", patterns, dir)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_SearchCorruptIndex(t *testing.T) {
	t.Parallel()

	dir := indexed(t, "huffman")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.idx"), []byte("garbage"), 0o644))

	output, err := execute(t, "search", "hello", dir)
	require.ErrorIs(t, err, cli.ErrFilesFailed)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
	assert.Contains(t, output, "broken.idx")
	assert.Contains(t, output, "error:")
	assert.Contains(t, output, "1 index failed to load")
}

func TestIntegration_Errors(t *testing.T) {
	t.Parallel()

	dir := corpus(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{
			name: "unknown compression",
			args: []string{"index", "-c", "zip", filepath.Join(dir, "a.txt")},
			want: cli.ExitConfigError,
		},
		{
			name: "missing source",
			args: []string{"index", filepath.Join(dir, "missing.txt")},
			want: cli.ExitIOError,
		},
		{
			name: "glob without matches",
			args: []string{"index", filepath.Join(dir, "*.md")},
			want: cli.ExitInvalidUsage,
		},
		{
			name: "no index files",
			args: []string{"search", "hello", dir},
			want: cli.ExitInvalidUsage,
		},
		{
			name: "bad format",
			args: []string{"search", "--format", "xml", "hello", dir},
			want: cli.ExitConfigError,
		},
		{
			name: "missing explicit config",
			args: []string{"--config", filepath.Join(dir, "absent.yml"), "index", filepath.Join(dir, "a.txt")},
			want: cli.ExitIOError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestIntegration_ExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := corpus(t)
	cfgPath := filepath.Join(t.TempDir(), "ipmt.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("compression: lz78\nignore:\n  - b.txt\n"), 0o644))

	output, err := execute(t, "--config", cfgPath, "index", "--format", "json", filepath.Join(dir, "*.txt"))
	require.NoError(t, err)

	var got reporter.JSONIndexOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Files, 1)
	assert.Equal(t, "lz78", got.Files[0].Compression)
	assert.NoFileExists(t, filepath.Join(dir, "b.idx"))
}

func TestIntegration_ConfigCommand(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "ipmt.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("compression: lz78\n"), 0o644))

	output, err := execute(t, "--config", cfgPath, "--jobs", "3", "config")
	require.NoError(t, err)
	assert.Contains(t, output, "compression: lz78")
	assert.Contains(t, output, "jobs: 3")

	output, err = execute(t, "config", "--env")
	require.NoError(t, err)
	assert.Contains(t, output, "IPMT_COMPRESSION")
	assert.Contains(t, output, "IPMT_IGNORE")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".ipmt.yml")

	_, err := execute(t, "init", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "compression: huffman")

	_, err = execute(t, "init", "--output", path)
	require.ErrorIs(t, err, cli.ErrUsage)

	require.NoError(t, os.WriteFile(path, []byte("jobs: 1\n"), 0o644))
	_, err = execute(t, "init", "--force", "--output", path)
	require.NoError(t, err)

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "compression: huffman")
}
