package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/config"
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// newProject runs init in a fresh directory and returns it.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, _, err := run(t, "-C", dir, "init")
	require.NoError(t, err)
	return dir
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "wpexport "+version+" ("+commit+")\n", out)
}

func TestTargets(t *testing.T) {
	out, _, err := run(t, "targets")
	require.NoError(t, err)
	for _, want := range []string{"elementor", "gutenberg", "oxygen", "beaver-builder", "Beaver Builder", "shortcode", "html"} {
		assert.Contains(t, out, want)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, "-C", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "created")
	assert.FileExists(t, filepath.Join(dir, config.Dir, config.YAMLFile))
	assert.FileExists(t, filepath.Join(dir, samplePagePath))

	out, _, err = run(t, "-C", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "exists")
	assert.NotContains(t, out, "created")
}

func TestInit_NoSample(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "-C", dir, "init", "--no-sample")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.Dir, config.YAMLFile))
	assert.NoFileExists(t, filepath.Join(dir, samplePagePath))
}

func TestExport_Directory(t *testing.T) {
	dir := newProject(t)
	outDir := t.TempDir()

	out, _, err := run(t, "-C", dir, "export", dir, "-t", "elementor,gutenberg", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 documents from 1 file")

	for _, target := range []string{"elementor", "gutenberg"} {
		path := filepath.Join(outDir, "pages", "sample-page."+target+".json")
		data, err := os.ReadFile(path)
		require.NoError(t, err, target)
		assert.True(t, json.Valid(data), "%s output is not JSON", target)
	}
}

func TestExport_SingleFileToStdout(t *testing.T) {
	dir := newProject(t)
	page := filepath.Join(dir, samplePagePath)

	out, _, err := run(t, "-C", dir, "export", page, "-t", "oxygen", "-f", "shortcode", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "[ct_")
}

func TestExport_Errors(t *testing.T) {
	dir := newProject(t)
	page := filepath.Join(dir, samplePagePath)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"stdout needs one target", []string{"export", page, "--stdout"}, "exactly one input file and one target"},
		{"stdout needs a file", []string{"export", dir, "-t", "oxygen", "--stdout"}, "needs a file"},
		{"bad format", []string{"export", page, "-f", "pdf"}, "format"},
		{"unknown target", []string{"export", page, "-t", "divi"}, "divi"},
		{"missing input", []string{"export", filepath.Join(dir, "nope.json")}, "cannot read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append([]string{"-C", dir}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_SamplePage(t *testing.T) {
	dir := newProject(t)
	out, _, err := run(t, "-C", dir, "validate", filepath.Join(dir, samplePagePath))
	if err != nil {
		assert.ErrorIs(t, err, errValidationFailed)
	}
	for _, label := range []string{"Elementor", "Gutenberg", "Oxygen", "Beaver Builder"} {
		assert.Contains(t, out, label)
	}
}

func TestValidate_Unreadable(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))

	out, _, err := run(t, "-C", dir, "validate", bad, "-t", "elementor")
	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "unreadable")
}

func TestInspect(t *testing.T) {
	dir := newProject(t)
	page := filepath.Join(dir, samplePagePath)

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "-C", dir, "inspect", page, "--json")
		require.NoError(t, err)

		var in struct {
			Title string         `json:"title"`
			Nodes int            `json:"nodes"`
			Depth int            `json:"depth"`
			Tags  map[string]int `json:"tags"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &in))
		assert.Equal(t, "Sample Landing Page", in.Title)
		assert.Greater(t, in.Nodes, 1)
		assert.Greater(t, in.Depth, 1)
		assert.Equal(t, 1, in.Tags["main"])
	})

	t.Run("text", func(t *testing.T) {
		out, _, err := run(t, "-C", dir, "inspect", page)
		require.NoError(t, err)
		assert.Contains(t, out, "Sample Landing Page")
		assert.Contains(t, out, "Tags")
		assert.Contains(t, out, "Widgets")
		assert.Contains(t, out, "Design tokens")
	})
}

func TestConfig_MissingExplicitFile(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "validate", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.Dir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.Dir, config.YAMLFile), []byte("format: pdf\n"), 0644))

	_, _, err := run(t, "-C", dir, "validate", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfig_LogLevelFlag(t *testing.T) {
	dir := newProject(t)
	_, stderr, err := run(t, "-C", dir, "--log-level", "debug", "inspect", filepath.Join(dir, samplePagePath), "--json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Configuration loaded")
}

func TestExcludeOutput(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name   string
		outDir string
		want   []string
	}{
		{"inside root", filepath.Join(root, "dist"), []string{"a/**", "dist/**"}},
		{"outside root", t.TempDir(), []string{"a/**"}},
		{"root itself", root, []string{"a/**"}},
		{"empty", "", []string{"a/**"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excludeOutput([]string{"a/**"}, root, tt.outDir))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 file", plural(1, "file"))
	assert.Equal(t, "0 files", plural(0, "file"))
	assert.Equal(t, "1,200 documents", plural(1200, "document"))
}

func TestTableRender(t *testing.T) {
	tbl := newTable("A", "LONGER")
	tbl.add("wide-cell", "x")
	var buf bytes.Buffer
	tbl.render(&buf, "  ")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "LONGER")
	assert.Equal(t, "  wide-cell  x", lines[2])
}
