package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSystem makes only the given binaries and paths visible to detection.
func stubSystem(t *testing.T, binaries []string, paths []string) {
	t.Helper()
	origLookPath, origStat := lookPathFunc, statFunc
	t.Cleanup(func() {
		lookPathFunc = origLookPath
		statFunc = origStat
	})

	lookPathFunc = func(name string) (string, error) {
		for _, b := range binaries {
			if b == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	statFunc = func(name string) (os.FileInfo, error) {
		for _, p := range paths {
			if p == name {
				return nil, nil
			}
		}
		return nil, os.ErrNotExist
	}
}

func serverEntryIn(t *testing.T, data []byte, key string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	servers, ok := doc[key].(map[string]any)
	require.True(t, ok, "missing %q", key)
	entry, ok := servers[serverName].(map[string]any)
	require.True(t, ok, "server not registered under %q", key)
	return entry
}

func TestWithServer(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		out, err := withServer(nil, "mcpServers", nil)
		require.NoError(t, err)
		assert.Equal(t, byte('\n'), out[len(out)-1])

		entry := serverEntryIn(t, out, "mcpServers")
		assert.Equal(t, "wpexport", entry["command"])
		assert.Equal(t, []any{"mcp"}, entry["args"])
	})

	t.Run("keeps other servers and keys", func(t *testing.T) {
		doc := []byte(`{"mcpServers": {"other": {"command": "other"}}, "theme": "dark"}`)
		out, err := withServer(doc, "mcpServers", nil)
		require.NoError(t, err)
		serverEntryIn(t, out, "mcpServers")
		assert.Contains(t, string(out), `"other"`)
		assert.Contains(t, string(out), `"theme": "dark"`)
	})

	t.Run("extra fields", func(t *testing.T) {
		out, err := withServer(nil, "servers", map[string]string{"type": "stdio"})
		require.NoError(t, err)
		assert.Equal(t, "stdio", serverEntryIn(t, out, "servers")["type"])
	})

	t.Run("already registered", func(t *testing.T) {
		out, err := withServer([]byte(`{"mcpServers": {"wpexport": {}}}`), "mcpServers", nil)
		assert.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := withServer([]byte("not json"), "mcpServers", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})
}

func TestSetupConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"nope\n", false},
		{"", true},
	}
	for _, tt := range tests {
		w := &bytes.Buffer{}
		s := newSetup(strings.NewReader(tt.input), w, false)
		assert.Equal(t, tt.want, s.confirm("Continue?"), "input %q", tt.input)
		assert.Contains(t, w.String(), "Continue? [Y/n]")
	}
}

func TestSetupChooseScope(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1\n", "project"},
		{"\n", "project"},
		{"", "project"},
		{"2\n", "user"},
		{"3\n", ""},
	}
	for _, tt := range tests {
		s := newSetup(strings.NewReader(tt.input), &bytes.Buffer{}, false)
		assert.Equal(t, tt.want, s.chooseScope("Claude Code"), "input %q", tt.input)
	}
}

func TestSetupAnswersShareOneReader(t *testing.T) {
	s := newSetup(strings.NewReader("n\n2\n"), &bytes.Buffer{}, false)
	assert.False(t, s.confirm("first?"))
	assert.Equal(t, "user", s.chooseScope("Codex"))
}

func TestFindAgents(t *testing.T) {
	t.Run("cli on path", func(t *testing.T) {
		stubSystem(t, []string{"claude", "codex"}, nil)
		found := findAgents()
		require.Len(t, found, 2)
		assert.Equal(t, "claude_code", found[0].id)
		assert.Equal(t, "openai_codex", found[1].id)
	})

	t.Run("none", func(t *testing.T) {
		stubSystem(t, nil, nil)
		assert.Empty(t, findAgents())
	})

	t.Run("project marker", func(t *testing.T) {
		stubSystem(t, nil, []string{".cursor"})
		found := findAgents()
		require.Len(t, found, 1)
		assert.Equal(t, "cursor", found[0].id)
		assert.Equal(t, filepath.Join(".cursor", "mcp.json"), found[0].path)
	})

	t.Run("config parent dir", func(t *testing.T) {
		stubSystem(t, nil, []string{filepath.Dir(desktopConfigPath())})
		found := findAgents()
		require.Len(t, found, 1)
		assert.Equal(t, "claude_desktop", found[0].id)
		assert.Equal(t, desktopConfigPath(), found[0].path)
	})
}

func TestHasServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	assert.False(t, hasServer(path, "mcpServers"), "missing file")

	require.NoError(t, os.WriteFile(path, []byte(`{"servers": {"wpexport": {}}}`), 0644))
	assert.True(t, hasServer(path, "servers"))
	assert.False(t, hasServer(path, "mcpServers"))

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	assert.False(t, hasServer(path, "servers"), "broken JSON")
}

func TestRegisterFile(t *testing.T) {
	dir := t.TempDir()
	ag := agent{serversKey: "mcpServers"}

	t.Run("creates parent dirs", func(t *testing.T) {
		path := filepath.Join(dir, "sub", "mcp.json")
		require.NoError(t, registerFile(ag, path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		serverEntryIn(t, data, "mcpServers")
	})

	t.Run("merges existing", func(t *testing.T) {
		path := filepath.Join(dir, "mcp.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers": {"other": {"command": "other"}}}`), 0644))
		require.NoError(t, registerFile(ag, path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		serverEntryIn(t, data, "mcpServers")
		assert.Contains(t, string(data), `"other"`)
	})
}

func TestSetupRun_NoAgents(t *testing.T) {
	stubSystem(t, nil, nil)
	w := &bytes.Buffer{}
	newSetup(strings.NewReader(""), w, false).run()
	assert.Contains(t, w.String(), "No supported AI agents detected.")
}

func TestSetupRun_Declined(t *testing.T) {
	t.Chdir(t.TempDir())
	stubSystem(t, nil, []string{".vscode"})

	w := &bytes.Buffer{}
	newSetup(strings.NewReader("n\n"), w, false).run()
	assert.Contains(t, w.String(), "VS Code Copilot")
	assert.NoFileExists(t, filepath.Join(".vscode", "mcp.json"))
}

func TestSetupRun_AutoFileAgent(t *testing.T) {
	t.Chdir(t.TempDir())
	stubSystem(t, nil, []string{".vscode"})

	w := &bytes.Buffer{}
	newSetup(strings.NewReader(""), w, true).run()

	data, err := os.ReadFile(filepath.Join(".vscode", "mcp.json"))
	require.NoError(t, err)
	entry := serverEntryIn(t, data, "servers")
	assert.Equal(t, "wpexport", entry["command"])
	assert.Equal(t, "stdio", entry["type"])
	assert.Contains(t, w.String(), "VS Code Copilot configured")

	w.Reset()
	newSetup(strings.NewReader(""), w, true).run()
	assert.Contains(t, w.String(), "already configured")
}
