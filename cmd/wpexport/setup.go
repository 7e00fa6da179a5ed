package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// serverName is the key the MCP server is registered under.
const serverName = "wpexport"

type agentKind int

const (
	// kindCLI agents are configured by running `<binary> mcp add`.
	kindCLI agentKind = iota
	// kindFile agents read a JSON file holding a map of servers.
	kindFile
)

// agent describes how to find one AI agent and register the server with it.
type agent struct {
	id      string
	name    string
	kind    agentKind
	binary  string   // kindCLI
	markers []string // kindFile: project dirs that signal the agent is in use
	// configPath locates the JSON file. Agents without markers are detected
	// by the presence of its parent directory.
	configPath func() string
	serversKey string
	extra      map[string]string
	scoped     bool // kindCLI: ask for project or user scope
}

// foundAgent is an agent detected on this machine.
type foundAgent struct {
	agent
	path       string
	registered bool
}

// Replaced in tests.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
)

var knownAgents = []agent{
	{id: "claude_code", name: "Claude Code", kind: kindCLI, binary: "claude", scoped: true},
	{id: "openai_codex", name: "OpenAI Codex", kind: kindCLI, binary: "codex", scoped: true},
	{
		id: "vscode_copilot", name: "VS Code Copilot", kind: kindFile,
		markers:    []string{".vscode"},
		configPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey: "servers",
		extra:      map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", name: "Cursor", kind: kindFile,
		markers:    []string{".cursor"},
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		id: "claude_desktop", name: "Claude Desktop", kind: kindFile,
		configPath: desktopConfigPath,
		serversKey: "mcpServers",
	},
}

func desktopConfigPath() string {
	const file = "claude_desktop_config.json"
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "Claude", file)
	}
	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "Claude", file)
	}
	return filepath.Join(home, ".config", "Claude", file)
}

func newSetupCmd(a *app) *cobra.Command {
	var auto bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the wpexport MCP server with installed AI agents",
		Long: `Detect AI agents (Claude Code, Codex, VS Code Copilot, Cursor,
Claude Desktop) and add "wpexport mcp" to their MCP server list.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(_ *cobra.Command, _ []string) {
			newSetup(a.in, a.out, auto).run()
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}

// findAgents returns the known agents present on this machine.
func findAgents() []foundAgent {
	var found []foundAgent
	for _, ag := range knownAgents {
		switch ag.kind {
		case kindCLI:
			if _, err := lookPathFunc(ag.binary); err != nil {
				continue
			}
			found = append(found, foundAgent{agent: ag, registered: hasServer(".mcp.json", "mcpServers")})
		case kindFile:
			path, ok := locate(ag)
			if !ok {
				continue
			}
			found = append(found, foundAgent{agent: ag, path: path, registered: hasServer(path, ag.serversKey)})
		}
	}
	return found
}

func locate(ag agent) (string, bool) {
	if len(ag.markers) == 0 {
		path := ag.configPath()
		_, err := statFunc(filepath.Dir(path))
		return path, err == nil
	}
	for _, m := range ag.markers {
		if _, err := statFunc(m); err == nil {
			return ag.configPath(), true
		}
	}
	return "", false
}

// hasServer reports whether the JSON file at path lists the server under key.
func hasServer(path, key string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc map[string]any
	if json.Unmarshal(data, &doc) != nil {
		return false
	}
	servers, _ := doc[key].(map[string]any)
	_, ok := servers[serverName]
	return ok
}

// withServer adds the server entry to a JSON document under key, keeping
// everything else. It returns nil when the entry already exists.
func withServer(doc []byte, key string, extra map[string]string) ([]byte, error) {
	root := map[string]any{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &root); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	servers, ok := root[key].(map[string]any)
	if !ok {
		servers = map[string]any{}
		root[key] = servers
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	entry := map[string]any{"command": serverName, "args": []any{"mcp"}}
	for k, v := range extra {
		entry[k] = v
	}
	servers[serverName] = entry

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func registerCLI(ag agent, scope string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverName, "--", serverName, "mcp")
	cmd := exec.Command(ag.binary, args...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	return cmd.Run()
}

func registerFile(ag agent, path string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	updated, err := withServer(existing, ag.serversKey, ag.extra)
	if err != nil || updated == nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, updated, 0644)
}

// setup walks the user through registering the server. Every prompt reads
// from one scanner so buffered answers are not lost between questions.
type setup struct {
	in   *bufio.Scanner
	out  io.Writer
	auto bool
}

func newSetup(r io.Reader, w io.Writer, auto bool) *setup {
	return &setup{in: bufio.NewScanner(r), out: w, auto: auto}
}

// answer reads one line; ok is false at end of input.
func (s *setup) answer() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// confirm asks a Y/n question. Empty input and EOF mean yes.
func (s *setup) confirm(question string) bool {
	fmt.Fprintf(s.out, "%s [Y/n] ", question)
	ans, ok := s.answer()
	if !ok {
		return true
	}
	switch strings.ToLower(ans) {
	case "", "y", "yes":
		return true
	}
	return false
}

// chooseScope returns "project", "user", or "" to skip.
func (s *setup) chooseScope(name string) string {
	fmt.Fprintf(s.out, "\n%s: where should the server be registered?\n", name)
	fmt.Fprintln(s.out, "  1) this project (shared with the team)")
	fmt.Fprintln(s.out, "  2) your user account")
	fmt.Fprintln(s.out, "  3) skip")
	fmt.Fprint(s.out, "  > ")
	ans, _ := s.answer()
	switch ans {
	case "", "1":
		return "project"
	case "2":
		return "user"
	}
	return ""
}

func (s *setup) run() {
	found := findAgents()
	if len(found) == 0 {
		fmt.Fprintln(s.out, "No supported AI agents detected.")
		return
	}

	t := newTable("AGENT", "STATUS")
	for _, f := range found {
		status := "not configured"
		if f.registered {
			status = "already configured"
		}
		t.add(f.name, status)
	}
	t.render(s.out, "  ")
	fmt.Fprintln(s.out)

	if !s.auto && !s.confirm("Configure agents?") {
		return
	}
	for _, f := range found {
		if f.registered {
			fmt.Fprintf(s.out, "%s %s: already configured\n", dimStyle.Render("-"), f.name)
			continue
		}
		s.configure(f)
	}
}

func (s *setup) configure(f foundAgent) {
	var (
		err    error
		detail string
	)
	switch f.kind {
	case kindCLI:
		scope := "project"
		if f.scoped && !s.auto {
			if scope = s.chooseScope(f.name); scope == "" {
				fmt.Fprintf(s.out, "%s %s: skipped\n", dimStyle.Render("-"), f.name)
				return
			}
		}
		detail = "scope: " + scope
		err = registerCLI(f.agent, scope)
	case kindFile:
		if !s.auto && !s.confirm(fmt.Sprintf("\n%s: add the server to %s?", f.name, f.path)) {
			fmt.Fprintf(s.out, "%s %s: skipped\n", dimStyle.Render("-"), f.name)
			return
		}
		detail = f.path
		err = registerFile(f.agent, f.path)
	}
	if err != nil {
		fmt.Fprintf(s.out, "%s %s: %v\n", errorStyle.Render("✗"), f.name, err)
		return
	}
	fmt.Fprintf(s.out, "%s %s configured (%s)\n", okStyle.Render("✓"), f.name, detail)
}
