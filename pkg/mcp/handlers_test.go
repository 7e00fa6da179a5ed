package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/exportlog"
	"github.com/gnana997/wpexport/pkg/util"
)

// --- helpers ---

const cardPage = `{"title":"Card","root":{"tagName":"div","children":[` +
	`{"tagName":"h3","textContent":"Title","styles":{"color":"#3366cc"}},` +
	`{"tagName":"p","textContent":"Body"},` +
	`{"tagName":"a","textContent":"Click","attributes":{"href":"/x"}}]},` +
	`"colorPalette":{"primary":[{"value":"#3366CC","name":"Brand"}]}}`

const galleryPage = `{"root":{"tagName":"div","children":[` +
	`{"tagName":"img","attributes":{"src":"/uploads/1.jpg"}},` +
	`{"tagName":"img","attributes":{"src":"/uploads/2.jpg"}},` +
	`{"tagName":"img","attributes":{"src":"/uploads/3.jpg"}}]}}`

func testServer(t *testing.T, logger *exportlog.Logger) *Server {
	t.Helper()
	opts := builder.DefaultOptions()
	opts.Logger = util.DiscardLogger()
	svc, err := export.NewService(export.ServiceConfig{Options: opts})
	require.NoError(t, err)
	return NewServer(svc, logger)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "list_targets":
		handler = s.handleListTargets
	case "export_page":
		handler = s.handleExportPage
	case "validate_page":
		handler = s.handleValidatePage
	case "inspect_page":
		handler = s.handleInspectPage
	case "detect_widgets":
		handler = s.handleDetectWidgets
	case "link_tokens":
		handler = s.handleLinkTokens
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- list_targets ---

func TestHandleListTargets(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("list_targets", nil))
	assert.False(t, result.IsError)

	var targets []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &targets))
	require.Len(t, targets, 4)
	assert.Equal(t, "elementor", targets[0]["target"])
	assert.Equal(t, "beaver-builder", targets[3]["target"])
}

// --- export_page ---

func TestHandleExportPage(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("export_page", map[string]any{
		"target": "elementor",
		"page":   cardPage,
	}))
	assert.False(t, result.IsError, resultJSON(t, result))

	var out exportResult
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Equal(t, "elementor", out.Target)
	assert.Equal(t, "json", out.Format)
	assert.Equal(t, 4, out.Nodes)
	assert.True(t, out.Complete)
	assert.NotEmpty(t, out.RunID)
	assert.True(t, json.Valid([]byte(out.Output)))
	assert.NotNil(t, out.Report)
}

func TestHandleExportPage_Shortcode(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("export_page", map[string]any{
		"target":   "oxygen",
		"page":     cardPage,
		"format":   "shortcode",
		"optimize": false,
	}))
	assert.False(t, result.IsError, resultJSON(t, result))

	var out exportResult
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Contains(t, out.Output, "[ct_")
}

func TestHandleExportPage_Errors(t *testing.T) {
	s := testServer(t, nil)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing target", map[string]any{"page": cardPage}, "target is required"},
		{"unknown target", map[string]any{"target": "divi", "page": cardPage}, "unknown"},
		{"missing page", map[string]any{"target": "elementor"}, "page is required"},
		{"malformed page", map[string]any{"target": "elementor", "page": `{"root":`}, "export failed"},
		{"bad format", map[string]any{"target": "elementor", "page": cardPage, "format": "pdf"}, "unsupported"},
		{"unsupported format", map[string]any{"target": "beaver-builder", "page": cardPage, "format": "html"}, "unsupported"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("export_page", tc.args))
			assert.True(t, result.IsError)
			assert.Contains(t, strings.ToLower(resultJSON(t, result)), tc.want)
		})
	}
}

// --- validate_page ---

func TestHandleValidatePage(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("validate_page", map[string]any{
		"target": "gutenberg",
		"page":   cardPage,
	}))
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Equal(t, "gutenberg", out["target"])
	assert.Equal(t, true, out["complete"])
	report, ok := out["report"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, report, "valid")
	assert.NotContains(t, out, "output")
}

// --- inspect_page / detect_widgets / link_tokens ---

func TestHandleInspectPage(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("inspect_page", map[string]any{"page": cardPage}))
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Equal(t, "Card", out["title"])
	assert.Equal(t, float64(4), out["nodes"])
}

func TestHandleDetectWidgets(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("detect_widgets", map[string]any{"page": galleryPage}))
	assert.False(t, result.IsError)

	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "gallery", hits[0]["kind"])
	assert.Equal(t, "/", hits[0]["path"])
}

func TestHandleLinkTokens(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("link_tokens", map[string]any{"page": cardPage}))
	assert.False(t, result.IsError)

	var out tokensResult
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	require.Len(t, out.Tokens, 1)
	require.Len(t, out.Links, 1)
	assert.Equal(t, "/0", out.Links[0].Path)
	assert.Equal(t, "primary-1", out.Links[0].Links.Color("color"))
}

func TestHandleLinkTokens_NoPalette(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("link_tokens", map[string]any{"page": galleryPage}))
	assert.False(t, result.IsError)
	assert.Equal(t, `{"tokens":[],"links":[]}`, resultJSON(t, result))
}

func TestHandleInspectPage_MissingPage(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("inspect_page", nil))
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.jsonl")
	logger, err := exportlog.NewLogger(path)
	require.NoError(t, err)
	s := testServer(t, logger)

	handler := s.loggingMiddleware()(s.handleExportPage)
	_, err = handler(context.Background(), makeRequest("export_page", map[string]any{
		"target": "elementor",
		"page":   cardPage,
	}))
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var entry exportlog.ToolEntry
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, "export_page", entry.Tool)
	assert.Equal(t, "elementor", entry.Params["target"])
	assert.Contains(t, entry.Params, "page_len")
	assert.NotContains(t, entry.Params, "page")
	assert.Positive(t, entry.ResponseBytes)
	assert.Nil(t, entry.Error)
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, responseBytes(nil))
	assert.Positive(t, responseBytes(mcp.NewToolResultText("hello")))
}
