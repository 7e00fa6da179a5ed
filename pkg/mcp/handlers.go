package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/tokens"
	"github.com/gnana997/wpexport/pkg/validator"
)

type targetResult struct {
	Target  string   `json:"target"`
	Label   string   `json:"label"`
	Formats []string `json:"formats"`
}

type exportResult struct {
	RunID    string            `json:"run_id"`
	Target   string            `json:"target"`
	Format   string            `json:"format"`
	Nodes    int               `json:"nodes"`
	Weight   int               `json:"weight"`
	Complete bool              `json:"complete"`
	Cached   bool              `json:"cached,omitempty"`
	Report   *validator.Report `json:"report"`
	Output   string            `json:"output"`
}

type validateResult struct {
	Target   string            `json:"target"`
	Nodes    int               `json:"nodes"`
	Complete bool              `json:"complete"`
	Report   *validator.Report `json:"report"`
}

type tokensResult struct {
	Tokens []tokens.Token     `json:"tokens"`
	Links  []export.TokenLink `json:"links"`
}

func (s *Server) handleListTargets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []targetResult
	for _, t := range builder.Targets() {
		r := targetResult{Target: string(t), Label: t.Label()}
		for _, f := range export.Formats(t) {
			r.Formats = append(r.Formats, string(f))
		}
		out = append(out, r)
	}
	return jsonResult(out)
}

func (s *Server) handleExportPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, page, errResult := targetAndPage(req)
	if errResult != nil {
		return errResult, nil
	}
	format, err := builder.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.svc.ExportBytes([]byte(page), export.Request{
		Target:   target,
		Format:   format,
		Optimize: req.GetBool("optimize", true),
		Source:   "mcp",
	})
	if err != nil {
		return mcp.NewToolResultError(exportError(err)), nil
	}
	return jsonResult(exportResult{
		RunID:    res.RunID,
		Target:   string(res.Target),
		Format:   string(res.Format),
		Nodes:    res.Nodes,
		Weight:   res.Weight,
		Complete: res.Complete(),
		Cached:   res.Cached,
		Report:   res.Report,
		Output:   string(res.Output),
	})
}

func (s *Server) handleValidatePage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, page, errResult := targetAndPage(req)
	if errResult != nil {
		return errResult, nil
	}
	res, err := s.svc.ExportBytes([]byte(page), export.Request{Target: target, Source: "mcp"})
	if err != nil {
		return mcp.NewToolResultError(exportError(err)), nil
	}
	return jsonResult(validateResult{
		Target:   string(res.Target),
		Nodes:    res.Nodes,
		Complete: res.Complete(),
		Report:   res.Report,
	})
}

func (s *Server) handleInspectPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, errResult := s.inspect(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(in)
}

func (s *Server) handleDetectWidgets(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, errResult := s.inspect(req)
	if errResult != nil {
		return errResult, nil
	}
	widgets := in.Widgets
	if widgets == nil {
		widgets = []export.WidgetHit{}
	}
	return jsonResult(widgets)
}

func (s *Server) handleLinkTokens(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, errResult := s.inspect(req)
	if errResult != nil {
		return errResult, nil
	}
	out := tokensResult{Tokens: in.Tokens, Links: in.Links}
	if out.Tokens == nil {
		out.Tokens = []tokens.Token{}
	}
	if out.Links == nil {
		out.Links = []export.TokenLink{}
	}
	return jsonResult(out)
}

// --- helpers ---

func (s *Server) inspect(req mcp.CallToolRequest) (*export.Inspection, *mcp.CallToolResult) {
	raw, err := req.RequireString("page")
	if err != nil {
		return nil, mcp.NewToolResultError("page is required")
	}
	page, err := component.DecodeAny([]byte(raw))
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid page: %v", err))
	}
	in, err := export.Inspect(page, s.svc.Options())
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return in, nil
}

func targetAndPage(req mcp.CallToolRequest) (builder.Target, string, *mcp.CallToolResult) {
	name, err := req.RequireString("target")
	if err != nil {
		return "", "", mcp.NewToolResultError("target is required")
	}
	target, err := builder.ParseTarget(name)
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	page, err := req.RequireString("page")
	if err != nil || page == "" {
		return "", "", mcp.NewToolResultError("page is required")
	}
	return target, page, nil
}

func exportError(err error) string {
	switch {
	case errors.Is(err, builder.ErrUnsupportedFormat):
		return err.Error()
	case errors.Is(err, component.ErrEmptyPage):
		return "invalid page: " + err.Error()
	}
	return fmt.Sprintf("export failed: %v", err)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
