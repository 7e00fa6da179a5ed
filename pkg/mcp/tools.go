package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/wpexport/pkg/builder"
)

const pageParamDescription = "Page JSON: an envelope with a \"root\" component tree " +
	"(plus optional colorPalette, typographySystem, componentLibrary, templateParts) " +
	"or a bare component tree"

func targetNames() []string {
	var out []string
	for _, t := range builder.Targets() {
		out = append(out, string(t))
	}
	return out
}

func listTargetsTool() mcp.Tool {
	return mcp.NewTool("list_targets",
		mcp.WithDescription("Returns the supported page builders and the output formats each can write"),
	)
}

func exportPageTool() mcp.Tool {
	return mcp.NewTool("export_page",
		mcp.WithDescription("Convert a component tree into a page builder's native import format. "+
			"Returns the output with the validation report and node accounting."),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Page builder to export for"),
			mcp.Enum(targetNames()...),
		),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description(pageParamDescription),
		),
		mcp.WithString("format",
			mcp.Description("Output format; defaults to json. Gutenberg also writes html, Oxygen shortcode"),
			mcp.Enum(string(builder.FormatJSON), string(builder.FormatShortcode), string(builder.FormatHTML)),
		),
		mcp.WithBoolean("optimize",
			mcp.Description("Run the target optimizer before serializing (default true)"),
		),
	)
}

func validatePageTool() mcp.Tool {
	return mcp.NewTool("validate_page",
		mcp.WithDescription("Export a page for a target and return only the validation report"),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Page builder to validate against"),
			mcp.Enum(targetNames()...),
		),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description(pageParamDescription),
		),
	)
}

func inspectPageTool() mcp.Tool {
	return mcp.NewTool("inspect_page",
		mcp.WithDescription("Compact summary of a page: node counts, tags, widgets, design tokens, "+
			"reusable templates and template parts"),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description(pageParamDescription),
		),
	)
}

func detectWidgetsTool() mcp.Tool {
	return mcp.NewTool("detect_widgets",
		mcp.WithDescription("List nodes recognized as icons, icon lists, galleries, carousels, "+
			"testimonials or pricing tables, with their extracted data"),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description(pageParamDescription),
		),
	)
}

func linkTokensTool() mcp.Tool {
	return mcp.NewTool("link_tokens",
		mcp.WithDescription("Build design tokens from the page palette and typography and list "+
			"the nodes whose colors, fonts or sizes resolve to them"),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description(pageParamDescription),
		),
	)
}
