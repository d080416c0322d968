// Package mcptools registers the analysis as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KaramelBytes/dataqa-cli/internal/decode"
	"github.com/KaramelBytes/dataqa-cli/internal/pipeline"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type handlerFunc = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Register adds analyze_file and profile_columns to s.
func Register(s *server.MCPServer, pipe *pipeline.Pipeline) {
	analyzeTool := mcp.NewTool("analyze_file",
		mcp.WithDescription("Run a data quality analysis on a CSV, TSV, Excel or JSON file and return the report"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to analyze"),
		),
		mcp.WithString("sheet",
			mcp.Description("Worksheet name for Excel files (default: first sheet)"),
		),
		mcp.WithBoolean("insights",
			mcp.Description("Ask the configured AI model for insights (default: false)"),
		),
	)

	profileTool := mcp.NewTool("profile_columns",
		mcp.WithDescription("Profile every column of a file: inferred type, null share, unique count and samples"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to profile"),
		),
	)

	s.AddTool(analyzeTool, AnalyzeHandler(pipe))
	s.AddTool(profileTool, ProfileHandler())
}

// AnalyzeHandler creates the handler for the analyze_file tool.
func AnalyzeHandler(pipe *pipeline.Pipeline) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Missing path parameter: %v", err)), nil
		}
		opt := pipeline.Options{
			Decode:   decode.Options{SheetName: request.GetString("sheet", "")},
			Insights: request.GetBool("insights", false),
		}
		rep, err := pipe.File(ctx, path, opt)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
		}
		return jsonResult(pipeline.Result(rep, true))
	}
}

// ProfileHandler creates the handler for the profile_columns tool.
func ProfileHandler() handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Missing path parameter: %v", err)), nil
		}
		ds, err := decode.DecodeFile(path, decode.Options{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Decode failed: %v", err)), nil
		}
		return jsonResult(quality.AnalyzeColumns(ds))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
