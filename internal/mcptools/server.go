package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/devpware/codeatlas/internal/engine"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with the 4 analysis tools registered:
// detect_project_type, list_parsers, scan_project, and analyze_project.
func NewServer(eng *engine.Engine) *mcp.Server {
	svc := NewService(eng)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codeatlas",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_project_type",
		Description: "Detect the primary technology of a source tree (delphi, laravel, php, nodejs) with a confidence score and the markers found.",
	}, svc.DetectProjectType)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_parsers",
		Description: "List the registered parsers with their versions, file extensions, and availability.",
	}, svc.ListParsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_project",
		Description: "List the source files a parser would analyze in a project, without parsing them.",
	}, svc.ScanProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_project",
		Description: "Run the full analysis pipeline on a project and return the dependency graph as JSON or Mermaid, plus summary statistics.",
	}, svc.AnalyzeProject)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin
// is closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
