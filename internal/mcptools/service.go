package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/devpware/codeatlas/internal/engine"
	"github.com/devpware/codeatlas/internal/export"
)

// Service handles MCP tool calls by delegating to an analysis engine.
type Service struct {
	eng *engine.Engine
}

// NewService creates a Service backed by the given engine.
func NewService(eng *engine.Engine) *Service {
	return &Service{eng: eng}
}

// DetectProjectType scores a source tree against the known technologies.
func (s *Service) DetectProjectType(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DetectInput,
) (*mcp.CallToolResult, DetectOutput, error) {
	if input.Path == "" {
		return nil, DetectOutput{}, fmt.Errorf("path is required")
	}

	det, err := s.eng.DetectProjectType(input.Path)
	if err != nil {
		return nil, DetectOutput{}, err
	}

	out := DetectOutput{
		ProjectType:   string(det.Primary),
		Confidence:    det.Confidence,
		ParserID:      det.ParserID,
		MultiLanguage: det.MultiLanguage,
		Markers:       det.Markers,
	}
	for _, sc := range det.Secondary {
		out.Secondary = append(out.Secondary, SecondaryScore{
			ProjectType: string(sc.Type),
			Confidence:  sc.Confidence,
		})
	}
	return nil, out, nil
}

// ListParsers returns the parser catalog.
func (s *Service) ListParsers(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListParsersInput,
) (*mcp.CallToolResult, ListParsersOutput, error) {
	var out ListParsersOutput
	for _, info := range s.eng.ListParsers() {
		out.Parsers = append(out.Parsers, ParserSummary{
			ID:             info.ID,
			DisplayName:    info.DisplayName,
			Version:        info.Version,
			FileExtensions: info.FileExtensions,
			Available:      info.Available,
		})
	}
	return nil, out, nil
}

// ScanProject lists the files a parser would analyze.
func (s *Service) ScanProject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	if input.Path == "" {
		return nil, ScanOutput{}, fmt.Errorf("path is required")
	}

	files, err := s.eng.ScanProject(ctx, input.Path, input.Parser)
	if err != nil {
		return nil, ScanOutput{}, err
	}

	out := ScanOutput{TotalFiles: len(files)}
	for _, f := range files {
		out.Files = append(out.Files, FileSummary{
			Path:      f.Path,
			Extension: f.Extension,
			SizeBytes: f.SizeBytes,
		})
	}
	return nil, out, nil
}

// AnalyzeProject runs the full pipeline and returns the rendered graph.
func (s *Service) AnalyzeProject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if input.Path == "" {
		return nil, AnalyzeOutput{}, fmt.Errorf("path is required")
	}

	analysis, err := s.eng.Analyze(ctx, input.Path, engine.Options{
		ParserID: input.Parser,
		Workers:  input.Workers,
	})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	var rendered string
	switch input.Format {
	case "", "json":
		data, err := export.JSONBytes(&analysis.Graph)
		if err != nil {
			return nil, AnalyzeOutput{}, err
		}
		rendered = string(data)
	case "mermaid":
		rendered = export.Mermaid(&analysis.Graph)
	default:
		return nil, AnalyzeOutput{}, fmt.Errorf("unknown format %q (want json or mermaid)", input.Format)
	}

	return nil, AnalyzeOutput{
		ProjectName: analysis.Graph.Metadata.ProjectName,
		Language:    analysis.Graph.Metadata.Language,
		NodeCount:   len(analysis.Graph.Nodes),
		EdgeCount:   len(analysis.Graph.Edges),
		FilesParsed: analysis.Result.SuccessCount(),
		ParseErrors: len(analysis.Result.Errors),
		Graph:       rendered,
	}, nil
}
