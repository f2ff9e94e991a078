// Package parser defines the contract every language parser implements and
// the shared machinery for running one across a whole project. Parsers are
// strategies: the engine picks one by id and drives it through the same
// scan / parse / assemble sequence regardless of language.
package parser

import (
	"context"

	"github.com/devpware/codeatlas/internal/model"
)

// Phase names a stage of project analysis for progress reporting.
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseParsing   Phase = "parsing"
	PhaseResolving Phase = "resolving"
	PhaseBuilding  Phase = "building"
)

// Progress is a point-in-time snapshot of project analysis.
type Progress struct {
	Phase       Phase  `json:"phase"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	CurrentFile string `json:"current_file,omitempty"`
	Message     string `json:"message,omitempty"`
}

// ProgressFunc receives progress snapshots. It is called synchronously from
// the analysis goroutine; implementations that need buffering should hand
// off quickly. May be nil wherever accepted.
type ProgressFunc func(Progress)

// Capabilities describes what a parser can produce, so callers can reason
// about a graph without hardcoding per-language knowledge.
type Capabilities struct {
	NodeTypes            []model.NodeType `json:"node_types"`
	EdgeTypes            []model.EdgeType `json:"edge_types"`
	SupportsIncremental  bool             `json:"supports_incremental"`
	SupportsCancellation bool             `json:"supports_cancellation"`
	AvailableMetrics     []string         `json:"available_metrics"`
}

// Parser is the strategy interface for one language. Implementations must
// be safe for use from a single goroutine at a time; ParseFile must be pure
// with respect to the parser (no accumulated state between files) so the
// engine may fan calls out across workers.
type Parser interface {
	// ID is the registry id ("delphi", "laravel").
	ID() string

	// Capabilities reports what this parser emits.
	Capabilities() Capabilities

	// DetectConfidence scores how strongly root looks like this parser's
	// language, 0..1. Zero means no evidence.
	DetectConfidence(root string) float64

	// CanHandleFile reports whether the parser's extractors handle the
	// file, judged by extension alone.
	CanHandleFile(path string) bool

	// ScanFiles discovers the source files the parser cares about under root.
	ScanFiles(ctx context.Context, root string, cfg Config) ([]model.SourceFile, error)

	// ParseFile extracts symbols and dependencies from one file. Lexical
	// extraction never fails on malformed source; errors are reserved for
	// I/O problems and files the parser does not handle.
	ParseFile(ctx context.Context, src model.SourceFile, cfg Config) (model.ParsedFile, error)

	// ParseProject runs scan + per-file parse over the whole tree,
	// collecting per-file errors instead of aborting.
	ParseProject(ctx context.Context, root string, cfg Config, onProgress ProgressFunc) (*model.ParseResult, error)

	// GenerateNodes turns a parse result into graph nodes.
	GenerateNodes(result *model.ParseResult) []model.Node

	// GenerateEdges derives edges between the given nodes.
	GenerateEdges(result *model.ParseResult, nodes []model.Node) []model.Edge

	// DetectFilePairs finds companion-file relationships (Delphi .pas/.dfm).
	DetectFilePairs(result *model.ParseResult) []model.Edge
}

// BuildGraph assembles the full graph from a parse result: nodes, then
// edges, then companion-file pairs. Shared by every parser so assembly
// order (and therefore output order) is uniform.
func BuildGraph(p Parser, result *model.ParseResult) model.Graph {
	nodes := p.GenerateNodes(result)
	edges := p.GenerateEdges(result, nodes)
	edges = append(edges, p.DetectFilePairs(result)...)
	return model.Graph{Nodes: nodes, Edges: edges}
}

// RunProject is the shared ParseProject loop: scan, then parse file by
// file. A file that fails lands in the result's error map; only context
// cancellation and scan failure abort the run. Progress is emitted once
// per file plus a final snapshot.
func RunProject(ctx context.Context, p Parser, root string, cfg Config, onProgress ProgressFunc) (*model.ParseResult, error) {
	emit := func(pr Progress) {
		if onProgress != nil {
			onProgress(pr)
		}
	}

	emit(Progress{Phase: PhaseScanning, Message: "scanning " + root})
	files, err := p.ScanFiles(ctx, root, cfg)
	if err != nil {
		return nil, err
	}

	result := model.NewParseResult()
	total := len(files)
	for i, src := range files {
		if err := ctx.Err(); err != nil {
			return result, &Error{Kind: KindCancelled, Err: err}
		}
		emit(Progress{Phase: PhaseParsing, Current: i + 1, Total: total, CurrentFile: src.Path})

		parsed, err := p.ParseFile(ctx, src, cfg)
		if err != nil {
			result.AddError(src.Path, err.Error())
			continue
		}
		result.AddFile(parsed)
	}
	emit(Progress{Phase: PhaseParsing, Current: total, Total: total, Message: "parse complete"})
	return result, nil
}
