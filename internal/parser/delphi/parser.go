// Package delphi analyzes Delphi / Object Pascal source trees: units,
// form definitions, project and package files. Extraction is lexical; the
// battery of patterns in pas.go and dfm.go is deliberately tolerant of
// code that would never compile.
package delphi

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/devpware/codeatlas/internal/detect"
	"github.com/devpware/codeatlas/internal/ident"
	"github.com/devpware/codeatlas/internal/model"
	"github.com/devpware/codeatlas/internal/parser"
	"github.com/devpware/codeatlas/internal/scan"
)

// Version is reported in graph metadata.
const Version = "1.0.0"

var (
	defaultExtensions  = []string{"pas", "dfm", "fmx", "dpr", "dpk"}
	defaultExcludeDirs = []string{"__history", "__recovery", "Win32", "Win64", "Debug", "Release", ".git"}
)

// Parser is the Delphi analysis strategy.
type Parser struct{}

var _ parser.Parser = (*Parser)(nil)

// New returns a Delphi parser.
func New() *Parser { return &Parser{} }

func (p *Parser) ID() string { return "delphi" }

func (p *Parser) Capabilities() parser.Capabilities {
	return parser.Capabilities{
		NodeTypes: []model.NodeType{
			model.NodeModule, model.NodeForm, model.NodeSourceFile,
			model.NodePackage, model.NodeClass, model.NodeInterface,
		},
		EdgeTypes: []model.EdgeType{
			model.EdgeUses, model.EdgeImplementsUses, model.EdgeFilePair,
		},
		SupportsCancellation: true,
		AvailableMetrics:     []string{"file_count", "symbol_count", "dependency_count"},
	}
}

// DetectConfidence self-checks a root against the Delphi markers.
func (p *Parser) DetectConfidence(root string) float64 {
	return detect.NewDetector().Score(root, detect.TypeDelphi).Confidence
}

// CanHandleFile reports whether the extension has an extractor.
func (p *Parser) CanHandleFile(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range defaultExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// classify maps an extension to the node type of the file.
func classify(src model.SourceFile) model.NodeType {
	switch src.Extension {
	case "pas":
		return model.NodeModule
	case "dfm", "fmx":
		return model.NodeForm
	case "dpr":
		return model.NodeSourceFile
	case "dpk":
		return model.NodePackage
	default:
		return model.NodeFile
	}
}

func (p *Parser) ScanFiles(ctx context.Context, root string, cfg parser.Config) ([]model.SourceFile, error) {
	exts := cfg.IncludeExtensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	excl := cfg.ExcludeDirs
	if len(excl) == 0 {
		excl = defaultExcludeDirs
	}
	return scan.Walk(ctx, root, scan.Options{
		IncludeExtensions: exts,
		ExcludeDirs:       excl,
		ExcludePatterns:   cfg.ExcludePatterns,
		MaxDepth:          cfg.MaxDepth,
		UseGitignore:      cfg.UseGitignore,
		HashContents:      cfg.HashContents,
	})
}

func (p *Parser) ParseFile(ctx context.Context, src model.SourceFile, cfg parser.Config) (model.ParsedFile, error) {
	if err := ctx.Err(); err != nil {
		return model.ParsedFile{}, &parser.Error{Kind: parser.KindCancelled, File: src.Path, Err: err}
	}
	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return model.ParsedFile{}, parser.IOError(src.Path, err)
	}
	content := string(data)

	switch src.Extension {
	case "pas", "dpr", "dpk":
		return parsePas(src, content), nil
	case "dfm", "fmx":
		return parseDfm(src, content), nil
	default:
		return model.ParsedFile{}, parser.Unsupported(src.Path)
	}
}

func (p *Parser) ParseProject(ctx context.Context, root string, cfg parser.Config, onProgress parser.ProgressFunc) (*model.ParseResult, error) {
	return parser.RunProject(ctx, p, root, cfg, onProgress)
}

// fileNodeSize maps file size to a render weight.
func fileNodeSize(bytes int64) int {
	switch {
	case bytes <= 1000:
		return 2
	case bytes <= 5000:
		return 4
	case bytes <= 20000:
		return 6
	case bytes <= 50000:
		return 8
	default:
		return 10
	}
}

// GenerateNodes emits one node per parsed file plus one node per declared
// class and interface. File nodes are sized by byte count; symbol nodes
// keep the default size.
func (p *Parser) GenerateNodes(result *model.ParseResult) []model.Node {
	var nodes []model.Node
	for _, f := range result.Files {
		node := model.NewNode(ident.NodeID(f.Source.Path), f.Source.Name, classify(f.Source)).
			WithSize(fileNodeSize(f.Source.SizeBytes))
		node.Metadata = model.NodeMetadata{
			Path:      f.Source.Path,
			Language:  "delphi",
			SizeBytes: f.Source.SizeBytes,
		}
		if unit := unitName(f); unit != "" {
			node.Metadata.QualifiedName = unit
		}
		node.Metadata.Extra = f.Metadata
		nodes = append(nodes, node)

		for _, sym := range f.Symbols {
			if sym.Kind != model.SymClass && sym.Kind != model.SymInterface {
				continue
			}
			typ := model.NodeClass
			if sym.Kind == model.SymInterface {
				typ = model.NodeInterface
			}
			symNode := model.NewNode(ident.SymbolID(f.Source.Path, sym.Name), sym.Name, typ)
			symNode.Metadata = model.NodeMetadata{
				Path:          f.Source.Path,
				QualifiedName: sym.QualifiedName,
				SymbolKind:    sym.Kind,
				Language:      "delphi",
				Visibility:    sym.Visibility,
				IsAbstract:    sym.IsAbstract,
				IsStatic:      sym.IsStatic,
				ParentClass:   sym.Extends,
				Implements:    sym.Implements,
				LineStart:     sym.LineStart,
				LineEnd:       sym.LineEnd,
			}
			nodes = append(nodes, symNode)
		}
	}
	return nodes
}

// GenerateEdges turns every uses-clause entry into an edge. Targets are
// resolved against the unit-name index when the unit is part of the
// project; unknown units still get a deterministic synthesized target id,
// so dependencies on the RTL and third-party libraries stay visible as
// dangling edges.
func (p *Parser) GenerateEdges(result *model.ParseResult, nodes []model.Node) []model.Edge {
	units := make(map[string]string) // lowercased unit name -> file node id
	for _, f := range result.Files {
		id := ident.NodeID(f.Source.Path)
		if unit := unitName(f); unit != "" {
			units[strings.ToLower(unit)] = id
		}
		units[strings.ToLower(f.Source.Stem())] = id
	}

	var edges []model.Edge
	for _, f := range result.Files {
		sourceID := ident.NodeID(f.Source.Path)
		for _, dep := range f.Dependencies {
			targetID, ok := units[strings.ToLower(dep.Target)]
			if !ok {
				targetID = ident.NodeID("unit:" + strings.ToLower(dep.Target))
			}
			typ := model.EdgeUses
			if dep.IsImplementation {
				typ = model.EdgeImplementsUses
			}
			e := model.NewEdge(sourceID, targetID, typ)
			e.Label = dep.Target
			if !ok {
				e.Metadata = map[string]any{"unresolved": true}
			}
			edges = append(edges, e)
		}
	}
	return edges
}

// DetectFilePairs links each unit to its companion form definition by
// case-insensitive stem ("Main.pas" next to "Main.dfm").
func (p *Parser) DetectFilePairs(result *model.ParseResult) []model.Edge {
	forms := make(map[string]string) // lowercased stem -> form file node id
	for _, f := range result.Files {
		if f.Source.IsDelphiForm() {
			forms[strings.ToLower(f.Source.Stem())] = ident.NodeID(f.Source.Path)
		}
	}

	var edges []model.Edge
	for _, f := range result.Files {
		if !f.Source.IsDelphiUnit() {
			continue
		}
		formID, ok := forms[strings.ToLower(f.Source.Stem())]
		if !ok {
			continue
		}
		e := model.NewEdge(ident.NodeID(f.Source.Path), formID, model.EdgeFilePair)
		e.Bidirectional = true
		e.Label = "form"
		edges = append(edges, e)
	}
	return edges
}

func unitName(f model.ParsedFile) string {
	for _, sym := range f.Symbols {
		if sym.Kind == model.SymUnit {
			return sym.Name
		}
	}
	return ""
}
