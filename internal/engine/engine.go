// Package engine wires detection, the parser registry and the individual
// parsers into the operations callers actually invoke: detect a project,
// list parsers, scan a tree, run a full analysis into a graph.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devpware/codeatlas/internal/detect"
	"github.com/devpware/codeatlas/internal/model"
	"github.com/devpware/codeatlas/internal/parser"
	"github.com/devpware/codeatlas/internal/parser/delphi"
	"github.com/devpware/codeatlas/internal/parser/laravel"
	"github.com/devpware/codeatlas/internal/registry"
)

// Engine owns the parser catalog and the wired strategy implementations.
type Engine struct {
	registry *registry.Registry
	detector *detect.Detector
	parsers  map[string]parser.Parser
}

// New returns an engine with the built-in parsers wired up.
func New() *Engine {
	return &Engine{
		registry: registry.NewRegistry(),
		detector: detect.NewDetector(),
		parsers: map[string]parser.Parser{
			"delphi":  delphi.New(),
			"laravel": laravel.New(),
		},
	}
}

// Registry exposes the parser catalog.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// DetectProjectType scores root against the known technologies.
func (e *Engine) DetectProjectType(root string) (detect.Detection, error) {
	return e.detector.Detect(root)
}

// ListParsers returns the catalog in stable order.
func (e *Engine) ListParsers() []registry.ParserInfo {
	return e.registry.List()
}

// ParserFor resolves a parser id to its implementation. Ids that are
// declared in the registry but not implemented report as unavailable.
func (e *Engine) ParserFor(id string) (parser.Parser, error) {
	if p, ok := e.parsers[id]; ok {
		return p, nil
	}
	if info, err := e.registry.Get(id); err == nil && !info.Available {
		return nil, fmt.Errorf("parser %q is not available", id)
	}
	return nil, fmt.Errorf("unknown parser: %q", id)
}

// parserForProject picks an explicit parser or falls back to detection.
func (e *Engine) parserForProject(root, parserID string) (parser.Parser, detect.Detection, error) {
	var det detect.Detection
	if parserID == "" {
		var err error
		det, err = e.detector.Detect(root)
		if err != nil {
			return nil, det, err
		}
		parserID = det.ParserID
	}
	p, err := e.ParserFor(parserID)
	if err != nil {
		return nil, det, err
	}
	return p, det, nil
}

// ScanProject lists the source files the chosen parser would analyze.
// An empty parserID means detect first.
func (e *Engine) ScanProject(ctx context.Context, root, parserID string) ([]model.SourceFile, error) {
	p, _, err := e.parserForProject(root, parserID)
	if err != nil {
		return nil, err
	}
	return p.ScanFiles(ctx, root, parser.DefaultConfig())
}

// Options configure a full analysis.
type Options struct {
	// ParserID forces a parser; empty means detect.
	ParserID string

	// ProjectName overrides the name recorded in graph metadata; empty
	// means the base name of the root directory.
	ProjectName string

	// Workers bounds the parse fan-out. Values below 2 parse serially.
	Workers int

	// Config is the parse configuration; the zero value uses defaults.
	Config parser.Config

	// OnProgress receives progress snapshots; may be nil.
	OnProgress parser.ProgressFunc
}

// Analysis is the complete outcome of analyzing one project.
type Analysis struct {
	Detection detect.Detection   `json:"detection"`
	Graph     model.Graph        `json:"graph"`
	Result    *model.ParseResult `json:"result"`
}

// Analyze runs the full pipeline: detect (unless a parser is forced),
// scan, parse every file, assemble the graph. Every ParseFile call has
// completed before assembly begins, and the parse result is ordered by
// path regardless of worker completion order, so the produced graph is
// identical run to run.
func (e *Engine) Analyze(ctx context.Context, root string, opts Options) (*Analysis, error) {
	p, det, err := e.parserForProject(root, opts.ParserID)
	if err != nil {
		return nil, err
	}

	cfg := opts.Config
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}

	var result *model.ParseResult
	if opts.Workers > 1 {
		result, err = e.parseParallel(ctx, p, root, cfg, opts.Workers, opts.OnProgress)
	} else {
		result, err = p.ParseProject(ctx, root, cfg, opts.OnProgress)
	}
	if err != nil {
		return nil, err
	}

	if opts.OnProgress != nil {
		opts.OnProgress(parser.Progress{Phase: parser.PhaseBuilding, Message: "assembling graph"})
	}
	graph := parser.BuildGraph(p, result)

	name := opts.ProjectName
	if name == "" {
		abs, err := filepath.Abs(root)
		if err == nil {
			name = filepath.Base(abs)
		} else {
			name = filepath.Base(root)
		}
	}
	version := ""
	if info, err := e.registry.Get(p.ID()); err == nil {
		version = info.Version
	}
	graph.Metadata = model.GraphMetadata{
		ProjectName:   name,
		RootPath:      root,
		Language:      p.ID(),
		TotalFiles:    result.TotalProcessed,
		ScannedAt:     time.Now().UTC(),
		ParserVersion: version,
	}

	return &Analysis{Detection: det, Graph: graph, Result: result}, nil
}

// parseParallel fans ParseFile calls out over a bounded worker pool. Each
// file lands in its own slot, and slots are folded into the result in scan
// order after the group finishes; the errgroup wait is the barrier between
// parsing and graph assembly.
func (e *Engine) parseParallel(ctx context.Context, p parser.Parser, root string, cfg parser.Config, workers int, onProgress parser.ProgressFunc) (*model.ParseResult, error) {
	var mu sync.Mutex
	emit := func(pr parser.Progress) {
		if onProgress == nil {
			return
		}
		mu.Lock()
		onProgress(pr)
		mu.Unlock()
	}

	emit(parser.Progress{Phase: parser.PhaseScanning, Message: "scanning " + root})
	files, err := p.ScanFiles(ctx, root, cfg)
	if err != nil {
		return nil, err
	}

	type slot struct {
		parsed model.ParsedFile
		err    error
	}
	slots := make([]slot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done int
	total := len(files)
	for i, src := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &parser.Error{Kind: parser.KindCancelled, Err: err}
			}
			parsed, err := p.ParseFile(gctx, src, cfg)
			slots[i] = slot{parsed: parsed, err: err}

			mu.Lock()
			done++
			current := done
			mu.Unlock()
			emit(parser.Progress{Phase: parser.PhaseParsing, Current: current, Total: total, CurrentFile: src.Path})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := model.NewParseResult()
	for i, s := range slots {
		if s.err != nil {
			result.AddError(files[i].Path, s.err.Error())
			continue
		}
		result.AddFile(s.parsed)
	}
	emit(parser.Progress{Phase: parser.PhaseParsing, Current: total, Total: total, Message: "parse complete"})
	return result, nil
}
