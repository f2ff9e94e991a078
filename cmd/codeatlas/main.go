package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devpware/codeatlas/internal/config"
	"github.com/devpware/codeatlas/internal/engine"
	"github.com/devpware/codeatlas/internal/export"
	"github.com/devpware/codeatlas/internal/mcptools"
	"github.com/devpware/codeatlas/internal/parser"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: codeatlas <command> [flags]

commands:
  detect   detect the technology of a source tree
  parsers  list the registered parsers
  scan     list the files a parser would analyze
  analyze  build the dependency graph for a project
  mcp      run as an MCP server on stdio
  version  print version and exit
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New()

	switch cmd := args[0]; cmd {
	case "detect":
		return runDetect(eng, args[1:])
	case "parsers":
		return runParsers(eng)
	case "scan":
		return runScan(ctx, eng, args[1:])
	case "analyze":
		return runAnalyze(ctx, eng, args[1:])
	case "mcp":
		return mcptools.RunStdio(ctx, mcptools.NewServer(eng))
	case "version":
		fmt.Println(version)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runDetect(eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	path := fs.String("path", ".", "path to the project root")
	if err := fs.Parse(args); err != nil {
		return err
	}

	det, err := eng.DetectProjectType(*path)
	if err != nil {
		return err
	}

	fmt.Printf("%s (confidence %.2f, parser %s)\n", det.Primary, det.Confidence, det.ParserID)
	for _, m := range det.Markers {
		fmt.Printf("  marker: %s\n", m)
	}
	for _, sc := range det.Secondary {
		fmt.Printf("  also: %s (%.2f)\n", sc.Type, sc.Confidence)
	}
	return nil
}

func runParsers(eng *engine.Engine) error {
	for _, info := range eng.ListParsers() {
		state := "available"
		if !info.Available {
			state = "unavailable"
		}
		fmt.Printf("%-10s %-8s %-12s %v\n", info.ID, info.Version, state, info.FileExtensions)
	}
	return nil
}

func runScan(ctx context.Context, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	path := fs.String("path", ".", "path to the project root")
	parserID := fs.String("parser", "", "parser id (default: auto-detect)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	files, err := eng.ScanProject(ctx, *path, *parserID)
	if err != nil {
		return err
	}

	for _, f := range files {
		fmt.Printf("%s (%d bytes)\n", f.Path, f.SizeBytes)
	}
	fmt.Printf("%d files\n", len(files))
	return nil
}

func runAnalyze(ctx context.Context, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	path := fs.String("path", ".", "path to the project root")
	parserID := fs.String("parser", "", "parser id (default: auto-detect)")
	name := fs.String("name", "", "project name recorded in graph metadata")
	workers := fs.Int("workers", 0, "parallel parse workers (0 = serial)")
	format := fs.String("format", "json", "output format: json or mermaid")
	out := fs.String("o", "", "output file (default: stdout)")
	verbose := fs.Bool("verbose", false, "log per-file progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Project-level config fills in anything the flags leave at defaults.
	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	opts := engine.Options{
		ParserID:    *parserID,
		ProjectName: *name,
		Workers:     *workers,
		Config:      cfg.ParserConfig(),
	}
	if opts.ParserID == "" {
		opts.ParserID = cfg.Parser
	}
	if opts.ProjectName == "" {
		opts.ProjectName = cfg.ProjectName
	}
	if opts.Workers == 0 {
		opts.Workers = cfg.Workers
	}
	if *verbose {
		opts.OnProgress = func(p parser.Progress) {
			log.Println(engine.FormatProgress(p))
		}
	}

	analysis, err := eng.Analyze(ctx, *path, opts)
	if err != nil {
		return err
	}
	if analysis.Result.HasErrors() {
		for path, msg := range analysis.Result.Errors {
			log.Printf("parse error: %s: %s", path, msg)
		}
	}

	var rendered []byte
	switch *format {
	case "json":
		rendered, err = export.JSONBytes(&analysis.Graph)
		if err != nil {
			return err
		}
		rendered = append(rendered, '\n')
	case "mermaid":
		rendered = []byte(export.Mermaid(&analysis.Graph))
	default:
		return fmt.Errorf("unknown format %q (want json or mermaid)", *format)
	}

	if *out == "" {
		_, err = os.Stdout.Write(rendered)
		return err
	}
	if err := os.WriteFile(*out, rendered, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %s (%d nodes, %d edges)", *out, len(analysis.Graph.Nodes), len(analysis.Graph.Edges))
	return nil
}
