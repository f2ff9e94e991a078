package delphi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/devpware/codeatlas/internal/ident"
	"github.com/devpware/codeatlas/internal/model"
	"github.com/devpware/codeatlas/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "Project1.dpr", `program Project1;

uses
  Main in 'src\Main.pas',
  Helpers in 'src\Helpers.pas';

begin
end.
`)
	writeFile(t, root, "src/Main.pas", `unit Main;

interface

uses
  SysUtils, Helpers;

type
  TMainForm = class(TForm)
  end;

implementation

end.
`)
	writeFile(t, root, "src/Main.dfm", "object MainForm: TMainForm\nend\n")
	writeFile(t, root, "src/Helpers.pas", `unit Helpers;

interface

implementation

uses
  UnknownUnit;

end.
`)
	writeFile(t, root, "__history/Main.pas", "unit Old;")
	return root
}

func TestParseProject_Fixture(t *testing.T) {
	root := fixtureProject(t)
	p := New()

	var phases []parser.Phase
	result, err := p.ParseProject(context.Background(), root, parser.DefaultConfig(), func(pr parser.Progress) {
		phases = append(phases, pr.Phase)
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed, "__history must be excluded")
	assert.Equal(t, 4, result.SuccessCount())
	assert.False(t, result.HasErrors())
	assert.Contains(t, phases, parser.PhaseScanning)
	assert.Contains(t, phases, parser.PhaseParsing)
}

func TestParseProject_Cancelled(t *testing.T) {
	root := fixtureProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ParseProject(ctx, root, parser.DefaultConfig(), nil)
	require.Error(t, err)
	assert.True(t, parser.IsKind(err, parser.KindCancelled))
}

func TestParseProject_BadFileIsContained(t *testing.T) {
	root := fixtureProject(t)
	// A dangling symlink passes the scan but fails to read.
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.pas"), filepath.Join(root, "Broken.pas")))

	result, err := New().ParseProject(context.Background(), root, parser.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assert.Contains(t, result.Errors, "Broken.pas")
	assert.Equal(t, result.SuccessCount()+len(result.Errors), result.TotalProcessed)
}

func TestGenerateNodes_TypesAndSizes(t *testing.T) {
	root := fixtureProject(t)
	p := New()
	result, err := p.ParseProject(context.Background(), root, parser.DefaultConfig(), nil)
	require.NoError(t, err)

	nodes := p.GenerateNodes(result)
	byLabel := map[string]model.Node{}
	for _, n := range nodes {
		byLabel[n.Label] = n
	}

	assert.Equal(t, model.NodeModule, byLabel["Main.pas"].Type)
	assert.Equal(t, model.NodeForm, byLabel["Main.dfm"].Type)
	assert.Equal(t, model.NodeSourceFile, byLabel["Project1.dpr"].Type)
	assert.Equal(t, 2, byLabel["Main.pas"].Size, "small files map to the smallest bucket above minimum")

	require.Contains(t, byLabel, "TMainForm")
	assert.Equal(t, model.NodeClass, byLabel["TMainForm"].Type)
	assert.Equal(t, ident.SymbolID("src/Main.pas", "TMainForm"), byLabel["TMainForm"].ID)
}

func TestGenerateNodes_SymbolMetadata(t *testing.T) {
	root := fixtureProject(t)
	p := New()
	result, err := p.ParseProject(context.Background(), root, parser.DefaultConfig(), nil)
	require.NoError(t, err)

	var class model.Node
	for _, n := range p.GenerateNodes(result) {
		if n.Label == "TMainForm" {
			class = n
		}
	}
	require.NotEmpty(t, class.ID)
	assert.Equal(t, model.SymClass, class.Metadata.SymbolKind)
	assert.Equal(t, "TForm", class.Metadata.ParentClass)
	assert.Greater(t, class.Metadata.LineStart, 0)
}

func TestDetectConfidence(t *testing.T) {
	root := fixtureProject(t)
	assert.InDelta(t, 0.9, New().DetectConfidence(root), 1e-9)
	assert.Zero(t, New().DetectConfidence(t.TempDir()))
}

func TestCanHandleFile(t *testing.T) {
	p := New()
	assert.True(t, p.CanHandleFile("src/Main.pas"))
	assert.True(t, p.CanHandleFile("src/MAIN.DFM"))
	assert.True(t, p.CanHandleFile("Project1.dpr"))
	assert.False(t, p.CanHandleFile("readme.md"))
	assert.False(t, p.CanHandleFile("index.php"))
}

func TestGenerateEdges_ResolvedAndDangling(t *testing.T) {
	root := fixtureProject(t)
	p := New()
	result, err := p.ParseProject(context.Background(), root, parser.DefaultConfig(), nil)
	require.NoError(t, err)

	nodes := p.GenerateNodes(result)
	edges := p.GenerateEdges(result, nodes)

	known := map[string]bool{}
	for _, n := range nodes {
		known[n.ID] = true
	}

	var resolved, dangling []model.Edge
	for _, e := range edges {
		if known[e.Target] {
			resolved = append(resolved, e)
		} else {
			dangling = append(dangling, e)
		}
	}

	// Helpers is part of the project: Main -> Helpers resolves to a real node.
	mainID := ident.NodeID("src/Main.pas")
	helpersID := ident.NodeID("src/Helpers.pas")
	foundMainToHelpers := false
	for _, e := range resolved {
		if e.Source == mainID && e.Target == helpersID {
			foundMainToHelpers = true
			assert.Equal(t, model.EdgeUses, e.Type)
			assert.Equal(t, "Helpers", e.Label)
		}
	}
	assert.True(t, foundMainToHelpers)

	// UnknownUnit and SysUtils dangle, with deterministic target ids.
	require.NotEmpty(t, dangling)
	labels := map[string]model.Edge{}
	for _, e := range dangling {
		labels[e.Label] = e
	}
	require.Contains(t, labels, "UnknownUnit")
	assert.Equal(t, model.EdgeImplementsUses, labels["UnknownUnit"].Type)
	assert.Equal(t, ident.NodeID("unit:unknownunit"), labels["UnknownUnit"].Target)
	assert.Equal(t, true, labels["UnknownUnit"].Metadata["unresolved"])
}

func TestDetectFilePairs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/MAIN.pas", "unit Main;\ninterface\nimplementation\nend.")
	writeFile(t, root, "src/main.dfm", "object MainForm: TMainForm\nend")
	writeFile(t, root, "src/Lonely.pas", "unit Lonely;\ninterface\nimplementation\nend.")

	p := New()
	result, err := p.ParseProject(context.Background(), root, parser.DefaultConfig(), nil)
	require.NoError(t, err)

	pairs := p.DetectFilePairs(result)
	require.Len(t, pairs, 1, "stem matching is case-insensitive")
	assert.Equal(t, ident.NodeID("src/MAIN.pas"), pairs[0].Source)
	assert.Equal(t, ident.NodeID("src/main.dfm"), pairs[0].Target)
	assert.True(t, pairs[0].Bidirectional)
	assert.Equal(t, model.EdgeFilePair, pairs[0].Type)
}

func TestBuildGraph_Deterministic(t *testing.T) {
	root := fixtureProject(t)
	p := New()

	build := func() model.Graph {
		result, err := p.ParseProject(context.Background(), root, parser.DefaultConfig(), nil)
		require.NoError(t, err)
		return parser.BuildGraph(p, result)
	}

	first := build()
	second := build()
	require.Equal(t, len(first.Nodes), len(second.Nodes))
	require.Equal(t, len(first.Edges), len(second.Edges))
	for i := range first.Nodes {
		assert.Equal(t, first.Nodes[i].ID, second.Nodes[i].ID)
	}
	for i := range first.Edges {
		assert.Equal(t, first.Edges[i].ID, second.Edges[i].ID)
	}
}
