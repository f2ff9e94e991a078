package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpware/codeatlas/internal/ident"
)

func TestNewNode_Defaults(t *testing.T) {
	n := NewNode("id1", "Main.pas", NodeModule)
	assert.Equal(t, DefaultNodeSize, n.Size)
	assert.Equal(t, NodeModule, n.Type)
}

func TestWithSize_Clamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{7, 7},
		{12, 12},
		{40, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewNode("id", "x", NodeFile).WithSize(tt.in).Size)
	}
}

func TestNewEdge_DerivedID(t *testing.T) {
	a := NewEdge("s", "t", EdgeUses)
	b := NewEdge("s", "t", EdgeUses)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 1.0, a.Weight)

	c := NewEdge("s", "t", EdgeImports)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestNewCustomEdge_LabelInIdentity(t *testing.T) {
	hasMany := NewCustomEdge("s", "t", "has_many")
	belongsTo := NewCustomEdge("s", "t", "belongs_to")

	assert.Equal(t, EdgeCustom, hasMany.Type)
	assert.Equal(t, "has_many", hasMany.Label)
	assert.NotEqual(t, hasMany.ID, belongsTo.ID)
}

func TestGraph_Lookups(t *testing.T) {
	aID := ident.NodeID("a.pas")
	bID := ident.NodeID("b.pas")

	g := &Graph{
		Nodes: []Node{
			NewNode(aID, "a.pas", NodeModule),
			NewNode(bID, "b.pas", NodeModule),
		},
		Edges: []Edge{
			NewEdge(aID, bID, EdgeUses),
			NewEdge(bID, aID, EdgeImplementsUses),
		},
	}

	require.NotNil(t, g.FindNode(aID))
	assert.Nil(t, g.FindNode("missing"))

	assert.Len(t, g.EdgesFrom(aID), 1)
	assert.Len(t, g.EdgesTo(aID), 1)
	assert.Equal(t, 1, g.OutDegree(bID))
	assert.Equal(t, 1, g.InDegree(bID))
}

func TestGraph_Stats(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			NewNode("1", "a", NodeModule),
			NewNode("2", "b", NodeModule),
			NewNode("3", "c", NodeForm),
		},
		Edges: []Edge{NewEdge("1", "2", EdgeUses)},
	}

	s := g.Stats()
	assert.Equal(t, 3, s.NodeCount)
	assert.Equal(t, 1, s.EdgeCount)
	assert.Equal(t, 2, s.NodesByType[NodeModule])
	assert.Equal(t, 1, s.NodesByType[NodeForm])
	assert.Equal(t, 1, s.EdgesByType[EdgeUses])
}

func TestParseResult_Counters(t *testing.T) {
	r := NewParseResult()
	r.AddFile(ParsedFile{Source: SourceFile{Path: "a.pas"}})
	r.AddError("b.pas", "boom")

	assert.Equal(t, 2, r.TotalProcessed)
	assert.Equal(t, 1, r.SuccessCount())
	assert.True(t, r.HasErrors())
	assert.Equal(t, "boom", r.Errors["b.pas"])
}

func TestSourceFile_Helpers(t *testing.T) {
	pas := SourceFile{Name: "Main.pas", Extension: "pas"}
	assert.True(t, pas.IsDelphiUnit())
	assert.Equal(t, "Main", pas.Stem())

	fmx := SourceFile{Name: "Main.fmx", Extension: "fmx"}
	assert.True(t, fmx.IsDelphiForm())

	blade := SourceFile{Name: "index.blade.php", Extension: "php"}
	assert.True(t, blade.IsPHP())
	assert.True(t, blade.IsBlade())
	assert.False(t, SourceFile{Name: "index.php", Extension: "php"}.IsBlade())
}
