package model

import (
	"time"

	"github.com/devpware/codeatlas/internal/ident"
)

const (
	// DefaultNodeSize is used when a parser has no better estimate.
	DefaultNodeSize = 4

	minNodeSize = 1
	maxNodeSize = 12
)

// NodeMetadata carries the well-known attributes of a graph node. Extra
// holds parser-specific attributes that have no typed field.
type NodeMetadata struct {
	Path          string     `json:"path,omitempty"`
	QualifiedName string     `json:"qualified_name,omitempty"`
	SymbolKind    SymbolKind `json:"symbol_kind,omitempty"`
	Language      string     `json:"language,omitempty"`
	SizeBytes     int64      `json:"size_bytes,omitempty"`
	LineCount     int        `json:"line_count,omitempty"`

	// Symbol-node attributes, zero for file nodes.
	Visibility  Visibility `json:"visibility,omitempty"`
	IsAbstract  bool       `json:"is_abstract,omitempty"`
	IsStatic    bool       `json:"is_static,omitempty"`
	ParentClass string     `json:"parent_class,omitempty"`
	Implements  []string   `json:"implements,omitempty"`
	LineStart   int        `json:"line_start,omitempty"`
	LineEnd     int        `json:"line_end,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Node is a vertex in the unified graph. ID is content-addressed from the
// relative path (plus symbol name for symbol nodes), so re-analyzing an
// unchanged tree reproduces identical ids.
type Node struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Type     NodeType     `json:"type"`
	Size     int          `json:"size"`
	Metadata NodeMetadata `json:"metadata"`
}

// NewNode returns a node with the default size.
func NewNode(id, label string, typ NodeType) Node {
	return Node{ID: id, Label: label, Type: typ, Size: DefaultNodeSize}
}

// WithSize returns a copy of the node with size clamped to the valid range.
func (n Node) WithSize(size int) Node {
	n.Size = ClampNodeSize(size)
	return n
}

// ClampNodeSize forces size into the renderable 1..12 range.
func ClampNodeSize(size int) int {
	if size < minNodeSize {
		return minNodeSize
	}
	if size > maxNodeSize {
		return maxNodeSize
	}
	return size
}

// Edge is a directed, typed relationship between two nodes. ID is derived
// from (source, target, type): emitting the same relationship twice yields
// the same id.
type Edge struct {
	ID            string         `json:"id"`
	Source        string         `json:"source"`
	Target        string         `json:"target"`
	Type          EdgeType       `json:"type"`
	Label         string         `json:"label,omitempty"`
	Weight        float64        `json:"weight"`
	Bidirectional bool           `json:"bidirectional"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewEdge returns an edge with weight 1 and a derived id. For EdgeCustom
// the label participates in identity so distinct custom relationships
// between the same pair stay distinct.
func NewEdge(source, target string, typ EdgeType) Edge {
	return Edge{
		ID:     ident.EdgeID(source, target, string(typ)),
		Source: source,
		Target: target,
		Type:   typ,
		Weight: 1.0,
	}
}

// NewCustomEdge returns a custom-typed edge labelled with the relationship
// name, which is folded into the edge id.
func NewCustomEdge(source, target, label string) Edge {
	e := Edge{
		ID:     ident.EdgeID(source, target, "custom:"+label),
		Source: source,
		Target: target,
		Type:   EdgeCustom,
		Label:  label,
		Weight: 1.0,
	}
	return e
}

// GraphMetadata describes the project a graph was built from.
type GraphMetadata struct {
	ProjectName   string    `json:"project_name"`
	RootPath      string    `json:"root_path"`
	Language      string    `json:"language"`
	TotalFiles    int       `json:"total_files"`
	TotalLines    int       `json:"total_lines,omitempty"`
	ScannedAt     time.Time `json:"scanned_at,omitzero"`
	ParserVersion string    `json:"parser_version"`
}

// Graph is the unified, language-agnostic property graph. It is a plain
// value: assembly happens in memory and nothing is persisted.
type Graph struct {
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}

// FindNode returns the node with the given id, or nil.
func (g *Graph) FindNode(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// EdgesFrom returns all edges whose source is the given node.
func (g *Graph) EdgesFrom(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// EdgesTo returns all edges whose target is the given node.
func (g *Graph) EdgesTo(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// OutDegree counts edges leaving the node.
func (g *Graph) OutDegree(id string) int { return len(g.EdgesFrom(id)) }

// InDegree counts edges entering the node.
func (g *Graph) InDegree(id string) int { return len(g.EdgesTo(id)) }

// GraphStats summarizes a graph for status output.
type GraphStats struct {
	NodeCount   int              `json:"node_count"`
	EdgeCount   int              `json:"edge_count"`
	NodesByType map[NodeType]int `json:"nodes_by_type"`
	EdgesByType map[EdgeType]int `json:"edges_by_type"`
}

// Stats computes node and edge counts by type.
func (g *Graph) Stats() GraphStats {
	s := GraphStats{
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		NodesByType: make(map[NodeType]int),
		EdgesByType: make(map[EdgeType]int),
	}
	for _, n := range g.Nodes {
		s.NodesByType[n.Type]++
	}
	for _, e := range g.Edges {
		s.EdgesByType[e.Type]++
	}
	return s
}
