package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/devpware/codeatlas/internal/model"
)

// JSON writes an indented, stable serialization of the graph. Nodes and
// edges are sorted by id first so the output is byte-identical across runs
// regardless of assembly order.
func JSON(w io.Writer, g *model.Graph) error {
	out := sortedCopy(g)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// JSONBytes is JSON rendered to a byte slice.
func JSONBytes(g *model.Graph) ([]byte, error) {
	out := sortedCopy(g)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return data, nil
}

// sortedCopy clones the graph with nodes and edges in id order. The input
// is left untouched.
func sortedCopy(g *model.Graph) *model.Graph {
	out := &model.Graph{
		Nodes:    make([]model.Node, len(g.Nodes)),
		Edges:    make([]model.Edge, len(g.Edges)),
		Metadata: g.Metadata,
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)

	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i].ID < out.Nodes[j].ID })
	sort.Slice(out.Edges, func(i, j int) bool { return out.Edges[i].ID < out.Edges[j].ID })
	return out
}
