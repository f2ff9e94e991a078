package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

// Mermaid renders the graph as a Mermaid "graph TD" diagram. Node shape
// follows node type and labelled edges carry their label on the arrow.
// Output order is sorted by id, matching JSON.
func Mermaid(g *model.Graph) string {
	nodes := make([]model.Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]model.Edge, len(g.Edges))
	copy(edges, g.Edges)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	// Mermaid identifiers must be alphanumeric; map graph ids to N0, N1, ...
	ids := make(map[string]string, len(nodes))
	for i, n := range nodes {
		ids[n.ID] = fmt.Sprintf("N%d", i)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range nodes {
		open, end := nodeShape(n.Type)
		sb.WriteString(fmt.Sprintf("  %s%s\"%s\"%s\n", ids[n.ID], open, mermaidLabel(n.Label), end))
	}

	for _, e := range edges {
		src, ok := ids[e.Source]
		if !ok {
			continue
		}
		tgt, ok := ids[e.Target]
		if !ok {
			// Dangling edge: synthesize a target node on first sight.
			tgt = fmt.Sprintf("X%d", len(ids))
			ids[e.Target] = tgt
			label := e.Label
			if label == "" {
				label = e.Target[:8]
			}
			sb.WriteString(fmt.Sprintf("  %s[/\"%s\"/]\n", tgt, mermaidLabel(label)))
		}

		arrow := "-->"
		if e.Bidirectional {
			arrow = "<-->"
		}
		if e.Type == model.EdgeCustom && e.Label != "" {
			sb.WriteString(fmt.Sprintf("  %s %s|%s| %s\n", src, arrow, mermaidLabel(e.Label), tgt))
		} else {
			sb.WriteString(fmt.Sprintf("  %s %s|%s| %s\n", src, arrow, string(e.Type), tgt))
		}
	}

	return sb.String()
}

// nodeShape picks the Mermaid bracket pair for a node type.
func nodeShape(t model.NodeType) (string, string) {
	switch t {
	case model.NodeClass, model.NodeController, model.NodeModel, model.NodeService:
		return "(", ")"
	case model.NodeInterface, model.NodeContract:
		return "{{", "}}"
	case model.NodeForm, model.NodeBladeView, model.NodeInertiaPage:
		return "([", "])"
	case model.NodeRoute:
		return ">", "]"
	default:
		return "[", "]"
	}
}

// mermaidLabel strips characters that break Mermaid string labels.
func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
