// Package render turns genes and interactions into a standalone interactive
// network document drawn by vis-network.
package render

import (
	"fmt"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core/community"
	"github.com/agenthands/genepath/internal/core/model"
)

type Options struct {
	// ShowLabels puts the confidence score on each edge's hover title.
	ShowLabels bool
	// ColorByModule colors genes by module instead of by position.
	ColorByModule bool
	// Seed fixes the layout's random seed. Nil leaves placement random.
	Seed *int64
}

type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
	Module *int   `json:"module,omitempty"`
}

type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Width float64 `json:"width"`
	Color string  `json:"color"`
	Title string  `json:"title"`
}

type Network struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// EdgeWidth scales linearly with confidence: 1 at score 0, 3 at score 1.
func EdgeWidth(score float64) float64 {
	return 1 + 2*score
}

// BuildNetwork creates one node per gene and one edge per interaction. Nodes
// cycle through the palette by gene index unless opts.ColorByModule is set,
// in which case module members share their module's color.
func BuildNetwork(cfg config.RenderConfig, genes []string, interactions []model.Interaction, modules []model.Module, opts Options) Network {
	palette := cfg.Palette
	membership := community.Membership(modules)

	nodes := make([]Node, len(genes))
	for i, g := range genes {
		node := Node{
			ID:    g,
			Label: g,
			Color: palette[i%len(palette)],
			Size:  cfg.NodeSize,
		}
		if id, ok := membership[g]; ok {
			id := id
			node.Module = &id
			if opts.ColorByModule {
				node.Color = palette[id%len(palette)]
			}
		}
		nodes[i] = node
	}

	edges := make([]Edge, len(interactions))
	for i, in := range interactions {
		edge := Edge{
			From:  in.GeneA,
			To:    in.GeneB,
			Width: EdgeWidth(in.Score),
			Color: cfg.EdgeColor,
		}
		if opts.ShowLabels {
			edge.Title = fmt.Sprintf("Confidence: %.2f", in.Score)
		}
		edges[i] = edge
	}

	return Network{Nodes: nodes, Edges: edges}
}
