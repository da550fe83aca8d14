// Package community groups the genes of an interaction network into modules.
package community

import (
	"fmt"
	"sort"

	"github.com/agenthands/genepath/internal/core/model"
)

const (
	AlgorithmLabelPropagation = "label_propagation"
	AlgorithmComponents       = "components"
)

type Detector interface {
	Detect(genes []string, interactions []model.Interaction) ([]model.Module, error)
}

// NewDetector returns the detector registered under name. An empty name
// selects label propagation.
func NewDetector(name string) (Detector, error) {
	switch name {
	case "", AlgorithmLabelPropagation:
		return NewLabelPropagationDetector(), nil
	case AlgorithmComponents:
		return &ComponentDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown module detection algorithm: %s", name)
	}
}

// ComponentDetector treats every connected component of two or more genes as
// a module.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(genes []string, interactions []model.Interaction) ([]model.Module, error) {
	adj := adjacency(genes, interactions)

	visited := make(map[string]bool, len(genes))
	var groups [][]string
	for _, g := range genes {
		if visited[g] {
			continue
		}
		var component []string
		d.dfs(g, adj, visited, &component)
		groups = append(groups, component)
	}

	return toModules(groups), nil
}

func (d *ComponentDetector) dfs(u string, adj map[string]map[string]int, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// adjacency builds an undirected weighted graph over genes. Interactions that
// touch a gene outside the list are ignored; repeated interactions between
// the same pair add weight.
func adjacency(genes []string, interactions []model.Interaction) map[string]map[string]int {
	adj := make(map[string]map[string]int, len(genes))
	for _, g := range genes {
		adj[g] = make(map[string]int)
	}
	for _, in := range interactions {
		if in.GeneA == in.GeneB {
			continue
		}
		if _, ok := adj[in.GeneA]; !ok {
			continue
		}
		if _, ok := adj[in.GeneB]; !ok {
			continue
		}
		adj[in.GeneA][in.GeneB]++
		adj[in.GeneB][in.GeneA]++
	}
	return adj
}

// toModules drops singletons, sorts genes inside each group, orders groups by
// size (largest first) then by first gene, and numbers them from zero.
func toModules(groups [][]string) []model.Module {
	var kept [][]string
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		sorted := append([]string(nil), g...)
		sort.Strings(sorted)
		kept = append(kept, sorted)
	}

	sort.Slice(kept, func(i, j int) bool {
		if len(kept[i]) != len(kept[j]) {
			return len(kept[i]) > len(kept[j])
		}
		return kept[i][0] < kept[j][0]
	})

	modules := make([]model.Module, len(kept))
	for i, g := range kept {
		modules[i] = model.Module{ID: i, Genes: g}
	}
	return modules
}

// Membership maps each gene to the ID of the module that contains it.
func Membership(modules []model.Module) map[string]int {
	out := make(map[string]int)
	for _, m := range modules {
		for _, g := range m.Genes {
			out[g] = m.ID
		}
	}
	return out
}
