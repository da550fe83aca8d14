package community

import (
	"sort"

	"github.com/agenthands/genepath/internal/core/model"
)

// LabelPropagationDetector implements community detection using the Label
// Propagation Algorithm. Genes are visited in sorted order and ties go to the
// lexicographically largest label, so results are deterministic.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(genes []string, interactions []model.Interaction) ([]model.Module, error) {
	if len(genes) == 0 {
		return nil, nil
	}

	order := append([]string(nil), genes...)
	sort.Strings(order)

	adj := adjacency(order, interactions)

	// Each gene starts in its own community.
	labels := make(map[string]string, len(order))
	for _, g := range order {
		labels[g] = g
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[string][]string)
	for _, g := range order {
		clusters[labels[g]] = append(clusters[labels[g]], g)
	}

	groups := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		groups = append(groups, c)
	}
	return toModules(groups), nil
}
