package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/genepath/internal/core/model"
)

func edge(a, b string) model.Interaction {
	return model.Interaction{GeneA: a, GeneB: b, Score: 0.9}
}

func TestLPA_DisconnectedComponents(t *testing.T) {
	// Two triangles with no edge between them.
	genes := []string{"A1", "A2", "A3", "B1", "B2", "B3"}
	interactions := []model.Interaction{
		edge("A1", "A2"), edge("A2", "A3"), edge("A3", "A1"),
		edge("B1", "B2"), edge("B2", "B3"), edge("B3", "B1"),
	}

	modules, err := NewLabelPropagationDetector().Detect(genes, interactions)
	require.NoError(t, err)

	assert.Equal(t, []model.Module{
		{ID: 0, Genes: []string{"A1", "A2", "A3"}},
		{ID: 1, Genes: []string{"B1", "B2", "B3"}},
	}, modules)
}

func TestLPA_BridgeNode(t *testing.T) {
	// Two triangles joined by A3-B1. Intra-cluster edges outweigh the bridge.
	genes := []string{"A1", "A2", "A3", "B1", "B2", "B3"}
	interactions := []model.Interaction{
		edge("A1", "A2"), edge("A2", "A3"), edge("A3", "A1"),
		edge("A3", "B1"),
		edge("B1", "B2"), edge("B2", "B3"), edge("B3", "B1"),
	}

	modules, err := NewLabelPropagationDetector().Detect(genes, interactions)
	require.NoError(t, err)
	assert.Len(t, modules, 2)
}

func TestLPA_LargeClique(t *testing.T) {
	genes := []string{"BRAF", "EGFR", "KRAS", "MAPK1", "MAP2K1"}
	var interactions []model.Interaction
	for i := range genes {
		for j := i + 1; j < len(genes); j++ {
			interactions = append(interactions, edge(genes[i], genes[j]))
		}
	}

	modules, err := NewLabelPropagationDetector().Detect(genes, interactions)
	require.NoError(t, err)

	require.Len(t, modules, 1)
	assert.Len(t, modules[0].Genes, 5)
}

func TestLPA_SingletonsDropped(t *testing.T) {
	genes := []string{"EGFR", "KRAS", "TP53"}
	modules, err := NewLabelPropagationDetector().Detect(genes, []model.Interaction{edge("EGFR", "KRAS")})
	require.NoError(t, err)

	assert.Equal(t, []model.Module{{ID: 0, Genes: []string{"EGFR", "KRAS"}}}, modules)
}

func TestLPA_Empty(t *testing.T) {
	modules, err := NewLabelPropagationDetector().Detect(nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, modules)
}
