package model

import "sort"

// GeneSet is a membership set of normalized gene symbols.
type GeneSet map[string]struct{}

func NewGeneSet(genes []string) GeneSet {
	set := make(GeneSet, len(genes))
	for _, g := range genes {
		set[g] = struct{}{}
	}
	return set
}

func (s GeneSet) Has(gene string) bool {
	_, ok := s[gene]
	return ok
}

// Sorted returns the members in alphabetical order.
func (s GeneSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Module is a group of genes that are more densely connected to each other
// than to the rest of the network.
type Module struct {
	ID    int      `json:"id"`
	Genes []string `json:"genes"`
}
