package model

import (
	"fmt"
	"sort"
	"strings"
)

// Query identifies one interaction lookup. Two queries with the same gene
// set and threshold share a Key regardless of gene order.
type Query struct {
	Genes     []string `json:"genes"`
	Threshold float64  `json:"threshold"`
}

func (q Query) Key() string {
	genes := append([]string(nil), q.Genes...)
	sort.Strings(genes)
	return fmt.Sprintf("%s|%.4f", strings.Join(genes, ","), q.Threshold)
}
