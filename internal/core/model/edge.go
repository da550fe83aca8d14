package model

import "fmt"

// Interaction is an ordered (GeneA, GeneB, Score) triple as returned by the
// interaction database. (A,B) and (B,A) are distinct interactions.
type Interaction struct {
	GeneA string  `json:"gene_a"`
	GeneB string  `json:"gene_b"`
	Score float64 `json:"score"`
}

func (i Interaction) String() string {
	return fmt.Sprintf("%s interacts with %s (confidence %.2f)", i.GeneA, i.GeneB, i.Score)
}
