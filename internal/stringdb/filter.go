package stringdb

import "github.com/agenthands/genepath/internal/core/model"

// networkRecord is one element of the /api/json/network response. Fields we
// do not use are ignored.
type networkRecord struct {
	StringIDA      string  `json:"stringId_A"`
	StringIDB      string  `json:"stringId_B"`
	PreferredNameA string  `json:"preferredName_A"`
	PreferredNameB string  `json:"preferredName_B"`
	NCBITaxonID    int     `json:"ncbiTaxonId"`
	Score          float64 `json:"score"`
}

// FilterInteractions keeps the records whose score is at least threshold and
// whose two endpoints are both in genes. The service may answer with
// neighbours or aliases outside the query; those are dropped here so the
// network never grows beyond what was asked for. Record order is kept. A NaN
// threshold or score matches nothing.
func FilterInteractions(records []networkRecord, genes []string, threshold float64) []model.Interaction {
	set := model.NewGeneSet(genes)
	out := make([]model.Interaction, 0, len(records))
	for _, r := range records {
		if !(r.Score >= threshold) {
			continue
		}
		if !set.Has(r.PreferredNameA) || !set.Has(r.PreferredNameB) {
			continue
		}
		out = append(out, model.Interaction{
			GeneA: r.PreferredNameA,
			GeneB: r.PreferredNameB,
			Score: r.Score,
		})
	}
	return out
}
