// Package export shapes interaction lists for tables and downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agenthands/genepath/internal/core/model"
)

var Header = []string{"Gene A", "Gene B", "Confidence"}

const CSVFileName = "gene_interactions.csv"

type Row struct {
	GeneA      string  `json:"gene_a"`
	GeneB      string  `json:"gene_b"`
	Confidence float64 `json:"confidence"`
}

// Table returns the interactions as display rows, highest confidence first.
// Equal scores keep their fetch order.
func Table(interactions []model.Interaction) []Row {
	rows := make([]Row, len(interactions))
	for i, in := range interactions {
		rows[i] = Row{GeneA: in.GeneA, GeneB: in.GeneB, Confidence: in.Score}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Confidence > rows[j].Confidence
	})
	return rows
}

// CSV writes one row per interaction in fetch order, unlike Table.
func CSV(interactions []model.Interaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, in := range interactions {
		record := []string{in.GeneA, in.GeneB, strconv.FormatFloat(in.Score, 'f', -1, 64)}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Text renders rows as an aligned plain-text table for terminals.
func Text(rows []Row) string {
	widthA, widthB := len(Header[0]), len(Header[1])
	for _, r := range rows {
		if len(r.GeneA) > widthA {
			widthA = len(r.GeneA)
		}
		if len(r.GeneB) > widthB {
			widthB = len(r.GeneB)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s  %-*s  %s\n", widthA, Header[0], widthB, Header[1], Header[2])
	fmt.Fprintf(&sb, "%s  %s  %s\n", strings.Repeat("-", widthA), strings.Repeat("-", widthB), strings.Repeat("-", len(Header[2])))
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-*s  %-*s  %.3f\n", widthA, r.GeneA, widthB, r.GeneB, r.Confidence)
	}
	return sb.String()
}
