// Package genes turns free-text gene symbol input into a canonical gene set.
package genes

import (
	"errors"
	"strings"
	"unicode"

	"github.com/agenthands/genepath/internal/core/model"
)

// MinGenes is the smallest gene set that can have an interaction.
const MinGenes = 2

var (
	ErrNoInput     = errors.New("no gene symbols entered")
	ErrTooFewGenes = errors.New("at least two distinct genes are required")
)

// IsUserInputError reports whether err is a problem with what the user typed.
func IsUserInputError(err error) bool {
	return errors.Is(err, ErrNoInput) || errors.Is(err, ErrTooFewGenes)
}

// Normalize splits input on commas and whitespace, upper-cases every token,
// drops empties and duplicates, and returns the set sorted alphabetically.
// Fewer than MinGenes distinct genes yields the partial set and ErrTooFewGenes.
func Normalize(input string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrNoInput
	}

	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	set := make(model.GeneSet, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}

	genes := set.Sorted()
	if len(genes) < MinGenes {
		return genes, ErrTooFewGenes
	}
	return genes, nil
}
