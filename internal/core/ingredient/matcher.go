package ingredient

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// ScoreCutoff is the minimum partial-ratio score (0-100) a catalog name must
// reach for a candidate phrase to count as a match.
const ScoreCutoff = 70

// Match finds the catalog id best matching one normalized line's tokens.
//
// Recipe lines usually read "<quantity/adjectives> <core ingredient>", so
// prefixes of the token sequence are tried longest first: all tokens, then
// all but the last, down to the first token alone. The first prefix whose
// best-scoring catalog name clears ScoreCutoff wins and the search stops;
// shorter prefixes are never consulted after a hit. Returns false when no
// prefix at any length clears the cutoff.
func (c *Catalog) Match(tokens []string) (uint, bool) {
	if len(tokens) == 0 || len(c.records) == 0 {
		return 0, false
	}
	for n := len(tokens); n > 0; n-- {
		candidate := strings.Join(tokens[:n], " ")
		bestScore := 0
		var bestID uint
		for _, rec := range c.records {
			score := fuzzy.PartialRatio(candidate, strings.ToLower(rec.Name))
			// Strictly greater keeps the first (lexicographically
			// smallest) name on ties.
			if score > bestScore {
				bestScore = score
				bestID = rec.ID
			}
		}
		if bestScore >= ScoreCutoff {
			return bestID, true
		}
	}
	return 0, false
}
