package ingredient

import "strings"

// Resolve maps a recipe's raw ingredient text (one free-text phrase per
// line) to the ids of the catalog entries it mentions. Ids keep first-seen
// order and are de-duplicated. Lines that normalize to nothing or that no
// catalog name matches contribute nothing; neither is an error.
//
// The catalog snapshot must not be nil; passing one is a caller bug.
func Resolve(rawText string, catalog *Catalog) []uint {
	if catalog == nil {
		panic("ingredient: Resolve called with nil catalog")
	}

	ids := make([]uint, 0)
	seen := make(map[uint]struct{})
	for _, line := range strings.Split(rawText, "\n") {
		normalized := Normalize(line)
		if normalized == "" {
			continue
		}
		id, ok := catalog.Match(strings.Fields(normalized))
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
