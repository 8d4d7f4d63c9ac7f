package ingredient

import (
	"sort"
	"strings"
)

// UnknownName is returned when an id points at a catalog entry that no
// longer exists (the entry was deleted after a recipe resolved it).
const UnknownName = "unknown"

// Record is one known ingredient with its dietary attributes.
type Record struct {
	ID             uint
	Name           string
	IsMeat         bool
	IsDairy        bool
	ContainsGluten bool
	IsVeganSafe    bool
	IsNutFree      bool
	IsKetoFriendly bool
}

// Catalog is an immutable snapshot of the known-ingredient set, taken once
// per resolve/classify/rank call. Names are compared case-insensitively.
type Catalog struct {
	records []Record // sorted by lower-cased name
	byID    map[uint]Record
}

// NewCatalog builds a snapshot from the given records. The input slice is
// copied; the snapshot is safe for concurrent use once built.
func NewCatalog(records []Record) *Catalog {
	c := &Catalog{
		records: make([]Record, len(records)),
		byID:    make(map[uint]Record, len(records)),
	}
	copy(c.records, records)
	// Sorted scan order makes the matcher's tie-break deterministic: the
	// lexicographically smallest name wins an equal score.
	sort.Slice(c.records, func(i, j int) bool {
		return strings.ToLower(c.records[i].Name) < strings.ToLower(c.records[j].Name)
	})
	for _, r := range c.records {
		c.byID[r.ID] = r
	}
	return c
}

// Get returns the record for id, if present.
func (c *Catalog) Get(id uint) (Record, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Name returns the display name for id, or UnknownName for dangling ids.
func (c *Catalog) Name(id uint) string {
	if r, ok := c.byID[id]; ok {
		return r.Name
	}
	return UnknownName
}

// Len returns the number of records in the snapshot.
func (c *Catalog) Len() int {
	return len(c.records)
}
