package ingredient

// Dietary tags derived from a recipe's resolved ingredient set.
const (
	TagContainsMeat   = "contains_meat"
	TagContainsDairy  = "contains_dairy"
	TagContainsGluten = "contains_gluten"
	TagNotVegan       = "not_vegan"
	TagContainsNuts   = "contains_nuts"
	TagVegan          = "vegan"
	TagVegetarian     = "vegetarian"
	TagNutFree        = "nut_free"
	TagKetoFriendly   = "keto_friendly"
)

// Classify aggregates the dietary attributes of the resolved ingredients
// into recipe-level tags. The vegan, vegetarian, nut-free and keto flags
// start true and are cleared by disqualifying ingredients, so an empty
// resolved set yields all four positive tags: nothing disqualified the
// recipe. Dangling ids are skipped.
//
// The catalog snapshot must not be nil; passing one is a caller bug.
func Classify(ids []uint, catalog *Catalog) []string {
	if catalog == nil {
		panic("ingredient: Classify called with nil catalog")
	}

	vegan, vegetarian, nutFree, keto := true, true, true, true
	tags := make([]string, 0, 4)
	add := func(tag string) {
		for _, t := range tags {
			if t == tag {
				return
			}
		}
		tags = append(tags, tag)
	}

	for _, id := range ids {
		rec, ok := catalog.Get(id)
		if !ok {
			continue
		}
		if rec.IsMeat {
			add(TagContainsMeat)
			vegan = false
			vegetarian = false
		}
		if rec.IsDairy {
			add(TagContainsDairy)
			vegan = false
		}
		if rec.ContainsGluten {
			add(TagContainsGluten)
		}
		if !rec.IsVeganSafe {
			add(TagNotVegan)
			vegan = false
		}
		if !rec.IsNutFree {
			add(TagContainsNuts)
			nutFree = false
		}
		if !rec.IsKetoFriendly {
			keto = false
		}
	}

	if vegan {
		add(TagVegan)
	}
	if vegetarian {
		add(TagVegetarian)
	}
	if nutFree {
		add(TagNutFree)
	}
	if keto {
		add(TagKetoFriendly)
	}
	return tags
}
