package taxonomy

import (
	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
)

// Validity is the outcome of checking a record's category pair.
type Validity int

const (
	Valid Validity = iota
	// OrphanedSubcategory means the category is known but the subcategory
	// does not belong to it.
	OrphanedSubcategory
	UnknownCategory
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case OrphanedSubcategory:
		return "orphaned_subcategory"
	default:
		return "unknown_category"
	}
}

// Classify checks the category/subcategory pair of a record against the
// taxonomy it was written under.
//
// Every aggregation path applies the same rule to the result: only Valid
// records fill subcategory slots, while all records count toward totals and
// asset-class buckets.
func Classify(a domain.Asset, def domain.TaxonomyVersion) Validity {
	g, ok := table(a.Version(def))[a.Category]
	if !ok {
		return UnknownCategory
	}
	if !lo.ContainsBy(g.Subcategories, func(o Option) bool { return o.Value == a.Subcategory }) {
		return OrphanedSubcategory
	}
	return Valid
}

// InferVersion returns the taxonomy a category implies: legacy for the
// categories that only exist in the legacy scheme, current otherwise.
func InferVersion(c domain.Category) domain.TaxonomyVersion {
	if _, ok := currentByCategory[c]; !ok {
		if _, ok := legacyByCategory[c]; ok {
			return domain.TaxonomyLegacy
		}
	}
	return domain.TaxonomyCurrent
}

// TagLegacy tags an untagged record whose category only exists in the legacy
// scheme. Tagged records and all other categories are returned unchanged.
func TagLegacy(a domain.Asset) domain.Asset {
	if a.TaxonomyVersion == "" && InferVersion(a.Category) == domain.TaxonomyLegacy {
		a.TaxonomyVersion = domain.TaxonomyLegacy
	}
	return a
}
