// Package portfolio turns flat asset records into the derived views of the
// dashboard: the monthly series, allocation breakdowns and month helpers.
//
// Every function recomputes its result from the full record list and never
// mutates its input.
package portfolio

import "github.com/mtlprog/assetdash/internal/domain"

// Aggregator computes derived views. Taxonomy is the version assumed for
// records that carry no taxonomy tag; the zero value means current.
type Aggregator struct {
	Taxonomy domain.TaxonomyVersion
}

// New creates an Aggregator with the given default taxonomy version.
func New(def domain.TaxonomyVersion) Aggregator {
	return Aggregator{Taxonomy: def}
}
