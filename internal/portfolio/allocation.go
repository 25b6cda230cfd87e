package portfolio

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// Latest selects the month of the most recent record date.
const Latest = "latest"

const unclassified domain.Subcategory = "unclassified"

// Allocation returns the asset-class breakdown of one month. selector is a
// YYYY-MM month or Latest. An empty or zero-total month yields no entries. A
// class whose records sum to zero in a month with a positive total is kept at
// 0%.
func (ag Aggregator) Allocation(records []domain.Asset, selector string) []domain.AllocationEntry {
	month, ok := resolveMonth(records, selector)
	if !ok {
		return []domain.AllocationEntry{}
	}
	return ag.allocate(lo.Filter(records, func(r domain.Asset, _ int) bool {
		return r.Month() == month
	}))
}

// LatestSnapshotAllocation returns the asset-class breakdown of the records
// dated exactly on the most recent record date.
func (ag Aggregator) LatestSnapshotAllocation(records []domain.Asset) []domain.AllocationEntry {
	latest, ok := latestDate(records)
	if !ok {
		return []domain.AllocationEntry{}
	}
	return ag.allocate(lo.Filter(records, func(r domain.Asset, _ int) bool {
		return r.Date == latest
	}))
}

func (ag Aggregator) allocate(records []domain.Asset) []domain.AllocationEntry {
	sums := make(map[domain.AssetClass]int64)
	var total int64
	for _, r := range records {
		v := domain.AfterTax(r)
		sums[taxonomy.AssetClassOf(r.Version(ag.Taxonomy), r.Category)] += v
		total += v
	}

	entries := []domain.AllocationEntry{}
	if total == 0 {
		return entries
	}
	for _, cls := range taxonomy.ClassOrder {
		amount, ok := sums[cls]
		if !ok {
			continue
		}
		entries = append(entries, domain.AllocationEntry{
			AssetClass: cls,
			Amount:     amount,
			Percentage: domain.Percentage(amount, total),
		})
	}
	return entries
}

// DetailedAllocation returns the per-subcategory breakdown of one month,
// largest first. Records outside the subcategory slots are grouped as
// "unclassified".
func (ag Aggregator) DetailedAllocation(records []domain.Asset, selector string) []domain.SubcategoryAllocation {
	entries := []domain.SubcategoryAllocation{}
	month, ok := resolveMonth(records, selector)
	if !ok {
		return entries
	}

	sums := make(map[domain.Subcategory]int64)
	var total int64
	for _, r := range records {
		if r.Month() != month {
			continue
		}
		key := r.Subcategory
		if taxonomy.Classify(r, ag.Taxonomy) != taxonomy.Valid {
			key = unclassified
		}
		v := domain.AfterTax(r)
		sums[key] += v
		total += v
	}

	if total == 0 {
		return entries
	}
	for sub, amount := range sums {
		entries = append(entries, domain.SubcategoryAllocation{
			Subcategory: sub,
			Name:        subcategoryName(sub),
			Amount:      amount,
			Percentage:  domain.Percentage(amount, total),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Subcategory < entries[j].Subcategory
	})
	return entries
}

func subcategoryName(s domain.Subcategory) string {
	if s == unclassified {
		return "未分類"
	}
	return taxonomy.SubcategoryLabel(s)
}

// resolveMonth turns a selector into a YYYY-MM month. Selectors that are
// neither Latest nor a well-formed month select nothing.
func resolveMonth(records []domain.Asset, selector string) (string, bool) {
	if selector != Latest {
		m, err := time.Parse(domain.MonthLayout, selector)
		if err != nil {
			return "", false
		}
		return m.Format(domain.MonthLayout), true
	}
	latest, ok := latestDate(records)
	if !ok {
		return "", false
	}
	return latest[:7], true
}

// latestDate returns the greatest well-formed record date. ISO dates compare
// correctly as strings.
func latestDate(records []domain.Asset) (string, bool) {
	var latest string
	for _, r := range records {
		if _, ok := r.ParsedDate(); !ok {
			continue
		}
		if r.Date > latest {
			latest = r.Date
		}
	}
	return latest, latest != ""
}
