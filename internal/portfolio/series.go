package portfolio

import (
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// MonthlySeries groups records by calendar month and returns one bucket per
// month in chronological order. Records with a malformed date are skipped.
// Records whose subcategory does not fit their category still count toward the
// bucket total but fill no subcategory slot.
func (ag Aggregator) MonthlySeries(records []domain.Asset) []domain.MonthBucket {
	byMonth := make(map[time.Time]*domain.MonthBucket)

	for _, r := range records {
		d, ok := r.ParsedDate()
		if !ok {
			slog.Warn("skipping asset with malformed date", "id", r.ID, "date", r.Date)
			continue
		}

		key := monthStart(d)
		b, ok := byMonth[key]
		if !ok {
			b = newBucket(key)
			byMonth[key] = b
		}

		v := domain.AfterTax(r)
		b.Total += v

		if validity := taxonomy.Classify(r, ag.Taxonomy); validity != taxonomy.Valid {
			slog.Warn("asset not counted in any subcategory slot",
				"id", r.ID, "category", r.Category, "subcategory", r.Subcategory, "reason", validity.String())
			continue
		}
		b.Subcategories[r.Subcategory] += v
	}

	series := lo.Map(lo.Values(byMonth), func(b *domain.MonthBucket, _ int) domain.MonthBucket { return *b })
	sort.Slice(series, func(i, j int) bool { return series[i].Month.Before(series[j].Month) })
	return series
}

func newBucket(month time.Time) *domain.MonthBucket {
	subs := make(map[domain.Subcategory]int64)
	for _, s := range taxonomy.Slots() {
		subs[s] = 0
	}
	return &domain.MonthBucket{Month: month, Subcategories: subs}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Growth compares the last two buckets of a series.
func Growth(series []domain.MonthBucket) domain.Growth {
	var g domain.Growth
	if n := len(series); n > 0 {
		g.Current = series[n-1].Total
		if n > 1 {
			g.Previous = series[n-2].Total
		}
	}
	g.Amount = g.Current - g.Previous
	g.Percent = domain.Percentage(g.Amount, g.Previous)
	return g
}
