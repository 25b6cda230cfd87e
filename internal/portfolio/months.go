package portfolio

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
)

// FiscalYearGroup holds the months of one April-to-March fiscal year.
type FiscalYearGroup struct {
	Year   int      `json:"year"`
	Months []string `json:"months"`
}

// AvailableMonths returns the distinct YYYY-MM months present, newest first.
func AvailableMonths(records []domain.Asset) []string {
	months := lo.Uniq(lo.FilterMap(records, func(r domain.Asset, _ int) (string, bool) {
		m := r.Month()
		return m, m != ""
	}))
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// FiscalYear returns the April-to-March fiscal year a YYYY-MM month belongs to.
func FiscalYear(month string) (int, bool) {
	t, err := time.Parse(domain.MonthLayout, month)
	if err != nil {
		return 0, false
	}
	if t.Month() >= time.April {
		return t.Year(), true
	}
	return t.Year() - 1, true
}

// GroupByFiscalYear partitions months by fiscal year, in ascending year order.
// Malformed months are dropped.
func GroupByFiscalYear(months []string) []FiscalYearGroup {
	byYear := make(map[int][]string)
	for _, m := range months {
		fy, ok := FiscalYear(m)
		if !ok {
			continue
		}
		byYear[fy] = append(byYear[fy], m)
	}

	years := lo.Keys(byYear)
	sort.Ints(years)
	return lo.Map(years, func(y int, _ int) FiscalYearGroup {
		return FiscalYearGroup{Year: y, Months: byYear[y]}
	})
}

// MonthRange lists every month from the first record month through the later
// of the last record month and the month of now. Without records it lists the
// twelve months ending at now.
func MonthRange(records []domain.Asset, now time.Time) []string {
	current := monthStart(now)

	available := AvailableMonths(records)
	if len(available) == 0 {
		return lo.Map(lo.Range(12), func(i int, _ int) string {
			return current.AddDate(0, i-11, 0).Format(domain.MonthLayout)
		})
	}

	start, _ := time.Parse(domain.MonthLayout, available[len(available)-1])
	end, _ := time.Parse(domain.MonthLayout, available[0])
	if current.After(end) {
		end = current
	}

	var months []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format(domain.MonthLayout))
	}
	return months
}

// Period is a chart look-back window.
type Period string

const (
	Period6M  Period = "6m"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	Period20Y Period = "20y"
)

// Cutoff returns the earliest instant included by the period. Unknown periods
// behave like one year.
func (p Period) Cutoff(now time.Time) time.Time {
	switch p {
	case Period6M:
		return now.AddDate(0, -6, 0)
	case Period2Y:
		return now.AddDate(-2, 0, 0)
	case Period5Y:
		return now.AddDate(-5, 0, 0)
	case Period10Y:
		return now.AddDate(-10, 0, 0)
	case Period20Y:
		return now.AddDate(-20, 0, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}

// FilterPeriod keeps the buckets dated on or after the period cutoff.
func FilterPeriod(series []domain.MonthBucket, p Period, now time.Time) []domain.MonthBucket {
	cutoff := p.Cutoff(now)
	return lo.Filter(series, func(b domain.MonthBucket, _ int) bool {
		return !b.Month.Before(cutoff)
	})
}
