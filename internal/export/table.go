package export

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/portfolio"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// Row labels of the summary rows below the subcategory rows.
const (
	LabelTotal         = "合計"
	LabelMonthChange   = "先月対比"
	LabelMonthChangePc = "先月対比(%)"
	LabelYearChange    = "昨年同月対比"
	LabelYearChangePc  = "昨年同月対比(%)"
	subtotalSuffix     = " 小計"
)

// Table is the month-by-subcategory grid of one fiscal year.
// Rows[0] is the header; every row has two label columns then one cell per month.
// Empty cells are nil.
type Table struct {
	FiscalYear int
	Months     []string
	Rows       [][]any
}

// SheetName is the spreadsheet tab name of the table, e.g. "FY2024".
func (t Table) SheetName() string {
	return fmt.Sprintf("FY%d", t.FiscalYear)
}

// Title is the display title, e.g. "2024年度 (2024年4月〜2025年3月)".
func (t Table) Title() string {
	return fmt.Sprintf("%d年度 (%d年4月〜%d年3月)", t.FiscalYear, t.FiscalYear, t.FiscalYear+1)
}

type rowKey struct {
	category    domain.Category
	subcategory domain.Subcategory
}

// BuildMonthlyTables lays out after-tax amounts per subcategory and month, one
// table per fiscal year, newest year first. Rows follow the category order of
// the default taxonomy and only subcategories holding at least one record are
// listed. Records with an unknown category or orphaned subcategory fill no row
// but still count toward the totals.
func BuildMonthlyTables(records []domain.Asset, def domain.TaxonomyVersion, now time.Time) []Table {
	groups := taxonomy.Groups(def)
	rowOf := make(map[domain.Subcategory]rowKey)
	for _, g := range groups {
		for _, o := range g.Subcategories {
			rowOf[o.Value] = rowKey{g.Category, o.Value}
		}
	}

	cells := make(map[rowKey]map[string]int64)
	totals := make(map[string]int64)
	for _, r := range records {
		month := r.Month()
		if month == "" {
			continue
		}
		v := domain.AfterTax(r)
		totals[month] += v

		if taxonomy.Classify(r, def) != taxonomy.Valid {
			continue
		}
		key, ok := rowOf[r.Subcategory]
		if !ok {
			continue
		}
		if cells[key] == nil {
			cells[key] = make(map[string]int64)
		}
		cells[key][month] += v
	}

	type usedGroup struct {
		group taxonomy.Group
		subs  []taxonomy.Option
	}
	used := lo.FilterMap(groups, func(g taxonomy.Group, _ int) (usedGroup, bool) {
		subs := lo.Filter(g.Subcategories, func(o taxonomy.Option, _ int) bool {
			_, ok := cells[rowKey{g.Category, o.Value}]
			return ok
		})
		return usedGroup{g, subs}, len(subs) > 0
	})

	months := portfolio.MonthRange(records, now)
	inRange := lo.SliceToMap(months, func(m string) (string, bool) { return m, true })
	fyGroups := portfolio.GroupByFiscalYear(months)
	tables := make([]Table, 0, len(fyGroups))
	for i := len(fyGroups) - 1; i >= 0; i-- {
		fy := fyGroups[i]
		rows := [][]any{header(fy.Months)}

		for _, ug := range used {
			for j, o := range ug.subs {
				label := ""
				if j == 0 {
					label = ug.group.Label
				}
				byMonth := cells[rowKey{ug.group.Category, o.Value}]
				rows = append(rows, row(label, o.Label, fy.Months, func(m string) any {
					return amountOrNil(byMonth[m])
				}))
			}
		}

		rows = append(rows,
			row(LabelTotal, "", fy.Months, func(m string) any { return totals[m] }),
			row(LabelMonthChange, "", fy.Months, func(m string) any {
				prev := shiftMonth(m, -1)
				if !inRange[prev] {
					return nil
				}
				return totals[m] - totals[prev]
			}),
			row(LabelMonthChangePc, "", fy.Months, func(m string) any {
				return changePercent(totals[m], totals[shiftMonth(m, -1)])
			}),
			row(LabelYearChange, "", fy.Months, func(m string) any {
				last := totals[shiftMonth(m, -12)]
				if last == 0 && totals[m] == 0 {
					return nil
				}
				return totals[m] - last
			}),
			row(LabelYearChangePc, "", fy.Months, func(m string) any {
				return changePercent(totals[m], totals[shiftMonth(m, -12)])
			}),
		)

		for _, ug := range used {
			rows = append(rows, row(ug.group.Label+subtotalSuffix, "", fy.Months, func(m string) any {
				return lo.SumBy(ug.subs, func(o taxonomy.Option) int64 {
					return cells[rowKey{ug.group.Category, o.Value}][m]
				})
			}))
		}

		tables = append(tables, Table{FiscalYear: fy.Year, Months: fy.Months, Rows: rows})
	}
	return tables
}

func header(months []string) []any {
	return row("カテゴリ", "詳細", months, func(m string) any { return MonthLabel(m) })
}

func row(label, detail string, months []string, cell func(string) any) []any {
	out := make([]any, 0, len(months)+2)
	out = append(out, label, detail)
	for _, m := range months {
		out = append(out, cell(m))
	}
	return out
}

// MonthLabel renders YYYY-MM as "2024年4月".
func MonthLabel(month string) string {
	t, err := time.Parse(domain.MonthLayout, month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
}

func shiftMonth(month string, n int) string {
	t, err := time.Parse(domain.MonthLayout, month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, n, 0).Format(domain.MonthLayout)
}

func amountOrNil(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

// changePercent returns the change against base in percent with one decimal,
// or nil when there is no base to compare against.
func changePercent(value, base int64) any {
	if base <= 0 {
		return nil
	}
	return decimal.NewFromFloat(domain.Percentage(value-base, base)).Round(1).InexactFloat64()
}
