// Package report renders the dashboard summary as Markdown.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/portfolio"
)

var classLabels = map[domain.AssetClass]string{
	domain.AssetClassCash:   "現金",
	domain.AssetClassStocks: "株式",
	domain.AssetClassBonds:  "債券",
	domain.AssetClassCrypto: "仮想通貨",
	domain.AssetClassOther:  "その他",
}

var expenseLabels = map[domain.ExpenseCategory]string{
	domain.ExpenseFood:          "食費",
	domain.ExpenseDining:        "外食",
	domain.ExpenseTransport:     "交通費",
	domain.ExpenseUtilities:     "光熱費",
	domain.ExpenseEntertainment: "娯楽",
	domain.ExpenseShopping:      "買い物",
	domain.ExpenseHealthcare:    "医療",
	domain.ExpenseEducation:     "教育",
	domain.ExpenseOther:         "その他",
}

// Yen formats an amount as Japanese yen, e.g. "¥1,234".
func Yen(amount int64) string {
	return money.New(amount, money.JPY).Display()
}

// ClassLabel returns the display label of an asset class.
func ClassLabel(c domain.AssetClass) string {
	if l, ok := classLabels[c]; ok {
		return l
	}
	return string(c)
}

// Data is everything the summary is built from.
type Data struct {
	Assets   []domain.Asset
	Expenses []domain.Expense
	Taxonomy domain.TaxonomyVersion
	Now      time.Time
	Period   portfolio.Period
}

// Markdown builds the dashboard summary: headline totals, the allocation of
// the latest month, its subcategory breakdown, the monthly trend within the
// period and expense totals per category.
func Markdown(d Data) string {
	ag := portfolio.New(d.Taxonomy)
	series := ag.MonthlySeries(d.Assets)
	growth := portfolio.Growth(series)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("資産レポート %s", d.Now.Format(domain.DateLayout)))

	if len(series) == 0 {
		doc.PlainText("資産データがありません。")
		return doc.String()
	}

	latest := series[len(series)-1]
	doc.PlainText(fmt.Sprintf("総資産（%s）: %s", latest.Month.Format(domain.MonthLayout), Yen(growth.Current)))
	doc.PlainText(fmt.Sprintf("前月比: %s (%+.1f%%)", signedYen(growth.Amount), growth.Percent))

	doc.H2("資産配分")
	alloc := ag.Allocation(d.Assets, portfolio.Latest)
	doc.Table(md.TableSet{
		Header:    []string{"資産クラス", "金額", "割合"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Rows: lo.Map(alloc, func(e domain.AllocationEntry, _ int) []string {
			return []string{ClassLabel(e.AssetClass), Yen(e.Amount), fmt.Sprintf("%.1f%%", e.Percentage)}
		}),
	})

	doc.H2("内訳")
	detail := ag.DetailedAllocation(d.Assets, portfolio.Latest)
	doc.Table(md.TableSet{
		Header:    []string{"項目", "金額", "割合"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Rows: lo.Map(detail, func(e domain.SubcategoryAllocation, _ int) []string {
			return []string{e.Name, Yen(e.Amount), fmt.Sprintf("%.1f%%", e.Percentage)}
		}),
	})

	doc.H2("月次推移")
	period := d.Period
	if period == "" {
		period = portfolio.Period1Y
	}
	trend := portfolio.FilterPeriod(series, period, d.Now)
	doc.Table(md.TableSet{
		Header:    []string{"月", "総資産"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Rows: lo.Map(trend, func(b domain.MonthBucket, _ int) []string {
			return []string{b.Month.Format(domain.MonthLayout), Yen(b.Total)}
		}),
	})

	if len(d.Expenses) > 0 {
		doc.H2("支出")
		doc.Table(md.TableSet{
			Header:    []string{"カテゴリ", "合計"},
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Rows:      expenseRows(d.Expenses),
		})
	}

	return doc.String()
}

func expenseRows(expenses []domain.Expense) [][]string {
	sums := make(map[domain.ExpenseCategory]int64)
	for _, e := range expenses {
		sums[e.Category] += e.Amount
	}
	cats := lo.Keys(sums)
	sort.Slice(cats, func(i, j int) bool {
		if sums[cats[i]] != sums[cats[j]] {
			return sums[cats[i]] > sums[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return lo.Map(cats, func(c domain.ExpenseCategory, _ int) []string {
		label, ok := expenseLabels[c]
		if !ok {
			label = string(c)
		}
		return []string{label, Yen(sums[c])}
	})
}

func signedYen(amount int64) string {
	if amount > 0 {
		return "+" + Yen(amount)
	}
	return Yen(amount)
}

// Render formats Markdown for a terminal, wrapping at width columns.
func Render(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
