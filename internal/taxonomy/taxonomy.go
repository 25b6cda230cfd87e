// Package taxonomy holds the static two-level asset classification and the
// category to asset-class grouping used by the allocation view.
package taxonomy

import (
	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
)

// Option is a {value, label} pair for a subcategory.
type Option struct {
	Value domain.Subcategory `json:"value"`
	Label string             `json:"label"`
}

// Group is one major category with its ordered subcategories.
type Group struct {
	Category      domain.Category `json:"category"`
	Label         string          `json:"label"`
	Subcategories []Option        `json:"subcategories"`
}

var cashOptions = []Option{
	{"bank_ordinary", "銀行普通預金"},
	{"bank_time", "銀行定期預金"},
	{"postal_ordinary", "ゆうちょ通常貯金"},
	{"time_deposit", "積立定期"},
	{"zaikeishochiku", "財形貯蓄"},
	{"foreign_currency", "外貨預金"},
	{"cash_hand", "現金（手元）"},
	{"cash_other", "その他"},
}

var securitiesOptions = []Option{
	{"securities_general", "証券口座"},
	{"nisa_tsumitate", "NISAつみたて投資枠"},
	{"nisa_general", "NISA成長投資枠"},
	{"ideco_investment", "iDeCo"},
	{"pension_corporate", "企業年金（企業型DC）"},
	{"pension_individual", "個人年金保険"},
	{"real_estate_investment", "不動産投資"},
	{"securities_other", "その他"},
}

var cryptoOptions = []Option{
	{"crypto_btc", "BTC"},
	{"crypto_eth", "ETH"},
	{"crypto_sol", "SOL"},
	{"crypto_other", "その他"},
}

var otherOptions = []Option{
	{"other_nft", "NFT"},
	{"other_financie", "FiNANCiE"},
	{"other_assets", "その他"},
}

// current is the active 4-way taxonomy.
var current = []Group{
	{domain.CategoryCash, "現金・預金", cashOptions},
	{domain.CategorySecurities, "証券・投資", securitiesOptions},
	{domain.CategoryCrypto, "仮想通貨", cryptoOptions},
	{domain.CategoryOther, "その他", otherOptions},
}

// legacy is the 7-way taxonomy. Tax-advantaged wrappers were top-level
// categories; their subcategory keys are the same slots the current scheme
// files under securities.
var legacy = []Group{
	{domain.CategoryCash, "現金・預金", cashOptions},
	{domain.CategorySecurities, "証券口座", []Option{
		{"securities_general", "証券口座"},
		{"real_estate_investment", "不動産投資"},
		{"securities_other", "その他"},
	}},
	{domain.CategoryNISA, "NISA", []Option{
		{"nisa_tsumitate", "NISAつみたて投資枠"},
		{"nisa_general", "NISA成長投資枠"},
	}},
	{domain.CategoryIDeCo, "iDeCo", []Option{
		{"ideco_investment", "iDeCo"},
	}},
	{domain.CategoryPension, "年金", []Option{
		{"pension_corporate", "企業年金（企業型DC）"},
		{"pension_individual", "個人年金保険"},
	}},
	{domain.CategoryCrypto, "仮想通貨", cryptoOptions},
	{domain.CategoryOther, "その他", otherOptions},
}

var (
	currentByCategory = lo.KeyBy(current, func(g Group) domain.Category { return g.Category })
	legacyByCategory  = lo.KeyBy(legacy, func(g Group) domain.Category { return g.Category })

	// slots is the union of subcategory keys across the current taxonomy, in display order.
	slots = lo.FlatMap(current, func(g Group, _ int) []domain.Subcategory {
		return lo.Map(g.Subcategories, func(o Option, _ int) domain.Subcategory { return o.Value })
	})

	subcategoryLabels = lo.Assign(
		lo.SliceToMap(lo.FlatMap(legacy, func(g Group, _ int) []Option { return g.Subcategories }),
			func(o Option) (domain.Subcategory, string) { return o.Value, o.Label }),
		lo.SliceToMap(lo.FlatMap(current, func(g Group, _ int) []Option { return g.Subcategories }),
			func(o Option) (domain.Subcategory, string) { return o.Value, o.Label }),
	)
)

func table(v domain.TaxonomyVersion) map[domain.Category]Group {
	if v == domain.TaxonomyLegacy {
		return legacyByCategory
	}
	return currentByCategory
}

// Groups returns the ordered category groups of the given taxonomy version.
func Groups(v domain.TaxonomyVersion) []Group {
	if v == domain.TaxonomyLegacy {
		return append([]Group(nil), legacy...)
	}
	return append([]Group(nil), current...)
}

// Lookup returns the label and ordered subcategories of a category.
func Lookup(v domain.TaxonomyVersion, c domain.Category) (Group, bool) {
	g, ok := table(v)[c]
	return g, ok
}

// Label returns the display label of a category, or the raw key when unknown.
func Label(v domain.TaxonomyVersion, c domain.Category) string {
	if g, ok := table(v)[c]; ok {
		return g.Label
	}
	return string(c)
}

// SubcategoryLabel returns the display label of a subcategory, or the raw key when unknown.
func SubcategoryLabel(s domain.Subcategory) string {
	if l, ok := subcategoryLabels[s]; ok {
		return l
	}
	return string(s)
}

// Slots returns every subcategory key a month bucket tracks.
func Slots() []domain.Subcategory {
	return append([]domain.Subcategory(nil), slots...)
}

// IsSlot reports whether s is a tracked month-bucket slot.
func IsSlot(s domain.Subcategory) bool {
	return lo.Contains(slots, s)
}
