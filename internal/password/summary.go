package password

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// ErrInvalidPassword is returned when a password does not decode to a summary.
var ErrInvalidPassword = errors.New("invalid password")

const (
	maxEntries = 5

	assetUnit   = 1000
	expenseUnit = 100

	// RestoredSubcategory marks assets rebuilt from a password.
	RestoredSubcategory domain.Subcategory = "restored"
	// RestoredMemo is the memo attached to every restored record.
	RestoredMemo = "パスワードから復元"
)

var assetSymbols = map[domain.Category]string{
	domain.CategoryCash:       "ア",
	domain.CategorySecurities: "イ",
	domain.CategoryNISA:       "ウ",
	domain.CategoryIDeCo:      "エ",
	domain.CategoryPension:    "オ",
	domain.CategoryCrypto:     "カ",
	domain.CategoryOther:      "キ",
}

var expenseSymbols = map[domain.ExpenseCategory]string{
	domain.ExpenseFood:          "ク",
	domain.ExpenseDining:        "ケ",
	domain.ExpenseTransport:     "コ",
	domain.ExpenseUtilities:     "サ",
	domain.ExpenseEntertainment: "シ",
	domain.ExpenseShopping:      "ス",
	domain.ExpenseHealthcare:    "セ",
	domain.ExpenseOther:         "ソ",
}

var (
	assetCategories   = lo.Invert(assetSymbols)
	expenseCategories = lo.Invert(expenseSymbols)
)

type entry struct {
	Cat  string  `json:"cat"`
	Amt  float64 `json:"amt"`
	Date string  `json:"date"`
}

type summary struct {
	Assets   []entry `json:"assets"`
	Expenses []entry `json:"expenses"`
	Checksum int     `json:"checksum"`
}

// emptySample is encoded in place of an empty dataset.
var emptySample = summary{
	Assets:   []entry{{Cat: "ウ", Amt: 500, Date: "240716"}},
	Expenses: []entry{{Cat: "ク", Amt: 30, Date: "240716"}},
	Checksum: 2,
}

// Generate encodes the last five assets and last five expenses, in the order
// given. Amounts are floored to thousands of yen for assets and hundreds for
// expenses and dates shrink to YYMMDD. The checksum counts every record passed
// in, not just the encoded ones. When both lists are empty a fixed sample is
// encoded instead.
func Generate(assets []domain.Asset, expenses []domain.Expense) string {
	s := emptySample
	if len(assets) > 0 || len(expenses) > 0 {
		s = summary{
			Assets: lo.Map(lastN(assets, maxEntries), func(a domain.Asset, _ int) entry {
				return entry{Cat: symbolOr(assetSymbols, a.Category, "キ"), Amt: float64(floorDiv(a.Amount, assetUnit)), Date: shortDate(a.Date)}
			}),
			Expenses: lo.Map(lastN(expenses, maxEntries), func(e domain.Expense, _ int) entry {
				return entry{Cat: symbolOr(expenseSymbols, e.Category, "ソ"), Amt: float64(floorDiv(e.Amount, expenseUnit)), Date: shortDate(e.Date)}
			}),
			Checksum: (len(assets) + len(expenses)) % 32,
		}
	}

	// Marshal cannot fail for this shape.
	raw, _ := json.Marshal(s)
	return Encode(raw)
}

// SampleAssets returns the assets behind GenerateSample.
func SampleAssets() []domain.Asset {
	return []domain.Asset{{
		ID:              "1",
		Date:            "2024-01-15",
		Category:        domain.CategoryNISA,
		Subcategory:     "nisa_tsumitate",
		Amount:          500000,
		Memo:            "サンプル",
		TaxonomyVersion: domain.TaxonomyLegacy,
	}}
}

// SampleExpenses returns the expenses behind GenerateSample.
func SampleExpenses() []domain.Expense {
	return []domain.Expense{{ID: "1", Date: "2024-01-15", Category: domain.ExpenseFood, Amount: 3000, Memo: "サンプル"}}
}

// GenerateSample returns the password of a small example dataset.
func GenerateSample() string {
	return Generate(SampleAssets(), SampleExpenses())
}

// Restored is the partial dataset recovered from a password. Subcategories,
// tax rates and sub-unit amounts are not part of a password and are lost.
type Restored struct {
	Assets   []domain.Asset   `json:"assets"`
	Expenses []domain.Expense `json:"expenses"`
	Checksum int              `json:"checksum"`
	// Skipped and Unreachable are copied from the underlying DecodeResult.
	Skipped     []int `json:"skipped,omitempty"`
	Unreachable []int `json:"unreachable,omitempty"`
}

// Degraded reports whether some characters were ignored or misread while
// decoding, so the restored data may be incomplete.
func (r *Restored) Degraded() bool {
	return len(r.Skipped) > 0 || len(r.Unreachable) > 0
}

// DecodePassword rebuilds records from a password. Unknown characters are
// skipped and reported on the result; a payload that is not a summary yields
// ErrInvalidPassword.
func DecodePassword(pw string) (*Restored, error) {
	res := Decode(pw)

	var s struct {
		Assets   *[]entry `json:"assets"`
		Expenses *[]entry `json:"expenses"`
		Checksum int      `json:"checksum"`
	}
	if err := json.Unmarshal(res.Data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	if s.Assets == nil || s.Expenses == nil {
		return nil, fmt.Errorf("%w: missing assets or expenses", ErrInvalidPassword)
	}

	return &Restored{
		Assets: lo.Map(*s.Assets, func(e entry, i int) domain.Asset {
			cat := categoryOr(assetCategories, e.Cat, domain.CategoryOther)
			return domain.Asset{
				ID:              fmt.Sprintf("restored-asset-%d", i),
				Date:            longDate(e.Date),
				Category:        cat,
				Subcategory:     RestoredSubcategory,
				Amount:          scale(e.Amt, assetUnit),
				Memo:            RestoredMemo,
				TaxonomyVersion: taxonomy.InferVersion(cat),
			}
		}),
		Expenses: lo.Map(*s.Expenses, func(e entry, i int) domain.Expense {
			return domain.Expense{
				ID:       fmt.Sprintf("restored-expense-%d", i),
				Date:     longDate(e.Date),
				Category: categoryOr(expenseCategories, e.Cat, domain.ExpenseOther),
				Amount:   scale(e.Amt, expenseUnit),
				Memo:     RestoredMemo,
			}
		}),
		Checksum:    s.Checksum,
		Skipped:     res.Skipped,
		Unreachable: res.Unreachable,
	}, nil
}

// Validate reports whether every character is an alphabet symbol and the
// password decodes to a summary.
func Validate(pw string) bool {
	if !InAlphabet(pw) {
		return false
	}
	_, err := DecodePassword(pw)
	return err == nil
}

func lastN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func scale(units float64, unit int64) int64 {
	return decimal.NewFromFloat(units).Mul(decimal.NewFromInt(unit)).Round(0).IntPart()
}

func symbolOr[K comparable](table map[K]string, k K, def string) string {
	if s, ok := table[k]; ok {
		return s
	}
	return def
}

func categoryOr[V any](table map[string]V, sym string, def V) V {
	if v, ok := table[sym]; ok {
		return v
	}
	return def
}

// shortDate turns 2024-01-15 into 240115.
func shortDate(date string) string {
	d := strings.ReplaceAll(date, "-", "")
	if len(d) < 2 {
		return ""
	}
	return d[2:]
}

// longDate turns 240115 into 2024-01-15.
func longDate(d string) string {
	return "20" + clip(d, 0, 2) + "-" + clip(d, 2, 4) + "-" + clip(d, 4, 6)
}

func clip(s string, i, j int) string {
	i, j = min(i, len(s)), min(j, len(s))
	return s[i:j]
}
