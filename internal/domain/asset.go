package domain

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for all record dates.
const DateLayout = "2006-01-02"

// MonthLayout is the YYYY-MM format used for month selectors.
const MonthLayout = "2006-01"

// Category is a major asset category key.
type Category string

const (
	CategoryCash       Category = "cash"
	CategorySecurities Category = "securities"
	CategoryCrypto     Category = "crypto"
	CategoryOther      Category = "other"

	// Legacy-only categories, kept for records stored under the 7-way taxonomy.
	CategoryNISA    Category = "nisa"
	CategoryIDeCo   Category = "ideco"
	CategoryPension Category = "pension"
)

// Subcategory is a minor category key scoped to a Category.
type Subcategory string

// TaxonomyVersion tags which classification scheme a record was written under.
type TaxonomyVersion string

const (
	TaxonomyCurrent TaxonomyVersion = "current"
	TaxonomyLegacy  TaxonomyVersion = "legacy"
)

// ParseTaxonomyVersion returns the version for s, falling back to TaxonomyCurrent.
func ParseTaxonomyVersion(s string) TaxonomyVersion {
	if TaxonomyVersion(strings.ToLower(strings.TrimSpace(s))) == TaxonomyLegacy {
		return TaxonomyLegacy
	}
	return TaxonomyCurrent
}

// Asset is one dated holding entry.
type Asset struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Category        Category        `json:"category"`
	Subcategory     Subcategory     `json:"subcategory"`
	Amount          int64           `json:"amount"`
	TaxRate         *float64        `json:"taxRate,omitempty"`
	Memo            string          `json:"memo,omitempty"`
	TaxonomyVersion TaxonomyVersion `json:"taxonomyVersion,omitempty"`
}

// Version returns the record's taxonomy version, or def when the record is untagged.
func (a Asset) Version(def TaxonomyVersion) TaxonomyVersion {
	if a.TaxonomyVersion == "" {
		return def
	}
	return a.TaxonomyVersion
}

// ParsedDate parses the record date. ok is false for malformed dates.
func (a Asset) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Month returns the YYYY-MM prefix of the record date, or "" if the date is malformed.
func (a Asset) Month() string {
	t, ok := a.ParsedDate()
	if !ok {
		return ""
	}
	return t.Format(MonthLayout)
}

// ExpenseCategory is a spending category key.
type ExpenseCategory string

const (
	ExpenseFood          ExpenseCategory = "food"
	ExpenseDining        ExpenseCategory = "dining"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseUtilities     ExpenseCategory = "utilities"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseHealthcare    ExpenseCategory = "healthcare"
	ExpenseEducation     ExpenseCategory = "education"
	ExpenseOther         ExpenseCategory = "other"
)

// Expense is one dated spending entry.
type Expense struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Category ExpenseCategory `json:"category"`
	Amount   int64           `json:"amount"`
	Memo     string          `json:"memo,omitempty"`
}
