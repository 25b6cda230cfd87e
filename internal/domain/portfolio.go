package domain

import (
	"encoding/json"
	"time"
)

// AssetClass is the coarse grouping used by the allocation view.
type AssetClass string

const (
	AssetClassCash   AssetClass = "cash"
	AssetClassStocks AssetClass = "stocks"
	AssetClassBonds  AssetClass = "bonds"
	AssetClassCrypto AssetClass = "crypto"
	AssetClassOther  AssetClass = "other"
)

// MonthBucket is the after-tax state of one calendar month.
// Subcategories always holds every known slot, zero when nothing matched.
type MonthBucket struct {
	Month         time.Time
	Total         int64
	Subcategories map[Subcategory]int64
}

// DateString returns the bucket date as YYYY-MM-01.
func (b MonthBucket) DateString() string {
	return b.Month.Format(DateLayout)
}

// MarshalJSON flattens the bucket into the chart row shape:
// {"date": "2024-01-01", "total": 150000, "bank_ordinary": 150000, ...}.
func (b MonthBucket) MarshalJSON() ([]byte, error) {
	row := make(map[string]any, len(b.Subcategories)+2)
	for sub, v := range b.Subcategories {
		row[string(sub)] = v
	}
	row["date"] = b.DateString()
	row["total"] = b.Total
	return json.Marshal(row)
}

// AllocationEntry is one asset-class slice of a selected month.
type AllocationEntry struct {
	AssetClass AssetClass `json:"asset_class"`
	Amount     int64      `json:"amount"`
	Percentage float64    `json:"percentage"`
}

// SubcategoryAllocation is one subcategory slice of a selected month.
type SubcategoryAllocation struct {
	Subcategory Subcategory `json:"subcategory"`
	Name        string      `json:"name"`
	Amount      int64       `json:"amount"`
	Percentage  float64     `json:"percentage"`
}

// Growth compares the two most recent month totals.
type Growth struct {
	Current  int64   `json:"current"`
	Previous int64   `json:"previous"`
	Amount   int64   `json:"amount"`
	Percent  float64 `json:"percent"`
}
