// Package transfer reads and writes the JSON backup file of the asset list.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// ErrInvalidFormat is returned when a file is not a backup document.
var ErrInvalidFormat = errors.New("invalid backup format")

// FormatVersion is written to every exported document.
const FormatVersion = "1.0"

// Document is the exported backup file.
type Document struct {
	Assets     []domain.Asset `json:"assets"`
	ExportDate time.Time      `json:"exportDate"`
	Version    string         `json:"version"`
	AppName    string         `json:"appName"`
}

// Export writes an indented backup document of assets.
func Export(w io.Writer, assets []domain.Asset, appName string, now time.Time) error {
	if assets == nil {
		assets = []domain.Asset{}
	}
	doc := Document{
		Assets:     assets,
		ExportDate: now.UTC(),
		Version:    FormatVersion,
		AppName:    appName,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// FileName returns the download name of a backup made on the given day,
// e.g. 資産データ_2024-1-15.json.
func FileName(now time.Time) string {
	return fmt.Sprintf("資産データ_%d-%d-%d.json", now.Year(), int(now.Month()), now.Day())
}

// CheckFileName rejects files that are not .json.
func CheckFileName(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		return fmt.Errorf("%w: %s is not a .json file", ErrInvalidFormat, name)
	}
	return nil
}

// ImportResult holds the accepted assets and the count of dropped elements.
type ImportResult struct {
	Assets    []domain.Asset
	Discarded int
}

// Import reads any JSON object with an assets array. Elements without a
// non-empty id, date and category or without a numeric amount are dropped.
// Untagged elements in legacy-only categories are tagged legacy.
func Import(r io.Reader) (ImportResult, error) {
	var doc struct {
		Assets json.RawMessage `json:"assets"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if len(doc.Assets) == 0 || string(doc.Assets) == "null" {
		return ImportResult{}, fmt.Errorf("%w: assets field missing", ErrInvalidFormat)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(doc.Assets, &elems); err != nil {
		return ImportResult{}, fmt.Errorf("%w: assets is not an array", ErrInvalidFormat)
	}

	assets := lo.FilterMap(elems, func(e json.RawMessage, _ int) (domain.Asset, bool) {
		var m map[string]any
		if json.Unmarshal(e, &m) != nil || m == nil {
			return domain.Asset{}, false
		}
		return toAsset(m)
	})
	return ImportResult{Assets: assets, Discarded: len(elems) - len(assets)}, nil
}

func toAsset(m map[string]any) (domain.Asset, bool) {
	id, date, cat := str(m, "id"), str(m, "date"), str(m, "category")
	amount, isNum := m["amount"].(float64)
	if id == "" || date == "" || cat == "" || !isNum {
		return domain.Asset{}, false
	}

	a := domain.Asset{
		ID:              id,
		Date:            date,
		Category:        domain.Category(cat),
		Subcategory:     domain.Subcategory(str(m, "subcategory")),
		Amount:          decimal.NewFromFloat(amount).Round(0).IntPart(),
		Memo:            str(m, "memo"),
		TaxonomyVersion: domain.TaxonomyVersion(str(m, "taxonomyVersion")),
	}
	if rate, ok := m["taxRate"].(float64); ok {
		a.TaxRate = &rate
	}
	return taxonomy.TagLegacy(a), true
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
