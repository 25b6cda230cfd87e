package taxonomy

import "github.com/mtlprog/assetdash/internal/domain"

var currentClasses = map[domain.Category]domain.AssetClass{
	domain.CategoryCash:       domain.AssetClassCash,
	domain.CategorySecurities: domain.AssetClassStocks,
	domain.CategoryNISA:       domain.AssetClassStocks,
	domain.CategoryIDeCo:      domain.AssetClassStocks,
	domain.CategoryPension:    domain.AssetClassStocks,
	domain.CategoryCrypto:     domain.AssetClassCrypto,
	domain.CategoryOther:      domain.AssetClassOther,
}

var legacyClasses = map[domain.Category]domain.AssetClass{
	domain.CategoryCash:       domain.AssetClassCash,
	domain.CategorySecurities: domain.AssetClassStocks,
	domain.CategoryNISA:       domain.AssetClassStocks,
	domain.CategoryIDeCo:      domain.AssetClassStocks,
	domain.CategoryPension:    domain.AssetClassStocks,
	domain.CategoryCrypto:     domain.AssetClassCrypto,
	domain.CategoryOther:      domain.AssetClassBonds,
}

// AssetClassOf maps a major category to its allocation asset class.
// The legacy scheme files "other" under bonds. Unknown categories fall back to cash.
func AssetClassOf(v domain.TaxonomyVersion, c domain.Category) domain.AssetClass {
	m := currentClasses
	if v == domain.TaxonomyLegacy {
		m = legacyClasses
	}
	if cls, ok := m[c]; ok {
		return cls
	}
	return domain.AssetClassCash
}

// ClassOrder is the display order of asset classes.
var ClassOrder = []domain.AssetClass{
	domain.AssetClassCash,
	domain.AssetClassStocks,
	domain.AssetClassBonds,
	domain.AssetClassCrypto,
	domain.AssetClassOther,
}
