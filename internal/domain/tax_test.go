package domain

import "testing"

func ptr(f float64) *float64 { return &f }

func TestAfterTax(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  int64
	}{
		{"crypto 20 percent", Asset{Category: CategoryCrypto, Amount: 1000000, TaxRate: ptr(20)}, 800000},
		{"crypto no rate", Asset{Category: CategoryCrypto, Amount: 1000000}, 1000000},
		{"crypto zero rate", Asset{Category: CategoryCrypto, Amount: 1000000, TaxRate: ptr(0)}, 1000000},
		{"crypto negative rate ignored", Asset{Category: CategoryCrypto, Amount: 1000, TaxRate: ptr(-10)}, 1000},
		{"crypto full rate", Asset{Category: CategoryCrypto, Amount: 5000, TaxRate: ptr(100)}, 0},
		{"crypto fractional rate", Asset{Category: CategoryCrypto, Amount: 100000, TaxRate: ptr(20.315)}, 79685},
		{"rounds half away from zero", Asset{Category: CategoryCrypto, Amount: 5, TaxRate: ptr(50)}, 3},
		{"rounds down below half", Asset{Category: CategoryCrypto, Amount: 7, TaxRate: ptr(30)}, 5},
		{"cash with rate ignored", Asset{Category: CategoryCash, Amount: 100000, TaxRate: ptr(20)}, 100000},
		{"securities", Asset{Category: CategorySecurities, Amount: 250000}, 250000},
		{"legacy nisa with rate", Asset{Category: CategoryNISA, Amount: 300000, TaxRate: ptr(20)}, 300000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AfterTax(tt.asset); got != tt.want {
				t.Errorf("AfterTax() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAfterTaxNonCryptoInvariant(t *testing.T) {
	rates := []*float64{nil, ptr(0), ptr(-5), ptr(15), ptr(100), ptr(250)}
	for _, cat := range []Category{CategoryCash, CategorySecurities, CategoryOther, CategoryNISA, CategoryIDeCo, CategoryPension} {
		for _, r := range rates {
			a := Asset{Category: cat, Amount: 123457, TaxRate: r}
			if got := AfterTax(a); got != a.Amount {
				t.Errorf("AfterTax(%s) = %d, want %d", cat, got, a.Amount)
			}
		}
	}
}

func TestAfterTaxCryptoMonotonic(t *testing.T) {
	for rate := 0.0; rate <= 100; rate += 2.5 {
		a := Asset{Category: CategoryCrypto, Amount: 987654, TaxRate: ptr(rate)}
		got := AfterTax(a)
		if got > a.Amount {
			t.Errorf("rate %v: AfterTax = %d exceeds amount %d", rate, got, a.Amount)
		}
		if rate > 0 && got >= a.Amount {
			t.Errorf("rate %v: AfterTax = %d, want strictly less than %d", rate, got, a.Amount)
		}
	}
}

func TestAfterTaxDeterministic(t *testing.T) {
	a := Asset{Category: CategoryCrypto, Amount: 333333, TaxRate: ptr(33.3)}
	first := AfterTax(a)
	for range 10 {
		if got := AfterTax(a); got != first {
			t.Fatalf("AfterTax not deterministic: %d vs %d", got, first)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		part, total int64
		want        float64
	}{
		{"half", 50, 100, 50},
		{"zero total", 10, 0, 0},
		{"whole", 300, 300, 100},
		{"quarter", 25, 100, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.part, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.want)
			}
		})
	}
}
