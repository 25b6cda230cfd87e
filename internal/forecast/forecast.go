// Package forecast projects a portfolio value forward with monthly
// contributions and compound growth.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidParams is returned for parameters outside the accepted ranges.
var ErrInvalidParams = errors.New("invalid forecast parameters")

const (
	MinAnnualRate = -0.5
	MaxAnnualRate = 1.0
	MinYears      = 1
	MaxYears      = 50
)

// Params describes a forecast request. AnnualRate is a fraction: 0.05 is 5%.
type Params struct {
	CurrentValue      float64 `json:"currentValue"`
	MonthlyInvestment float64 `json:"monthlyInvestment"`
	AnnualRate        float64 `json:"annualRate"`
	TimeHorizonYears  int     `json:"timeHorizonYears"`
	CurrentAge        int     `json:"currentAge,omitempty"`
}

// Validate checks the accepted ranges.
func (p Params) Validate() error {
	if p.CurrentValue < 0 || p.MonthlyInvestment < 0 {
		return fmt.Errorf("%w: values must be non-negative", ErrInvalidParams)
	}
	if p.AnnualRate < MinAnnualRate || p.AnnualRate > MaxAnnualRate {
		return fmt.Errorf("%w: annual rate must be between -50%% and 100%%", ErrInvalidParams)
	}
	if p.TimeHorizonYears < MinYears || p.TimeHorizonYears > MaxYears {
		return fmt.Errorf("%w: time horizon must be between %d and %d years", ErrInvalidParams, MinYears, MaxYears)
	}
	return nil
}

// Point is the state at the end of a year. Amounts are rounded yen.
type Point struct {
	Month         int   `json:"month"`
	Year          int   `json:"year"`
	Age           int   `json:"age"`
	Value         int64 `json:"value"`
	CurrentAmount int64 `json:"currentAmount"`
	Contributions int64 `json:"contributions"`
	Gains         int64 `json:"gains"`
}

// Summary describes the whole horizon.
type Summary struct {
	InitialValue        float64 `json:"initialValue"`
	FinalValue          int64   `json:"finalValue"`
	TotalContributions  float64 `json:"totalContributions"`
	TotalGains          float64 `json:"totalGains"`
	EffectiveAnnualRate float64 `json:"effectiveAnnualRate"`
}

// Result is a computed forecast: a point for year 0 and one per year.
type Result struct {
	Data    []Point `json:"data"`
	Summary Summary `json:"summary"`
}

// Forecaster computes forecasts.
type Forecaster interface {
	Forecast(ctx context.Context, p Params) (Result, error)
}

// Local computes forecasts in process.
type Local struct{}

func (Local) Forecast(_ context.Context, p Params) (Result, error) {
	return Calculate(p)
}

// balanceScale bounds the digits carried between months.
const balanceScale = 10

// Calculate runs the projection month by month: each month the contribution is
// added first and then the monthly rate (annual / 12) is applied.
func Calculate(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	current := decimal.NewFromFloat(p.CurrentValue)
	monthly := decimal.NewFromFloat(p.MonthlyInvestment)
	growth := decimal.NewFromInt(1).Add(decimal.NewFromFloat(p.AnnualRate).Div(decimal.NewFromInt(12)))
	totalMonths := p.TimeHorizonYears * 12

	balance := current
	contributions := decimal.Zero

	data := make([]Point, 0, p.TimeHorizonYears+1)
	data = append(data, Point{
		Age:           p.CurrentAge,
		Value:         round(balance),
		CurrentAmount: round(current),
	})

	for month := 1; month <= totalMonths; month++ {
		balance = balance.Add(monthly)
		contributions = contributions.Add(monthly)
		balance = balance.Mul(growth).Round(balanceScale)

		if month%12 == 0 {
			year := month / 12
			data = append(data, Point{
				Month:         month,
				Year:          year,
				Age:           p.CurrentAge + year,
				Value:         round(balance),
				CurrentAmount: round(current),
				Contributions: round(contributions),
				Gains:         round(balance.Sub(current).Sub(contributions)),
			})
		}
	}

	final := data[len(data)-1].Value
	totalContributions := contributions.InexactFloat64()

	return Result{
		Data: data,
		Summary: Summary{
			InitialValue:        p.CurrentValue,
			FinalValue:          final,
			TotalContributions:  totalContributions,
			TotalGains:          float64(final) - p.CurrentValue - totalContributions,
			EffectiveAnnualRate: effectiveRate(p.CurrentValue, float64(final), p.TimeHorizonYears),
		},
	}, nil
}

// effectiveRate is the constant annual rate turning initial into final.
// It is zero when there is no initial value to compound from.
func effectiveRate(initial, final float64, years int) float64 {
	if initial <= 0 {
		return 0
	}
	return math.Pow(final/initial, 1/float64(years)) - 1
}

func round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
