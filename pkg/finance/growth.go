// Package finance provides compounding helpers shared by the home value and
// the side portfolios.
package finance

import (
	"math"

	"github.com/iwvelando/mortgage-sim/pkg/constants"
)

// Compound grows value at an annual rate for the given number of months.
//
// Without a contribution the closed form value·(1+rate)^(months/12) is used.
// With a contribution each step grows the starting value by one month and
// adds the contribution; the running total is not itself re-compounded, so
// the result is only a true sinking fund for months == 1.
func Compound(value, annualRate float64, months int, monthlyContribution float64) float64 {
	if monthlyContribution == 0 {
		return grow(value, annualRate, months)
	}

	total := value
	for i := 0; i < months; i++ {
		total = grow(value, annualRate, 1) + monthlyContribution
	}
	return total
}

// MonthlyGrowth applies one month of growth to value.
func MonthlyGrowth(value, annualRate float64) float64 {
	return Compound(value, annualRate, 1, 0)
}

// AnnualGrowth applies twelve months of growth to value.
func AnnualGrowth(value, annualRate float64) float64 {
	return Compound(value, annualRate, constants.MonthsPerYear, 0)
}

func grow(value, annualRate float64, months int) float64 {
	return value * math.Pow(1+annualRate, float64(months)/constants.MonthsPerYear)
}

// Portfolio tracks the running value of an opportunity-cost investment
// across simulation months.
type Portfolio struct {
	AnnualRate    float64
	CurrentValue  float64
	Contributions float64
}

// NewPortfolio creates a portfolio seeded with an initial value.
func NewPortfolio(initialValue, annualRate float64) *Portfolio {
	return &Portfolio{AnnualRate: annualRate, CurrentValue: initialValue}
}

// Contribute adds cash to the portfolio. Non-positive amounts are ignored.
func (p *Portfolio) Contribute(amount float64) {
	if amount <= 0 {
		return
	}
	p.CurrentValue += amount
	p.Contributions += amount
}

// Grow applies one month of growth and returns the new value.
func (p *Portfolio) Grow() float64 {
	p.CurrentValue = MonthlyGrowth(p.CurrentValue, p.AnnualRate)
	return p.CurrentValue
}
