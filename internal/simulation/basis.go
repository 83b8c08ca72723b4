package simulation

import (
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/finance"
	"github.com/iwvelando/mortgage-sim/pkg/loans"
)

// AnnualBasis holds the recurring monthly amounts that only change at year
// boundaries. It is carried through the monthly loop and replaced wholesale
// by Rollover.
type AnnualBasis struct {
	PropertyTax    float64
	Insurance      float64
	HOA            float64
	Utility        float64
	Maintenance    float64
	PMI            float64 // billed amount; committed yearly from PMIClock
	RentIncome     float64
	OtherIncome    float64
	Management     float64
	ComparisonRent float64
}

// PMIClock is the monthly eligibility side of mortgage insurance. Required
// and PendingCost are re-evaluated every month; the billed amount lives in
// AnnualBasis.PMI and only moves when Rollover commits PendingCost.
type PMIClock struct {
	Required    bool
	PendingCost float64
}

func newAnnualBasis(cfg Config, loanAmount float64) (AnnualBasis, PMIClock) {
	pmi := loans.MonthlyPMI(cfg.HomePrice, loanAmount, cfg.PMIRate, cfg.HomePrice)
	basis := AnnualBasis{
		PropertyTax:    monthlyShare(cfg.HomePrice, cfg.PropertyTaxRate),
		Insurance:      monthlyShare(cfg.HomePrice, cfg.InsuranceRate),
		HOA:            cfg.HOAFee,
		Utility:        cfg.UtilityCost,
		Maintenance:    monthlyShare(cfg.HomePrice, cfg.MaintenanceRate),
		PMI:            pmi,
		RentIncome:     cfg.RentIncome,
		OtherIncome:    cfg.OtherIncome,
		Management:     cfg.ManagementRate * cfg.RentIncome,
		ComparisonRent: cfg.ComparisonRent,
	}
	return basis, PMIClock{Required: pmi > 0, PendingCost: pmi}
}

// Billed returns the PMI charged this month.
func (c PMIClock) Billed(basis AnnualBasis) float64 {
	if !c.Required {
		return 0
	}
	return basis.PMI
}

// Evaluate recomputes eligibility against the latest balance and value.
func (c PMIClock) Evaluate(cfg Config, homeValue, loanBalance float64) PMIClock {
	cost := loans.MonthlyPMI(homeValue, loanBalance, cfg.PMIRate, cfg.HomePrice)
	return PMIClock{Required: cost > 0, PendingCost: cost}
}

// Rollover derives next year's basis. Value-based costs are re-read from the
// current home value, fixed costs follow inflation, income and comparison
// rent follow the rent increase rate, and the pending PMI cost is billed.
func (b AnnualBasis) Rollover(cfg Config, homeValue float64, clock PMIClock) AnnualBasis {
	rent := finance.AnnualGrowth(b.RentIncome, cfg.RentIncreaseRate)
	return AnnualBasis{
		PropertyTax:    monthlyShare(homeValue, cfg.PropertyTaxRate),
		Insurance:      monthlyShare(homeValue, cfg.InsuranceRate),
		HOA:            finance.AnnualGrowth(b.HOA, cfg.InflationRate),
		Utility:        finance.AnnualGrowth(b.Utility, cfg.InflationRate),
		Maintenance:    monthlyShare(homeValue, cfg.MaintenanceRate),
		PMI:            clock.PendingCost,
		RentIncome:     rent,
		OtherIncome:    finance.AnnualGrowth(b.OtherIncome, cfg.RentIncreaseRate),
		Management:     cfg.ManagementRate * rent,
		ComparisonRent: finance.AnnualGrowth(b.ComparisonRent, cfg.RentIncreaseRate),
	}
}

func monthlyShare(value, annualRate float64) float64 {
	return value * annualRate / constants.MonthsPerYear
}
