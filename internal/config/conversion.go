package config

import (
	"math"

	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/mathutil"
)

// percentPrecision strips float noise such as 0.35000000000000003.
const percentPrecision = 1e6

// Normalize converts the percent-based inputs to a simulation.Config.
func (s Simulation) Normalize() simulation.Config {
	pct := mathutil.PercentToFraction
	return simulation.Config{
		HomePrice:                    s.HomePrice,
		Rehab:                        s.Rehab,
		DownPayment:                  s.DownPayment,
		ClosingCostsRate:             pct(s.ClosingCostsRate),
		InterestRate:                 pct(s.InterestRate),
		PMIRate:                      pct(s.PMIRate),
		PropertyTaxRate:              pct(s.PropertyTaxRate),
		InsuranceRate:                pct(s.InsuranceRate),
		HOAFee:                       s.HOAFee,
		UtilityCost:                  s.UtilityCost,
		MaintenanceRate:              pct(s.MaintenanceRate),
		InflationRate:                pct(s.InflationRate),
		HomeAppreciationRate:         pct(s.HomeAppreciationRate),
		RentIncome:                   s.RentIncome,
		OtherIncome:                  s.OtherIncome,
		VacancyRate:                  pct(s.VacancyRate),
		ManagementRate:               pct(s.ManagementRate),
		RentIncreaseRate:             pct(s.RentIncreaseRate),
		ComparisonRent:               s.ComparisonRent,
		ComparisonPortfolioGrowth:    pct(s.ComparisonPortfolioGrowth),
		IncomeTaxRate:                pct(s.IncomeTaxRate),
		CapitalGainsTaxRate:          pct(s.CapitalGainsTaxRate),
		RealtorRate:                  pct(s.RealtorRate),
		ExtraPayment:                 s.ExtraPayment,
		ExtraPaymentCount:            s.ExtraPaymentCount,
		ExtraPaymentsPortfolioGrowth: pct(s.ExtraPaymentsPortfolioGrowth),
	}
}

// FromSimulationConfig converts fractions back to the percent form.
func FromSimulationConfig(c simulation.Config) Simulation {
	pct := func(f float64) float64 {
		return math.Round(f*constants.PercentageMultiplier*percentPrecision) / percentPrecision
	}
	return Simulation{
		HomePrice:                    c.HomePrice,
		Rehab:                        c.Rehab,
		DownPayment:                  c.DownPayment,
		ClosingCostsRate:             pct(c.ClosingCostsRate),
		InterestRate:                 pct(c.InterestRate),
		PMIRate:                      pct(c.PMIRate),
		PropertyTaxRate:              pct(c.PropertyTaxRate),
		InsuranceRate:                pct(c.InsuranceRate),
		HOAFee:                       c.HOAFee,
		UtilityCost:                  c.UtilityCost,
		MaintenanceRate:              pct(c.MaintenanceRate),
		InflationRate:                pct(c.InflationRate),
		HomeAppreciationRate:         pct(c.HomeAppreciationRate),
		RentIncome:                   c.RentIncome,
		OtherIncome:                  c.OtherIncome,
		VacancyRate:                  pct(c.VacancyRate),
		ManagementRate:               pct(c.ManagementRate),
		RentIncreaseRate:             pct(c.RentIncreaseRate),
		ComparisonRent:               c.ComparisonRent,
		ComparisonPortfolioGrowth:    pct(c.ComparisonPortfolioGrowth),
		IncomeTaxRate:                pct(c.IncomeTaxRate),
		CapitalGainsTaxRate:          pct(c.CapitalGainsTaxRate),
		RealtorRate:                  pct(c.RealtorRate),
		ExtraPayment:                 c.ExtraPayment,
		ExtraPaymentCount:            c.ExtraPaymentCount,
		ExtraPaymentsPortfolioGrowth: pct(c.ExtraPaymentsPortfolioGrowth),
	}
}
