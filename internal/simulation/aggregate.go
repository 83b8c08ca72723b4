package simulation

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/mathutil"
)

// YearRecord summarises twelve months of the ledger. The embedded Flows are
// yearly totals, Monthly holds the implied monthly means, and Balances are
// the values at the close of the year's last month.
type YearRecord struct {
	Year int `json:"year"`
	Flows
	Monthly Flows `json:"monthly"`
	Balances

	CumNIAF         float64 `json:"cum_niaf"`
	CumRentExp      float64 `json:"cum_rent_exp"`
	CumInterestExp  float64 `json:"cum_interest_exp"`
	CumPrincipalExp float64 `json:"cum_principal_exp"`

	Equity           float64 `json:"equity"`
	SaleIncome       float64 `json:"sale_income"`
	CapitalGains     float64 `json:"capital_gains"`
	Return           float64 `json:"return"`
	TotalReturn      float64 `json:"total_return"`
	NetWorthPostSale float64 `json:"net_worth_post_sale"`
	ROI              float64 `json:"roi"`
	AnnualizedROI    float64 `json:"annualized_roi"`
	AnnualizedCoCROI float64 `json:"annualized_coc_roi"`
	AnnualROE        float64 `json:"annual_roe"`
	AnnualROEDefined bool    `json:"annual_roe_defined"`
	RentingNetWorth  float64 `json:"renting_net_worth"`

	ExtraPaymentsPortfolioAfterTax float64 `json:"extra_payments_portfolio_after_tax"`
}

func (y YearRecord) derivedColumns() []NamedValue {
	return []NamedValue{
		{"cum_niaf", y.CumNIAF},
		{"cum_rent_exp", y.CumRentExp},
		{"cum_interest_exp", y.CumInterestExp},
		{"cum_principal_exp", y.CumPrincipalExp},
		{"equity", y.Equity},
		{"sale_income", y.SaleIncome},
		{"capital_gains", y.CapitalGains},
		{"return", y.Return},
		{"total_return", y.TotalReturn},
		{"net_worth_post_sale", y.NetWorthPostSale},
		{"roi", y.ROI},
		{"annualized_roi", y.AnnualizedROI},
		{"annualized_coc_roi", y.AnnualizedCoCROI},
		{"annual_roe", y.AnnualROE},
		{"renting_net_worth", y.RentingNetWorth},
		{"extra_payments_portfolio_after_tax", y.ExtraPaymentsPortfolioAfterTax},
	}
}

// Aggregate groups the ledger by year and computes the derived return
// metrics. The ledger must cover whole years.
//
// Year-end balances are taken from the last month of each year rather than
// the min/max of the year, so negative appreciation or portfolio growth
// still reports the true closing value.
func Aggregate(ledger []MonthRecord, cfg Config, terms LoanTerms) ([]YearRecord, error) {
	if len(ledger) == 0 || len(ledger)%constants.MonthsPerYear != 0 {
		return nil, fmt.Errorf("ledger of %d months does not cover whole years", len(ledger))
	}

	numYears := len(ledger) / constants.MonthsPerYear
	years := make([]YearRecord, 0, numYears)

	var cumNIAF, cumRent, cumInterest, cumPrincipal float64
	for y := 0; y < numYears; y++ {
		months := ledger[y*constants.MonthsPerYear : (y+1)*constants.MonthsPerYear]

		var total Flows
		for _, m := range months {
			if m.Year != y {
				return nil, fmt.Errorf("month %d is tagged year %d, expected %d", m.Month, m.Year, y)
			}
			total = total.Add(m.Flows)
		}

		cumNIAF += total.NIAF
		cumRent += total.RentExp
		cumInterest += total.InterestExp
		cumPrincipal += total.PrincipalExp

		rec := YearRecord{
			Year:            y,
			Flows:           total,
			Monthly:         total.Scale(1.0 / float64(len(months))),
			Balances:        months[len(months)-1].Balances,
			CumNIAF:         cumNIAF,
			CumRentExp:      cumRent,
			CumInterestExp:  cumInterest,
			CumPrincipalExp: cumPrincipal,
		}

		var prev *YearRecord
		if y > 0 {
			prev = &years[y-1]
		}
		derive(&rec, prev, cfg, terms)

		if anomaly := rec.check(); anomaly != nil {
			return nil, anomaly
		}
		years = append(years, rec)
	}

	return years, nil
}

// derive fills the return metrics. The capital gains, return and ROE
// formulas are kept as published even where they double count principal.
func derive(rec *YearRecord, prev *YearRecord, cfg Config, terms LoanTerms) {
	rec.Equity = rec.HomeValue - rec.LoanBalance
	rec.SaleIncome = rec.Equity - rec.HomeValue*cfg.RealtorRate
	rec.CapitalGains = rec.SaleIncome + rec.CumPrincipalExp - cfg.HomePrice - cfg.DownPayment
	rec.Return = rec.CapitalGains + rec.CumNIAF - terms.ClosingCosts - cfg.Rehab
	rec.TotalReturn = rec.CumNIAF + rec.SaleIncome - terms.CashOutlay
	rec.NetWorthPostSale = rec.CumNIAF + rec.SaleIncome - cfg.Rehab - terms.ClosingCosts
	rec.ROI = rec.TotalReturn / terms.CashOutlay
	rec.AnnualizedROI = annualize(rec.ROI, rec.Year+1)
	rec.AnnualizedCoCROI = rec.NIAF / terms.CashOutlay

	if prev != nil && prev.SaleIncome != 0 {
		rec.AnnualROE = (rec.SaleIncome - prev.SaleIncome + rec.NIAF) / prev.SaleIncome
		rec.AnnualROEDefined = true
	}

	rec.RentingNetWorth = rec.RentComparisonPortfolio*(1-cfg.CapitalGainsTaxRate) - rec.CumRentExp
	rec.ExtraPaymentsPortfolioAfterTax = rec.ExtraPaymentsPortfolio * (1 - cfg.CapitalGainsTaxRate)
}

// annualize converts a cumulative return over n years to a yearly rate.
// Losing the whole stake or more has no real root and is reported as -100%.
func annualize(roi float64, years int) float64 {
	base := 1 + roi
	if base <= 0 {
		return -1
	}
	return math.Pow(base, 1/float64(years)) - 1
}

// Columns lists every numeric yearly column in table order: year totals,
// monthly means prefixed with "monthly_", balances and derived metrics.
func (y YearRecord) Columns() []NamedValue {
	columns := y.Flows.Columns()
	for _, col := range y.Monthly.Columns() {
		columns = append(columns, NamedValue{Name: "monthly_" + col.Name, Value: col.Value})
	}
	columns = append(columns, y.Balances.Columns()...)
	return append(columns, y.derivedColumns()...)
}

func (y YearRecord) check() *ArithmeticAnomaly {
	for _, col := range y.Columns() {
		if !mathutil.IsFinite(col.Value) {
			return &ArithmeticAnomaly{Stage: "year", Index: y.Year, Field: col.Name, Value: col.Value}
		}
	}
	return nil
}
