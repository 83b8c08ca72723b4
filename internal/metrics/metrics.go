// Package metrics extracts the headline figures shown alongside a run.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/format"
	"github.com/iwvelando/mortgage-sim/pkg/mathutil"
)

// Labels used in metric sets.
const (
	ClosingCosts        = "Closing Costs"
	CashOutlay          = "Cash Outlay"
	LoanAmount          = "Loan Amount"
	TotalPMIPaid        = "Total PMI Paid"
	TotalTaxesPaid      = "Total Taxes Paid"
	TotalInterestPaid   = "Total Interest Paid"
	GrossRentMultiplier = "Gross Rent Multiplier"
	CapRate             = "Cap Rate"
	FirstMonthCashFlow  = "First Mo. Cash Flow"
	AnnualizedROI       = "5 Year Annualized ROI"
	OnePercentRule      = "1% Rule"

	ReducedPayoffTime    = "Reduced Payoff Time"
	TotalExtraPayment    = "Total Extra Payment"
	TotalInterestSavings = "Total Interest Savings"
	CrossoverYear        = "Crossover Year"
)

// Metric is one labelled figure. Value is display text and Raw the number
// it was rendered from.
type Metric struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
}

// Set is an ordered list of metrics.
type Set []Metric

// Map indexes the set by label.
func (s Set) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, metric := range s {
		m[metric.Label] = metric.Value
	}
	return m
}

// Get returns the metric with the given label.
func (s Set) Get(label string) (Metric, bool) {
	for _, metric := range s {
		if metric.Label == label {
			return metric, true
		}
	}
	return Metric{}, false
}

func currency(label string, v float64) Metric {
	return Metric{Label: label, Value: format.WholeCurrency(v), Raw: v}
}

func percent(label string, v float64) Metric {
	return Metric{Label: label, Value: format.Percent(v), Raw: v}
}

// Mortgage returns the purchase and cost-of-ownership figures. Totals are
// summed over the monthly ledger to the cent.
func Mortgage(res *simulation.Result) Set {
	var pmi, tax, interest []float64
	for _, m := range res.Monthly {
		pmi = append(pmi, m.PMIExp)
		tax = append(tax, m.PropertyTaxExp)
		interest = append(interest, m.InterestExp)
	}

	total := func(label string, values []float64) Metric {
		sum := mathutil.Sum(values).InexactFloat64()
		return currency(label, sum)
	}

	return Set{
		currency(ClosingCosts, res.Terms.ClosingCosts),
		currency(CashOutlay, res.Terms.CashOutlay),
		currency(LoanAmount, res.Terms.LoanAmount),
		total(TotalPMIPaid, pmi),
		total(TotalTaxesPaid, tax),
		total(TotalInterestPaid, interest),
	}
}

// Investment returns the rental-property figures from the first years of the
// yearly table.
func Investment(res *simulation.Result) (Set, error) {
	if len(res.Yearly) <= constants.ROIReportYear {
		return nil, fmt.Errorf("need at least %d years to report investment metrics, got %d",
			constants.ROIReportYear+1, len(res.Yearly))
	}
	first := res.Yearly[0]
	homePrice := res.Config.HomePrice

	grm := 0
	if first.RentIncome > 0 {
		grm = int(first.HomeValue / first.RentIncome)
	}

	opr := first.Monthly.RentIncome / homePrice
	rule := "No " + format.Percent(opr)
	if opr >= constants.OnePercentRule {
		rule = "Yes " + format.Percent(opr)
	}

	return Set{
		{Label: GrossRentMultiplier, Value: strconv.Itoa(grm), Raw: float64(grm)},
		percent(CapRate, first.NOI/homePrice),
		currency(FirstMonthCashFlow, first.Monthly.NIAF),
		percent(AnnualizedROI, res.Yearly[constants.ROIReportYear].AnnualizedROI),
		{Label: OnePercentRule, Value: rule, Raw: opr},
	}, nil
}

// ExtraPayments summarises the comparison up to the year the extra-payment
// loan is retired.
func ExtraPayments(cmp *simulation.Comparison) Set {
	rows := simulation.TrimAfterPayoff(cmp.Rows)
	if len(rows) == 0 {
		return nil
	}

	extra := make([]float64, 0, len(rows))
	for _, row := range rows {
		extra = append(extra, row.EPExtraPaymentExp)
	}

	reduced := constants.LoanTermYears - len(rows)
	crossover := simulation.Crossover(rows)
	crossoverText := "Never"
	if crossover >= 0 {
		crossoverText = fmt.Sprintf("%d Years", crossover)
	}

	return Set{
		{Label: ReducedPayoffTime, Value: fmt.Sprintf("%d Years", reduced), Raw: float64(reduced)},
		currency(TotalExtraPayment, mathutil.Sum(extra).InexactFloat64()),
		currency(TotalInterestSavings, rows[len(rows)-1].EPNetWorthDelta),
		{Label: CrossoverYear, Value: crossoverText, Raw: float64(crossover)},
	}
}
