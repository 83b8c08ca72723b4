package simulation

import (
	"fmt"

	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/finance"
	"github.com/iwvelando/mortgage-sim/pkg/loans"
	"github.com/iwvelando/mortgage-sim/pkg/mathutil"
	"go.uber.org/zap"
)

// Flows are the amounts paid or received during a period.
type Flows struct {
	InterestExp     float64 `json:"interest_exp"`
	PrincipalExp    float64 `json:"principal_exp"`
	ExtraPaymentExp float64 `json:"extra_payment_exp"`
	PropertyTaxExp  float64 `json:"property_tax_exp"`
	InsuranceExp    float64 `json:"insurance_exp"`
	HOAExp          float64 `json:"hoa_exp"`
	MaintenanceExp  float64 `json:"maintenance_exp"`
	PMIExp          float64 `json:"pmi_exp"`
	UtilityExp      float64 `json:"utility_exp"`
	ManagementExp   float64 `json:"management_exp"`
	OperatingExp    float64 `json:"op_exp"`
	TotalExp        float64 `json:"total_exp"`
	RentIncome      float64 `json:"rent_income"`
	OtherIncome     float64 `json:"other_income"`
	TotalIncome     float64 `json:"total_income"`
	AdjTotalIncome  float64 `json:"adj_total_income"`
	NOI             float64 `json:"noi"`
	NIAF            float64 `json:"niaf"`
	RentExp         float64 `json:"rent_exp"`
}

// NamedValue pairs a column name with its value.
type NamedValue struct {
	Name  string
	Value float64
}

// Columns lists the flows in ledger column order.
func (f Flows) Columns() []NamedValue {
	return []NamedValue{
		{"interest_exp", f.InterestExp},
		{"principal_exp", f.PrincipalExp},
		{"extra_payment_exp", f.ExtraPaymentExp},
		{"property_tax_exp", f.PropertyTaxExp},
		{"insurance_exp", f.InsuranceExp},
		{"hoa_exp", f.HOAExp},
		{"maintenance_exp", f.MaintenanceExp},
		{"pmi_exp", f.PMIExp},
		{"utility_exp", f.UtilityExp},
		{"management_exp", f.ManagementExp},
		{"op_exp", f.OperatingExp},
		{"total_exp", f.TotalExp},
		{"rent_income", f.RentIncome},
		{"other_income", f.OtherIncome},
		{"total_income", f.TotalIncome},
		{"adj_total_income", f.AdjTotalIncome},
		{"noi", f.NOI},
		{"niaf", f.NIAF},
		{"rent_exp", f.RentExp},
	}
}

// Add returns the column-wise sum of two flows.
func (f Flows) Add(o Flows) Flows {
	return Flows{
		InterestExp:     f.InterestExp + o.InterestExp,
		PrincipalExp:    f.PrincipalExp + o.PrincipalExp,
		ExtraPaymentExp: f.ExtraPaymentExp + o.ExtraPaymentExp,
		PropertyTaxExp:  f.PropertyTaxExp + o.PropertyTaxExp,
		InsuranceExp:    f.InsuranceExp + o.InsuranceExp,
		HOAExp:          f.HOAExp + o.HOAExp,
		MaintenanceExp:  f.MaintenanceExp + o.MaintenanceExp,
		PMIExp:          f.PMIExp + o.PMIExp,
		UtilityExp:      f.UtilityExp + o.UtilityExp,
		ManagementExp:   f.ManagementExp + o.ManagementExp,
		OperatingExp:    f.OperatingExp + o.OperatingExp,
		TotalExp:        f.TotalExp + o.TotalExp,
		RentIncome:      f.RentIncome + o.RentIncome,
		OtherIncome:     f.OtherIncome + o.OtherIncome,
		TotalIncome:     f.TotalIncome + o.TotalIncome,
		AdjTotalIncome:  f.AdjTotalIncome + o.AdjTotalIncome,
		NOI:             f.NOI + o.NOI,
		NIAF:            f.NIAF + o.NIAF,
		RentExp:         f.RentExp + o.RentExp,
	}
}

// Scale multiplies every column by factor.
func (f Flows) Scale(factor float64) Flows {
	return Flows{
		InterestExp:     f.InterestExp * factor,
		PrincipalExp:    f.PrincipalExp * factor,
		ExtraPaymentExp: f.ExtraPaymentExp * factor,
		PropertyTaxExp:  f.PropertyTaxExp * factor,
		InsuranceExp:    f.InsuranceExp * factor,
		HOAExp:          f.HOAExp * factor,
		MaintenanceExp:  f.MaintenanceExp * factor,
		PMIExp:          f.PMIExp * factor,
		UtilityExp:      f.UtilityExp * factor,
		ManagementExp:   f.ManagementExp * factor,
		OperatingExp:    f.OperatingExp * factor,
		TotalExp:        f.TotalExp * factor,
		RentIncome:      f.RentIncome * factor,
		OtherIncome:     f.OtherIncome * factor,
		TotalIncome:     f.TotalIncome * factor,
		AdjTotalIncome:  f.AdjTotalIncome * factor,
		NOI:             f.NOI * factor,
		NIAF:            f.NIAF * factor,
		RentExp:         f.RentExp * factor,
	}
}

// Balances are end-of-period values.
type Balances struct {
	LoanBalance             float64 `json:"loan_balance"`
	HomeValue               float64 `json:"home_value"`
	RentComparisonPortfolio float64 `json:"rent_comparison_portfolio"`
	ExtraPaymentsPortfolio  float64 `json:"extra_payments_portfolio"`
}

// Columns lists the balances in ledger column order.
func (b Balances) Columns() []NamedValue {
	return []NamedValue{
		{"loan_balance", b.LoanBalance},
		{"home_value", b.HomeValue},
		{"rent_comparison_portfolio", b.RentComparisonPortfolio},
		{"extra_payments_portfolio", b.ExtraPaymentsPortfolio},
	}
}

// MonthRecord is one row of the monthly ledger. Index 0 is the first month
// after closing.
type MonthRecord struct {
	Month       int `json:"month"`
	Year        int `json:"year"`
	MonthOfYear int `json:"month_of_year"`
	Flows
	Balances
}

// Columns lists the flows followed by the balances.
func (r MonthRecord) Columns() []NamedValue {
	return append(r.Flows.Columns(), r.Balances.Columns()...)
}

func (r MonthRecord) check() *ArithmeticAnomaly {
	for _, col := range r.Columns() {
		if !mathutil.IsFinite(col.Value) {
			return &ArithmeticAnomaly{Stage: "month", Index: r.Month, Field: col.Name, Value: col.Value}
		}
	}
	return nil
}

// state is everything carried from one month to the next.
type state struct {
	loanBalance    float64
	homeValue      float64
	rentPortfolio  finance.Portfolio
	extraPortfolio finance.Portfolio
	pmi            PMIClock
	basis          AnnualBasis
}

// Simulator drives the monthly state machine.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a simulator. A nil logger is replaced by a no-op.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Run produces the full ledger for the fixed horizon. Months after an early
// payoff are still emitted with a zero balance; callers trim them.
func (s *Simulator) Run(cfg Config, terms LoanTerms, extraPayments bool) ([]MonthRecord, error) {
	basis, clock := newAnnualBasis(cfg, terms.LoanAmount)
	st := state{
		loanBalance:    terms.LoanAmount,
		homeValue:      cfg.HomePrice,
		rentPortfolio:  *finance.NewPortfolio(terms.CashOutlay, cfg.ComparisonPortfolioGrowth),
		extraPortfolio: *finance.NewPortfolio(0, cfg.ExtraPaymentsPortfolioGrowth),
		pmi:            clock,
		basis:          basis,
	}

	ledger := make([]MonthRecord, 0, constants.HorizonMonths)
	for month := 0; month < constants.HorizonMonths; month++ {
		var record MonthRecord
		prev := st
		record, st = step(cfg, terms, extraPayments, month, st)
		if anomaly := record.check(); anomaly != nil {
			s.logger.Error("simulation produced a non-finite value",
				zap.String("op", "simulation.Simulator.Run"),
				zap.Int("month", month),
				zap.String("field", anomaly.Field),
			)
			return nil, anomaly
		}

		if prev.loanBalance > 0 && st.loanBalance == 0 {
			s.logger.Debug(fmt.Sprintf("loan paid off in month %d", month),
				zap.String("op", "simulation.Simulator.Run"),
				zap.Bool("extra_payments", extraPayments),
			)
		}
		if prev.pmi.Required && !st.pmi.Required {
			s.logger.Debug(fmt.Sprintf("mortgage insurance cancelled after month %d", month),
				zap.String("op", "simulation.Simulator.Run"),
				zap.Float64("loan_balance", st.loanBalance),
				zap.Float64("home_value", st.homeValue),
			)
		}

		ledger = append(ledger, record)
	}

	s.logger.Debug("simulation finished",
		zap.String("op", "simulation.Simulator.Run"),
		zap.Bool("extra_payments", extraPayments),
		zap.Float64("rent_comparison_contributions", st.rentPortfolio.Contributions),
		zap.Float64("extra_payments_contributions", st.extraPortfolio.Contributions),
	)
	return ledger, nil
}

// step advances the state by one month and returns the month's record.
func step(cfg Config, terms LoanTerms, extraPayments bool, month int, st state) (MonthRecord, state) {
	basis := st.basis

	// Principal and interest.
	interest := loans.InterestPayment(st.loanBalance, cfg.InterestRate)
	principal := terms.MonthlyPayment - interest
	extra := 0.0
	payoff := false
	if principal >= st.loanBalance {
		principal = st.loanBalance
		payoff = true
	} else if extraPayments && month < cfg.ExtraPaymentCount {
		remaining := st.loanBalance - principal
		extra = min(remaining, cfg.ExtraPayment)
		payoff = extra >= remaining
	}
	if payoff {
		st.loanBalance = 0
	} else {
		st.loanBalance -= principal + extra
	}

	// Expenses and income. PMI is billed from the yearly basis.
	pmi := st.pmi.Billed(basis)
	opExp := basis.PropertyTax + basis.Insurance + basis.HOA + basis.Maintenance + pmi + basis.Utility + basis.Management
	totalExp := opExp + interest + principal + extra
	totalIncome := basis.RentIncome + basis.OtherIncome
	adjIncome := totalIncome * (1 - cfg.VacancyRate)
	noi := adjIncome - opExp
	niaf := adjIncome - totalExp
	if niaf > 0 {
		niaf *= 1 - cfg.IncomeTaxRate
	}

	// Eligibility moves monthly; the billed amount waits for the year end.
	st.pmi = st.pmi.Evaluate(cfg, st.homeValue, st.loanBalance)

	// Side portfolios.
	if totalExp > basis.ComparisonRent {
		st.rentPortfolio.Contribute(totalExp - basis.ComparisonRent)
	}
	st.extraPortfolio.Contribute(extra)

	// Growth during the month.
	st.homeValue = finance.MonthlyGrowth(st.homeValue, cfg.HomeAppreciationRate)
	st.rentPortfolio.Grow()
	st.extraPortfolio.Grow()

	record := MonthRecord{
		Month:       month,
		Year:        month / constants.MonthsPerYear,
		MonthOfYear: month % constants.MonthsPerYear,
		Flows: Flows{
			InterestExp:     interest,
			PrincipalExp:    principal,
			ExtraPaymentExp: extra,
			PropertyTaxExp:  basis.PropertyTax,
			InsuranceExp:    basis.Insurance,
			HOAExp:          basis.HOA,
			MaintenanceExp:  basis.Maintenance,
			PMIExp:          pmi,
			UtilityExp:      basis.Utility,
			ManagementExp:   basis.Management,
			OperatingExp:    opExp,
			TotalExp:        totalExp,
			RentIncome:      basis.RentIncome,
			OtherIncome:     basis.OtherIncome,
			TotalIncome:     totalIncome,
			AdjTotalIncome:  adjIncome,
			NOI:             noi,
			NIAF:            niaf,
			RentExp:         basis.ComparisonRent,
		},
		Balances: Balances{
			LoanBalance:             st.loanBalance,
			HomeValue:               st.homeValue,
			RentComparisonPortfolio: st.rentPortfolio.CurrentValue,
			ExtraPaymentsPortfolio:  st.extraPortfolio.CurrentValue,
		},
	}

	if (month+1)%constants.MonthsPerYear == 0 {
		st.basis = basis.Rollover(cfg, st.homeValue, st.pmi)
	}

	return record, st
}

// PayoffMonth returns the first month whose closing balance rounds to zero,
// or -1 if the loan is never retired within the ledger.
func PayoffMonth(ledger []MonthRecord) int {
	for _, r := range ledger {
		if mathutil.Round(r.LoanBalance) == 0 {
			return r.Month
		}
	}
	return -1
}
