package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustTerms(t *testing.T, cfg Config) LoanTerms {
	t.Helper()
	terms, err := NewLoanTerms(cfg)
	if err != nil {
		t.Fatalf("NewLoanTerms() error = %v", err)
	}
	return terms
}

func mustLedger(t *testing.T, cfg Config, extraPayments bool) []MonthRecord {
	t.Helper()
	ledger, err := NewSimulator(nil).Run(cfg, mustTerms(t, cfg), extraPayments)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return ledger
}

func TestSimulatorFirstMonth(t *testing.T) {
	cfg := DefaultConfig()
	ledger := mustLedger(t, cfg, false)

	if len(ledger) != constants.HorizonMonths {
		t.Fatalf("expected %d months, got %d", constants.HorizonMonths, len(ledger))
	}

	first := ledger[0]
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"interest", first.InterestExp, 1354.17},
		{"principal", first.PrincipalExp, 226.00},
		{"property tax", first.PropertyTaxExp, 250.00},
		{"insurance", first.InsuranceExp, 87.50},
		{"maintenance", first.MaintenanceExp, 375.00},
		{"pmi", first.PMIExp, 104.17},
		{"utility", first.UtilityExp, 200.00},
		{"comparison rent", first.RentExp, 1500.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > 0.01 {
				t.Errorf("%s = %.4f, expected %.2f", tt.name, tt.got, tt.expected)
			}
		})
	}

	if first.Month != 0 || first.Year != 0 || first.MonthOfYear != 0 {
		t.Errorf("unexpected indices: month %d year %d month of year %d", first.Month, first.Year, first.MonthOfYear)
	}
}

func TestSimulatorAmortizesLoan(t *testing.T) {
	cfg := DefaultConfig()
	terms := mustTerms(t, cfg)

	for _, extra := range []bool{false, true} {
		ledger := mustLedger(t, cfg, extra)

		var principal, interest float64
		for _, m := range ledger {
			principal += m.PrincipalExp + m.ExtraPaymentExp
			interest += m.InterestExp
			if m.LoanBalance < 0 {
				t.Fatalf("extra=%v: negative balance %.4f in month %d", extra, m.LoanBalance, m.Month)
			}
		}
		if math.Abs(principal-terms.LoanAmount) > 0.01 {
			t.Errorf("extra=%v: principal paid %.2f, expected %.2f", extra, principal, terms.LoanAmount)
		}

		if !extra {
			expected := terms.MonthlyPayment * constants.HorizonMonths
			if math.Abs(principal+interest-expected) > 0.01 {
				t.Errorf("total paid %.2f, expected %.2f", principal+interest, expected)
			}
		}
	}
}

func TestSimulatorExtraPaymentsRetireLoanEarlier(t *testing.T) {
	cfg := DefaultConfig()
	baseline := PayoffMonth(mustLedger(t, cfg, false))
	extra := mustLedger(t, cfg, true)
	early := PayoffMonth(extra)

	if baseline != constants.HorizonMonths-1 {
		t.Errorf("baseline payoff month = %d, expected %d", baseline, constants.HorizonMonths-1)
	}
	if early < 0 || early >= baseline {
		t.Errorf("extra-payment payoff month = %d, expected before %d", early, baseline)
	}

	for _, m := range extra[early:] {
		if m.LoanBalance != 0 {
			t.Fatalf("balance %.6f after payoff in month %d", m.LoanBalance, m.Month)
		}
	}
	for _, m := range extra[early+1:] {
		if m.InterestExp != 0 || m.PrincipalExp != 0 || m.ExtraPaymentExp != 0 {
			t.Fatalf("payments continued after payoff in month %d", m.Month)
		}
	}

	var paid float64
	for _, m := range extra {
		paid += m.ExtraPaymentExp
	}
	if math.Abs(paid-cfg.ExtraPayment*float64(cfg.ExtraPaymentCount)) > 1e-9 {
		t.Errorf("extra payments = %.2f, expected %.2f", paid, cfg.ExtraPayment*float64(cfg.ExtraPaymentCount))
	}
	if extra[cfg.ExtraPaymentCount-1].ExtraPaymentsPortfolio < paid {
		t.Errorf("extra-payments portfolio %.2f below contributions %.2f",
			extra[cfg.ExtraPaymentCount-1].ExtraPaymentsPortfolio, paid)
	}
}

func TestSimulatorExtraPaymentCapsAtRemainingBalance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtraPayment = 1000000
	cfg.ExtraPaymentCount = 1
	ledger := mustLedger(t, cfg, true)

	first := ledger[0]
	if math.Abs(first.PrincipalExp+first.ExtraPaymentExp-250000) > 1e-6 {
		t.Errorf("principal %.2f + extra %.2f should retire the loan", first.PrincipalExp, first.ExtraPaymentExp)
	}
	if first.LoanBalance != 0 {
		t.Errorf("balance = %.6f, expected exactly 0", first.LoanBalance)
	}
	if PayoffMonth(ledger) != 0 {
		t.Errorf("PayoffMonth() = %d, expected 0", PayoffMonth(ledger))
	}
}

func TestSimulatorPMIBilledFromYearlyBasis(t *testing.T) {
	cfg := DefaultConfig()
	ledger := mustLedger(t, cfg, false)

	for y := 0; y < constants.LoanTermYears; y++ {
		var billed float64
		for _, m := range ledger[y*12 : (y+1)*12] {
			if m.PMIExp == 0 {
				continue
			}
			if billed != 0 && m.PMIExp != billed {
				t.Fatalf("year %d bills %.4f and %.4f", y, billed, m.PMIExp)
			}
			billed = m.PMIExp
		}
	}

	if ledger[len(ledger)-1].PMIExp != 0 {
		t.Errorf("PMI still billed in the final month")
	}

	noPMI := DefaultConfig()
	noPMI.DownPayment = 100000
	for _, m := range mustLedger(t, noPMI, false) {
		if m.PMIExp != 0 {
			t.Fatalf("PMI billed in month %d with 33%% down", m.Month)
		}
	}
}

func TestSimulatorRentPortfolioStartsAtCashOutlay(t *testing.T) {
	cfg := DefaultConfig()
	terms := mustTerms(t, cfg)
	first := mustLedger(t, cfg, false)[0]

	contribution := first.TotalExp - first.RentExp
	expected := (terms.CashOutlay + contribution) * math.Pow(1+cfg.ComparisonPortfolioGrowth, 1.0/12)
	if math.Abs(first.RentComparisonPortfolio-expected) > 1e-6 {
		t.Errorf("rent portfolio = %.4f, expected %.4f", first.RentComparisonPortfolio, expected)
	}
}

func TestSimulatorYearlyRollover(t *testing.T) {
	cfg := DefaultConfig()
	ledger := mustLedger(t, cfg, false)

	if ledger[11].UtilityExp != ledger[0].UtilityExp {
		t.Errorf("utility changed within year 0")
	}
	expected := cfg.UtilityCost * (1 + cfg.InflationRate)
	if math.Abs(ledger[12].UtilityExp-expected) > 1e-9 {
		t.Errorf("year 1 utility = %.4f, expected %.4f", ledger[12].UtilityExp, expected)
	}
	tax := ledger[11].HomeValue * cfg.PropertyTaxRate / 12
	if math.Abs(ledger[12].PropertyTaxExp-tax) > 1e-9 {
		t.Errorf("year 1 property tax = %.4f, expected %.4f", ledger[12].PropertyTaxExp, tax)
	}
	rent := cfg.ComparisonRent * (1 + cfg.RentIncreaseRate)
	if math.Abs(ledger[12].RentExp-rent) > 1e-9 {
		t.Errorf("year 1 comparison rent = %.4f, expected %.4f", ledger[12].RentExp, rent)
	}
}

func TestSimulatorNIAFTaxedOnlyWhenPositive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RentIncome = 4000
	first := mustLedger(t, cfg, false)[0]

	pretax := first.AdjTotalIncome - first.TotalExp
	if pretax <= 0 {
		t.Fatalf("expected positive cash flow, got %.2f", pretax)
	}
	if math.Abs(first.NIAF-pretax*(1-cfg.IncomeTaxRate)) > 1e-9 {
		t.Errorf("NIAF = %.4f, expected %.4f", first.NIAF, pretax*(1-cfg.IncomeTaxRate))
	}
	if math.Abs(first.ManagementExp-400) > 1e-9 {
		t.Errorf("management = %.2f, expected 400", first.ManagementExp)
	}

	loss := mustLedger(t, DefaultConfig(), false)[0]
	if math.Abs(loss.NIAF-(loss.AdjTotalIncome-loss.TotalExp)) > 1e-9 {
		t.Errorf("negative NIAF should not be taxed")
	}
}

func TestSimulatorArithmeticAnomaly(t *testing.T) {
	cfg := DefaultConfig()
	terms := LoanTerms{LoanAmount: 250000, CashOutlay: 60000, MonthlyPayment: math.NaN()}

	ledger, err := NewSimulator(nil).Run(cfg, terms, false)
	if ledger != nil {
		t.Errorf("expected no partial ledger, got %d months", len(ledger))
	}
	var anomaly *ArithmeticAnomaly
	if !errors.As(err, &anomaly) {
		t.Fatalf("expected ArithmeticAnomaly, got %v", err)
	}
	if anomaly.Stage != "month" || anomaly.Index != 0 || anomaly.Field != "principal_exp" {
		t.Errorf("unexpected anomaly %+v", anomaly)
	}
}

func TestPayoffMonth(t *testing.T) {
	ledger := []MonthRecord{
		{Month: 0, Balances: Balances{LoanBalance: 100}},
		{Month: 1, Balances: Balances{LoanBalance: 0.001}},
		{Month: 2, Balances: Balances{LoanBalance: 0}},
	}
	if got := PayoffMonth(ledger); got != 1 {
		t.Errorf("PayoffMonth() = %d, expected 1", got)
	}
	if got := PayoffMonth(ledger[:1]); got != -1 {
		t.Errorf("PayoffMonth() = %d, expected -1", got)
	}
}

func TestSimulatorLogsContributions(t *testing.T) {
	cfg := DefaultConfig()
	core, logs := observer.New(zapcore.DebugLevel)
	ledger, err := NewSimulator(zap.New(core)).Run(cfg, mustTerms(t, cfg), true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var extra, rent float64
	for _, m := range ledger {
		extra += m.ExtraPaymentExp
		if d := m.TotalExp - m.RentExp; d > 0 {
			rent += d
		}
	}

	entries := logs.FilterMessage("simulation finished").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["extra_payments_contributions"].(float64); math.Abs(got-extra) > 1e-6 {
		t.Errorf("extra_payments_contributions = %.4f, expected %.4f", got, extra)
	}
	if got := fields["rent_comparison_contributions"].(float64); math.Abs(got-rent) > 1e-6 {
		t.Errorf("rent_comparison_contributions = %.4f, expected %.4f", got, rent)
	}
	if extra <= 0 {
		t.Errorf("expected extra payments to be contributed, got %.4f", extra)
	}
}
