package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/mortgage-sim/pkg/loans"
	"github.com/iwvelando/mortgage-sim/pkg/mathutil"
	"github.com/iwvelando/mortgage-sim/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoanTerms are the purchase and loan parameters derived from a Config.
type LoanTerms struct {
	ClosingCosts   float64 `json:"closing_costs"`
	CashOutlay     float64 `json:"cash_outlay"`
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TermYears      int     `json:"term_years"`

	// ScheduledInterest is the lifetime interest without extra payments.
	ScheduledInterest float64 `json:"scheduled_interest"`
}

// NewLoanTerms derives closing costs, cash outlay, loan amount and the fixed
// monthly payment. A zero cash outlay would leave every return ratio
// undefined and is rejected.
func NewLoanTerms(cfg Config) (LoanTerms, error) {
	closing := cfg.HomePrice * cfg.ClosingCostsRate
	terms := LoanTerms{
		ClosingCosts: closing,
		CashOutlay:   cfg.DownPayment + closing + cfg.Rehab,
		LoanAmount:   cfg.HomePrice - cfg.DownPayment,
		TermYears:    loans.DefaultTermYears,
	}
	if terms.CashOutlay <= 0 {
		return LoanTerms{}, validation.NewConfigError("cashOutlay", "greater than 0 (down payment, closing costs or rehab)", terms.CashOutlay)
	}

	payment, err := loans.MonthlyPayment(terms.LoanAmount, cfg.InterestRate, terms.TermYears)
	if err != nil {
		return LoanTerms{}, err
	}
	terms.MonthlyPayment = payment

	interest, err := loans.TotalInterest(terms.LoanAmount, cfg.InterestRate, terms.TermYears)
	if err != nil {
		return LoanTerms{}, err
	}
	terms.ScheduledInterest = interest
	return terms, nil
}

// Result is one completed run.
type Result struct {
	RunID         string        `json:"run_id"`
	ExtraPayments bool          `json:"extra_payments"`
	Config        Config        `json:"config"`
	Terms         LoanTerms     `json:"terms"`
	Monthly       []MonthRecord `json:"monthly"`
	Yearly        []YearRecord  `json:"yearly"`
	PayoffMonth   int           `json:"payoff_month"`
}

// ComparisonRow joins one year of the baseline and extra-payment runs.
type ComparisonRow struct {
	Year                     int     `json:"year"`
	NetWorthPostSale         float64 `json:"net_worth_post_sale"`
	EPNetWorthPostSale       float64 `json:"ep_net_worth_post_sale"`
	EPExtraPaymentsPortfolio float64 `json:"ep_extra_payments_portfolio_after_tax"`
	EPLoanBalance            float64 `json:"ep_loan_balance"`
	EPExtraPaymentExp        float64 `json:"ep_extra_payment_exp"`

	// PortfolioNetWorth is the baseline plus the extra payments invested
	// instead, after capital gains tax.
	PortfolioNetWorth      float64 `json:"portfolio_nw"`
	PortfolioNetWorthDelta float64 `json:"portfolio_nw_delta"`
	EPNetWorthDelta        float64 `json:"ep_nw_delta"`
}

// Comparison holds both variants and their joined yearly rows.
type Comparison struct {
	Baseline      *Result         `json:"baseline"`
	ExtraPayments *Result         `json:"extra_payments"`
	Rows          []ComparisonRow `json:"rows"`
}

// Runner validates configurations and executes simulations.
type Runner struct {
	logger    *zap.Logger
	simulator *Simulator
}

// NewRunner creates a runner. A nil logger is replaced by a no-op.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, simulator: NewSimulator(logger)}
}

// Run validates cfg, simulates the full horizon and aggregates it by year.
func (r *Runner) Run(ctx context.Context, cfg Config, extraPayments bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	terms, err := NewLoanTerms(cfg)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	start := time.Now()
	r.logger.Debug("starting simulation",
		zap.String("op", "simulation.Runner.Run"),
		zap.String("run_id", runID),
		zap.Bool("extra_payments", extraPayments),
		zap.Float64("loan_amount", terms.LoanAmount),
		zap.Float64("monthly_payment", terms.MonthlyPayment),
	)

	ledger, err := r.simulator.Run(cfg, terms, extraPayments)
	if err != nil {
		return nil, fmt.Errorf("simulation run %s failed: %w", runID, err)
	}
	yearly, err := Aggregate(ledger, cfg, terms)
	if err != nil {
		return nil, fmt.Errorf("aggregating run %s failed: %w", runID, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("simulation complete",
		zap.String("op", "simulation.Runner.Run"),
		zap.String("run_id", runID),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		RunID:         runID,
		ExtraPayments: extraPayments,
		Config:        cfg,
		Terms:         terms,
		Monthly:       ledger,
		Yearly:        yearly,
		PayoffMonth:   PayoffMonth(ledger),
	}, nil
}

// Compare runs the baseline and the extra-payment plan concurrently and joins
// their yearly tables. The rows are not trimmed; see TrimAfterPayoff.
func (r *Runner) Compare(ctx context.Context, cfg Config) (*Comparison, error) {
	var baseline, extra *Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.Run(gctx, cfg, false)
		baseline = res
		return err
	})
	g.Go(func() error {
		res, err := r.Run(gctx, cfg, true)
		extra = res
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows, err := JoinYearly(baseline.Yearly, extra.Yearly)
	if err != nil {
		return nil, err
	}
	return &Comparison{Baseline: baseline, ExtraPayments: extra, Rows: rows}, nil
}

// JoinYearly aligns two yearly tables by year.
func JoinYearly(baseline, extra []YearRecord) ([]ComparisonRow, error) {
	if len(baseline) != len(extra) {
		return nil, fmt.Errorf("cannot join %d baseline years with %d extra-payment years", len(baseline), len(extra))
	}
	rows := make([]ComparisonRow, len(baseline))
	for i := range baseline {
		b, e := baseline[i], extra[i]
		if b.Year != e.Year {
			return nil, fmt.Errorf("year mismatch at row %d: %d vs %d", i, b.Year, e.Year)
		}
		portfolioNW := b.NetWorthPostSale + e.ExtraPaymentsPortfolioAfterTax
		rows[i] = ComparisonRow{
			Year:                     b.Year,
			NetWorthPostSale:         b.NetWorthPostSale,
			EPNetWorthPostSale:       e.NetWorthPostSale,
			EPExtraPaymentsPortfolio: e.ExtraPaymentsPortfolioAfterTax,
			EPLoanBalance:            e.LoanBalance,
			EPExtraPaymentExp:        e.ExtraPaymentExp,
			PortfolioNetWorth:        portfolioNW,
			PortfolioNetWorthDelta:   portfolioNW - b.NetWorthPostSale,
			EPNetWorthDelta:          e.NetWorthPostSale - b.NetWorthPostSale,
		}
	}
	return rows, nil
}

// TrimAfterPayoff drops every row after the first year the extra-payment loan
// is retired. Rows are returned unchanged if it never is.
func TrimAfterPayoff(rows []ComparisonRow) []ComparisonRow {
	for i, row := range rows {
		if mathutil.Round(row.EPLoanBalance) == 0 {
			return rows[:i+1]
		}
	}
	return rows
}

// Crossover returns the first index at which paying down the loan has added
// more net worth than investing the same money, or -1.
func Crossover(rows []ComparisonRow) int {
	for i, row := range rows {
		if row.EPNetWorthDelta > row.PortfolioNetWorthDelta {
			return i
		}
	}
	return -1
}
