// Package report runs a configuration and gathers the tables and metrics
// rendered by the CLI and the HTTP API.
package report

import (
	"context"
	"fmt"

	"github.com/iwvelando/mortgage-sim/internal/metrics"
	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/output"
	"go.uber.org/zap"
)

// Options select which variants are run.
type Options struct {
	// Compare runs the baseline and the extra-payment plan side by side.
	Compare bool `json:"compare"`
	// ExtraPayments reports the extra-payment plan instead of the baseline.
	// Ignored when Compare is set.
	ExtraPayments bool `json:"extraPayments"`
}

// Variant names the run for logs and cache keys.
func (o Options) Variant() string {
	switch {
	case o.Compare:
		return "compare"
	case o.ExtraPayments:
		return "extra-payments"
	default:
		return "baseline"
	}
}

// Build runs cfg and assembles the report.
func Build(ctx context.Context, logger *zap.Logger, runner *simulation.Runner, cfg simulation.Config, opts Options) (*output.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = simulation.NewRunner(logger)
	}

	var rep output.Report
	if opts.Compare {
		cmp, err := runner.Compare(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rep.Result = cmp.Baseline
		rep.Comparison = cmp
		rep.ExtraPaymentMetrics = metrics.ExtraPayments(cmp)
	} else {
		res, err := runner.Run(ctx, cfg, opts.ExtraPayments)
		if err != nil {
			return nil, err
		}
		rep.Result = res
	}

	rep.MortgageMetrics = metrics.Mortgage(rep.Result)
	investment, err := metrics.Investment(rep.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to compute investment metrics: %w", err)
	}
	rep.InvestmentMetrics = investment

	logger.Info("simulation report built",
		zap.String("op", "report.Build"),
		zap.String("run_id", rep.Result.RunID),
		zap.String("variant", opts.Variant()),
		zap.Int("payoff_month", rep.Result.PayoffMonth),
	)
	return &rep, nil
}
