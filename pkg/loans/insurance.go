package loans

import "github.com/iwvelando/mortgage-sim/pkg/constants"

// CancelledByEquity reports whether the owner holds at least 20% of the
// current home value as equity.
func CancelledByEquity(homeValue, loanBalance float64) bool {
	equity := homeValue - loanBalance
	return equity >= constants.PMIEquityThreshold*homeValue
}

// CancelledByLoanBalance reports whether the balance has fallen to 80% of the
// original purchase price.
func CancelledByLoanBalance(originalHomeValue, loanBalance float64) bool {
	return loanBalance <= constants.PMILoanToValueCutoff*originalHomeValue
}

// PMIRequired reports whether mortgage insurance is still owed. Either
// cancellation rule is sufficient to drop it.
func PMIRequired(homeValue, loanBalance, originalHomeValue float64) bool {
	return !CancelledByEquity(homeValue, loanBalance) && !CancelledByLoanBalance(originalHomeValue, loanBalance)
}

// MonthlyPMI returns the monthly mortgage insurance cost, or 0 when it has
// been cancelled.
func MonthlyPMI(homeValue, loanBalance, pmiRate, originalHomeValue float64) float64 {
	if !PMIRequired(homeValue, loanBalance, originalHomeValue) {
		return 0
	}
	return loanBalance * pmiRate / constants.MonthsPerYear
}
