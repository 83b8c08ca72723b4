// Package loans provides fixed-rate mortgage calculations.
package loans

import (
	"math"

	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/validation"
)

// DefaultTermYears is the term used when a caller does not supply one.
const DefaultTermYears = constants.LoanTermYears

// MonthlyPayment calculates the fixed monthly payment for a fully-amortizing
// loan using the standard annuity formula. The annual rate is a decimal
// fraction (0.065 for 6.5%).
func MonthlyPayment(principal, annualRate float64, years int) (float64, error) {
	if principal <= 0 {
		return 0, validation.NewConfigError("loan principal", "greater than 0", principal)
	}
	if annualRate <= 0 {
		return 0, validation.NewConfigError("interest rate", "greater than 0", annualRate)
	}
	if years <= 0 {
		return 0, validation.NewConfigError("loan term", "greater than 0 years", years)
	}

	periodicRate := annualRate / constants.MonthsPerYear
	power := math.Pow(1+periodicRate, float64(years*constants.MonthsPerYear))
	return principal * periodicRate * power / (power - 1), nil
}

// InterestPayment calculates the interest portion of a payment on the given
// outstanding balance.
func InterestPayment(balance, annualRate float64) float64 {
	return balance * annualRate / constants.MonthsPerYear
}

// TotalInterest calculates the interest paid over the life of the loan when
// only the scheduled payment is made.
func TotalInterest(principal, annualRate float64, years int) (float64, error) {
	payment, err := MonthlyPayment(principal, annualRate, years)
	if err != nil {
		return 0, err
	}
	return payment*float64(years*constants.MonthsPerYear) - principal, nil
}
