package loans

import (
	"math"
	"testing"
)

func TestMonthlyPMI(t *testing.T) {
	tests := []struct {
		name              string
		originalHomeValue float64
		homeValue         float64
		loanBalance       float64
		pmiRate           float64
		byEquity          bool
		byLoanBalance     bool
		expected          float64
	}{
		{
			name:              "Cancelled by loan balance",
			originalHomeValue: 300,
			homeValue:         100,
			loanBalance:       200,
			pmiRate:           0.01,
			byEquity:          false,
			byLoanBalance:     true,
			expected:          0,
		},
		{
			name:              "Cancelled by equity",
			originalHomeValue: 300,
			homeValue:         400,
			loanBalance:       280,
			pmiRate:           0.01,
			byEquity:          true,
			byLoanBalance:     false,
			expected:          0,
		},
		{
			name:              "Required",
			originalHomeValue: 300,
			homeValue:         301,
			loanBalance:       280,
			pmiRate:           0.01,
			byEquity:          false,
			byLoanBalance:     false,
			expected:          280 * 0.01 / 12,
		},
		{
			name:              "Exactly 20 percent equity cancels",
			originalHomeValue: 1000,
			homeValue:         1000,
			loanBalance:       800,
			pmiRate:           0.005,
			byEquity:          true,
			byLoanBalance:     true,
			expected:          0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CancelledByEquity(tt.homeValue, tt.loanBalance); got != tt.byEquity {
				t.Errorf("CancelledByEquity() = %v, expected %v", got, tt.byEquity)
			}
			if got := CancelledByLoanBalance(tt.originalHomeValue, tt.loanBalance); got != tt.byLoanBalance {
				t.Errorf("CancelledByLoanBalance() = %v, expected %v", got, tt.byLoanBalance)
			}

			result := MonthlyPMI(tt.homeValue, tt.loanBalance, tt.pmiRate, tt.originalHomeValue)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("MonthlyPMI() = %.6f, expected %.6f", result, tt.expected)
			}
			if PMIRequired(tt.homeValue, tt.loanBalance, tt.originalHomeValue) != (tt.expected > 0) {
				t.Errorf("PMIRequired() disagrees with MonthlyPMI() = %.6f", result)
			}
		})
	}
}
