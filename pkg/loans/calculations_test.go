package loans

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/mortgage-sim/pkg/validation"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name       string
		principal  float64
		annualRate float64
		years      int
		expected   float64
	}{
		{
			name:       "Reference 30-year loan",
			principal:  100000,
			annualRate: 0.07,
			years:      30,
			expected:   665.30,
		},
		{
			name:       "Reference 15-year loan",
			principal:  100000,
			annualRate: 0.07,
			years:      15,
			expected:   898.83,
		},
		{
			name:       "Standard 30-year mortgage",
			principal:  240000,
			annualRate: 0.06,
			years:      30,
			expected:   1438.92,
		},
		{
			name:       "Default configuration loan",
			principal:  250000,
			annualRate: 0.065,
			years:      30,
			expected:   1580.17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MonthlyPayment(tt.principal, tt.annualRate, tt.years)
			if err != nil {
				t.Fatalf("MonthlyPayment() unexpected error: %v", err)
			}
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("MonthlyPayment() = %.4f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestMonthlyPaymentRejectsInvalidInputs(t *testing.T) {
	tests := []struct {
		name       string
		principal  float64
		annualRate float64
		years      int
		field      string
	}{
		{"Zero rate", 100000, 0, 30, "interest rate"},
		{"Negative rate", 100000, -0.01, 30, "interest rate"},
		{"Zero principal", 0, 0.05, 30, "loan principal"},
		{"Negative principal", -5, 0.05, 30, "loan principal"},
		{"Zero term", 100000, 0.05, 0, "loan term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonthlyPayment(tt.principal, tt.annualRate, tt.years)
			var configErr *validation.ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if configErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, configErr.Field)
			}
		})
	}
}

func TestInterestPayment(t *testing.T) {
	tests := []struct {
		name       string
		balance    float64
		annualRate float64
		expected   float64
	}{
		{"First month of default loan", 250000, 0.065, 1354.17},
		{"Standard mortgage interest", 200000, 0.06, 1000.0},
		{"Paid off", 0, 0.06, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InterestPayment(tt.balance, tt.annualRate)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("InterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestTotalInterest(t *testing.T) {
	payment, err := MonthlyPayment(100000, 0.07, 30)
	if err != nil {
		t.Fatalf("MonthlyPayment() unexpected error: %v", err)
	}

	total, err := TotalInterest(100000, 0.07, 30)
	if err != nil {
		t.Fatalf("TotalInterest() unexpected error: %v", err)
	}
	if math.Abs(total-(payment*360-100000)) > 1e-6 {
		t.Errorf("TotalInterest() = %.2f, expected %.2f", total, payment*360-100000)
	}
	if math.Abs(total-139509) > 5 {
		t.Errorf("TotalInterest() = %.2f, expected around 139,509", total)
	}

	if _, err := TotalInterest(100000, 0, 30); err == nil {
		t.Error("TotalInterest() expected error for zero rate")
	}
}
