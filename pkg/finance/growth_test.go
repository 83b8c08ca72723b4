package finance

import (
	"math"
	"testing"
)

func TestCompound(t *testing.T) {
	tests := []struct {
		name         string
		value        float64
		annualRate   float64
		months       int
		contribution float64
		expected     float64
	}{
		{"One year", 100, 0.05, 12, 0, 105.00},
		{"Two years", 100, 0.05, 24, 0, 110.25},
		{"One month", 100, 0.05, 1, 0, 100.407},
		{"One month with contribution", 100, 0.05, 1, 1, 101.407},
		{"Zero months", 100, 0.05, 0, 0, 100},
		{"Negative growth", 100, -0.10, 12, 0, 90},
		{"Zero value", 0, 0.07, 12, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compound(tt.value, tt.annualRate, tt.months, tt.contribution)
			if math.Abs(result-tt.expected) > 0.005 {
				t.Errorf("Compound() = %.4f, expected %.4f", result, tt.expected)
			}
		})
	}
}

func TestCompoundContributionDoesNotRecompound(t *testing.T) {
	// Each step restarts from the original value, so three steps equal one.
	one := Compound(100, 0.05, 1, 10)
	three := Compound(100, 0.05, 3, 10)
	if math.Abs(one-three) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", one, three)
	}
}

func TestMonthlyAndAnnualGrowth(t *testing.T) {
	value := 1000.0
	for i := 0; i < 12; i++ {
		value = MonthlyGrowth(value, 0.03)
	}
	if math.Abs(value-AnnualGrowth(1000, 0.03)) > 1e-6 {
		t.Errorf("twelve monthly steps = %.6f, annual growth = %.6f", value, AnnualGrowth(1000, 0.03))
	}
}

func TestPortfolio(t *testing.T) {
	p := NewPortfolio(1000, 0.05)
	p.Contribute(200)
	p.Contribute(-50)
	p.Contribute(0)

	if p.CurrentValue != 1200 {
		t.Errorf("expected value 1200 after contributions, got %.2f", p.CurrentValue)
	}
	if p.Contributions != 200 {
		t.Errorf("expected contributions 200, got %.2f", p.Contributions)
	}

	grown := p.Grow()
	if math.Abs(grown-1204.89) > 0.01 {
		t.Errorf("Grow() = %.4f, expected about 1204.89", grown)
	}
}
