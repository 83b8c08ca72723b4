// Package format renders currency and percentage values for display.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with cents and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return signed(amount, printer.Sprintf("%.2f", math.Abs(amount)), "0.00")
}

// WholeCurrency returns a currency string rounded to whole dollars (e.g., "$1,235").
func WholeCurrency(amount float64) string {
	return signed(amount, printer.Sprintf("%.0f", math.Abs(amount)), "0")
}

// Percent formats a fraction as a percentage with one decimal (0.1234 -> "12.3%").
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// signed places the minus sign ahead of the dollar sign. Amounts that round
// to zero are never negative.
func signed(amount float64, formatted, zero string) string {
	if amount < 0 && formatted != zero {
		return "-$" + formatted
	}
	return "$" + formatted
}
