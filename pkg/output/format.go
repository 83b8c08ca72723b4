// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-sim/internal/metrics"
	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report bundles everything rendered for one run. Comparison and
// ExtraPaymentMetrics are only set when the extra-payment plan was compared.
type Report struct {
	Result              *simulation.Result     `json:"result"`
	MortgageMetrics     metrics.Set            `json:"mortgage_metrics"`
	InvestmentMetrics   metrics.Set            `json:"investment_metrics"`
	Comparison          *simulation.Comparison `json:"comparison,omitempty"`
	ExtraPaymentMetrics metrics.Set            `json:"extra_payment_metrics,omitempty"`
	Warnings            []string               `json:"warnings,omitempty"`
}

// ratioColumns are rendered with more precision than currency.
var ratioColumns = map[string]bool{
	"roi":                true,
	"annualized_roi":     true,
	"annualized_coc_roi": true,
	"annual_roe":         true,
}

// PrettyFormat writes a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, report Report) {
	p := message.NewPrinter(language.English)
	res := report.Result

	writeMetrics(p, w, "Mortgage", report.MortgageMetrics)
	writeMetrics(p, w, "Investment", report.InvestmentMetrics)

	_, _ = fmt.Fprintf(w, "--- Yearly results (run %s) ---\n", res.RunID)
	_, _ = fmt.Fprintf(w, "Year | Loan Balance | Home Value | Equity | NIAF | Cum NIAF | Net Worth Post Sale | Annualized ROI | Renting Net Worth\n")
	_, _ = fmt.Fprintf(w, "____ | ____________ | __________ | ______ | ____ | ________ | ___________________ | ______________ | _________________\n")
	for _, y := range res.Yearly {
		_, _ = fmt.Fprintf(w, "%4d | %s | %s | %s | %s | %s | %s | %s | %s\n",
			y.Year+1, format.Currency(y.LoanBalance), format.Currency(y.HomeValue), format.Currency(y.Equity),
			format.Currency(y.NIAF), format.Currency(y.CumNIAF), format.Currency(y.NetWorthPostSale),
			format.Percent(y.AnnualizedROI), format.Currency(y.RentingNetWorth))
	}

	if report.Comparison != nil {
		_, _ = fmt.Fprintf(w, "\n")
		writeMetrics(p, w, "Extra payments", report.ExtraPaymentMetrics)
		_, _ = fmt.Fprintf(w, "Year | EP Loan Balance | Pay Down Loan | Contribute to Stocks\n")
		_, _ = fmt.Fprintf(w, "____ | _______________ | _____________ | ____________________\n")
		for _, row := range simulation.TrimAfterPayoff(report.Comparison.Rows) {
			_, _ = fmt.Fprintf(w, "%4d | %s | %s | %s\n",
				row.Year+1, format.Currency(row.EPLoanBalance), format.Currency(row.EPNetWorthDelta),
				format.Currency(row.PortfolioNetWorthDelta))
		}
	}

	for _, warning := range report.Warnings {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func writeMetrics(p *message.Printer, w io.Writer, title string, set metrics.Set) {
	if len(set) == 0 {
		return
	}
	_, _ = p.Fprintf(w, "--- %s metrics ---\n", title)
	for _, m := range set {
		_, _ = p.Fprintf(w, "%-24s %s\n", m.Label+":", m.Value)
	}
	_, _ = fmt.Fprintf(w, "\n")
}

// CsvFormat writes the yearly table in comma-separated value format. The
// first column is the year; the rest follow simulation.YearRecord.Columns.
func CsvFormat(w io.Writer, yearly []simulation.YearRecord) error {
	cw := csv.NewWriter(w)
	if len(yearly) == 0 {
		cw.Flush()
		return cw.Error()
	}

	columns := yearly[0].Columns()
	header := make([]string, 0, len(columns)+1)
	header = append(header, "year")
	for _, col := range columns {
		header = append(header, col.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, y := range yearly {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(y.Year))
		for _, col := range y.Columns() {
			record = append(record, formatCell(y, col))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(y simulation.YearRecord, col simulation.NamedValue) string {
	if col.Name == "annual_roe" && !y.AnnualROEDefined {
		return ""
	}
	if ratioColumns[col.Name] {
		return strconv.FormatFloat(col.Value, 'f', 6, 64)
	}
	return strconv.FormatFloat(col.Value, 'f', 2, 64)
}

// CsvString returns the CSV rendering of the yearly table.
func CsvString(yearly []simulation.YearRecord) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, yearly); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat writes the full report as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
