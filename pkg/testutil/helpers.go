// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-sim/internal/simulation"
)

// FindYear finds the record for a zero-based year in the yearly table.
// Returns a pointer to the record if found, nil otherwise.
func FindYear(yearly []simulation.YearRecord, year int) *simulation.YearRecord {
	for i := range yearly {
		if yearly[i].Year == year {
			return &yearly[i]
		}
	}
	return nil
}

// FindComparisonRow finds the comparison row for a zero-based year.
func FindComparisonRow(rows []simulation.ComparisonRow, year int) *simulation.ComparisonRow {
	for i := range rows {
		if rows[i].Year == year {
			return &rows[i]
		}
	}
	return nil
}
