package simulation

import "fmt"

// ArithmeticAnomaly reports a NaN or infinite value produced during a run.
// It signals a defect in the inputs or the model, so the whole run is
// discarded rather than returning a partial ledger.
type ArithmeticAnomaly struct {
	Stage string // "month" or "year"
	Index int
	Field string
	Value float64
}

func (e *ArithmeticAnomaly) Error() string {
	return fmt.Sprintf("arithmetic anomaly in %s %d: %s = %v", e.Stage, e.Index, e.Field, e.Value)
}
