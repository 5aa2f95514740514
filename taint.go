package recordflow

import "github.com/recordflow/recordflow/internal/ta"

// CheckTaint reports whether a's observed program is safe to run: nil if
// every registered command sink is provably untainted, or the first
// rejected sink wrapped as a *TaintError otherwise.
//
// Callers that need every rejected sink (not just the first) should call
// a.RejectedSinks directly instead.
func CheckTaint(a *ta.Analyzer) error {
	rejected := a.RejectedSinks()
	if len(rejected) == 0 {
		return nil
	}
	return &TaintError{Sink: rejected[0].String()}
}
