package okr

import "strconv"

// SeedHistory installs the initial history entry for a newly created key
// result, snapshotting its starting current value and confidence.
func SeedHistory(kr *KeyResult, today string) {
	kr.History = []HistoryEntry{{
		Date:       today,
		Value:      kr.CurrentValue,
		Confidence: kr.Confidence,
	}}
}

// RecordHistoryIfChanged applies a new current value and confidence to the
// key result, appending one history entry capturing both fields when
// either differs from the stored state. Values are compared after string
// normalization so 5 and 5.0 are the same update. Repeating an identical
// update is a no-op, so the history stays one entry per actual change.
//
// Several updates on one calendar day produce several entries with the
// same date; reconstruction resolves the tie by append order.
func RecordHistoryIfChanged(kr *KeyResult, newValue float64, newConfidence Confidence, today string) bool {
	valueChanged := formatValue(kr.CurrentValue) != formatValue(newValue)
	confidenceChanged := kr.Confidence != newConfidence

	if valueChanged || confidenceChanged {
		kr.History = append(kr.History, HistoryEntry{
			Date:       today,
			Value:      newValue,
			Confidence: newConfidence,
		})
	}

	kr.CurrentValue = newValue
	kr.Confidence = newConfidence
	return valueChanged || confidenceChanged
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
