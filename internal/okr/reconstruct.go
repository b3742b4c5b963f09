package okr

// entryAsOf returns the history entry that was current as of the given
// date: the latest entry with date <= asOf, with append order breaking
// ties among same-date entries. ISO dates compare lexically.
func entryAsOf(history []HistoryEntry, asOf string) (HistoryEntry, bool) {
	var best HistoryEntry
	found := false
	for _, entry := range history {
		if entry.Date > asOf {
			continue
		}
		if !found || entry.Date >= best.Date {
			best = entry
			found = true
		}
	}
	return best, found
}

// confidenceAsOf resolves the key result's confidence as of a date.
// Entries recorded without a confidence count as On Track.
func confidenceAsOf(kr KeyResult, asOf string) (Confidence, bool) {
	entry, ok := entryAsOf(kr.History, asOf)
	if !ok {
		return "", false
	}
	if entry.Confidence == "" {
		return ConfidenceOnTrack, true
	}
	return entry.Confidence, true
}

// ReconstructAsOf derives the objective's state as of a past date from the
// history logs. Each key result takes the value of its latest entry dated
// on or before asOf, falling back to the start value when the date
// predates all history. Progress is recomputed on the returned copy; the
// live objective is never mutated.
func ReconstructAsOf(obj Objective, asOf string) (Objective, error) {
	out := obj.Copy()
	for i := range out.KeyResults {
		kr := &out.KeyResults[i]
		if entry, ok := entryAsOf(kr.History, asOf); ok {
			kr.CurrentValue = entry.Value
		} else {
			kr.CurrentValue = kr.StartValue
		}
	}
	if err := Recalculate(&out); err != nil {
		return Objective{}, err
	}
	return out, nil
}

// OverallProgressAsOf reconstructs every objective as of the given date
// and returns the rounded mean of their progress.
func OverallProgressAsOf(objectives []Objective, asOf string) (int, error) {
	if len(objectives) == 0 {
		return 0, nil
	}
	total := 0
	for _, obj := range objectives {
		rec, err := ReconstructAsOf(obj, asOf)
		if err != nil {
			return 0, err
		}
		total += rec.Progress
	}
	return roundHalfUp(float64(total) / float64(len(objectives))), nil
}
