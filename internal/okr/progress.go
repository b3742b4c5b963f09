package okr

import "math"

// KeyResultProgress computes a key result's completion percentage from its
// start/current/target values. When target equals start there is no
// distance to travel and the metric counts as complete. The result is
// clamped to [0, 100] even when the current value over- or undershoots.
func KeyResultProgress(kr KeyResult) (float64, error) {
	if err := validateValues(kr); err != nil {
		return 0, err
	}
	if kr.TargetValue == kr.StartValue {
		return 100, nil
	}
	pct := (kr.CurrentValue - kr.StartValue) / (kr.TargetValue - kr.StartValue) * 100
	return math.Max(0, math.Min(100, pct)), nil
}

// ObjectiveProgress computes the rounded mean of the objective's key
// result progress percentages. An objective with no key results is at 0.
func ObjectiveProgress(obj Objective) (int, error) {
	if len(obj.KeyResults) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, kr := range obj.KeyResults {
		pct, err := KeyResultProgress(kr)
		if err != nil {
			return 0, err
		}
		total += pct
	}
	return roundHalfUp(total / float64(len(obj.KeyResults))), nil
}

// Recalculate recomputes and writes back the progress fields of the
// objective and each of its key results. It is the write-through adapter
// over the pure computations; services call it after every key result
// mutation so stored progress is never stale.
func Recalculate(obj *Objective) error {
	for i := range obj.KeyResults {
		pct, err := KeyResultProgress(obj.KeyResults[i])
		if err != nil {
			return err
		}
		obj.KeyResults[i].Progress = pct
	}
	pct, err := ObjectiveProgress(*obj)
	if err != nil {
		return err
	}
	obj.Progress = pct
	return nil
}

// OverallProgress is the rounded mean of the objectives' stored progress,
// or 0 when there are none.
func OverallProgress(objectives []Objective) int {
	if len(objectives) == 0 {
		return 0
	}
	total := 0
	for _, obj := range objectives {
		total += obj.Progress
	}
	return roundHalfUp(float64(total) / float64(len(objectives)))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func validateValues(kr KeyResult) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"startValue", kr.StartValue},
		{"currentValue", kr.CurrentValue},
		{"targetValue", kr.TargetValue},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Value: f.value}
		}
	}
	return nil
}
