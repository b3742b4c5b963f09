package okr

// ConfidenceCounts is one day's bucket of key results by confidence.
type ConfidenceCounts struct {
	OnTrack  int `json:"onTrack"`
	AtRisk   int `json:"atRisk"`
	OffTrack int `json:"offTrack"`
}

// Burndown pairs the shared date axis with the ideal linear line and the
// actual on-track counts. Actual entries after today are nil: not yet
// known, rendered as gaps rather than zeros.
type Burndown struct {
	Dates  []string  `json:"dates"`
	Ideal  []float64 `json:"ideal"`
	Actual []*int    `json:"actual"`
}

// DailyConfidenceCounts buckets every key result across the objectives by
// its as-of confidence for each date in the range. A key result whose
// earliest history entry postdates a day did not exist yet and does not
// contribute to that day.
func DailyConfidenceCounts(objectives []Objective, dates []string) map[string]ConfidenceCounts {
	counts := make(map[string]ConfidenceCounts, len(dates))
	for _, date := range dates {
		counts[date] = ConfidenceCounts{}
	}
	for _, obj := range objectives {
		for _, kr := range obj.KeyResults {
			if len(kr.History) == 0 {
				continue
			}
			for _, date := range dates {
				conf, ok := confidenceAsOf(kr, date)
				if !ok {
					continue
				}
				c := counts[date]
				switch conf {
				case ConfidenceAtRisk:
					c.AtRisk++
				case ConfidenceOffTrack:
					c.OffTrack++
				default:
					c.OnTrack++
				}
				counts[date] = c
			}
		}
	}
	return counts
}

// WeeklyVelocity samples point-in-time overall progress at numWeeks+1
// weekly checkpoints ending today and returns the week-over-week deltas in
// percentage points. It is a derivative of reconstruction, not a stored
// quantity.
func WeeklyVelocity(objectives []Objective, today string, numWeeks int) ([]int, error) {
	samples := make([]int, 0, numWeeks+1)
	for i := numWeeks; i >= 0; i-- {
		asOf, err := AddDays(today, -7*i)
		if err != nil {
			return nil, err
		}
		sample, err := OverallProgressAsOf(objectives, asOf)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	velocities := make([]int, 0, numWeeks)
	for i := 1; i < len(samples); i++ {
		velocities = append(velocities, samples[i]-samples[i-1])
	}
	return velocities, nil
}

// BurndownSeries derives the cycle's key-result burndown: the ideal line
// runs linearly from the count of key results On Track at cycle start down
// to zero at cycle end, and the actual line counts reconstructed On Track
// key results per day up to today. Cycles missing a start or end date
// yield ErrInsufficientData.
func BurndownSeries(objectives []Objective, cycle Cycle, today string) (*Burndown, error) {
	if cycle.StartDate == "" || cycle.EndDate == "" {
		return nil, ErrInsufficientData
	}
	dates, err := DateRange(cycle.StartDate, cycle.EndDate)
	if err != nil {
		return nil, err
	}
	span, err := daysBetween(cycle.StartDate, cycle.EndDate)
	if err != nil {
		return nil, err
	}

	var krs []KeyResult
	for _, obj := range objectives {
		krs = append(krs, obj.KeyResults...)
	}

	onTrackAtStart := 0
	for _, kr := range krs {
		if conf, ok := confidenceAsOf(kr, cycle.StartDate); ok && conf == ConfidenceOnTrack {
			onTrackAtStart++
		}
	}

	ideal := make([]float64, len(dates))
	for i := range dates {
		if span > 0 {
			ideal[i] = float64(onTrackAtStart) - float64(onTrackAtStart)*float64(i)/float64(span)
		} else {
			ideal[i] = float64(onTrackAtStart)
		}
	}

	actual := make([]*int, len(dates))
	for i, date := range dates {
		if date > today {
			continue
		}
		count := 0
		for _, kr := range krs {
			if conf, ok := confidenceAsOf(kr, date); ok && conf == ConfidenceOnTrack {
				count++
			}
		}
		n := count
		actual[i] = &n
	}

	return &Burndown{Dates: dates, Ideal: ideal, Actual: actual}, nil
}
