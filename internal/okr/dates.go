package okr

import "time"

// DateLayout is the ISO calendar-date format used throughout history
// entries and cycle boundaries. Date-only strings in this layout order
// lexically, which the engine relies on.
const DateLayout = "2006-01-02"

// Today formats the given instant as a calendar date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// AddDays shifts an ISO date by a number of days (negative for the past).
func AddDays(date string, days int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// DateRange returns the inclusive sequence of consecutive days from start
// to end. The same axis is shared by every derived series so charts line
// up; callers build it once.
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, err
	}
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// TrailingDates returns the last n calendar days ending at (and including)
// the given date, oldest first.
func TrailingDates(end string, n int) ([]string, error) {
	start, err := AddDays(end, -(n - 1))
	if err != nil {
		return nil, err
	}
	return DateRange(start, end)
}

func daysBetween(start, end string) (int, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return 0, err
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from) / (24 * time.Hour)), nil
}
