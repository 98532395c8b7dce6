package model

import "time"

// PeriodWindow is an inclusive range of calendar dates.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on or between the window's start and end dates.
func (w PeriodWindow) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := DateOnly(t)
	return !d.Before(DateOnly(w.Start)) && !d.After(DateOnly(w.End))
}

// Year is the calendar year the window starts in.
func (w PeriodWindow) Year() int {
	return w.Start.Year()
}
