// Package period turns dashboard period labels into calendar date windows.
package period

import (
	"strings"
	"time"

	"github.com/Veraticus/budget-sheets/internal/model"
)

// Annual is the label selecting the whole year.
const Annual = "Annual"

var quarterAliases = map[string]int{
	"q1": 1, "first quarter": 1,
	"q2": 2, "second quarter": 2,
	"q3": 3, "third quarter": 3,
	"q4": 4, "fourth quarter": 4,
}

// Resolve maps a period label and year onto an inclusive date window.
// Labels are trimmed and compared case-insensitively. The boolean is false
// when the label is not recognized.
func Resolve(label string, year int) (model.PeriodWindow, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return model.PeriodWindow{}, false
	}

	if key == strings.ToLower(Annual) {
		return span(year, time.January, 12), true
	}

	if q, ok := quarterAliases[key]; ok {
		return span(year, time.Month((q-1)*3+1), 3), true
	}

	for m := time.January; m <= time.December; m++ {
		if key == strings.ToLower(m.String()) {
			return span(year, m, 1), true
		}
	}

	return model.PeriodWindow{}, false
}

// span covers months whole months starting at the first of start.
func span(year int, start time.Month, months int) model.PeriodWindow {
	first := time.Date(year, start, 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the following month is the last day of this one.
	last := time.Date(year, start+time.Month(months), 0, 0, 0, 0, 0, time.UTC)
	return model.PeriodWindow{Start: first, End: last}
}

// Labels lists the selectable period labels in dropdown order.
func Labels() []string {
	labels := []string{Annual, "Q1", "Q2", "Q3", "Q4"}
	for m := time.January; m <= time.December; m++ {
		labels = append(labels, m.String())
	}
	return labels
}

// MonthName returns the English name of a 1-based month number, or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}
