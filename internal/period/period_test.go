package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		start time.Time
		end   time.Time
		name  string
		label string
		year  int
	}{
		{name: "annual", label: "Annual", year: 2024, start: date(2024, 1, 1), end: date(2024, 12, 31)},
		{name: "q1", label: "Q1", year: 2024, start: date(2024, 1, 1), end: date(2024, 3, 31)},
		{name: "q2", label: "Q2", year: 2024, start: date(2024, 4, 1), end: date(2024, 6, 30)},
		{name: "q3 long form", label: "Third Quarter", year: 2024, start: date(2024, 7, 1), end: date(2024, 9, 30)},
		{name: "q4 lower case", label: "q4", year: 2024, start: date(2024, 10, 1), end: date(2024, 12, 31)},
		{name: "february non-leap", label: "February", year: 2023, start: date(2023, 2, 1), end: date(2023, 2, 28)},
		{name: "february leap", label: "February", year: 2024, start: date(2024, 2, 1), end: date(2024, 2, 29)},
		{name: "padded month", label: "  december ", year: 2022, start: date(2022, 12, 1), end: date(2022, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := Resolve(tt.label, tt.year)
			require.True(t, ok)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestResolve_Unrecognized(t *testing.T) {
	for _, label := range []string{"Bogus", "", "Q5", "Sept"} {
		_, ok := Resolve(label, 2024)
		assert.False(t, ok, "label %q", label)
	}
}

func TestLabels(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 17)
	assert.Equal(t, "Annual", labels[0])
	assert.Equal(t, "December", labels[16])

	for _, l := range labels {
		_, ok := Resolve(l, 2024)
		assert.True(t, ok, "label %q should resolve", l)
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}
