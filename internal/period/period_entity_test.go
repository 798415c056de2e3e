package period_test

import (
	"testing"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/period"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to period.PeriodStatus
		want     bool
	}{
		{period.StatusDraft, period.StatusOpen, true},
		{period.StatusDraft, period.StatusClosed, false},
		{period.StatusDraft, period.StatusProcessing, false},
		{period.StatusOpen, period.StatusProcessing, true},
		{period.StatusOpen, period.StatusClosed, true},
		{period.StatusOpen, period.StatusDraft, false},
		{period.StatusProcessing, period.StatusClosed, true},
		{period.StatusProcessing, period.StatusOpen, false},
		{period.StatusClosed, period.StatusOpen, true},
		{period.StatusClosed, period.StatusDraft, false},
		{period.StatusClosed, period.StatusProcessing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, period.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNumbering(t *testing.T) {
	cases := []struct {
		name       string
		periodType string
		start      string
		year       int
		month      int
		number     int
	}{
		{"monthly uses the month", period.TypeMonthly, "2024-02-01", 2024, 2, 2},
		{"biweekly first fortnight", period.TypeBiweekly, "2024-01-01", 2024, 1, 1},
		{"biweekly day fourteen", period.TypeBiweekly, "2024-01-14", 2024, 1, 1},
		{"biweekly day fifteen", period.TypeBiweekly, "2024-01-15", 2024, 1, 2},
		{"weekly iso week", period.TypeWeekly, "2024-03-04", 2024, 3, 10},
		{"weekly iso year rolls over", period.TypeWeekly, "2024-12-30", 2025, 12, 1},
		{"special is always one", period.TypeSpecial, "2024-06-20", 2024, 6, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			year, month, number := period.Numbering(tc.periodType, day(tc.start))
			assert.Equal(t, tc.year, year)
			assert.Equal(t, tc.month, month)
			assert.Equal(t, tc.number, number)
		})
	}
}

func TestPayrollPeriod_Days(t *testing.T) {
	p := period.PayrollPeriod{StartDate: day("2024-02-01"), EndDate: day("2024-02-29")}
	assert.Equal(t, 29, p.Days())

	p = period.PayrollPeriod{StartDate: day("2024-06-01"), EndDate: day("2024-06-15")}
	assert.Equal(t, 15, p.Days())
}
