package board

import (
	"time"
)

// CalendarDay is one cell of a month or week grid.
type CalendarDay struct {
	Date           Date
	IsCurrentMonth bool
	IsToday        bool
}

// BuildMonthGrid returns the cells of a Sunday-first month grid: trailing
// days of the previous month, every day of the month, then leading days of
// the next month up to 35 cells, or 42 when the month spills into a sixth row.
func BuildMonthGrid(year int, month time.Month, today Date) []CalendarDay {
	first := NewDate(year, month, 1)
	lead := int(first.Weekday())
	days := DaysIn(first.Year, first.Month)

	total := 35
	if lead+days > 35 {
		total = 42
	}

	grid := make([]CalendarDay, 0, total)
	start := first.AddDays(-lead)
	for i := 0; i < total; i++ {
		d := start.AddDays(i)
		grid = append(grid, CalendarDay{
			Date:           d,
			IsCurrentMonth: d.SameMonth(first),
			IsToday:        d == today,
		})
	}
	return grid
}

// BuildWeekGrid returns the seven days from the Sunday on or before ref.
// IsCurrentMonth marks the days in ref's month.
func BuildWeekGrid(ref, today Date) []CalendarDay {
	start := ref.StartOfWeek()
	grid := make([]CalendarDay, 7)
	for i := range grid {
		d := start.AddDays(i)
		grid[i] = CalendarDay{
			Date:           d,
			IsCurrentMonth: d.SameMonth(ref),
			IsToday:        d == today,
		}
	}
	return grid
}
