// Package period provides calendar date ranges, the preceding comparison
// period and the range presets offered by the dashboard.
package period

import (
	"fmt"
	"time"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// Layout is the wire format for date query parameters.
const Layout = time.DateOnly

// Query parameter names filled by Params.
const (
	ParamStartDate     = "start_date"
	ParamEndDate       = "end_date"
	ParamPrevStartDate = "prev_start_date"
	ParamPrevEndDate   = "prev_end_date"
)

// Range is an inclusive span of calendar days. Start and End are UTC midnights.
type Range struct {
	Start time.Time
	End   time.Time
}

// Day returns the UTC midnight of the calendar date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// New builds a range, rejecting an end date before the start date.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if r.End.Before(r.Start) {
		return Range{}, &models.ValidationError{Field: "date range", Message: "End date must be after start date"}
	}
	return r, nil
}

// Last returns the range of the given number of days ending on today.
func Last(days int, today time.Time) Range {
	end := Day(today)
	return Range{Start: end.AddDate(0, 0, -(max(days, 1) - 1)), End: end}
}

// Span returns End - Start in whole days. It counts calendar days rather
// than subtracting times, since time.Duration overflows after 292 years.
func (r Range) Span() int {
	return int(epochDay(r.End) - epochDay(r.Start))
}

func epochDay(t time.Time) int64 {
	return Day(t).Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// Days returns the number of calendar days covered, both ends included.
func (r Range) Days() int {
	return r.Span() + 1
}

// Previous returns the adjacent range of equal length that ends the day
// before r starts.
func (r Range) Previous() Range {
	end := r.Start.AddDate(0, 0, -1)
	return Range{Start: end.AddDate(0, 0, -r.Span()), End: end}
}

// Params returns the current and previous period as query parameters.
func (r Range) Params() models.Params {
	prev := r.Previous()
	return models.Params{
		ParamStartDate:     r.Start.Format(Layout),
		ParamEndDate:       r.End.Format(Layout),
		ParamPrevStartDate: prev.Start.Format(Layout),
		ParamPrevEndDate:   prev.End.Format(Layout),
	}
}

// CurrentParams returns only the current period, for charts.
func (r Range) CurrentParams() models.Params {
	return models.Params{
		ParamStartDate: r.Start.Format(Layout),
		ParamEndDate:   r.End.Format(Layout),
	}
}

// Equal reports whether both ranges cover the same days.
func (r Range) Equal(o Range) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(Layout), r.End.Format(Layout))
}
