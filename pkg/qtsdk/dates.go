package qtsdk

import (
	"net/url"
	"time"
)

// The API takes dates as midnight with a fixed -05:00 offset. The suffix is
// appended rather than formatted since ".000000" is a layout token.
const (
	dateLayout = "2006-01-02"
	dateSuffix = "T00:00:00.000000-05:00"
)

// FormatDate renders the calendar date of t as an API date parameter. Time of
// day is discarded.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout) + dateSuffix
}

// DateRange is a closed range of calendar dates. The zero value means "no
// range" for endpoints where the range is optional.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range from two instants in either order: the earlier
// one always becomes the start.
func NewDateRange(a, b time.Time) DateRange {
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{start: a, end: b}
}

// Start returns the earlier instant.
func (r DateRange) Start() time.Time { return r.start }

// End returns the later instant.
func (r DateRange) End() time.Time { return r.end }

// IsZero reports whether the range is unset.
func (r DateRange) IsZero() bool { return r.start.IsZero() && r.end.IsZero() }

// apply sets startTime and endTime on q.
func (r DateRange) apply(q url.Values) {
	q.Set("startTime", FormatDate(r.start))
	q.Set("endTime", FormatDate(r.end))
}
