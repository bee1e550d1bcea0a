package dialog

import (
	"time"

	"github.com/booruapp/tagsearch-server/internal/query"
)

// Calendar is the date picker shown next to the form's date field.
type Calendar struct {
	Min      time.Time `json:"min"`
	Max      time.Time `json:"max"`
	Selected time.Time `json:"selected"`
}

// calendarStart is the earliest selectable date.
var calendarStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewCalendar builds the picker for a form whose date field holds date.
// The range runs from 2000-01-01 to the day after now. The selection is the
// parsed date clamped into the range, or today when date does not parse.
func NewCalendar(now time.Time, date string) Calendar {
	today := truncateDay(now)
	c := Calendar{
		Min:      calendarStart,
		Max:      today.AddDate(0, 0, 1),
		Selected: today,
	}

	if t, ok := (query.Query{Date: date}).ParsedDate(); ok {
		c.Selected = c.clamp(t)
	}
	return c
}

// Select stores t in the form's date field using the query date layout.
// Dates outside the range are clamped to it.
func (c Calendar) Select(f *Form, t time.Time) string {
	f.Date = c.clamp(t).Format(query.DateLayout)
	return f.Date
}

func (c Calendar) clamp(t time.Time) time.Time {
	d := truncateDay(t)
	switch {
	case d.Before(c.Min):
		return c.Min
	case d.After(c.Max):
		return c.Max
	}
	return d
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
