package models

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date represents a calendar date in YYYY-MM-DD form. Lexicographic
// comparison of two Dates matches calendar ordering, which the schedule
// history resolver relies on.
type Date string

// NewDate truncates a time.Time to its calendar date.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return NewDate(t), nil
}

// Time returns the date at midnight UTC. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// WeekdayIndex returns 0 for Sunday through 6 for Saturday.
func (d Date) WeekdayIndex() int {
	return int(d.Time().Weekday())
}

// Next returns the following calendar day, crossing month and year
// boundaries correctly.
func (d Date) Next() Date {
	return NewDate(d.Time().AddDate(0, 0, 1))
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool {
	return string(d) > string(other)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}
