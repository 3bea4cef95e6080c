package amortization

import (
	"fmt"
	"time"
)

// Clock is a replaceable time source. The engine never reads it; it only feeds preset release dates at the
// service boundary.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// HolidayCalendar reports non-business days.
type HolidayCalendar interface {
	IsHoliday(t time.Time) bool
}

// WeekendCalendar treats Saturdays, Sundays and the listed dates as non-business days.
type WeekendCalendar struct {
	Holidays map[string]bool // yyyy-mm-dd
}

func (w WeekendCalendar) IsHoliday(t time.Time) bool {
	if w.Holidays[t.Format(time.DateOnly)] {
		return true
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseHolidays builds a WeekendCalendar from yyyy-mm-dd strings.
func ParseHolidays(dates []string) (WeekendCalendar, error) {
	m := make(map[string]bool, len(dates))
	for _, d := range dates {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return WeekendCalendar{}, fmt.Errorf("holiday %q: %w", d, err)
		}
		m[t.Format(time.DateOnly)] = true
	}
	return WeekendCalendar{Holidays: m}, nil
}

// Config holds the engine settings a Calculator is built with.
type Config struct {
	RoundStrategy RoundStrategy
	Holiday       HolidayCalendar
}

func (c Config) withDefaults() Config {
	if c.RoundStrategy == nil {
		c.RoundStrategy = HalfUpRound
	}
	if c.Holiday == nil {
		c.Holiday = WeekendCalendar{}
	}
	return c
}
