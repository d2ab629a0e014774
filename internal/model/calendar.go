package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("model: invalid date")
	ErrInvalidClock = errors.New("model: invalid time of day")
)

// Date is a calendar day without a time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON accepts "2006-01-02" and the [year, month, day] array form
// written by serializers that store dates as timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, "[") {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) != 3 {
			return fmt.Errorf("%w: %s", ErrInvalidDate, raw)
		}
		parsed := Date{Year: parts[0], Month: time.Month(parts[1]), Day: parts[2]}
		if DateOf(parsed.In(time.UTC)) != parsed {
			return fmt.Errorf("%w: %s", ErrInvalidDate, raw)
		}
		*d = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, raw)
	}
	return d.UnmarshalText([]byte(s))
}

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// EndOfDay is the due time given to quick-added tasks.
var EndOfDay = Clock{Hour: 23, Minute: 59}

func NewClock(hour, minute int) (Clock, error) {
	c := Clock{Hour: hour, Minute: minute}
	if !c.IsValid() {
		return Clock{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidClock, hour, minute)
	}
	return c, nil
}

// ParseClock accepts "15:04" and "15:04:05"; seconds are dropped.
func ParseClock(s string) (Clock, error) {
	trimmed := strings.TrimSpace(s)
	t, err := time.Parse(ClockLayout, trimmed)
	if err != nil {
		t, err = time.Parse("15:04:05", trimmed)
		if err != nil {
			return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) IsValid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On combines c with day d in loc.
func (c Clock) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON accepts "15:04", "15:04:05" and the [hour, minute(, second)]
// array form.
func (c *Clock) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, "[") {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) < 2 {
			return fmt.Errorf("%w: %s", ErrInvalidClock, raw)
		}
		parsed, err := NewClock(parts[0], parts[1])
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidClock, raw)
	}
	return c.UnmarshalText([]byte(s))
}
