// Package timeutil provides the clock arithmetic used by the Iqama rule engine.
//
// All helpers operate on zone-aware time.Time values and never mutate their
// input. Daylight-saving handling follows a simple convention: a time that is
// under DST is "normalized" by moving it back one hour so that it can be
// compared with standard-time readings, and "denormalized" by moving it
// forward again before it is shown or clamped.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when a configured clock string is not HH:MM.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

const (
	// ClockLayout is the zero-padded hour:minute layout used in reports.
	ClockLayout = "15:04"
	// ClockSecondsLayout includes seconds.
	ClockSecondsLayout = "15:04:05"
	// DateLayout is the ISO calendar date layout used in reports.
	DateLayout = "2006-01-02"
)

// TimeToMinutes returns the minute of day for t, minus 60 when t is under DST.
func TimeToMinutes(t time.Time) int {
	minutes := t.Hour()*60 + t.Minute()
	if t.IsDST() {
		minutes -= 60
	}
	return minutes
}

// RoundDown truncates the minute of t to a multiple of interval and zeroes the
// seconds. An interval of 1 or less returns t unchanged.
func RoundDown(t time.Time, interval int) time.Time {
	if interval <= 1 {
		return t
	}
	minute := t.Minute() - t.Minute()%interval
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

// RoundUp moves the minute of t up to the next multiple of interval and zeroes
// the seconds. A minute already on a multiple is kept. An interval of 1 or less
// returns t unchanged.
func RoundUp(t time.Time, interval int) time.Time {
	if interval <= 1 {
		return t
	}
	minute := t.Minute()
	if rem := minute % interval; rem != 0 {
		minute += interval - rem
	}
	// time.Date carries minute 60 into the next hour.
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

// NormalizeForDST moves t back one hour when it is under daylight saving time.
func NormalizeForDST(t time.Time) time.Time {
	if t.IsDST() {
		return t.Add(-time.Hour)
	}
	return t
}

// DenormalizeForDST moves t forward one hour when it is under daylight saving
// time. It reverses NormalizeForDST and must run before clamping a computed
// time against wall-clock bounds.
func DenormalizeForDST(t time.Time) time.Time {
	if t.IsDST() {
		return t.Add(time.Hour)
	}
	return t
}

// StartOfDay returns the first instant of the calendar day year-month-day in
// loc. Where the clocks jump over midnight the day starts at the first hour
// that exists. Out-of-range values normalize like time.Date.
func StartOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	year, month, day = time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Date()
	for hour := 0; hour < 24; hour++ {
		t := time.Date(year, month, day, hour, 0, 0, 0, loc)
		if y, m, d := t.Date(); y == year && m == month && d == day {
			return t
		}
	}
	return time.Date(year, month, day, 12, 0, 0, 0, loc)
}

// CalendarDays counts the calendar days from a to b inclusive, each read in
// its own zone. It is zero or negative when b's day is before a's.
func CalendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()/24) + 1
}

// ParseClock combines the calendar date of ref with an "HH:MM" string, in the
// zone of ref. Hours must be 00-23 and minutes 00-59.
func ParseClock(ref time.Time, clock string) (time.Time, error) {
	hour, minute, err := splitClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), nil
}

// ValidateClock reports whether clock is a well-formed "HH:MM" string.
func ValidateClock(clock string) error {
	_, _, err := splitClock(clock)
	return err
}

func splitClock(clock string) (int, int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	hour, err := parseTwoDigits(clock[:2])
	if err != nil || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	minute, err := parseTwoDigits(clock[3:])
	if err != nil || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	return hour, minute, nil
}

func parseTwoDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}

// Format renders t as zero-padded "HH:MM".
func Format(t time.Time) string {
	return t.Format(ClockLayout)
}

// arabicDigits maps ASCII '0'..'9' to Arabic-Indic digits.
var arabicDigits = [10]rune{'٠', '١', '٢', '٣', '٤', '٥', '٦', '٧', '٨', '٩'}

// ArabicNumerals renders v as a string with every ASCII digit replaced by its
// Arabic-Indic glyph. Other characters are left as they are.
func ArabicNumerals(v any) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(v)
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(arabicDigits[r-'0'])
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
