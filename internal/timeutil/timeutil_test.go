package timeutil

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// ---------------------------------------------------------------------------
// TimeToMinutes
// ---------------------------------------------------------------------------

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		name string
		h, m int
		want int
	}{
		{"early morning", 5, 30, 330},
		{"afternoon", 13, 45, 825},
		{"late night", 23, 15, 1395},
		{"midnight", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := time.Date(2023, 1, 1, tt.h, tt.m, 0, 0, time.UTC)
			if got := TimeToMinutes(ts); got != tt.want {
				t.Errorf("TimeToMinutes(%s) = %d, want %d", ts.Format(ClockLayout), got, tt.want)
			}
		})
	}
}

func TestTimeToMinutes_DST(t *testing.T) {
	ts := time.Date(2023, 7, 1, 14, 30, 0, 0, newYork(t))
	if !ts.IsDST() {
		t.Fatal("expected July in New York to be DST")
	}
	if got := TimeToMinutes(ts); got != 810 {
		t.Errorf("TimeToMinutes = %d, want 810", got)
	}
}

// ---------------------------------------------------------------------------
// RoundDown / RoundUp
// ---------------------------------------------------------------------------

func TestRoundDown(t *testing.T) {
	tests := []struct {
		name     string
		h, m, s  int
		interval int
		want     string
	}{
		{"no rounding keeps seconds", 13, 45, 30, 1, "13:45:30"},
		{"five minutes", 13, 47, 30, 5, "13:45:00"},
		{"fifteen minutes", 13, 59, 59, 15, "13:45:00"},
		{"exact multiple", 13, 45, 0, 15, "13:45:00"},
		{"thirty minutes", 14, 1, 30, 30, "14:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := time.Date(2023, 1, 1, tt.h, tt.m, tt.s, 0, time.UTC)
			got := RoundDown(in, tt.interval)
			if got.Format(ClockSecondsLayout) != tt.want {
				t.Errorf("RoundDown = %s, want %s", got.Format(ClockSecondsLayout), tt.want)
			}
			if got.Format(DateLayout) != in.Format(DateLayout) {
				t.Errorf("date changed: %s", got.Format(DateLayout))
			}
			if got.Location() != in.Location() {
				t.Errorf("location changed: %v", got.Location())
			}
		})
	}
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		name     string
		h, m, s  int
		interval int
		want     string
	}{
		{"no rounding keeps seconds", 13, 45, 30, 1, "13:45:30"},
		{"five minutes", 13, 42, 1, 5, "13:45:00"},
		{"fifteen minutes", 13, 31, 0, 15, "13:45:00"},
		{"exact multiple", 13, 45, 0, 15, "13:45:00"},
		{"multiple minute drops seconds", 13, 45, 30, 5, "13:45:00"},
		{"hour carry", 13, 59, 30, 5, "14:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := time.Date(2023, 1, 1, tt.h, tt.m, tt.s, 0, time.UTC)
			got := RoundUp(in, tt.interval)
			if got.Format(ClockSecondsLayout) != tt.want {
				t.Errorf("RoundUp = %s, want %s", got.Format(ClockSecondsLayout), tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DST normalization
// ---------------------------------------------------------------------------

func TestNormalizeForDST(t *testing.T) {
	loc := newYork(t)

	standard := time.Date(2023, 1, 15, 13, 30, 0, 0, loc)
	if got := NormalizeForDST(standard); got.Format(ClockSecondsLayout) != "13:30:00" {
		t.Errorf("standard time changed to %s", got.Format(ClockSecondsLayout))
	}

	summer := time.Date(2023, 7, 15, 13, 30, 0, 0, loc)
	got := NormalizeForDST(summer)
	if got.Format(ClockSecondsLayout) != "12:30:00" {
		t.Errorf("NormalizeForDST = %s, want 12:30:00", got.Format(ClockSecondsLayout))
	}
	if got.Format(DateLayout) != "2023-07-15" {
		t.Errorf("date changed to %s", got.Format(DateLayout))
	}
}

func TestDenormalizeForDST(t *testing.T) {
	loc := newYork(t)

	standard := time.Date(2023, 1, 15, 13, 30, 0, 0, loc)
	if got := DenormalizeForDST(standard); got.Format(ClockSecondsLayout) != "13:30:00" {
		t.Errorf("standard time changed to %s", got.Format(ClockSecondsLayout))
	}

	summer := time.Date(2023, 7, 15, 13, 30, 0, 0, loc)
	if got := DenormalizeForDST(summer); got.Format(ClockSecondsLayout) != "14:30:00" {
		t.Errorf("DenormalizeForDST = %s, want 14:30:00", got.Format(ClockSecondsLayout))
	}
}

func TestNormalizeDenormalize_RoundTrip(t *testing.T) {
	loc := newYork(t)
	for _, h := range []int{5, 9, 13, 17, 21} {
		orig := time.Date(2023, 7, 15, h, 30, 0, 0, loc)
		got := DenormalizeForDST(NormalizeForDST(orig))
		if !got.Equal(orig) {
			t.Errorf("round trip of %s gave %s", orig.Format(ClockLayout), got.Format(ClockLayout))
		}
	}
}

// ---------------------------------------------------------------------------
// ParseClock
// ---------------------------------------------------------------------------

func TestParseClock(t *testing.T) {
	loc := newYork(t)
	ref := time.Date(2023, 7, 15, 0, 0, 0, 0, loc)

	for _, clock := range []string{"13:30", "05:15", "23:59", "00:00"} {
		got, err := ParseClock(ref, clock)
		if err != nil {
			t.Fatalf("ParseClock(%q) unexpected error: %v", clock, err)
		}
		if got.Format(ClockLayout) != clock {
			t.Errorf("ParseClock(%q) = %s", clock, got.Format(ClockLayout))
		}
		if got.Format(DateLayout) != "2023-07-15" {
			t.Errorf("ParseClock(%q) date = %s", clock, got.Format(DateLayout))
		}
		if got.Location() != loc {
			t.Errorf("ParseClock(%q) location = %v", clock, got.Location())
		}
	}
}

func TestParseClock_Invalid(t *testing.T) {
	ref := time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)
	for _, clock := range []string{"invalid", "", "5:30", "24:00", "12:60", "12-30", "ab:cd", "12:3a", "012:30"} {
		_, err := ParseClock(ref, clock)
		if err == nil {
			t.Errorf("ParseClock(%q) expected error, got nil", clock)
			continue
		}
		if !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("ParseClock(%q) error = %v, want ErrInvalidTimeFormat", clock, err)
		}
	}
}

// ---------------------------------------------------------------------------
// ArabicNumerals
// ---------------------------------------------------------------------------

func TestArabicNumerals(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{12345, "١٢٣٤٥"},
		{"67890", "٦٧٨٩٠"},
		{"Prayer time: 5:30", "Prayer time: ٥:٣٠"},
		{3.14, "٣.١٤"},
		{"Fajr: 05:15, Dhuhr: 12:30", "Fajr: ٠٥:١٥, Dhuhr: ١٢:٣٠"},
		{"", ""},
		{"No numbers here", "No numbers here"},
		{0, "٠"},
	}

	for _, tt := range tests {
		if got := ArabicNumerals(tt.in); got != tt.want {
			t.Errorf("ArabicNumerals(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// StartOfDay / CalendarDays
// ---------------------------------------------------------------------------

func TestStartOfDay(t *testing.T) {
	tests := []struct {
		zone       string
		y, m, d    int
		wantHour   int
		wantOffset int
	}{
		{"America/New_York", 2023, 3, 12, 0, -5 * 3600},
		{"Asia/Beirut", 2023, 3, 26, 1, 3 * 3600},
		{"America/Santiago", 2023, 9, 3, 1, -3 * 3600},
		{"America/Santiago", 2023, 9, 4, 0, -3 * 3600},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Fatal(err)
			}
			got := StartOfDay(tt.y, time.Month(tt.m), tt.d, loc)
			if y, m, d := got.Date(); y != tt.y || int(m) != tt.m || d != tt.d {
				t.Errorf("StartOfDay = %v, wrong calendar day", got)
			}
			if _, off := got.Zone(); got.Hour() != tt.wantHour || off != tt.wantOffset {
				t.Errorf("StartOfDay = %v, want %02d:00 at offset %d", got, tt.wantHour, tt.wantOffset)
			}
		})
	}
}

func TestStartOfDay_NormalizesOverflow(t *testing.T) {
	got := StartOfDay(2023, 1, 32, time.UTC)
	if got.Format(DateLayout) != "2023-02-01" {
		t.Errorf("StartOfDay(2023-01-32) = %v", got)
	}
}

func TestCalendarDays(t *testing.T) {
	ny := newYork(t)
	tests := []struct {
		a, b time.Time
		want int
	}{
		{time.Date(2023, 1, 15, 23, 0, 0, 0, ny), time.Date(2023, 1, 15, 1, 0, 0, 0, ny), 1},
		{time.Date(2023, 3, 11, 0, 0, 0, 0, ny), time.Date(2023, 3, 13, 0, 0, 0, 0, ny), 3},
		{time.Date(2023, 12, 30, 0, 0, 0, 0, ny), time.Date(2024, 1, 2, 0, 0, 0, 0, ny), 4},
		{time.Date(2023, 1, 20, 0, 0, 0, 0, ny), time.Date(2023, 1, 15, 0, 0, 0, 0, ny), -4},
	}
	for _, tt := range tests {
		if got := CalendarDays(tt.a, tt.b); got != tt.want {
			t.Errorf("CalendarDays(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
