// Package prayer holds the value types shared by the Iqama rule engine and the
// schedule builder: prayer names, per-day Athan records and timed events.
package prayer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// Name identifies one of the daily Athan events.
type Name string

const (
	Fajr    Name = "fajr"
	Sunrise Name = "sunrise"
	Dhuhr   Name = "dhuhr"
	Asr     Name = "asr"
	Maghrib Name = "maghrib"
	Isha    Name = "isha"
)

// Names lists every Athan event in chronological order.
var Names = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// IqamaNames lists the prayers that have an Iqama. Sunrise is not a prayer.
var IqamaNames = []Name{Fajr, Dhuhr, Asr, Maghrib, Isha}

// ShortNames maps prayer names to single-character abbreviations.
var ShortNames = map[Name]string{
	Fajr:    "F",
	Sunrise: "S",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
}

// Title returns the capitalized display name, e.g. "Fajr".
func (n Name) Title() string {
	if n == "" {
		return ""
	}
	return strings.ToUpper(string(n[:1])) + string(n[1:])
}

// ParseName resolves a prayer name case-insensitively.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown prayer name: %s", s)
}

// Day is the Athan record of one calendar day. Date is the first instant of
// that day in the location's zone, which is local midnight unless the clocks
// skip it.
type Day struct {
	Date  time.Time
	Athan map[Name]time.Time
}

// NewDay returns an empty record for the calendar day of date.
func NewDay(date time.Time) Day {
	return Day{
		Date:  timeutil.StartOfDay(date.Year(), date.Month(), date.Day(), date.Location()),
		Athan: make(map[Name]time.Time, len(Names)),
	}
}

// Time returns the Athan time of name, if present.
func (d Day) Time(name Name) (time.Time, bool) {
	t, ok := d.Athan[name]
	return t, ok
}

// NormalizeDays returns copies of days with every Athan time moved back one
// hour when it falls under DST. The input is left untouched.
func NormalizeDays(days []Day) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		athan := make(map[Name]time.Time, len(d.Athan))
		for name, t := range d.Athan {
			athan[name] = timeutil.NormalizeForDST(t)
		}
		out[i] = Day{Date: d.Date, Athan: athan}
	}
	return out
}

// ParseTime parses a time string like "15:02" or "15:02 (BST)" into a
// time.Time on the given date in the given location.
func ParseTime(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	// Strip timezone suffix like " (BST)" that the API sometimes appends.
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc), nil
}

// Kind tells an Athan event from an Iqama event.
type Kind string

const (
	KindAthan  Kind = "athan"
	KindIqama  Kind = "iqama"
	KindJumuah Kind = "jumuah"
)

// Event is a single timed occurrence shown by the today and next commands.
type Event struct {
	Name Name
	Kind Kind
	// Title overrides the generated label, used for named Jumuah slots.
	Title string
	Time  time.Time
}

// Label returns the display label, e.g. "Asr" or "Asr Iqama".
func (e Event) Label() string {
	if e.Title != "" {
		return e.Title
	}
	if e.Kind == KindIqama {
		return e.Name.Title() + " Iqama"
	}
	return e.Name.Title()
}

// Short returns the abbreviated label, e.g. "A" or "Ai".
func (e Event) Short() string {
	s := ShortNames[e.Name]
	switch e.Kind {
	case KindIqama:
		return s + "i"
	case KindJumuah:
		return "J"
	}
	return s
}

// DayEvents flattens one day's Athan and Iqama times into events sorted by
// time. Athan sorts before Iqama when both fall on the same minute.
func DayEvents(athan, iqama map[Name]time.Time) []Event {
	var events []Event
	for _, name := range Names {
		if t, ok := athan[name]; ok {
			events = append(events, Event{Name: name, Kind: KindAthan, Time: t})
		}
		if t, ok := iqama[name]; ok {
			events = append(events, Event{Name: name, Kind: KindIqama, Time: t})
		}
	}
	SortEvents(events)
	return events
}

// SortEvents orders events chronologically, keeping insertion order for ties.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
}

// NextEvent finds the next upcoming event from the given slice, relative to now.
// If all events have passed, it returns nil (caller should look at tomorrow).
func NextEvent(events []Event, now time.Time) *Event {
	for i := range events {
		if events[i].Time.After(now) {
			return &events[i]
		}
	}
	return nil
}

// TimeRemaining returns the duration until the given event.
func TimeRemaining(e Event, now time.Time) time.Duration {
	return e.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
