package api

import (
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
)

// dateLayout is the DD-MM-YYYY form Al Adhan uses in paths and payloads.
const dateLayout = "02-01-2006"

// Envelope is the body shape shared by every Al Adhan endpoint.
type Envelope[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   T      `json:"data"`
}

// Response is the body of the single-day timings endpoints.
type Response = Envelope[Data]

// CalendarResponse is the body of the calendar endpoints: one Data per day
// of the month.
type CalendarResponse = Envelope[[]Data]

// Data is one day of the API's answer.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings holds the raw event times. Values may carry a zone suffix such as
// "05:17 (BST)", which prayer.ParseTime strips.
type Timings struct {
	Fajr     string `json:"Fajr"`
	Sunrise  string `json:"Sunrise"`
	Dhuhr    string `json:"Dhuhr"`
	Asr      string `json:"Asr"`
	Sunset   string `json:"Sunset"`
	Maghrib  string `json:"Maghrib"`
	Isha     string `json:"Isha"`
	Imsak    string `json:"Imsak"`
	Midnight string `json:"Midnight"`
}

// ByName returns the raw strings of the six Athan events.
func (t Timings) ByName() map[prayer.Name]string {
	return map[prayer.Name]string{
		prayer.Fajr:    t.Fajr,
		prayer.Sunrise: t.Sunrise,
		prayer.Dhuhr:   t.Dhuhr,
		prayer.Asr:     t.Asr,
		prayer.Maghrib: t.Maghrib,
		prayer.Isha:    t.Isha,
	}
}

// DateInfo identifies the day a Data entry belongs to.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Gregorian GregorianDate `json:"gregorian"`
	Hijri     HijriDate     `json:"hijri"`
}

// Is reports whether the entry is for date's calendar day.
func (d DateInfo) Is(date time.Time) bool {
	return d.Gregorian.Date == date.Format(dateLayout)
}

type GregorianDate struct {
	Date string `json:"date"` // "28-02-2026"
}

// HijriDate is the API's own Hijri reading of the day. It is only logged;
// Ramadan detection uses the local Umm al-Qura conversion.
type HijriDate struct {
	Date  string     `json:"date"` // "10-08-1447"
	Month HijriMonth `json:"month"`
}

type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta echoes the parameters the API applied.
type Meta struct {
	Timezone string     `json:"timezone"`
	Method   MethodInfo `json:"method"`
	School   string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
