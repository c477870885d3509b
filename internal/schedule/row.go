package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// Header lists the report columns in order.
var Header = []string{
	"day",
	"fajr_athan", "fajr_iqama",
	"sunrise",
	"dhuhr_athan", "dhuhr_iqama",
	"asr_athan", "asr_iqama",
	"maghrib_athan", "maghrib_iqama",
	"isha_athan", "isha_iqama",
}

// Row is one day of the report.
type Row struct {
	Date  time.Time
	Athan map[prayer.Name]time.Time
	Iqama map[prayer.Name]time.Time
}

// Fields renders the row in Header order. Times are "HH:MM"; a missing
// time is an empty field.
func (r Row) Fields() []string {
	return []string{
		r.Date.Format(timeutil.DateLayout),
		clock(r.Athan, prayer.Fajr), clock(r.Iqama, prayer.Fajr),
		clock(r.Athan, prayer.Sunrise),
		clock(r.Athan, prayer.Dhuhr), clock(r.Iqama, prayer.Dhuhr),
		clock(r.Athan, prayer.Asr), clock(r.Iqama, prayer.Asr),
		clock(r.Athan, prayer.Maghrib), clock(r.Iqama, prayer.Maghrib),
		clock(r.Athan, prayer.Isha), clock(r.Iqama, prayer.Isha),
	}
}

// Map returns the row keyed by Header column names.
func (r Row) Map() map[string]string {
	fields := r.Fields()
	m := make(map[string]string, len(Header))
	for i, key := range Header {
		m[key] = fields[i]
	}
	return m
}

// IqamaChanged reports whether any Iqama clock time differs from prev.
func (r Row) IqamaChanged(prev Row) bool {
	for _, name := range prayer.IqamaNames {
		if clock(r.Iqama, name) != clock(prev.Iqama, name) {
			return true
		}
	}
	return false
}

// WriteCSV writes the header followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Date.Format(timeutil.DateLayout), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func clock(times map[prayer.Name]time.Time, name prayer.Name) string {
	t, ok := times[name]
	if !ok {
		return ""
	}
	return timeutil.Format(t)
}
