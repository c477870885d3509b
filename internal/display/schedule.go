package display

import (
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// Options controls how times are rendered.
type Options struct {
	// TimeFormat is "12h" or "24h".
	TimeFormat string
	// Arabic renders digits as Arabic-Indic numerals.
	Arabic bool
}

// Clock renders t for display. The zero time renders as "-".
func (o Options) Clock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	s := timeutil.Format(t)
	if o.TimeFormat == "12h" {
		s = t.Format("3:04 PM")
	}
	return o.Digits(s)
}

// Digits applies the numeral style to s.
func (o Options) Digits(s string) string {
	if o.Arabic {
		return timeutil.ArabicNumerals(s)
	}
	return s
}

// ScheduleHeaders are the column titles of a range table. The first column
// flags days on which an Iqama time changes.
var ScheduleHeaders = []string{
	"", "Date",
	"Fajr", "Iqama",
	"Sunrise",
	"Dhuhr", "Iqama",
	"Asr", "Iqama",
	"Maghrib", "Iqama",
	"Isha", "Iqama",
}

// ScheduleTable lays out a range of rows. The row for today is highlighted
// and rows whose Iqama times differ from the previous day are flagged.
func ScheduleTable(rows []schedule.Row, today time.Time, opts Options) *Table {
	tbl := NewTable(ScheduleHeaders)
	todayStr := today.Format(timeutil.DateLayout)

	for i, r := range rows {
		style := StylePlain
		marker := ""
		if i > 0 && r.IqamaChanged(rows[i-1]) {
			style = StyleChanged
			marker = "*"
		}
		if r.Date.Format(timeutil.DateLayout) == todayStr {
			style = StyleAccent
		}

		cells := []string{marker, opts.Digits(r.Date.Format("Mon 02 Jan"))}
		for _, name := range prayer.Names {
			cells = append(cells, opts.Clock(r.Athan[name]))
			if name != prayer.Sunrise {
				cells = append(cells, opts.Clock(r.Iqama[name]))
			}
		}
		tbl.AddStyledRow(cells, style)
	}
	return tbl
}

// DayTable lays out one day as Prayer | Athan | Iqama, highlighting the
// prayer that next is the upcoming event.
func DayTable(row schedule.Row, next *prayer.Event, opts Options) *Table {
	tbl := NewTable([]string{"Prayer", "Athan", "Iqama"})
	for _, name := range prayer.Names {
		iqama := ""
		if name != prayer.Sunrise {
			iqama = opts.Clock(row.Iqama[name])
		}
		style := StylePlain
		if next != nil && next.Name == name {
			style = StyleAccent
		}
		tbl.AddStyledRow([]string{name.Title(), opts.Clock(row.Athan[name]), iqama}, style)
	}
	return tbl
}
