// Package hijri converts Gregorian dates to the Umm al-Qura Hijri calendar.
//
// Conversion uses the published Umm al-Qura table through go-hijri. Dates
// outside the table fall back to the arithmetic (tabular) Islamic calendar,
// which may differ from the table by a day.
package hijri

import (
	"fmt"
	"time"

	ummalqura "github.com/hablullah/go-hijri"
)

// RamadanMonth is the month number of Ramadan.
const RamadanMonth = 9

// Date is a Hijri calendar date.
type Date struct {
	Day   int
	Month int
	Year  int
}

var monthNames = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Ula", "Jumada al-Akhirah", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// MonthName returns the English transliteration of a Hijri month (1-12).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// String renders the date as "DD MonthName YYYY AH".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, MonthName(d.Month), d.Year)
}

// Convert returns the Hijri date of the calendar day of date, shifted by
// offset days. Only the year, month and day of date are used, so the result
// does not depend on its zone or clock.
func Convert(date time.Time, offset int) Date {
	noon := time.Date(date.Year(), date.Month(), date.Day()+offset, 12, 0, 0, 0, time.UTC)

	d, err := ummalqura.CreateUmmAlQuraDate(noon)
	if err != nil || d.Year == 0 {
		return tabular(noon.Year(), int(noon.Month()), noon.Day())
	}
	return Date{Day: int(d.Day), Month: int(d.Month), Year: int(d.Year)}
}

// IsRamadan reports whether date, shifted by offset days, falls in Ramadan.
func IsRamadan(date time.Time, offset int) bool {
	return Convert(date, offset).Month == RamadanMonth
}

// tabular converts a proleptic Gregorian date with the 30-year arithmetic
// cycle, via the Julian day number.
func tabular(year, month, day int) Date {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045

	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	hm := (24 * l) / 709
	hd := l - (709*hm)/24
	hy := 30*n + j - 30

	return Date{Day: hd, Month: hm, Year: hy}
}
