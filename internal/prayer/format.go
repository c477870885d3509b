package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for the next command's display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextTime           = "next-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Display label, e.g. "Asr Iqama"
	ShortName string // Abbreviated label, e.g. "Ai"
	Kind      string // "athan", "iqama" or "jumuah"
	Time      string // Formatted event time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// FormatOutput formats an event for display according to the chosen mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Kind, .Time, .Remaining, .Hours, .Minutes
//
// Example: "{{.Name}} in {{.Remaining}}" -> "Asr Iqama in 2h 15m"
func FormatOutput(e Event, now time.Time, mode string, timeFormat string) string {
	d := TimeRemaining(e, now)
	remaining := FormatRemaining(d)
	timeStr := e.Time.Format(timeFormat)
	label := e.Label()
	short := e.Short()

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      label,
			ShortName: short,
			Kind:      string(e.Kind),
			Time:      timeStr,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextTime:
		return timeStr
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", label, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", label, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", label, timeStr)
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
