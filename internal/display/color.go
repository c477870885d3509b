// Package display renders schedules for the terminal: ANSI styles, aligned
// tables and digit localization.
//
// Styling honors NO_COLOR (https://no-color.org/) and FORCE_COLOR, and is off
// whenever the destination writer is not a terminal.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Color is an ANSI SGR sequence.
type Color string

const (
	reset = "\033[0m"

	ColorBold   Color = "\033[1m"
	ColorDim    Color = "\033[2m"
	ColorGreen  Color = "\033[32m"
	ColorYellow Color = "\033[33m"
	ColorCyan   Color = "\033[36m"
	ColorGray   Color = "\033[90m"

	// ColorAccent marks the next event and today's row; ColorChanged marks
	// rows on which an Iqama time moves.
	ColorAccent  = ColorBold + ColorCyan
	ColorChanged = ColorBold + ColorYellow
)

var enabled = Detect(os.Stdout)

// Detect reports whether styled output should be written to w.
func Detect(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides detection.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether styles are currently applied.
func Enabled() bool {
	return enabled
}

// Apply wraps text in c when styling is enabled.
func (c Color) Apply(text string) string {
	if !enabled || c == "" {
		return text
	}
	return string(c) + text + reset
}

func Bold(text string) string   { return ColorBold.Apply(text) }
func Dim(text string) string    { return ColorDim.Apply(text) }
func Green(text string) string  { return ColorGreen.Apply(text) }
func Yellow(text string) string { return ColorYellow.Apply(text) }
func Cyan(text string) string   { return ColorCyan.Apply(text) }
func Gray(text string) string   { return ColorGray.Apply(text) }
func Accent(text string) string { return ColorAccent.Apply(text) }

// Changed highlights a schedule row whose Iqama differs from the day before.
func Changed(text string) string { return ColorChanged.Apply(text) }

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}
