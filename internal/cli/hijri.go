package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/iqama-times/internal/config"
	"github.com/smokyabdulrahman/iqama-times/internal/hijri"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

func newHijriCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hijri [date]",
		Short: "Show the Hijri date and Ramadan status",
		Long: "Convert a Gregorian date (YYYY-MM-DD, default today) to the Umm al-Qura\n" +
			"Hijri calendar. --hijri-offset, the hijri_offset config key or the rules\n" +
			"document's hijriOffset shift the result by whole days.",
		Args: cobra.MaximumNArgs(1),
		RunE: runHijri,
	}
}

// hijriJSON is the JSON output structure for the hijri command.
type hijriJSON struct {
	Gregorian string `json:"gregorian"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Year      int    `json:"year"`
	Offset    int    `json:"offset"`
	Ramadan   bool   `json:"ramadan"`
}

func runHijri(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	offset, err := hijriOffset(cfg)
	if err != nil {
		return err
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	date, err := parseDay(arg, time.Now())
	if err != nil {
		return err
	}

	h := hijri.Convert(date, offset)

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), hijriJSON{
			Gregorian: date.Format(timeutil.DateLayout),
			Day:       h.Day,
			Month:     h.Month,
			MonthName: hijri.MonthName(h.Month),
			Year:      h.Year,
			Offset:    offset,
			Ramadan:   h.Month == hijri.RamadanMonth,
		})
	}

	opts := displayOptions(cfg)
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
		opts.Digits(date.Format(timeutil.DateLayout)),
		opts.Digits(hijriLine(date, offset)))
	return nil
}

// hijriLine renders the Hijri date with a Ramadan marker when it applies.
func hijriLine(date time.Time, offset int) string {
	h := hijri.Convert(date, offset)
	line := h.String()
	if h.Month == hijri.RamadanMonth {
		line += "  (Ramadan)"
	}
	return line
}

// hijriOffset takes the offset from flags or config, then from the rules
// document when one is configured.
func hijriOffset(cfg *config.Config) (int, error) {
	if cfg.HijriOffset != nil {
		return *cfg.HijriOffset, nil
	}
	if cfg.RulesFile == "" {
		return 0, nil
	}
	doc, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return 0, err
	}
	return doc.CalculationMethod.HijriOffset, nil
}
