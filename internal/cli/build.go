package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/iqama-times/internal/display"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// Output formats of the build command.
const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

var (
	flagFrom        string
	flagTo          string
	flagBuildFormat string
	flagOutput      string
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Athan and Iqama schedule for a date range",
		Long: "Build one row per day from --from to --to inclusive.\n" +
			"Without --to the range runs to the end of the starting month.\n" +
			"The table format flags days on which an Iqama time changes.",
		Example: "  iqama-times build --rules masjid.yaml --from 2026-03-01 --to 2026-03-31 --format csv --output march.csv",
		Args:    cobra.NoArgs,
		RunE:    runBuild,
	}

	cmd.Flags().StringVar(&flagFrom, "from", "", "First day, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&flagTo, "to", "", "Last day, YYYY-MM-DD (default: end of the month)")
	cmd.Flags().StringVar(&flagBuildFormat, "format", formatTable, "Output format: table, csv or json")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format := strings.ToLower(flagBuildFormat)
	if FlagJSON && !cmd.Flags().Changed("format") {
		format = formatJSON
	}
	switch format {
	case formatTable, formatCSV, formatJSON:
	default:
		return fmt.Errorf("invalid --format %q: must be table, csv or json", flagBuildFormat)
	}

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	now := s.now()
	from, err := parseDay(flagFrom, now)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to := timeutil.StartOfDay(from.Year(), from.Month()+1, 0, from.Location())
	if flagTo != "" {
		if to, err = parseDay(flagTo, now); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}

	w, closeFn, err := openOutput(cmd.OutOrStdout(), flagOutput)
	if err != nil {
		return err
	}
	defer closeFn()
	display.SetEnabled(display.Detect(w))

	switch format {
	case formatCSV:
		out, err := s.builder.BuildCSV(ctx, from, to)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	case formatJSON:
		rows, err := s.builder.BuildAssociative(ctx, from, to)
		if err != nil {
			return err
		}
		if err := writeJSON(w, rows); err != nil {
			return err
		}
	default:
		if err := renderRange(ctx, w, s, from, to, now); err != nil {
			return err
		}
	}

	if flagOutput != "" {
		logger.Info().
			Str("file", flagOutput).
			Str("from", from.Format(timeutil.DateLayout)).
			Str("to", to.Format(timeutil.DateLayout)).
			Msg("schedule written")
	}
	return nil
}

// renderRange prints the schedule table for from..to.
func renderRange(ctx context.Context, w io.Writer, s *session, from, to, now time.Time) error {
	rows, err := s.builder.Build(ctx, from, to)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Iqama Times: %s to %s", from.Format("02 Jan 2006"), to.Format("02 Jan 2006"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(s.opts.Digits(title)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", locationLabel(s.location))
	fmt.Fprintln(w)
	fmt.Fprint(w, display.ScheduleTable(rows, now, s.opts).Render())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", display.Yellow("*"), display.Dim("Iqama time changes on this day"))
	fmt.Fprintln(w)
	return nil
}

// parseDay reads a YYYY-MM-DD day and returns its start in now's zone.
// Empty means today.
func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return timeutil.StartOfDay(now.Year(), now.Month(), now.Day(), now.Location()), nil
	}
	d, err := time.Parse(timeutil.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return timeutil.StartOfDay(d.Year(), d.Month(), d.Day(), now.Location()), nil
}

// openOutput returns w, or a created file when path is set.
func openOutput(w io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return w, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("closing output file")
		}
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}
