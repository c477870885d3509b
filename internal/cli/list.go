package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/iqama-times/internal/display"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show Athan and Iqama times for multiple days",
		Long:  "Display a grid of Athan and Iqama times for N days starting today (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show Athan and Iqama times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show Athan and Iqama times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// parseDays reads a positive day count, or the week/month shorthands.
func parseDays(arg string, def int) (int, error) {
	switch arg {
	case "":
		return def, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer)", arg)
	}
	return n, nil
}

// runList is the handler for the list, week and month subcommands.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	days, err := parseDays(arg, defaultDays)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	now := s.now()
	end := now.AddDate(0, 0, days-1)

	if FlagJSON {
		rows, err := s.builder.BuildAssociative(ctx, now, end)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	return renderRange(ctx, cmd.OutOrStdout(), s, now, end, now)
}

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query the Athan and Iqama of one prayer",
		Long:  "Query one prayer's Athan and Iqama times for today, or across multiple days with --days.",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// queryJSON is one day of the query command's JSON output.
type queryJSON struct {
	Date  string `json:"date"`
	Athan string `json:"athan"`
	Iqama string `json:"iqama,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := prayer.ParseName(args[0])
	if err != nil {
		return err
	}
	days, err := parseDays(flagQueryDays, 1)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	now := s.now()
	rows, err := s.builder.Build(ctx, now, now.AddDate(0, 0, days-1))
	if err != nil {
		return err
	}

	if FlagJSON {
		out := make([]queryJSON, 0, len(rows))
		for _, r := range rows {
			out = append(out, queryJSON{
				Date:  r.Map()["day"],
				Athan: clockOrEmpty(r.Athan, name),
				Iqama: clockOrEmpty(r.Iqama, name),
			})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	fmt.Fprint(cmd.OutOrStdout(), queryTable(rows, name, now, s.opts).Render())
	return nil
}

// queryTable lays out one prayer across rows, highlighting today.
func queryTable(rows []schedule.Row, name prayer.Name, today time.Time, opts display.Options) *display.Table {
	headers := []string{"Date", name.Title()}
	if name != prayer.Sunrise {
		headers = append(headers, "Iqama")
	}
	tbl := display.NewTable(headers)

	for i, r := range rows {
		cells := []string{opts.Digits(r.Date.Format("Mon 02 Jan")), opts.Clock(r.Athan[name])}
		if name != prayer.Sunrise {
			cells = append(cells, opts.Clock(r.Iqama[name]))
		}
		tbl.AddRow(cells)
		if sameDay(r.Date, today) {
			tbl.SetHighlightRow(i)
		}
	}
	return tbl
}

func clockOrEmpty(times map[prayer.Name]time.Time, name prayer.Name) string {
	t, ok := times[name]
	if !ok {
		return ""
	}
	return timeutil.Format(t)
}
