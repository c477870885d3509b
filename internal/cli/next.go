package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
	flagKind    string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next Athan or Iqama with countdown",
		Long:  "Display the next upcoming Athan, Iqama or Jumuah time with a countdown.\nThe output is a single line, suitable for status bars.",
		Args:  cobra.NoArgs,
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track, e.g. fajr,isha")
	cmd.Flags().StringVar(&flagKind, "kind", "all", "Events to track: athan, iqama or all")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	filter, err := newEventFilter(flagPrayers, flagKind)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	now := s.now()
	today, err := s.loadDay(ctx, now)
	if err != nil {
		return err
	}
	todayEvents := filter.apply(today.Events)

	next := prayer.NextEvent(todayEvents, now)

	// If all of today's events have passed, look at tomorrow.
	if next == nil {
		tomorrow, fetchErr := s.loadDay(ctx, now.AddDate(0, 0, 1))
		if fetchErr != nil {
			// Show the last event with a "done" indicator rather than
			// failing the status bar.
			if len(todayEvents) > 0 {
				last := todayEvents[len(todayEvents)-1]
				fmt.Fprintf(cmd.OutOrStdout(), "%s --:--", last.Label())
				return nil
			}
			return fmt.Errorf("failed to load tomorrow's times: %w", fetchErr)
		}
		next = prayer.NextEvent(filter.apply(tomorrow.Events), now)
	}

	if next == nil {
		return fmt.Errorf("could not determine the next prayer")
	}

	out := prayer.FormatOutput(*next, now, flagFormat, goTimeFormat(s.cfg.TimeFormat))
	fmt.Fprint(cmd.OutOrStdout(), s.opts.Digits(out))
	return nil
}

// eventFilter selects the events the next command tracks.
type eventFilter struct {
	names map[prayer.Name]bool // nil tracks every prayer
	kind  prayer.Kind          // empty tracks every kind
}

func newEventFilter(prayers, kind string) (eventFilter, error) {
	var f eventFilter

	if strings.TrimSpace(prayers) != "" {
		f.names = make(map[prayer.Name]bool)
		for _, raw := range strings.Split(prayers, ",") {
			name, err := prayer.ParseName(raw)
			if err != nil {
				return eventFilter{}, err
			}
			f.names[name] = true
		}
	}

	switch strings.ToLower(kind) {
	case "", "all":
	case string(prayer.KindAthan):
		f.kind = prayer.KindAthan
	case string(prayer.KindIqama):
		f.kind = prayer.KindIqama
	default:
		return eventFilter{}, fmt.Errorf("invalid --kind %q: must be athan, iqama or all", kind)
	}
	return f, nil
}

// apply keeps the matching events. Jumuah slots count as Dhuhr Iqamas.
func (f eventFilter) apply(events []prayer.Event) []prayer.Event {
	var out []prayer.Event
	for _, e := range events {
		if f.names != nil && !f.names[e.Name] {
			continue
		}
		kind := e.Kind
		if kind == prayer.KindJumuah {
			kind = prayer.KindIqama
		}
		if f.kind != "" && kind != f.kind {
			continue
		}
		out = append(out, e)
	}
	return out
}
