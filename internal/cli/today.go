package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/iqama-times/internal/display"
	"github.com/smokyabdulrahman/iqama-times/internal/hijri"
	"github.com/smokyabdulrahman/iqama-times/internal/iqama"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's Athan and Iqama times",
		Long:  "Show today's Athan and Iqama times with the Hijri date, the next event\nand, on Fridays, the Jumuah slots. This is the default command.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

// dayView is one resolved day: its row, its Jumuah slots and all of its
// events in time order.
type dayView struct {
	Row    schedule.Row
	Jumuah []iqama.JumuahTime
	Events []prayer.Event
}

// loadDay builds the row and Jumuah slots of the calendar day of date.
func (s *session) loadDay(ctx context.Context, date time.Time) (*dayView, error) {
	rows, err := s.builder.Build(ctx, date, date)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no schedule for %s", date.Format(timeutil.DateLayout))
	}
	row := rows[0]

	jumuah, err := s.builder.Calculator().Jumuah(s.method.Jumuah, row.Date)
	if err != nil {
		return nil, err
	}

	events := prayer.DayEvents(row.Athan, row.Iqama)
	for _, j := range jumuah {
		events = append(events, prayer.Event{Name: prayer.Dhuhr, Kind: prayer.KindJumuah, Title: j.Name, Time: j.Time})
	}
	prayer.SortEvents(events)

	return &dayView{Row: row, Jumuah: jumuah, Events: events}, nil
}

// nextEvent finds the first event after now, looking at tomorrow once
// today's events have all passed. today may be nil.
func (s *session) nextEvent(ctx context.Context, today *dayView, now time.Time) (*prayer.Event, error) {
	if today != nil {
		if next := prayer.NextEvent(today.Events, now); next != nil {
			return next, nil
		}
	}

	tomorrow, err := s.loadDay(ctx, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load tomorrow's times: %w", err)
	}
	if next := prayer.NextEvent(tomorrow.Events, now); next != nil {
		return next, nil
	}
	return nil, fmt.Errorf("could not determine the next prayer")
}

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	now := s.now()
	day, err := s.loadDay(ctx, now)
	if err != nil {
		return err
	}

	// Today's table still renders when tomorrow cannot be fetched.
	next, err := s.nextEvent(ctx, day, now)
	if err != nil {
		logger.Warn().Err(err).Msg("no upcoming event")
	}

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), s, day, next, now)
	}
	printTodayRich(cmd.OutOrStdout(), s, day, next, now)
	return nil
}

// printTodayRich renders the colored terminal output for today's schedule.
func printTodayRich(w io.Writer, s *session, day *dayView, next *prayer.Event, now time.Time) {
	opts := s.opts

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Iqama Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", locationLabel(s.location))
	fmt.Fprintf(w, "  %s\n", display.Gray(s.builder.Zone().String()))
	fmt.Fprintf(w, "  %s\n", opts.Digits(now.Format("Monday 02 January 2006")))
	h := hijri.Convert(now, s.method.HijriOffset)
	if h.Month == hijri.RamadanMonth {
		fmt.Fprintf(w, "  %s  %s\n", opts.Digits(h.String()), display.Green("Ramadan"))
	} else {
		fmt.Fprintf(w, "  %s\n", opts.Digits(h.String()))
	}
	fmt.Fprintln(w)

	// The countdown row is only highlighted when it is still today.
	var highlight *prayer.Event
	if next != nil && next.Kind != prayer.KindJumuah && sameDay(next.Time, now) {
		highlight = next
	}
	fmt.Fprint(w, display.DayTable(day.Row, highlight, opts).Render())

	if len(day.Jumuah) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Boldf("Jumuah (%d)", len(day.Jumuah)))
		for _, j := range day.Jumuah {
			line := fmt.Sprintf("  %s %s", display.Cyan(fmt.Sprintf("%-12s", j.Name)), opts.Clock(j.Time))
			if j.Location != nil && j.Location.Name != "" {
				line += "  " + display.Gray(j.Location.Name)
			}
			fmt.Fprintln(w, line)
		}
	}

	if next != nil {
		remaining := prayer.FormatRemaining(prayer.TimeRemaining(*next, now))
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s %s\n",
			display.Accent("Next: "+next.Label()),
			opts.Clock(next.Time),
			display.Dim("(in "+opts.Digits(remaining)+")"))
	}
	if s.method.Iqama == nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Dim("No Iqama rules configured; set rules_file or pass --rules."))
	}
	fmt.Fprintln(w)
}

func sameDay(a, b time.Time) bool {
	return a.Format(timeutil.DateLayout) == b.Format(timeutil.DateLayout)
}

// todayJSON is the JSON output structure for the today command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Date     todayJSONDate     `json:"date"`
	Athan    map[string]string `json:"athan"`
	Iqama    map[string]string `json:"iqama"`
	Jumuah   []todayJSONJumuah `json:"jumuah,omitempty"`
	Next     *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
	Ramadan   bool   `json:"ramadan"`
}

type todayJSONJumuah struct {
	Name     string `json:"name"`
	Time     string `json:"time"`
	Location string `json:"location,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

// printTodayJSON renders structured JSON output. Times are always "HH:MM".
func printTodayJSON(w io.Writer, s *session, day *dayView, next *prayer.Event, now time.Time) error {
	out := todayJSON{
		Location: todayJSONLocation{
			City:      s.location.City,
			Country:   s.location.Country,
			Timezone:  s.builder.Zone().String(),
			Latitude:  s.location.Latitude,
			Longitude: s.location.Longitude,
		},
		Date: todayJSONDate{
			Gregorian: now.Format(timeutil.DateLayout),
			Hijri:     hijri.Convert(now, s.method.HijriOffset).String(),
			Ramadan:   hijri.IsRamadan(now, s.method.HijriOffset),
		},
		Athan: clockMap(day.Row.Athan),
		Iqama: clockMap(day.Row.Iqama),
	}

	for _, j := range day.Jumuah {
		jj := todayJSONJumuah{Name: j.Name, Time: timeutil.Format(j.Time)}
		if j.Location != nil {
			jj.Location = j.Location.Name
		}
		out.Jumuah = append(out.Jumuah, jj)
	}

	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    string(next.Name),
			Label:     next.Label(),
			Kind:      string(next.Kind),
			Time:      timeutil.Format(next.Time),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, now)),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func clockMap(times map[prayer.Name]time.Time) map[string]string {
	out := make(map[string]string, len(times))
	for name, t := range times {
		out[string(name)] = timeutil.Format(t)
	}
	return out
}
