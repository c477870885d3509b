package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/iqama-times/internal/iqama"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// Builder produces Rows for a date range.
type Builder struct {
	provider AthanProvider
	location Location
	method   Method
	zone     *time.Location
	logger   zerolog.Logger
	calc     *iqama.Calculator
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New creates a Builder. It fails when the location's timezone is unknown.
func New(provider AthanProvider, location Location, method Method, opts ...Option) (*Builder, error) {
	zone, err := location.Zone()
	if err != nil {
		return nil, err
	}

	b := &Builder{
		provider: provider,
		location: location,
		method:   method,
		zone:     zone,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With().Str("component", "schedule").Logger()
	b.calc = iqama.NewCalculator(b.logger, method.HijriOffset)

	return b, nil
}

// Zone returns the zone all rows are expressed in.
func (b *Builder) Zone() *time.Location {
	return b.zone
}

// Calculator returns the Iqama calculator used by the builder.
func (b *Builder) Calculator() *iqama.Calculator {
	return b.calc
}

// Build returns one Row per calendar day from start to end inclusive, in
// ascending order. Both bounds are taken as calendar days in the location's
// zone.
func (b *Builder) Build(ctx context.Context, start, end time.Time) ([]Row, error) {
	first := start.In(b.zone)
	last := end.In(b.zone)
	n := timeutil.CalendarDays(first, last)
	if n < 1 {
		return nil, fmt.Errorf("%s to %s: %w",
			first.Format(timeutil.DateLayout), last.Format(timeutil.DateLayout), ErrInvalidRange)
	}

	days, err := b.collect(ctx, first, n)
	if err != nil {
		return nil, err
	}

	rules := b.method.Iqama
	batches := [][]int{indexes(len(days))}
	if rules != nil && (rules.ChangeOn != nil || rules.HasWeekly()) {
		batches = Batches(days, rules.ChangeDay())
	}

	rows := make([]Row, len(days))
	for i, d := range days {
		rows[i] = Row{Date: d.Date, Athan: d.Athan, Iqama: make(map[prayer.Name]time.Time)}
	}

	for _, batch := range batches {
		sub := make([]prayer.Day, len(batch))
		for k, i := range batch {
			sub[k] = days[i]
		}
		b.logger.Debug().
			Str("from", sub[0].Date.Format(timeutil.DateLayout)).
			Str("to", sub[len(sub)-1].Date.Format(timeutil.DateLayout)).
			Msg("evaluating batch")

		for _, name := range prayer.IqamaNames {
			var endEvent prayer.Name
			if name == prayer.Fajr {
				endEvent = prayer.Sunrise
			}
			results, err := b.calc.Calculate(sub, name, rules.For(name), endEvent)
			if err != nil {
				return nil, fmt.Errorf("%s iqama: %w", name, err)
			}
			for k, t := range results {
				rows[batch[k]].Iqama[name] = t
			}
		}
	}

	return rows, nil
}

// BuildCSV builds the range and renders it as CSV with a header line.
func (b *Builder) BuildCSV(ctx context.Context, start, end time.Time) (string, error) {
	rows, err := b.Build(ctx, start, end)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := WriteCSV(&sb, rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// BuildAssociative builds the range and returns each row keyed by the
// header column names.
func (b *Builder) BuildAssociative(ctx context.Context, start, end time.Time) ([]map[string]string, error) {
	rows, err := b.Build(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		out[i] = r.Map()
	}
	return out, nil
}

// collect asks the provider for n consecutive calendar days starting with
// first's. Each day is derived from first's date, never by stepping an
// instant, so days whose midnight does not exist are neither lost nor
// repeated.
func (b *Builder) collect(ctx context.Context, first time.Time, n int) ([]prayer.Day, error) {
	y, m, dd := first.Date()
	days := make([]prayer.Day, 0, n)
	for i := 0; i < n; i++ {
		d := timeutil.StartOfDay(y, m, dd+i, b.zone)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		times, err := b.provider.AthanTimes(ctx, d, b.location, b.method)
		if err != nil {
			return nil, fmt.Errorf("athan times for %s: %w", d.Format(timeutil.DateLayout), err)
		}
		day := prayer.NewDay(d)
		for _, name := range prayer.Names {
			if t, ok := times[name]; ok {
				day.Athan[name] = t
			}
		}
		days = append(days, day)
	}
	b.logger.Debug().Int("days", len(days)).Msg("collected athan times")
	return days, nil
}

// Batches splits consecutive days into weekly windows. A window opens on the
// change day or at the first day, and closes on the day before the change
// day or at the last day. Each window lists indexes into days.
func Batches(days []prayer.Day, changeOn time.Weekday) [][]int {
	dayBefore := (changeOn + 6) % 7

	var batches [][]int
	var cur []int
	for i, d := range days {
		wd := d.Date.Weekday()
		if wd == changeOn && len(cur) > 0 {
			batches = append(batches, cur)
			cur = nil
		}
		cur = append(cur, i)
		if wd == dayBefore || i == len(days)-1 {
			batches = append(batches, cur)
			cur = nil
		}
	}
	return batches
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
