// Package iqama derives congregational (Iqama) prayer times from Athan times
// using per-prayer rules.
//
// A rule either pins the Iqama to a static clock time or computes it from the
// Athan: a fixed offset after the Athan, or a fixed offset before a reference
// event such as sunrise. Weekly rules share one time across every day they
// are evaluated over, taken from the latest Athan of those days. Results are
// rounded, then clamped to an earliest/latest window. Overrides swap in a
// different rule on days under daylight saving time or during Ramadan.
package iqama

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// Calculator evaluates Iqama rules over a run of days.
type Calculator struct {
	logger      zerolog.Logger
	hijriOffset int
}

// NewCalculator creates a Calculator. hijriOffset shifts the Hijri calendar
// used by the ramadan override condition by whole days.
func NewCalculator(logger zerolog.Logger, hijriOffset int) *Calculator {
	return &Calculator{
		logger:      logger.With().Str("component", "iqama").Logger(),
		hijriOffset: hijriOffset,
	}
}

// Calculate returns the Iqama time of prayer name for each day, keyed by the
// day's index in days. end names the event that closes the prayer's window
// (sunrise for Fajr); pass "" when there is none.
//
// Days without an Athan for name, and days whose effective rule is the static
// time "none", are absent from the result. A nil rule yields an empty result.
func (c *Calculator) Calculate(days []prayer.Day, name prayer.Name, rule *Rule, end prayer.Name) (map[int]time.Time, error) {
	results := make(map[int]time.Time)
	if rule == nil {
		return results, nil
	}

	// Days sharing an effective rule are evaluated together so that weekly
	// aggregation never mixes rules.
	groups := make(map[int][]int)
	groupRules := make(map[int]*Rule)
	var order []int

	for i, d := range days {
		eff, id := resolve(rule, d.Date, c.hijriOffset)
		if eff.Static != nil {
			if *eff.Static == StaticNone {
				continue
			}
			t, err := timeutil.ParseClock(d.Date, *eff.Static)
			if err != nil {
				return nil, fmt.Errorf("static %s iqama on %s: %w", name, d.Date.Format(timeutil.DateLayout), err)
			}
			results[i] = t
			continue
		}
		if _, ok := groups[id]; !ok {
			order = append(order, id)
			groupRules[id] = eff
		}
		groups[id] = append(groups[id], i)
	}

	for _, id := range order {
		if err := c.evaluate(days, groups[id], name, groupRules[id], end, results); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// evaluate computes a non-static rule over the days at idx and stores the
// results under the original indexes.
func (c *Calculator) evaluate(days []prayer.Day, idx []int, name prayer.Name, rule *Rule, end prayer.Name, results map[int]time.Time) error {
	round := rule.roundMinutes()
	after := time.Duration(rule.afterAthanMinutes()) * time.Minute
	before := time.Duration(rule.beforeEndMinutes()) * time.Minute
	weekly := rule.IsWeekly()

	subset := make([]prayer.Day, len(idx))
	for k, i := range idx {
		subset[k] = days[i]
	}
	normalized := prayer.NormalizeDays(subset)

	var latestAthan, latestEnd time.Time
	var haveAthan, haveEnd bool
	if weekly {
		for _, d := range normalized {
			if t, ok := d.Time(name); ok {
				if !haveAthan || timeutil.TimeToMinutes(t) > timeutil.TimeToMinutes(latestAthan) {
					latestAthan, haveAthan = t, true
				}
			}
			if end == "" {
				continue
			}
			if t, ok := d.Time(end); ok {
				if !haveEnd || timeutil.TimeToMinutes(t) > timeutil.TimeToMinutes(latestEnd) {
					latestEnd, haveEnd = t, true
				}
			}
		}
		if haveAthan {
			latestAthan = timeutil.RoundUp(latestAthan, round)
		}
		if haveEnd {
			latestEnd = timeutil.RoundDown(latestEnd, round)
		}
	}

	for k, d := range normalized {
		athan, ok := d.Time(name)
		if !ok {
			c.logger.Debug().
				Str("prayer", string(name)).
				Str("date", d.Date.Format(timeutil.DateLayout)).
				Msg("no athan time, skipping day")
			continue
		}

		var iqama time.Time
		switch endTime, hasEnd := d.Time(end); {
		case weekly:
			shared := latestAthan.Add(after)
			if before > 0 && haveEnd {
				shared = latestEnd.Add(-before)
			}
			// Carry the shared clock time onto this day.
			iqama = time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(),
				shared.Hour(), shared.Minute(), shared.Second(), 0, shared.Location())
		case before > 0 && end != "" && hasEnd:
			iqama = timeutil.RoundDown(endTime, round).Add(-before)
		default:
			iqama = timeutil.RoundUp(athan, round).Add(after)
		}

		iqama = timeutil.DenormalizeForDST(iqama)

		earliest, err := timeutil.ParseClock(d.Date, rule.earliest())
		if err != nil {
			return fmt.Errorf("earliest %s iqama: %w", name, err)
		}
		latest, err := timeutil.ParseClock(d.Date, rule.latest())
		if err != nil {
			return fmt.Errorf("latest %s iqama: %w", name, err)
		}
		if iqama.Before(earliest) {
			iqama = earliest
		}
		if iqama.After(latest) {
			iqama = latest
		}

		results[idx[k]] = iqama
	}

	return nil
}
