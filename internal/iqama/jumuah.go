package iqama

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

// JumuahTime is a resolved Friday prayer slot.
type JumuahTime struct {
	Name     string
	Time     time.Time
	Location *JumuahLocation
}

// Jumuah resolves the Friday slots held on date. It returns nothing on other
// weekdays. Slots use static times only; a slot whose effective rule is
// "none" or has no static time is left out.
func (c *Calculator) Jumuah(rules []JumuahRule, date time.Time) ([]JumuahTime, error) {
	if date.Weekday() != time.Friday {
		return nil, nil
	}
	midnight := timeutil.StartOfDay(date.Year(), date.Month(), date.Day(), date.Location())

	var out []JumuahTime
	for _, jr := range rules {
		eff := EffectiveRule(jr.Time, midnight, c.hijriOffset)
		if eff == nil || eff.Static == nil {
			c.logger.Debug().Str("jumuah", jr.Name).Msg("no static time, skipping slot")
			continue
		}
		if *eff.Static == StaticNone {
			continue
		}
		t, err := timeutil.ParseClock(midnight, *eff.Static)
		if err != nil {
			return nil, fmt.Errorf("jumuah %q: %w", jr.Name, err)
		}
		out = append(out, JumuahTime{Name: jr.Name, Time: t, Location: jr.Location})
	}
	return out, nil
}
