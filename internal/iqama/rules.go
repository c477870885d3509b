package iqama

import (
	"strings"
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/hijri"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
)

// Change frequencies.
const (
	ChangeDaily  = "daily"
	ChangeWeekly = "weekly"
)

// Override conditions.
const (
	ConditionDST     = "daylightSavingsTime"
	ConditionRamadan = "ramadan"
)

// StaticNone suppresses the Iqama on the days a static rule applies.
const StaticNone = "none"

const (
	defaultEarliest = "00:00"
	defaultLatest   = "23:59"
)

// Rule describes how the Iqama of one prayer is derived from its Athan.
// Every field is optional. A rule with Static set ignores all other fields
// except Overrides.
type Rule struct {
	Static            *string    `json:"static,omitempty" yaml:"static,omitempty" validate:"omitempty,clockornone"`
	Change            *string    `json:"change,omitempty" yaml:"change,omitempty" validate:"omitempty,oneof=daily weekly"`
	RoundMinutes      *int       `json:"roundMinutes,omitempty" yaml:"roundMinutes,omitempty" validate:"omitempty,min=0,max=60"`
	Earliest          *string    `json:"earliest,omitempty" yaml:"earliest,omitempty" validate:"omitempty,clock"`
	Latest            *string    `json:"latest,omitempty" yaml:"latest,omitempty" validate:"omitempty,clock"`
	AfterAthanMinutes *int       `json:"afterAthanMinutes,omitempty" yaml:"afterAthanMinutes,omitempty" validate:"omitempty,min=0"`
	BeforeEndMinutes  *int       `json:"beforeEndMinutes,omitempty" yaml:"beforeEndMinutes,omitempty" validate:"omitempty,min=0"`
	Overrides         []Override `json:"overrides,omitempty" yaml:"overrides,omitempty" validate:"omitempty,dive"`
}

// Override replaces a rule on the days its condition holds.
type Override struct {
	Condition string `json:"condition" yaml:"condition" validate:"required,oneof=daylightSavingsTime ramadan"`
	Time      *Rule  `json:"time" yaml:"time" validate:"required"`
}

// IsWeekly reports whether the rule aggregates over a week.
func (r *Rule) IsWeekly() bool {
	return r != nil && r.Change != nil && *r.Change == ChangeWeekly
}

// HasWeekly reports whether the rule or any of its overrides is weekly.
func (r *Rule) HasWeekly() bool {
	if r == nil {
		return false
	}
	if r.IsWeekly() {
		return true
	}
	for _, o := range r.Overrides {
		if o.Time.HasWeekly() {
			return true
		}
	}
	return false
}

func (r *Rule) roundMinutes() int {
	if r.RoundMinutes == nil {
		return 1
	}
	return *r.RoundMinutes
}

func (r *Rule) afterAthanMinutes() int {
	if r.AfterAthanMinutes == nil {
		return 0
	}
	return *r.AfterAthanMinutes
}

func (r *Rule) beforeEndMinutes() int {
	if r.BeforeEndMinutes == nil {
		return 0
	}
	return *r.BeforeEndMinutes
}

func (r *Rule) earliest() string {
	if r.Earliest == nil {
		return defaultEarliest
	}
	return *r.Earliest
}

func (r *Rule) latest() string {
	if r.Latest == nil {
		return defaultLatest
	}
	return *r.Latest
}

// RuleSet holds the per-prayer rules of a masjid.
type RuleSet struct {
	// ChangeOn names the weekday weekly times switch on. Defaults to Friday.
	ChangeOn *string `json:"changeOn,omitempty" yaml:"changeOn,omitempty"`
	Fajr     *Rule   `json:"fajr,omitempty" yaml:"fajr,omitempty"`
	Dhuhr    *Rule   `json:"dhuhr,omitempty" yaml:"dhuhr,omitempty"`
	Asr      *Rule   `json:"asr,omitempty" yaml:"asr,omitempty"`
	Maghrib  *Rule   `json:"maghrib,omitempty" yaml:"maghrib,omitempty"`
	Isha     *Rule   `json:"isha,omitempty" yaml:"isha,omitempty"`
}

// For returns the rule configured for a prayer, or nil.
func (s *RuleSet) For(name prayer.Name) *Rule {
	if s == nil {
		return nil
	}
	switch name {
	case prayer.Fajr:
		return s.Fajr
	case prayer.Dhuhr:
		return s.Dhuhr
	case prayer.Asr:
		return s.Asr
	case prayer.Maghrib:
		return s.Maghrib
	case prayer.Isha:
		return s.Isha
	}
	return nil
}

// HasWeekly reports whether any prayer rule or override is weekly.
func (s *RuleSet) HasWeekly() bool {
	if s == nil {
		return false
	}
	for _, name := range prayer.IqamaNames {
		if s.For(name).HasWeekly() {
			return true
		}
	}
	return false
}

// ChangeDay resolves ChangeOn case-insensitively. Unknown or empty names fall
// back to Friday.
func (s *RuleSet) ChangeDay() time.Weekday {
	if s == nil || s.ChangeOn == nil {
		return time.Friday
	}
	if wd, ok := ParseWeekday(*s.ChangeOn); ok {
		return wd
	}
	return time.Friday
}

// ParseWeekday parses an English weekday name case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == n {
			return wd, true
		}
	}
	return time.Sunday, false
}

// JumuahRule is a named Friday prayer slot.
type JumuahRule struct {
	Name     string          `json:"name" yaml:"name" validate:"required"`
	Time     *Rule           `json:"time" yaml:"time" validate:"required"`
	Location *JumuahLocation `json:"location,omitempty" yaml:"location,omitempty"`
}

// JumuahLocation is where a Jumuah slot is held.
type JumuahLocation struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// EffectiveRule returns the rule that applies on date: the time of the first
// override whose condition holds, or rule itself. Daylight saving is judged at
// date as given, which callers pass as the start of the day.
func EffectiveRule(rule *Rule, date time.Time, hijriOffset int) *Rule {
	r, _ := resolve(rule, date, hijriOffset)
	return r
}

// resolve also returns the identity of the chosen rule: -1 for the base rule,
// otherwise the override index.
func resolve(rule *Rule, date time.Time, hijriOffset int) (*Rule, int) {
	if rule == nil {
		return nil, -1
	}
	for i, o := range rule.Overrides {
		if o.Time == nil {
			continue
		}
		if conditionHolds(o.Condition, date, hijriOffset) {
			return o.Time, i
		}
	}
	return rule, -1
}

func conditionHolds(condition string, date time.Time, hijriOffset int) bool {
	switch condition {
	case ConditionDST:
		return date.IsDST()
	case ConditionRamadan:
		return hijri.IsRamadan(date, hijriOffset)
	}
	return false
}
