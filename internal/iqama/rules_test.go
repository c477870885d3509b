package iqama

import (
	"testing"
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
)

// ---------------------------------------------------------------------------
// EffectiveRule
// ---------------------------------------------------------------------------

func TestEffectiveRule(t *testing.T) {
	la := loadLoc(t, "America/Los_Angeles")
	dst := &Rule{Static: str("13:30")}
	ramadan := &Rule{AfterAthanMinutes: num(10)}
	base := &Rule{
		Static: str("12:30"),
		Overrides: []Override{
			{Condition: ConditionRamadan, Time: ramadan},
			{Condition: ConditionDST, Time: dst},
		},
	}

	tests := []struct {
		name string
		date time.Time
		want *Rule
	}{
		{"winter, not ramadan", time.Date(2026, 1, 15, 0, 0, 0, 0, la), base},
		{"ramadan before DST", time.Date(2026, 2, 25, 0, 0, 0, 0, la), ramadan},
		{"ramadan and DST, first match wins", time.Date(2026, 3, 10, 0, 0, 0, 0, la), ramadan},
		{"DST after ramadan", time.Date(2026, 7, 15, 0, 0, 0, 0, la), dst},
		{"ramadan on spring forward day", time.Date(2026, 3, 8, 0, 0, 0, 0, la), ramadan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveRule(base, tt.date, 0); got != tt.want {
				t.Errorf("EffectiveRule = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEffectiveRule_NoOverrides(t *testing.T) {
	rule := &Rule{Static: str("12:30")}
	if got := EffectiveRule(rule, time.Now(), 0); got != rule {
		t.Errorf("expected base rule, got %+v", got)
	}
	if got := EffectiveRule(nil, time.Now(), 0); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestEffectiveRule_UnknownCondition(t *testing.T) {
	rule := &Rule{Overrides: []Override{{Condition: "eclipse", Time: &Rule{}}}}
	if got := EffectiveRule(rule, time.Now(), 0); got != rule {
		t.Errorf("expected base rule for unknown condition, got %+v", got)
	}
}

func TestEffectiveRule_SpringForwardIsStandard(t *testing.T) {
	la := loadLoc(t, "America/Los_Angeles")
	rule := dstStaticRule()

	if got := EffectiveRule(rule, time.Date(2026, 3, 8, 0, 0, 0, 0, la), 0); got != rule {
		t.Error("Mar 8 midnight should still be standard time")
	}
	if got := EffectiveRule(rule, time.Date(2026, 11, 1, 0, 0, 0, 0, la), 0); got == rule {
		t.Error("Nov 1 midnight should still be DST")
	}
}

// ---------------------------------------------------------------------------
// Rule / RuleSet helpers
// ---------------------------------------------------------------------------

func TestRule_HasWeekly(t *testing.T) {
	tests := []struct {
		name string
		rule *Rule
		want bool
	}{
		{"nil", nil, false},
		{"daily", &Rule{Change: str(ChangeDaily)}, false},
		{"unset", &Rule{}, false},
		{"weekly", &Rule{Change: str(ChangeWeekly)}, true},
		{"weekly override", &Rule{Overrides: []Override{{Condition: ConditionDST, Time: &Rule{Change: str(ChangeWeekly)}}}}, true},
	}

	for _, tt := range tests {
		if got := tt.rule.HasWeekly(); got != tt.want {
			t.Errorf("%s: HasWeekly() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRuleSet_For(t *testing.T) {
	fajr := &Rule{}
	isha := &Rule{}
	set := &RuleSet{Fajr: fajr, Isha: isha}

	if set.For(prayer.Fajr) != fajr {
		t.Error("For(fajr) mismatch")
	}
	if set.For(prayer.Isha) != isha {
		t.Error("For(isha) mismatch")
	}
	if set.For(prayer.Dhuhr) != nil {
		t.Error("For(dhuhr) should be nil")
	}
	if set.For(prayer.Sunrise) != nil {
		t.Error("For(sunrise) should be nil")
	}
	var nilSet *RuleSet
	if nilSet.For(prayer.Fajr) != nil {
		t.Error("nil set should return nil")
	}
}

func TestRuleSet_HasWeekly(t *testing.T) {
	if (&RuleSet{Asr: &Rule{Change: str(ChangeDaily)}}).HasWeekly() {
		t.Error("daily-only set reported weekly")
	}
	if !(&RuleSet{Isha: &Rule{Change: str(ChangeWeekly)}}).HasWeekly() {
		t.Error("weekly isha not detected")
	}
}

func TestRuleSet_ChangeDay(t *testing.T) {
	tests := []struct {
		changeOn *string
		want     time.Weekday
	}{
		{nil, time.Friday},
		{str("friday"), time.Friday},
		{str("SATURDAY"), time.Saturday},
		{str(" Monday "), time.Monday},
		{str("someday"), time.Friday},
		{str(""), time.Friday},
	}

	for _, tt := range tests {
		set := &RuleSet{ChangeOn: tt.changeOn}
		if got := set.ChangeDay(); got != tt.want {
			t.Errorf("ChangeDay(%v) = %v, want %v", tt.changeOn, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Jumuah
// ---------------------------------------------------------------------------

func jumuahRules() []JumuahRule {
	loc := &JumuahLocation{Name: "Main Hall"}
	return []JumuahRule{
		{Name: "Jumuah 1", Time: &Rule{Static: str("12:00")}, Location: loc},
		{Name: "Jumuah 2", Time: &Rule{
			Static:    str(StaticNone),
			Overrides: []Override{{Condition: ConditionDST, Time: &Rule{Static: str("14:00")}}},
		}, Location: loc},
		{Name: "Computed", Time: &Rule{AfterAthanMinutes: num(20)}},
	}
}

func TestJumuah(t *testing.T) {
	la := loadLoc(t, "America/Los_Angeles")

	tests := []struct {
		name  string
		date  time.Time
		names []string
		times []string
	}{
		{"winter friday", time.Date(2026, 1, 2, 9, 0, 0, 0, la), []string{"Jumuah 1"}, []string{"12:00"}},
		{"summer friday", time.Date(2026, 7, 3, 0, 0, 0, 0, la), []string{"Jumuah 1", "Jumuah 2"}, []string{"12:00", "14:00"}},
		{"thursday", time.Date(2026, 1, 1, 0, 0, 0, 0, la), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc().Jumuah(jumuahRules(), tt.date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.names) {
				t.Fatalf("got %d slots, want %d", len(got), len(tt.names))
			}
			for i := range got {
				if got[i].Name != tt.names[i] {
					t.Errorf("slot %d name = %q, want %q", i, got[i].Name, tt.names[i])
				}
				if got[i].Time.Format("15:04") != tt.times[i] {
					t.Errorf("slot %d time = %s, want %s", i, got[i].Time.Format("15:04"), tt.times[i])
				}
				if got[i].Location == nil || got[i].Location.Name != "Main Hall" {
					t.Errorf("slot %d location = %+v", i, got[i].Location)
				}
			}
		})
	}
}

func TestJumuah_InvalidStatic(t *testing.T) {
	rules := []JumuahRule{{Name: "Bad", Time: &Rule{Static: str("noon")}}}
	if _, err := calc().Jumuah(rules, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected error for invalid static time")
	}
}
