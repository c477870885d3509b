package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "time/tzdata"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
)

const rulesJSON = `{
  "salahapi": "1.0",
  "location": {
    "latitude": 40.7128,
    "longitude": -74.006,
    "timezone": "America/New_York",
    "dateFormat": "YYYY-MM-DD",
    "timeFormat": "HH:mm:ss",
    "city": "New York",
    "country": "United States"
  },
  "calculationMethod": {
    "name": "ISNA",
    "fajrAngle": 15.0,
    "ishaAngle": 15.0,
    "asrCalculationMethod": "Standard",
    "highLatitudeAdjustment": "MiddleOfTheNight",
    "iqamaCalculationRules": {
      "changeOn": "friday",
      "fajr": {"change": "daily", "roundMinutes": 15, "earliest": "04:00", "latest": "06:45", "beforeEndMinutes": 30},
      "dhuhr": {
        "static": "12:30",
        "overrides": [{"condition": "daylightSavingsTime", "time": {"static": "13:30"}}]
      },
      "asr": {"change": "weekly", "afterAthanMinutes": 10, "roundMinutes": 5},
      "maghrib": {"afterAthanMinutes": 5},
      "isha": {
        "afterAthanMinutes": 10,
        "overrides": [{"condition": "ramadan", "time": {"static": "21:00"}}]
      }
    },
    "jumuahRules": [
      {"name": "Jumuah 1", "time": {"static": "12:00"},
       "location": {"name": "New York Islamic Center", "address": "123 Main St, New York, NY 10001"}},
      {"name": "Jumuah 2", "time": {"static": "none",
       "overrides": [{"condition": "daylightSavingsTime", "time": {"static": "14:00"}}]}}
    ]
  }
}`

const rulesYAML = `
location:
  latitude: 51.5074
  longitude: -0.1278
  timezone: Europe/London
  city: London
calculationMethod:
  name: MWL
  asrCalculationMethod: Hanafi
  hijriOffset: -1
  iqamaCalculationRules:
    changeOn: Saturday
    fajr:
      change: weekly
      beforeEndMinutes: 30
      roundMinutes: 5
    isha:
      afterAthanMinutes: 15
      latest: "22:30"
`

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

func TestParseRulesJSON(t *testing.T) {
	doc, err := ParseRulesJSON([]byte(rulesJSON))
	if err != nil {
		t.Fatalf("ParseRulesJSON error: %v", err)
	}

	m := doc.CalculationMethod
	if m.Name != "ISNA" {
		t.Errorf("Name = %q, want ISNA", m.Name)
	}
	if m.FajrAngle == nil || *m.FajrAngle != 15 {
		t.Errorf("FajrAngle = %v, want 15", m.FajrAngle)
	}

	rules := m.IqamaCalculationRules
	if rules == nil {
		t.Fatal("IqamaCalculationRules is nil")
	}
	if *rules.Fajr.RoundMinutes != 15 || *rules.Fajr.BeforeEndMinutes != 30 {
		t.Errorf("fajr rule = %+v", rules.Fajr)
	}
	if *rules.Dhuhr.Static != "12:30" {
		t.Errorf("dhuhr static = %q", *rules.Dhuhr.Static)
	}
	if len(rules.Dhuhr.Overrides) != 1 || *rules.Dhuhr.Overrides[0].Time.Static != "13:30" {
		t.Errorf("dhuhr overrides = %+v", rules.Dhuhr.Overrides)
	}
	if !rules.HasWeekly() {
		t.Error("asr is weekly, HasWeekly should be true")
	}

	if len(m.JumuahRules) != 2 {
		t.Fatalf("got %d jumuah rules, want 2", len(m.JumuahRules))
	}
	if m.JumuahRules[0].Location == nil || m.JumuahRules[0].Location.Address == "" {
		t.Errorf("jumuah location = %+v", m.JumuahRules[0].Location)
	}
}

func TestParseRulesYAML(t *testing.T) {
	doc, err := ParseRulesYAML([]byte(rulesYAML))
	if err != nil {
		t.Fatalf("ParseRulesYAML error: %v", err)
	}

	rules := doc.CalculationMethod.IqamaCalculationRules
	if rules == nil || rules.Fajr == nil || rules.Isha == nil {
		t.Fatalf("rules = %+v", rules)
	}
	if !rules.Fajr.IsWeekly() {
		t.Error("fajr should be weekly")
	}
	if *rules.Isha.Latest != "22:30" {
		t.Errorf("isha latest = %q", *rules.Isha.Latest)
	}
	if rules.For(prayer.Dhuhr) != nil {
		t.Error("dhuhr should be unset")
	}
	if doc.CalculationMethod.HijriOffset != -1 {
		t.Errorf("HijriOffset = %d, want -1", doc.CalculationMethod.HijriOffset)
	}
}

func TestParseRules_Malformed(t *testing.T) {
	if _, err := ParseRulesJSON([]byte(`{"calculationMethod": [`)); err == nil {
		t.Error("expected JSON decode error")
	}
	if _, err := ParseRulesYAML([]byte("calculationMethod: [unclosed")); err == nil {
		t.Error("expected YAML decode error")
	}
}

func TestLoadRules_ByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"masjid.json": rulesJSON,
		"masjid.yaml": rulesYAML,
		"masjid.YML":  rulesYAML,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			doc, err := LoadRules(path)
			if err != nil {
				t.Fatalf("LoadRules(%s) error: %v", name, err)
			}
			if doc.CalculationMethod.IqamaCalculationRules == nil {
				t.Error("rules not decoded")
			}
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"bad static", `{"calculationMethod": {"iqamaCalculationRules": {"dhuhr": {"static": "1:30"}}}}`, "static"},
		{"static out of range", `{"calculationMethod": {"iqamaCalculationRules": {"dhuhr": {"static": "24:00"}}}}`, "static"},
		{"bad earliest", `{"calculationMethod": {"iqamaCalculationRules": {"fajr": {"earliest": "4am"}}}}`, "earliest"},
		{"bad change", `{"calculationMethod": {"iqamaCalculationRules": {"fajr": {"change": "monthly"}}}}`, "change"},
		{"negative offset", `{"calculationMethod": {"iqamaCalculationRules": {"isha": {"afterAthanMinutes": -5}}}}`, "afterAthanMinutes"},
		{"unknown condition", `{"calculationMethod": {"iqamaCalculationRules": {"isha": {"overrides": [{"condition": "eclipse", "time": {}}]}}}}`, "condition"},
		{"override without time", `{"calculationMethod": {"iqamaCalculationRules": {"isha": {"overrides": [{"condition": "ramadan"}]}}}}`, "time"},
		{"nested override static", `{"calculationMethod": {"iqamaCalculationRules": {"isha": {"overrides": [{"condition": "ramadan", "time": {"static": "9pm"}}]}}}}`, "static"},
		{"bad asr method", `{"calculationMethod": {"asrCalculationMethod": "Maliki"}}`, "asrCalculationMethod"},
		{"bad adjustment", `{"calculationMethod": {"highLatitudeAdjustment": "Sometimes"}}`, "highLatitudeAdjustment"},
		{"bad latitude", `{"location": {"latitude": 95, "longitude": 0}, "calculationMethod": {}}`, "latitude"},
		{"bad timezone", `{"location": {"latitude": 1, "longitude": 1, "timezone": "Nowhere/Town"}, "calculationMethod": {}}`, "timezone"},
		{"jumuah without name", `{"calculationMethod": {"jumuahRules": [{"time": {"static": "12:00"}}]}}`, "name"},
		{"hijri offset", `{"calculationMethod": {"hijriOffset": 7}}`, "hijriOffset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRulesJSON([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidRules) {
				t.Errorf("error should wrap ErrInvalidRules, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name field %q", err, tt.field)
			}
		})
	}
}

func TestValidate_StaticNone(t *testing.T) {
	doc := `{"calculationMethod": {"iqamaCalculationRules": {"maghrib": {"static": "none"}}}}`
	if _, err := ParseRulesJSON([]byte(doc)); err != nil {
		t.Errorf("static none should be valid: %v", err)
	}
}

func TestValidate_UnknownChangeOnIsAccepted(t *testing.T) {
	doc, err := ParseRulesJSON([]byte(`{"calculationMethod": {"iqamaCalculationRules": {"changeOn": "someday"}}}`))
	if err != nil {
		t.Fatalf("unknown changeOn should not fail validation: %v", err)
	}
	got, ok := doc.UnknownChangeOn()
	if !ok || got != "someday" {
		t.Errorf("UnknownChangeOn() = %q, %v", got, ok)
	}

	doc, err = ParseRulesJSON([]byte(`{"calculationMethod": {"iqamaCalculationRules": {"changeOn": "MONDAY"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.UnknownChangeOn(); ok {
		t.Error("MONDAY is a weekday")
	}
}

func TestValidateLocation(t *testing.T) {
	if err := ValidateLocation(scheduleLocation(40.7, -74, "America/New_York")); err != nil {
		t.Errorf("valid location rejected: %v", err)
	}
	if err := ValidateLocation(scheduleLocation(40.7, -74, "")); err != nil {
		t.Errorf("empty timezone should be allowed: %v", err)
	}
	err := ValidateLocation(scheduleLocation(40.7, 200, ""))
	if !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

func TestDocument_ScheduleConversion(t *testing.T) {
	doc, err := ParseRulesJSON([]byte(rulesJSON))
	if err != nil {
		t.Fatal(err)
	}

	loc, ok := doc.ScheduleLocation()
	if !ok {
		t.Fatal("expected a location")
	}
	if loc.Latitude != 40.7128 || loc.Timezone != "America/New_York" || loc.City != "New York" {
		t.Errorf("location = %+v", loc)
	}

	m := doc.ScheduleMethod()
	if m.Name != "ISNA" || m.ID != -1 || m.School != 0 {
		t.Errorf("method = %+v", m)
	}
	if m.HighLatitudeAdjustment != "MiddleOfTheNight" {
		t.Errorf("HighLatitudeAdjustment = %q", m.HighLatitudeAdjustment)
	}
	if m.Iqama == nil || len(m.Jumuah) != 2 {
		t.Errorf("rules not carried: %+v", m)
	}

	yamlDoc, err := ParseRulesYAML([]byte(rulesYAML))
	if err != nil {
		t.Fatal(err)
	}
	if got := yamlDoc.ScheduleMethod(); got.School != 1 || got.HijriOffset != -1 {
		t.Errorf("Hanafi document: School = %d, HijriOffset = %d", got.School, got.HijriOffset)
	}
}

func TestDocument_NoLocation(t *testing.T) {
	doc, err := ParseRulesJSON([]byte(`{"calculationMethod": {"name": "MWL"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.ScheduleLocation(); ok {
		t.Error("document without location should report false")
	}
}

func scheduleLocation(lat, lon float64, tz string) schedule.Location {
	return schedule.Location{Latitude: lat, Longitude: lon, Timezone: tz}
}
