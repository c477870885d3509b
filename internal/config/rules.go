package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/smokyabdulrahman/iqama-times/internal/iqama"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

var (
	// ErrInvalidRules is returned when a rules document fails validation.
	ErrInvalidRules = errors.New("invalid rules document")
	// ErrInvalidLocation is returned when a resolved location fails validation.
	ErrInvalidLocation = errors.New("invalid location")
)

// Asr calculation methods accepted in a rules document.
const (
	AsrStandard = "Standard"
	AsrHanafi   = "Hanafi"
)

// Document is a masjid's rules file: an optional location and the
// calculation method with its Iqama and Jumuah rules.
type Document struct {
	Location          *DocumentLocation `json:"location,omitempty" yaml:"location,omitempty"`
	CalculationMethod CalculationMethod `json:"calculationMethod" yaml:"calculationMethod"`
}

// DocumentLocation is the location block of a rules document.
type DocumentLocation struct {
	Latitude   float64 `json:"latitude" yaml:"latitude" validate:"latitude"`
	Longitude  float64 `json:"longitude" yaml:"longitude" validate:"longitude"`
	Timezone   string  `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	Elevation  float64 `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	City       string  `json:"city,omitempty" yaml:"city,omitempty"`
	Country    string  `json:"country,omitempty" yaml:"country,omitempty"`
	DateFormat string  `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	TimeFormat string  `json:"timeFormat,omitempty" yaml:"timeFormat,omitempty"`
}

// CalculationMethod is the calculationMethod block of a rules document.
type CalculationMethod struct {
	Name                   string             `json:"name,omitempty" yaml:"name,omitempty"`
	FajrAngle              *float64           `json:"fajrAngle,omitempty" yaml:"fajrAngle,omitempty" validate:"omitempty,gt=0,lt=90"`
	IshaAngle              *float64           `json:"ishaAngle,omitempty" yaml:"ishaAngle,omitempty" validate:"omitempty,gt=0,lt=90"`
	AsrCalculationMethod   string             `json:"asrCalculationMethod,omitempty" yaml:"asrCalculationMethod,omitempty" validate:"omitempty,oneof=Standard Hanafi"`
	HighLatitudeAdjustment string             `json:"highLatitudeAdjustment,omitempty" yaml:"highLatitudeAdjustment,omitempty" validate:"omitempty,oneof=MiddleOfTheNight SeventhOfTheNight TwilightAngle"`
	HijriOffset            int                `json:"hijriOffset,omitempty" yaml:"hijriOffset,omitempty" validate:"min=-3,max=3"`
	IqamaCalculationRules  *iqama.RuleSet     `json:"iqamaCalculationRules,omitempty" yaml:"iqamaCalculationRules,omitempty"`
	JumuahRules            []iqama.JumuahRule `json:"jumuahRules,omitempty" yaml:"jumuahRules,omitempty" validate:"omitempty,dive"`
}

// LoadRules reads a rules document. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadRules(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseRulesYAML(data)
	default:
		return ParseRulesJSON(data)
	}
}

// ParseRulesJSON decodes and validates a JSON rules document.
func ParseRulesJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode rules json: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseRulesYAML decodes and validates a YAML rules document.
func ParseRulesYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rules yaml: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks field ranges, enumerations and clock strings. Failures
// wrap ErrInvalidRules and name every offending field.
func (d *Document) Validate() error {
	return validate(d, ErrInvalidRules)
}

// ValidateLocation checks coordinate ranges and the timezone name of a
// location merged from flags, config and the rules document.
func ValidateLocation(l schedule.Location) error {
	return validate(l, ErrInvalidLocation)
}

func validate(v any, sentinel error) error {
	err := rulesValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(msgs, "; "))
}

// ScheduleLocation returns the document's location, and false when the
// document has none.
func (d *Document) ScheduleLocation() (schedule.Location, bool) {
	if d.Location == nil {
		return schedule.Location{}, false
	}
	l := d.Location
	return schedule.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Timezone:  l.Timezone,
		Elevation: l.Elevation,
		City:      l.City,
		Country:   l.Country,
	}, true
}

// ScheduleMethod converts the calculation method. The numeric method ID is
// left unset for the provider to resolve from the name.
func (d *Document) ScheduleMethod() schedule.Method {
	m := d.CalculationMethod
	school := 0
	if m.AsrCalculationMethod == AsrHanafi {
		school = 1
	}
	return schedule.Method{
		Name:                   m.Name,
		ID:                     -1,
		School:                 school,
		HighLatitudeAdjustment: m.HighLatitudeAdjustment,
		FajrAngle:              m.FajrAngle,
		IshaAngle:              m.IshaAngle,
		Iqama:                  m.IqamaCalculationRules,
		Jumuah:                 m.JumuahRules,
		HijriOffset:            m.HijriOffset,
	}
}

// UnknownChangeOn reports a changeOn value that is set but does not name a
// weekday. Such values fall back to Friday.
func (d *Document) UnknownChangeOn() (string, bool) {
	rules := d.CalculationMethod.IqamaCalculationRules
	if rules == nil || rules.ChangeOn == nil {
		return "", false
	}
	if _, ok := iqama.ParseWeekday(*rules.ChangeOn); ok {
		return "", false
	}
	return *rules.ChangeOn, true
}

func rulesValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return timeutil.ValidateClock(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("clockornone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == iqama.StaticNone || timeutil.ValidateClock(s) == nil
	})
	return v
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "clock":
		return fmt.Sprintf("%s: %q is not HH:MM", field, fe.Value())
	case "clockornone":
		return fmt.Sprintf("%s: %q is not HH:MM or %q", field, fe.Value(), iqama.StaticNone)
	case "oneof":
		return fmt.Sprintf("%s: %v is not one of [%s]", field, fe.Value(), fe.Param())
	case "required":
		return fmt.Sprintf("%s: is required", field)
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value())
}
