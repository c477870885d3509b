// Package schedule builds day-by-day reports that join Athan times from an
// AthanProvider with the Iqama times derived from a masjid's rules.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/iqama-times/internal/iqama"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
)

// ErrInvalidRange is returned when the end of a range precedes its start.
var ErrInvalidRange = errors.New("end date is before start date")

// Location is where the Athan times are computed for.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"longitude"`
	Timezone  string  `json:"timezone" yaml:"timezone" validate:"omitempty,timezone"`
	Elevation float64 `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	City      string  `json:"city,omitempty" yaml:"city,omitempty"`
	Country   string  `json:"country,omitempty" yaml:"country,omitempty"`
}

// Zone loads the location's IANA zone. An empty Timezone means the local zone.
func (l Location) Zone() (*time.Location, error) {
	if l.Timezone == "" {
		return time.Local, nil
	}
	z, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", l.Timezone, err)
	}
	return z, nil
}

// HasCoordinates reports whether latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// High-latitude adjustment names.
const (
	MiddleOfTheNight  = "MiddleOfTheNight"
	SeventhOfTheNight = "SeventhOfTheNight"
	TwilightAngle     = "TwilightAngle"
)

// Method carries the Athan calculation parameters and the Iqama rules.
type Method struct {
	// Name is a calculation method name such as "ISNA" or "MWL".
	Name string
	// ID is the provider's numeric method; -1 leaves it to the provider.
	ID int
	// School is 0 for Standard (Shafi) and 1 for Hanafi Asr.
	School                 int
	HighLatitudeAdjustment string
	FajrAngle              *float64
	IshaAngle              *float64
	Iqama                  *iqama.RuleSet
	Jumuah                 []iqama.JumuahRule
	// HijriOffset shifts the Hijri calendar used for Ramadan by whole days.
	HijriOffset int
}

// AthanProvider computes the Athan times of one day. Implementations return
// local wall-clock times on date, in date's zone.
type AthanProvider interface {
	AthanTimes(ctx context.Context, date time.Time, loc Location, method Method) (map[prayer.Name]time.Time, error)
}
