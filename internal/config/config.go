// Package config provides persistent configuration for the iqama-times CLI.
//
// Configuration is stored as JSON at ~/.config/iqama-times/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > rules document > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
)

const (
	configDirName  = "iqama-times"
	configFileName = "config.json"
)

// Numeral styles.
const (
	NumeralsLatin  = "latin"
	NumeralsArabic = "arabic"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"timezone", "elevation",
	"method", "school",
	"latitude_adjustment",
	"time_format",
	"rules_file",
	"hijri_offset",
	"cache_dir",
	"numerals",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use the rules document, defaults or auto-detect).
type Config struct {
	City               string  `json:"city,omitempty"`
	Country            string  `json:"country,omitempty"`
	Latitude           float64 `json:"latitude,omitempty"`
	Longitude          float64 `json:"longitude,omitempty"`
	Timezone           string  `json:"timezone,omitempty"`
	Elevation          float64 `json:"elevation,omitempty"`
	Method             *int    `json:"method,omitempty"` // pointer so we can distinguish "not set" from 0
	School             *int    `json:"school,omitempty"` // pointer so we can distinguish "not set" from 0
	LatitudeAdjustment string  `json:"latitude_adjustment,omitempty"`
	TimeFormat         string  `json:"time_format,omitempty"` // "12h" or "24h"
	RulesFile          string  `json:"rules_file,omitempty"`
	HijriOffset        *int    `json:"hijri_offset,omitempty"`
	CacheDir           string  `json:"cache_dir,omitempty"`
	Numerals           string  `json:"numerals,omitempty"` // "latin" or "arabic"
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := -1
	school := -1
	offset := 0
	return Config{
		Method:      &method,
		School:      &school,
		HijriOffset: &offset,
		TimeFormat:  "24h",
		Numerals:    NumeralsLatin,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadFrom reads the config at path. A missing file yields an empty Config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := parseRange("latitude", value, -90, 90)
		if err != nil {
			return err
		}
		c.Latitude = v
	case "longitude":
		v, err := parseRange("longitude", value, -180, 180)
		if err != nil {
			return err
		}
		c.Longitude = v
	case "timezone":
		if _, err := (schedule.Location{Timezone: value}).Zone(); err != nil {
			return err
		}
		c.Timezone = value
	case "elevation":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid elevation %q: must be a number", value)
		}
		c.Elevation = v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		c.School = &v
	case "latitude_adjustment":
		switch value {
		case schedule.MiddleOfTheNight, schedule.SeventhOfTheNight, schedule.TwilightAngle:
		default:
			return fmt.Errorf("invalid latitude_adjustment %q: must be one of %s, %s, %s",
				value, schedule.MiddleOfTheNight, schedule.SeventhOfTheNight, schedule.TwilightAngle)
		}
		c.LatitudeAdjustment = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "rules_file":
		c.RulesFile = value
	case "hijri_offset":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid hijri_offset %q: must be an integer", value)
		}
		if v < -3 || v > 3 {
			return fmt.Errorf("invalid hijri_offset %q: must be between -3 and 3", value)
		}
		c.HijriOffset = &v
	case "cache_dir":
		c.CacheDir = value
	case "numerals":
		if value != NumeralsLatin && value != NumeralsArabic {
			return fmt.Errorf("invalid numerals %q: must be %q or %q", value, NumeralsLatin, NumeralsArabic)
		}
		c.Numerals = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "timezone":
		return c.Timezone, nil
	case "elevation":
		return formatFloat(c.Elevation), nil
	case "method":
		return formatInt(c.Method), nil
	case "school":
		return formatInt(c.School), nil
	case "latitude_adjustment":
		return c.LatitudeAdjustment, nil
	case "time_format":
		return c.TimeFormat, nil
	case "rules_file":
		return c.RulesFile, nil
	case "hijri_offset":
		return formatInt(c.HijriOffset), nil
	case "cache_dir":
		return c.CacheDir, nil
	case "numerals":
		return c.Numerals, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	if c.School != nil {
		return *c.School
	}
	return def
}

// HijriOffsetOrDefault returns the Hijri day offset, falling back to def.
func (c *Config) HijriOffsetOrDefault(def int) int {
	if c.HijriOffset != nil {
		return *c.HijriOffset
	}
	return def
}

func parseRange(key, value string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", key, value, lo, hi)
	}
	return v, nil
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
