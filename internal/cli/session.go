package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/iqama-times/internal/api"
	"github.com/smokyabdulrahman/iqama-times/internal/cache"
	"github.com/smokyabdulrahman/iqama-times/internal/config"
	"github.com/smokyabdulrahman/iqama-times/internal/display"
	"github.com/smokyabdulrahman/iqama-times/internal/geo"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
)

// session is everything a schedule command needs: the merged config, the
// resolved location and method, and a Builder wired to the API and cache.
type session struct {
	cfg      *config.Config
	location schedule.Location
	method   schedule.Method
	builder  *schedule.Builder
	opts     display.Options
}

func newSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)

	doc, err := loadDocument(cfg.RulesFile)
	if err != nil {
		return nil, err
	}

	c := openCache(cmd, cfg)

	loc, err := resolveLocation(ctx, cfg, doc, c)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateLocation(loc); err != nil {
		return nil, err
	}

	method := resolveMethod(cfg, doc)

	client := api.NewClient(logger)
	if loadedEnv.APIURL != "" {
		client.BaseURL = loadedEnv.APIURL
	}
	var provider schedule.AthanProvider = client
	if c != nil {
		provider = cache.NewProvider(client, c)
	}

	b, err := schedule.New(provider, loc, method, schedule.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Float64("latitude", loc.Latitude).
		Float64("longitude", loc.Longitude).
		Str("city", loc.City).
		Str("timezone", b.Zone().String()).
		Int("method", method.ID).
		Str("method_name", method.Name).
		Bool("rules", method.Iqama != nil).
		Msg("session ready")

	return &session{
		cfg:      cfg,
		location: loc,
		method:   method,
		builder:  b,
		opts:     displayOptions(cfg),
	}, nil
}

// now returns the current time in the location's zone.
func (s *session) now() time.Time {
	return time.Now().In(s.builder.Zone())
}

// locationLabel builds a "City, Country" string, falling back to coordinates.
func locationLabel(loc schedule.Location) string {
	if loc.City != "" && loc.Country != "" {
		return loc.City + ", " + loc.Country
	}
	if loc.City != "" {
		return loc.City
	}
	return fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
}

func displayOptions(cfg *config.Config) display.Options {
	return display.Options{
		TimeFormat: cfg.TimeFormat,
		Arabic:     cfg.Numerals == config.NumeralsArabic,
	}
}

// goTimeFormat maps the configured time format to a Go layout.
func goTimeFormat(timeFormat string) string {
	if timeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// loadDocument reads the rules document, or returns nil when none is
// configured. Without a document no Iqama times are produced.
func loadDocument(path string) (*config.Document, error) {
	if path == "" {
		logger.Debug().Msg("no rules document, showing Athan times only")
		return nil, nil
	}
	doc, err := config.LoadRules(path)
	if err != nil {
		return nil, err
	}
	if day, ok := doc.UnknownChangeOn(); ok {
		logger.Warn().Str("changeOn", day).Msg("unknown changeOn day, Iqama times will change on Friday")
	}
	return doc, nil
}

// openCache returns nil when caching is disabled or the directory cannot be
// created; the commands then run uncached.
func openCache(cmd *cobra.Command, cfg *config.Config) *cache.Cache {
	if noCache(cmd) {
		return nil
	}
	c, err := cache.New(cfg.CacheDir, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("cache disabled")
		return nil
	}
	return c
}

// resolveLocation determines the effective location.
// Priority: CLI flags > config > rules document > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config, doc *config.Document, c *cache.Cache) (schedule.Location, error) {
	var loc schedule.Location

	switch {
	case cfg.Latitude != 0 || cfg.Longitude != 0:
		loc = schedule.Location{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
			City:      cfg.City,
			Country:   cfg.Country,
		}
	case cfg.City != "":
		if cfg.Country == "" {
			return schedule.Location{}, fmt.Errorf("--country is required when using --city")
		}
		loc = schedule.Location{City: cfg.City, Country: cfg.Country}
	default:
		if doc != nil {
			if docLoc, ok := doc.ScheduleLocation(); ok {
				loc = docLoc
				break
			}
		}
		detected, err := detectLocation(ctx, c)
		if err != nil {
			return schedule.Location{}, err
		}
		loc = detected.Schedule()
	}

	if cfg.Timezone != "" {
		loc.Timezone = cfg.Timezone
	}
	if cfg.Elevation != 0 {
		loc.Elevation = cfg.Elevation
	}
	if loc.Timezone == "" {
		logger.Debug().Msg("no timezone for location, using the local zone")
	}
	return loc, nil
}

// detectLocation serves a cached geolocation or asks the IP geolocation API.
func detectLocation(ctx context.Context, c *cache.Cache) (*geo.Location, error) {
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return cached, nil
		}
	}

	detected, err := geo.NewDetector(logger).Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}

	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			logger.Debug().Err(err).Msg("could not cache geolocation")
		}
	}
	return detected, nil
}

// resolveMethod starts from the rules document's calculation method and
// applies the config and flag overrides. An explicit method ID replaces
// custom angles.
func resolveMethod(cfg *config.Config, doc *config.Document) schedule.Method {
	m := schedule.Method{ID: -1, School: -1}
	if doc != nil {
		m = doc.ScheduleMethod()
	}

	if id := cfg.MethodOrDefault(-1); id >= 0 {
		m.ID = id
		m.FajrAngle = nil
		m.IshaAngle = nil
	}
	if school := cfg.SchoolOrDefault(-1); school >= 0 {
		m.School = school
	}
	if cfg.LatitudeAdjustment != "" {
		m.HighLatitudeAdjustment = cfg.LatitudeAdjustment
	}
	m.HijriOffset = cfg.HijriOffsetOrDefault(m.HijriOffset)
	return m
}
