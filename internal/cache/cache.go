// Package cache keeps Athan times and geolocation results on disk so repeated
// runs do not hit the network.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/iqama-times/internal/geo"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
	"github.com/smokyabdulrahman/iqama-times/internal/timeutil"
)

const (
	athanCacheFile = "athan_%s.json" // keyed by hash
	geoCacheFile   = "geolocation.json"
	geoTTL         = 24 * time.Hour
)

// Cache provides file-based caching for Athan times and geolocation data.
type Cache struct {
	dir    string
	logger zerolog.Logger
}

// AthanEntry stores one day's Athan times as "HH:MM" strings along with the
// date for validation.
type AthanEntry struct {
	Date  string                 `json:"date"` // YYYY-MM-DD
	Times map[prayer.Name]string `json:"times"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/iqama-times/.
func New(dir string, logger zerolog.Logger) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "iqama-times")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, logger: logger.With().Str("component", "cache").Logger()}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// cacheKey builds a deterministic hash from the parameters that affect Athan
// times, so different locations and methods get separate cache files.
func cacheKey(date string, loc schedule.Location, m schedule.Method) string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%.1f|%s|%s|%s|%d|%s|%d|%s|%s|%s",
		date, loc.Latitude, loc.Longitude, loc.Elevation, loc.City, loc.Country, loc.Timezone,
		m.ID, m.Name, m.School, m.HighLatitudeAdjustment, optional(m.FajrAngle), optional(m.IshaAngle))
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func (c *Cache) athanPath(dateStr string, loc schedule.Location, m schedule.Method) string {
	return filepath.Join(c.dir, fmt.Sprintf(athanCacheFile, cacheKey(dateStr, loc, m)))
}

// LoadAthan reads cached Athan times for date. The second result is false
// when the cache is missing, unreadable or stale (wrong date).
func (c *Cache) LoadAthan(date time.Time, loc schedule.Location, m schedule.Method) (map[prayer.Name]time.Time, bool) {
	dateStr := date.Format(timeutil.DateLayout)

	data, err := os.ReadFile(c.athanPath(dateStr, loc, m))
	if err != nil {
		return nil, false
	}

	var entry AthanEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Debug().Err(err).Str("date", dateStr).Msg("ignoring corrupt cache entry")
		return nil, false
	}

	// Validate the date matches -- an entry for another day is useless.
	if entry.Date != dateStr {
		return nil, false
	}

	times := make(map[prayer.Name]time.Time, len(entry.Times))
	for name, clock := range entry.Times {
		t, err := timeutil.ParseClock(date, clock)
		if err != nil {
			return nil, false
		}
		times[name] = t
	}
	return times, true
}

// SaveAthan writes Athan times for date to the cache.
func (c *Cache) SaveAthan(date time.Time, loc schedule.Location, m schedule.Method, times map[prayer.Name]time.Time) error {
	dateStr := date.Format(timeutil.DateLayout)

	entry := AthanEntry{Date: dateStr, Times: make(map[prayer.Name]string, len(times))}
	for name, t := range times {
		entry.Times[name] = timeutil.Format(t)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.athanPath(dateStr, loc, m), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Provider serves Athan times from the cache and falls back to another
// provider on a miss, storing what it fetched.
type Provider struct {
	next  schedule.AthanProvider
	cache *Cache
}

// NewProvider wraps next with the cache.
func NewProvider(next schedule.AthanProvider, c *Cache) *Provider {
	return &Provider{next: next, cache: c}
}

// AthanTimes implements schedule.AthanProvider.
func (p *Provider) AthanTimes(ctx context.Context, date time.Time, loc schedule.Location, m schedule.Method) (map[prayer.Name]time.Time, error) {
	if times, ok := p.cache.LoadAthan(date, loc, m); ok {
		return times, nil
	}

	times, err := p.next.AthanTimes(ctx, date, loc, m)
	if err != nil {
		return nil, err
	}

	// A failed write only costs a refetch next time.
	if err := p.cache.SaveAthan(date, loc, m, times); err != nil {
		p.cache.logger.Warn().Err(err).Msg("could not write athan cache")
	}
	return times, nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}
