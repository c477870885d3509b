// Package api is a client for the Al Adhan prayer times API. Client
// implements schedule.AthanProvider.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// ErrStatus is returned when the API answers with a non-200 HTTP status or a
// non-200 code in the response body.
var ErrStatus = errors.New("unexpected API status")

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
	logger  zerolog.Logger

	mu     sync.Mutex
	months map[string][]Data
}

// NewClient creates a new API client with sensible defaults.
func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
		logger:  logger.With().Str("component", "api").Logger(),
		months:  make(map[string][]Data),
	}
}

// Params are the query parameters that select a location and a calculation
// method. Negative Method or School leave the choice to the API.
type Params struct {
	Latitude           float64
	Longitude          float64
	City               string
	Country            string
	Timezone           string
	Method             int
	School             int
	LatitudeAdjustment int
	MethodSettings     string
}

// NewParams builds request parameters from a location and a method. Custom
// angles select CustomMethod; otherwise an explicit ID wins over the name.
func NewParams(loc schedule.Location, m schedule.Method) Params {
	p := Params{
		Latitude:           loc.Latitude,
		Longitude:          loc.Longitude,
		City:               loc.City,
		Country:            loc.Country,
		Timezone:           loc.Timezone,
		Method:             m.ID,
		School:             m.School,
		LatitudeAdjustment: LatitudeAdjustment(m.HighLatitudeAdjustment),
	}

	switch {
	case m.FajrAngle != nil || m.IshaAngle != nil:
		p.Method = CustomMethod
		p.MethodSettings = angle(m.FajrAngle) + ",null," + angle(m.IshaAngle)
	case m.ID < 0 && m.Name != "":
		if known, ok := MethodByName(m.Name); ok {
			p.Method = known.ID
		}
	}
	return p
}

func angle(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// byCity reports whether the request must use the city endpoints.
func (p Params) byCity() bool {
	return p.Latitude == 0 && p.Longitude == 0 && p.City != ""
}

func (p Params) query() url.Values {
	params := url.Values{}
	if p.byCity() {
		params.Set("city", p.City)
		params.Set("country", p.Country)
	} else {
		params.Set("latitude", fmt.Sprintf("%f", p.Latitude))
		params.Set("longitude", fmt.Sprintf("%f", p.Longitude))
	}
	if p.Method >= 0 {
		params.Set("method", strconv.Itoa(p.Method))
	}
	if p.MethodSettings != "" {
		params.Set("methodSettings", p.MethodSettings)
	}
	if p.School >= 0 {
		params.Set("school", strconv.Itoa(p.School))
	}
	if p.LatitudeAdjustment > 0 {
		params.Set("latitudeAdjustmentMethod", strconv.Itoa(p.LatitudeAdjustment))
	}
	if p.Timezone != "" {
		params.Set("timezonestring", p.Timezone)
	}
	return params
}

// FetchTimings fetches prayer times for one date.
func (c *Client) FetchTimings(ctx context.Context, date time.Time, p Params) (*Response, error) {
	path := "timings"
	if p.byCity() {
		path = "timingsByCity"
	}
	endpoint := fmt.Sprintf("%s/%s/%s", c.BaseURL, path, date.Format(dateLayout))

	var apiResp Response
	if err := c.doRequest(ctx, endpoint, p.query(), &apiResp); err != nil {
		return nil, err
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrStatus, apiResp.Code, apiResp.Status)
	}
	return &apiResp, nil
}

// FetchCalendar fetches prayer times for every day of a month.
func (c *Client) FetchCalendar(ctx context.Context, year int, month time.Month, p Params) (*CalendarResponse, error) {
	path := "calendar"
	if p.byCity() {
		path = "calendarByCity"
	}
	endpoint := fmt.Sprintf("%s/%s/%d/%d", c.BaseURL, path, year, int(month))

	var apiResp CalendarResponse
	if err := c.doRequest(ctx, endpoint, p.query(), &apiResp); err != nil {
		return nil, err
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrStatus, apiResp.Code, apiResp.Status)
	}
	return &apiResp, nil
}

// AthanTimes implements schedule.AthanProvider. The month containing date is
// fetched once through the calendar endpoint and kept in memory, so a range
// build costs one request per month. A day missing from the calendar falls
// back to the single-day endpoint.
func (c *Client) AthanTimes(ctx context.Context, date time.Time, loc schedule.Location, method schedule.Method) (map[prayer.Name]time.Time, error) {
	p := NewParams(loc, method)

	days, err := c.month(ctx, date.Year(), date.Month(), p)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		if d.Date.Is(date) {
			return ParseTimings(d.Timings, date)
		}
	}

	c.logger.Debug().Str("date", date.Format("2006-01-02")).Msg("day missing from calendar, fetching timings")
	resp, err := c.FetchTimings(ctx, date, p)
	if err != nil {
		return nil, err
	}
	return ParseTimings(resp.Data.Timings, date)
}

func (c *Client) month(ctx context.Context, year int, month time.Month, p Params) ([]Data, error) {
	key := fmt.Sprintf("%04d-%02d?%s", year, int(month), p.query().Encode())

	c.mu.Lock()
	days, ok := c.months[key]
	c.mu.Unlock()
	if ok {
		return days, nil
	}

	resp, err := c.FetchCalendar(ctx, year, month, p)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) > 0 {
		first := resp.Data[0]
		c.logger.Debug().
			Str("month", fmt.Sprintf("%04d-%02d", year, int(month))).
			Int("days", len(resp.Data)).
			Int("method", first.Meta.Method.ID).
			Str("timezone", first.Meta.Timezone).
			Str("hijri", first.Date.Hijri.Date).
			Msg("calendar fetched")
	}

	c.mu.Lock()
	c.months[key] = resp.Data
	c.mu.Unlock()
	return resp.Data, nil
}

// ParseTimings converts the Athan times of a response into times on date, in
// date's zone.
func ParseTimings(t Timings, date time.Time) (map[prayer.Name]time.Time, error) {
	out := make(map[prayer.Name]time.Time, len(prayer.Names))
	for name, raw := range t.ByName() {
		if raw == "" {
			continue
		}
		parsed, err := prayer.ParseTime(raw, date, date.Location())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = parsed
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build API request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
