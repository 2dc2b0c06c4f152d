package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/fetch"
)

// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
const HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

// ErrIncompleteTrack is returned when Horizons does not cover every grid timestamp.
var ErrIncompleteTrack = errors.New("horizons ephemeris does not cover the time grid")

// HorizonsProvider queries JPL Horizons for apparent Az/El of solar-system bodies.
type HorizonsProvider struct {
	fetcher *fetch.Fetcher
	url     string
}

// HorizonsOption configures a HorizonsProvider.
type HorizonsOption func(*HorizonsProvider)

// WithHorizonsURL sets a custom API endpoint.
func WithHorizonsURL(u string) HorizonsOption {
	return func(p *HorizonsProvider) {
		p.url = u
	}
}

// WithFetcher sets the HTTP fetcher.
func WithFetcher(f *fetch.Fetcher) HorizonsOption {
	return func(p *HorizonsProvider) {
		p.fetcher = f
	}
}

// NewHorizonsProvider creates a new Horizons API client.
func NewHorizonsProvider(opts ...HorizonsOption) *HorizonsProvider {
	p := &HorizonsProvider{url: HorizonsAPIURL}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = fetch.New()
	}
	return p
}

// Name returns the provider name for display/logging.
func (p *HorizonsProvider) Name() string {
	return "Horizons"
}

// BodyTrack implements BodyTracker. times must be minute aligned at
// one-minute spacing; Horizons is asked for exactly that span and step.
func (p *HorizonsProvider) BodyTrack(ctx context.Context, body Body, obs astro.Observer, times []time.Time) (Track, error) {
	if len(times) == 0 {
		return Track{}, nil
	}

	body, ok := BodiesByNAIF[body.NAIFID]
	if !ok {
		return Track{}, ErrUnsupportedBody
	}

	raw, err := p.fetcher.Get(ctx, p.requestURL(body.NAIFID, obs, times[0], times[len(times)-1]), "application/json")
	if err != nil {
		return Track{}, fmt.Errorf("horizons %s: %w", body.Name, err)
	}

	points, err := parseHorizonsResponse(raw)
	if err != nil {
		return Track{}, fmt.Errorf("horizons %s: %w", body.Name, err)
	}

	return alignToGrid(points, times)
}

// requestURL builds the query. Values must be quoted with single quotes.
func (p *HorizonsProvider) requestURL(target TargetID, obs astro.Observer, start, end time.Time) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", target))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'coord@399'")
	params.Set("COORD_TYPE", "GEODETIC")
	params.Set("SITE_COORD", fmt.Sprintf("'%.5f,%.5f,%.4f'", obs.LonDeg, obs.LatDeg, obs.HeightM/1000))
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(start)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(end)))
	params.Set("STEP_SIZE", "'1 m'")
	params.Set("QUANTITIES", "'4'") // 4=Apparent Az/El

	return p.url + "?" + params.Encode()
}

// ephemerisPoint is one row of the Horizons table.
type ephemerisPoint struct {
	Time  time.Time
	AzDeg float64
	ElDeg float64
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseHorizonsResponse parses the Horizons JSON response.
func parseHorizonsResponse(body []byte) ([]ephemerisPoint, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("horizons error: %s", strings.TrimSpace(resp.Error))
	}

	// The actual ephemeris data is in resp.Result as a text blob
	return parseEphemerisTable(resp.Result)
}

// parseEphemerisTable extracts ephemeris points from the Horizons text output.
func parseEphemerisTable(result string) ([]ephemerisPoint, error) {
	var points []ephemerisPoint

	// Find the data section between $$SOE and $$EOE markers
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("could not find ephemeris data markers")
	}

	dataSection := result[soeIdx+5 : eoeIdx]
	for _, line := range strings.Split(dataSection, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		point, err := parseEphemerisLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		points = append(points, point)
	}

	return points, nil
}

// parseEphemerisLine parses a single ephemeris data line.
// Format for QUANTITIES='4' (Az/El):
// 2025-Dec-05 00:00 *   261.032124  32.878027
// Fields: date, time, flags, azimuth, elevation
func parseEphemerisLine(line string) (ephemerisPoint, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return ephemerisPoint{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	t, err := parseHorizonsDateTime(fields[0] + " " + fields[1])
	if err != nil {
		return ephemerisPoint{}, err
	}

	// Az/El are the first two numeric fields after the timestamp; flag
	// columns (*, *m, Cm, Nm, Am, ...) are skipped.
	var vals []float64
	for _, f := range fields[2:] {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			vals = append(vals, v)
			if len(vals) == 2 {
				break
			}
		}
	}
	if len(vals) < 2 {
		return ephemerisPoint{}, fmt.Errorf("could not find Az/El values")
	}

	return ephemerisPoint{Time: t, AzDeg: vals[0], ElDeg: vals[1]}, nil
}

// alignToGrid picks the Horizons row for every grid timestamp.
func alignToGrid(points []ephemerisPoint, times []time.Time) (Track, error) {
	byMinute := make(map[int64]ephemerisPoint, len(points))
	for _, pt := range points {
		byMinute[pt.Time.Unix()/60] = pt
	}

	tr := newTrack(len(times))
	for i, t := range times {
		pt, ok := byMinute[t.Unix()/60]
		if !ok {
			return Track{}, fmt.Errorf("%w: missing %s", ErrIncompleteTrack, t.UTC().Format(time.RFC3339))
		}
		tr.Alt[i], tr.Az[i] = pt.ElDeg, pt.AzDeg
	}
	return tr, nil
}

// parseHorizonsDateTime parses Horizons date format like "2025-Dec-05 00:00".
func parseHorizonsDateTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-Jan-02 15:04", s)
	if err == nil {
		return t.UTC(), nil
	}

	// Try with seconds
	t, err = time.Parse("2006-Jan-02 15:04:05", s)
	if err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// formatHorizonsTime formats a time for Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
