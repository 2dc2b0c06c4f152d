package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/litescript/ls-nightplan/internal/fetch"
)

const (
	// DefaultSimbadTAPURL is the SIMBAD synchronous TAP endpoint.
	DefaultSimbadTAPURL = "https://simbad.cds.unistra.fr/simbad/sim-tap/sync"

	// DefaultGaiaTAPURL is the ESA Gaia archive synchronous TAP endpoint.
	DefaultGaiaTAPURL = "https://gea.esac.esa.int/tap-server/tap/sync"

	gaiaDR3Prefix = "Gaia DR3 "
)

// GaiaBP looks up Gaia DR3 BP magnitudes. Names are cross-identified to a
// Gaia DR3 source id through SIMBAD, then the archive is queried for
// phot_bp_mean_mag.
type GaiaBP struct {
	fetcher   *fetch.Fetcher
	simbadURL string
	gaiaURL   string
}

// GaiaOption configures a GaiaBP lookup.
type GaiaOption func(*GaiaBP)

// WithSimbadURL sets a custom SIMBAD TAP endpoint.
func WithSimbadURL(u string) GaiaOption {
	return func(g *GaiaBP) {
		g.simbadURL = u
	}
}

// WithGaiaURL sets a custom Gaia TAP endpoint.
func WithGaiaURL(u string) GaiaOption {
	return func(g *GaiaBP) {
		g.gaiaURL = u
	}
}

// NewGaiaBP creates a magnitude lookup using f for HTTP.
func NewGaiaBP(f *fetch.Fetcher, opts ...GaiaOption) *GaiaBP {
	g := &GaiaBP{
		fetcher:   f,
		simbadURL: DefaultSimbadTAPURL,
		gaiaURL:   DefaultGaiaTAPURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BPMagnitude implements MagnitudeLookup.
func (g *GaiaBP) BPMagnitude(ctx context.Context, name string) (float64, error) {
	sourceID, err := g.sourceID(ctx, name)
	if err != nil {
		return 0, err
	}

	query := "SELECT source_id, phot_bp_mean_mag FROM gaiadr3.gaia_source WHERE source_id = " + sourceID
	params := url.Values{}
	params.Set("REQUEST", "doQuery")
	params.Set("LANG", "ADQL")
	params.Set("FORMAT", "json")
	params.Set("QUERY", query)

	body, err := g.fetcher.Get(ctx, g.gaiaURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return 0, fmt.Errorf("gaia query %s: %w", sourceID, err)
	}

	rows, err := parseTAPRows(body)
	if err != nil {
		return 0, fmt.Errorf("gaia query %s: %w", sourceID, err)
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if mag, ok := tapFloat(row[1]); ok {
			return mag, nil
		}
	}
	return 0, fmt.Errorf("%w: Gaia DR3 %s", ErrNoMagnitude, sourceID)
}

// sourceID returns the numeric Gaia DR3 source id for name.
func (g *GaiaBP) sourceID(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if id, ok := strings.CutPrefix(name, gaiaDR3Prefix); ok {
		return strings.TrimSpace(id), nil
	}

	escaped := strings.ReplaceAll(name, "'", "''")
	query := "SELECT id FROM ident WHERE oidref=(SELECT oidref FROM ident WHERE id='" + escaped + "')"
	params := url.Values{}
	params.Set("request", "doQuery")
	params.Set("lang", "adql")
	params.Set("format", "json")
	params.Set("query", query)

	body, err := g.fetcher.Get(ctx, g.simbadURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return "", fmt.Errorf("simbad identifiers %q: %w", name, err)
	}

	rows, err := parseTAPRows(body)
	if err != nil {
		return "", fmt.Errorf("simbad identifiers %q: %w", name, err)
	}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		var id string
		if err := json.Unmarshal(row[0], &id); err != nil {
			continue
		}
		if rest, ok := strings.CutPrefix(id, gaiaDR3Prefix); ok {
			return strings.TrimSpace(rest), nil
		}
	}
	return "", fmt.Errorf("%w: no Gaia DR3 identifier for %q", ErrNoMagnitude, name)
}

// tapResponse is the JSON serialisation shared by the SIMBAD and Gaia TAP
// services.
type tapResponse struct {
	Metadata []struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Data [][]json.RawMessage `json:"data"`
}

func parseTAPRows(body []byte) ([][]json.RawMessage, error) {
	var resp tapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode TAP response: %w", err)
	}
	return resp.Data, nil
}

// tapFloat decodes a numeric TAP cell. Null cells report false.
func tapFloat(raw json.RawMessage) (float64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Trim(s, `"`), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
