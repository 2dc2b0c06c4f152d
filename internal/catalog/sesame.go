package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/litescript/ls-nightplan/internal/fetch"
)

// DefaultSesameURL is the CDS Sesame name resolver (XML output, Simbad
// then NED then VizieR).
const DefaultSesameURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-oxp/SNV"

// Sesame resolves names through the CDS Sesame service.
type Sesame struct {
	fetcher *fetch.Fetcher
	url     string
}

// SesameOption configures a Sesame resolver.
type SesameOption func(*Sesame)

// WithSesameURL sets a custom service URL.
func WithSesameURL(u string) SesameOption {
	return func(s *Sesame) {
		s.url = u
	}
}

// NewSesame creates a Sesame resolver using f for HTTP.
func NewSesame(f *fetch.Fetcher, opts ...SesameOption) *Sesame {
	s := &Sesame{fetcher: f, url: DefaultSesameURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Resolver.
func (s *Sesame) Name() string {
	return "sesame"
}

// Resolve implements Resolver.
func (s *Sesame) Resolve(ctx context.Context, name string) (Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Position{}, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	body, err := s.fetcher.Get(ctx, s.url+"?"+url.PathEscape(name), "text/xml")
	if err != nil {
		return Position{}, fmt.Errorf("sesame lookup %q: %w", name, err)
	}

	pos, err := parseSesame(body)
	if err != nil {
		return Position{}, fmt.Errorf("sesame lookup %q: %w", name, err)
	}
	if pos.Name == "" {
		pos.Name = name
	}
	pos.Source = s.Name()
	return pos, nil
}

// XML structures matching the Sesame -oxp output

type xmlSesame struct {
	XMLName xml.Name    `xml:"Sesame"`
	Targets []xmlTarget `xml:"Target"`
}

type xmlTarget struct {
	Name      string        `xml:"name"`
	Resolvers []xmlResolver `xml:"Resolver"`
}

type xmlResolver struct {
	Name   string `xml:"name,attr"`
	Info   string `xml:"INFO"`
	OName  string `xml:"oname"`
	RADeg  string `xml:"jradeg"`
	DecDeg string `xml:"jdedeg"`
}

// parseSesame returns the first resolver answer that carries coordinates.
func parseSesame(data []byte) (Position, error) {
	var raw xmlSesame
	if err := xml.Unmarshal(data, &raw); err != nil {
		return Position{}, fmt.Errorf("unmarshal Sesame XML: %w", err)
	}

	for _, t := range raw.Targets {
		for _, r := range t.Resolvers {
			if r.RADeg == "" || r.DecDeg == "" {
				continue
			}
			ra, err := strconv.ParseFloat(strings.TrimSpace(r.RADeg), 64)
			if err != nil {
				return Position{}, fmt.Errorf("parse jradeg %q: %w", r.RADeg, err)
			}
			dec, err := strconv.ParseFloat(strings.TrimSpace(r.DecDeg), 64)
			if err != nil {
				return Position{}, fmt.Errorf("parse jdedeg %q: %w", r.DecDeg, err)
			}
			name := strings.TrimSpace(r.OName)
			if name == "" {
				name = strings.TrimSpace(t.Name)
			}
			return Position{Name: name, RAdeg: ra, DecDeg: dec}, nil
		}
	}

	return Position{}, ErrNotFound
}
