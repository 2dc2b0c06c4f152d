package observatory

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownObservatory is returned by Lookup for names not in the registry.
var ErrUnknownObservatory = errors.New("unknown observatory")

//go:embed observatories.yaml
var defaultYAML []byte

// Registry is a read-only set of observatories keyed by lower-cased name.
type Registry struct {
	sites map[string]Observatory
}

// siteFile is the YAML document layout.
type siteFile struct {
	Observatories []siteEntry `yaml:"observatories"`
}

type siteEntry struct {
	Name         string     `yaml:"name"`
	Lat          float64    `yaml:"lat"`
	Lon          float64    `yaml:"lon"`
	Height       float64    `yaml:"height"`
	MinAlt       minAltSpec `yaml:"min_alt"`
	MinDec       *float64   `yaml:"min_dec"`
	MaxDec       *float64   `yaml:"max_dec"`
	MaxHourAngle float64    `yaml:"max_hour_angle"`
	MaxSunAlt    *float64   `yaml:"max_sun_alt"`
	MaxFlat      *float64   `yaml:"max_flat"`
	MinFlat      *float64   `yaml:"min_flat"`
	Schedulable  bool       `yaml:"schedulable"`
}

// minAltSpec holds either a scalar altitude or a horizon profile list.
type minAltSpec struct {
	set     bool
	scalar  float64
	profile []float64
}

// UnmarshalYAML accepts `min_alt: 30` or `min_alt: [30, 31, ...]`.
func (m *minAltSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if err := value.Decode(&m.scalar); err != nil {
			return fmt.Errorf("min_alt: %w", err)
		}
	case yaml.SequenceNode:
		if err := value.Decode(&m.profile); err != nil {
			return fmt.Errorf("min_alt: %w", err)
		}
	default:
		return fmt.Errorf("min_alt: line %d: expected number or list", value.Line)
	}
	m.set = true
	return nil
}

// DefaultRegistry returns the built-in site list.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(bytes.NewReader(defaultYAML))
}

// LoadRegistryFile reads a registry from a YAML file on disk.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observatory file: %w", err)
	}
	defer f.Close()

	return LoadRegistry(f)
}

// LoadRegistry parses and validates a YAML site list.
func LoadRegistry(r io.Reader) (*Registry, error) {
	var doc siteFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse observatories: %w", err)
	}

	reg := &Registry{sites: make(map[string]Observatory, len(doc.Observatories))}
	for _, e := range doc.Observatories {
		o, err := e.observatory()
		if err != nil {
			return nil, fmt.Errorf("observatory %q: %w", e.Name, err)
		}
		key := strings.ToLower(o.Name)
		if _, dup := reg.sites[key]; dup {
			return nil, fmt.Errorf("observatory %q: duplicate name", e.Name)
		}
		reg.sites[key] = o
	}
	return reg, nil
}

func (e siteEntry) observatory() (Observatory, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Observatory{}, errors.New("name is required")
	}
	if e.Lat < -90 || e.Lat > 90 {
		return Observatory{}, fmt.Errorf("lat %v out of range", e.Lat)
	}
	if e.Lon < -180 || e.Lon > 180 {
		return Observatory{}, fmt.Errorf("lon %v out of range", e.Lon)
	}
	if !e.MinAlt.set {
		return Observatory{}, errors.New("min_alt is required")
	}
	if e.MaxHourAngle <= 0 || e.MaxHourAngle > 12 {
		return Observatory{}, fmt.Errorf("max_hour_angle %v must be in (0, 12]", e.MaxHourAngle)
	}

	o := Observatory{
		Name:         e.Name,
		Lat:          e.Lat,
		Lon:          e.Lon,
		Height:       e.Height,
		MaxHourAngle: e.MaxHourAngle,
		MaxSunAlt:    valueOr(e.MaxSunAlt, -12),
		FlatSunAlt: FlatLimits{
			Max: valueOr(e.MaxFlat, -6),
			Min: valueOr(e.MinFlat, -10),
		},
		Schedulable: e.Schedulable,
	}
	if o.FlatSunAlt.Max <= o.FlatSunAlt.Min {
		return Observatory{}, fmt.Errorf("max_flat %v must be above min_flat %v", o.FlatSunAlt.Max, o.FlatSunAlt.Min)
	}

	if e.MinAlt.profile != nil {
		if len(e.MinAlt.profile) != ProfileSamples {
			return Observatory{}, fmt.Errorf("min_alt profile has %d samples, want %d", len(e.MinAlt.profile), ProfileSamples)
		}
		if first, last := e.MinAlt.profile[0], e.MinAlt.profile[ProfileSamples-1]; first != last {
			return Observatory{}, fmt.Errorf("min_alt profile must close at north: azimuth 0 is %v, azimuth 360 is %v", first, last)
		}
		if e.MinDec != nil || e.MaxDec != nil {
			return Observatory{}, errors.New("min_dec/max_dec cannot be combined with a horizon profile")
		}
		var p HorizonProfile
		copy(p.Samples[:], e.MinAlt.profile)
		o.Horizon = p
		return o, nil
	}

	s := ScalarLimit{
		MinAlt: e.MinAlt.scalar,
		MinDec: valueOr(e.MinDec, -90),
		MaxDec: valueOr(e.MaxDec, 90),
	}
	if s.MinDec >= s.MaxDec {
		return Observatory{}, fmt.Errorf("min_dec %v must be below max_dec %v", s.MinDec, s.MaxDec)
	}
	o.Horizon = s
	return o, nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Merge returns a new registry holding r's sites overridden by other's.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{sites: make(map[string]Observatory, len(r.sites)+len(other.sites))}
	for k, v := range r.sites {
		out.sites[k] = v
	}
	for k, v := range other.sites {
		out.sites[k] = v
	}
	return out
}

// Lookup returns the named observatory, matching case-insensitively.
func (r *Registry) Lookup(name string) (Observatory, error) {
	o, ok := r.sites[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Observatory{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownObservatory, name, strings.Join(r.Names(), ", "))
	}
	return o, nil
}

// Names returns the registered site names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sites))
	for _, o := range r.sites {
		names = append(names, o.Name)
	}
	sort.Strings(names)
	return names
}

// All returns every observatory sorted by name.
func (r *Registry) All() []Observatory {
	out := make([]Observatory, 0, len(r.sites))
	for _, name := range r.Names() {
		out = append(out, r.sites[strings.ToLower(name)])
	}
	return out
}
