package ephem

import "strings"

// TargetID is a NAIF SPICE ID for a solar-system body.
type TargetID int

// NAIF SPICE IDs for the bodies the planner can track.
// Sourced from https://naif.jpl.nasa.gov/pub/naif/toolkit_docs/C/req/naif_ids.html
const (
	NAIFSun     TargetID = 10
	NAIFMercury TargetID = 199
	NAIFVenus   TargetID = 299
	NAIFMoon    TargetID = 301
	NAIFMars    TargetID = 499
	NAIFJupiter TargetID = 599
	NAIFSaturn  TargetID = 699
	NAIFUranus  TargetID = 799
	NAIFNeptune TargetID = 899
	NAIFPluto   TargetID = 999
)

// Body is a solar-system object with a moving position.
type Body struct {
	Name   string   // Display name
	NAIFID TargetID // NAIF SPICE ID
}

// Bodies is the canonical list of trackable solar-system bodies.
var Bodies = []Body{
	{Name: "Sun", NAIFID: NAIFSun},
	{Name: "Moon", NAIFID: NAIFMoon},
	{Name: "Mercury", NAIFID: NAIFMercury},
	{Name: "Venus", NAIFID: NAIFVenus},
	{Name: "Mars", NAIFID: NAIFMars},
	{Name: "Jupiter", NAIFID: NAIFJupiter},
	{Name: "Saturn", NAIFID: NAIFSaturn},
	{Name: "Uranus", NAIFID: NAIFUranus},
	{Name: "Neptune", NAIFID: NAIFNeptune},
	{Name: "Pluto", NAIFID: NAIFPluto},
}

// BodiesByName maps lower-cased body names to bodies.
var BodiesByName = func() map[string]Body {
	m := make(map[string]Body, len(Bodies))
	for _, b := range Bodies {
		m[strings.ToLower(b.Name)] = b
	}
	return m
}()

// BodiesByNAIF maps NAIF IDs to bodies.
var BodiesByNAIF = func() map[TargetID]Body {
	m := make(map[TargetID]Body, len(Bodies))
	for _, b := range Bodies {
		m[b.NAIFID] = b
	}
	return m
}()

// LookupBody returns the body for a name, matching case-insensitively.
func LookupBody(name string) (Body, bool) {
	b, ok := BodiesByName[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}
