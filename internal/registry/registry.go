// Package registry holds the immutable site-coordinate lookup table used to
// verify submissions against their expected locations.
package registry

import (
	"strings"

	"github.com/twpayne/go-geom"
	"golang.org/x/text/cases"
)

// Site is one reference location.
type Site struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Coord returns the site's reference position as a lon/lat coordinate.
func (s Site) Coord() geom.Coord {
	return geom.Coord{s.Longitude, s.Latitude}
}

// Registry maps site identifiers to reference coordinates. It is built once
// at construction time and read-only afterward; lookups tolerate case and
// whitespace variance in source data.
type Registry struct {
	sites  []Site
	coords map[string]geom.Coord
}

var foldCaser = cases.Fold()

// normalizeKey collapses internal whitespace and case-folds the identifier.
func normalizeKey(siteID string) string {
	return foldCaser.String(strings.Join(strings.Fields(siteID), " "))
}

// New builds a Registry from a site list. The last duplicate of a normalized
// name wins, keeping its first-appearance position in the listing.
func New(sites []Site) *Registry {
	r := &Registry{
		sites:  make([]Site, 0, len(sites)),
		coords: make(map[string]geom.Coord, len(sites)),
	}
	index := make(map[string]int, len(sites))
	for _, s := range sites {
		key := normalizeKey(s.Name)
		if key == "" {
			continue
		}
		if i, exists := index[key]; exists {
			r.sites[i] = s
		} else {
			index[key] = len(r.sites)
			r.sites = append(r.sites, s)
		}
		r.coords[key] = s.Coord()
	}
	return r
}

// Lookup returns the reference coordinate for a site identifier. An unknown
// site is not an error; the classifier treats it as No Location/No Site.
func (r *Registry) Lookup(siteID string) (geom.Coord, bool) {
	c, ok := r.coords[normalizeKey(siteID)]
	return c, ok
}

// Len returns the number of distinct sites.
func (r *Registry) Len() int {
	return len(r.coords)
}

// Sites returns the registered sites in first-appearance order.
func (r *Registry) Sites() []Site {
	out := make([]Site, len(r.sites))
	copy(out, r.sites)
	return out
}
