// Package proof decides whether a GPS reading attached to an itinerary photo
// is plausible for the places its route names.
package proof

import (
	"math"

	"github.com/dmitrijs2005/triptales/internal/server/geo"
)

const DefaultRadiusKm = 5.0

// Verdict is the outcome of checking a claimed point against a route.
// Available is false when the route names no known place; such an itinerary
// is unverifiable rather than out of range.
type Verdict struct {
	MatchedPlace *string
	DistanceKm   *float64
	WithinRadius bool
	Available    bool
}

// Snapshot holds the verdict columns as stored with an itinerary. Rows written
// before the columns existed have them all nil.
type Snapshot struct {
	MatchedPlace *string
	DistanceKm   *float64
	WithinRadius *bool
}

type Verifier struct {
	matcher  geo.Matcher
	radiusKm float64
}

func NewVerifier(m geo.Matcher, radiusKm float64) *Verifier {
	return &Verifier{matcher: m, radiusKm: radiusKm}
}

func (v *Verifier) RadiusKm() float64 { return v.radiusKm }

// Verify picks the matched place nearest to (lat, lon). On equal distances the
// place earlier in matcher order wins.
func (v *Verifier) Verify(route string, lat, lon float64) Verdict {
	places := v.matcher.Extract(route)
	if len(places) == 0 {
		return Verdict{}
	}

	best := places[0]
	bestDist := geo.DistanceKm(lat, lon, best.Lat, best.Lon)
	for _, p := range places[1:] {
		if d := geo.DistanceKm(lat, lon, p.Lat, p.Lon); d < bestDist {
			best, bestDist = p, d
		}
	}

	name := best.Name
	dist := RoundKm(bestDist)
	return Verdict{
		MatchedPlace: &name,
		DistanceKm:   &dist,
		WithinRadius: dist <= v.radiusKm,
		Available:    true,
	}
}

// Resolve returns the stored verdict when the snapshot is complete and
// recomputes it from the raw inputs otherwise.
func (v *Verifier) Resolve(s Snapshot, route string, lat, lon float64) Verdict {
	if s.MatchedPlace != nil && *s.MatchedPlace != "" && s.DistanceKm != nil {
		within := s.WithinRadius != nil && *s.WithinRadius
		return Verdict{
			MatchedPlace: s.MatchedPlace,
			DistanceKm:   s.DistanceKm,
			WithinRadius: within,
			Available:    true,
		}
	}
	return v.Verify(route, lat, lon)
}

// Snapshot converts the verdict to its stored form.
func (vd Verdict) Snapshot() Snapshot {
	within := vd.WithinRadius
	return Snapshot{
		MatchedPlace: vd.MatchedPlace,
		DistanceKm:   vd.DistanceKm,
		WithinRadius: &within,
	}
}

// RoundKm rounds to metres, half away from zero.
func RoundKm(d float64) float64 {
	return math.Round(d*1000) / 1000
}

// RoundCoordinate rounds a latitude or longitude to 6 decimal places.
func RoundCoordinate(c float64) float64 {
	return math.Round(c*1e6) / 1e6
}
