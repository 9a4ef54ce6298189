// Package serviceability decides whether a location is covered by an active
// delivery zone.
//
// Resolution is a pure function over a caller-supplied zone snapshot. When a
// query carries both coordinates and a pincode, every zone is tried by
// boundary before any zone is tried by pincode, so a boundary match always
// wins. Among several matches of the same kind the first zone in input order
// is returned; callers that allow overlapping zones should sort by priority.
package serviceability

import (
	"milkroute/internal/models"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// ErrInvalidQuery is returned when a query has neither a pincode nor a
// complete coordinate pair
var ErrInvalidQuery = errors.New("query requires a pincode or both latitude and longitude")

// Resolve returns the zone serving the queried location at time now, or nil
// when the location is not serviceable.
func Resolve(query models.ServiceabilityQuery, zones []models.Zone, now time.Time) (*models.Zone, error) {
	pincode := strings.TrimSpace(query.Pincode)
	point, hasPoint := query.Point()
	if pincode == "" && !hasPoint {
		return nil, ErrInvalidQuery
	}

	clock := models.ClockTimeOf(now)
	candidates := lo.Filter(zones, func(z models.Zone, _ int) bool {
		return z.IsActive && z.IsOpenAt(clock)
	})

	if hasPoint {
		for i := range candidates {
			if Contains(candidates[i].Boundary, point) {
				return &candidates[i], nil
			}
		}
	}

	if pincode != "" {
		for i := range candidates {
			if lo.Contains(candidates[i].Pincodes, pincode) {
				return &candidates[i], nil
			}
		}
	}

	return nil, nil
}

// Contains reports whether p lies inside the polygon using ray casting. The
// ring is treated as closed; fewer than three vertices never contain a point.
func Contains(boundary []models.GeoPoint, p models.GeoPoint) bool {
	n := len(boundary)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := boundary[i], boundary[j]
		if (a.Latitude > p.Latitude) == (b.Latitude > p.Latitude) {
			continue
		}
		crossing := (b.Longitude-a.Longitude)*(p.Latitude-a.Latitude)/(b.Latitude-a.Latitude) + a.Longitude
		if p.Longitude < crossing {
			inside = !inside
		}
	}
	return inside
}

// VerticalsFor returns the distinct verticals a zone serves
func VerticalsFor(zone *models.Zone) []string {
	if zone == nil {
		return []string{}
	}
	return lo.Uniq(zone.Verticals)
}
