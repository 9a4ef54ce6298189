package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Latitude  float64 `json:"lat" binding:"latitude" example:"10.005"`
	Longitude float64 `json:"lng" binding:"longitude" example:"76.005"`
}

// Polygon is an ordered ring of vertices. The last vertex connects back to
// the first, so the ring is never stored closed.
type Polygon []GeoPoint

// Value stores the polygon as a JSON array. The text form is returned since
// lib/pq sends byte slices as bytea.
func (p Polygon) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan reads a JSON array of points
func (p *Polygon) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = Polygon{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Polygon", src)
	}
	return json.Unmarshal(data, p)
}

// Zone represents a delivery service area
type Zone struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Name          string         `json:"name" db:"name" example:"Kakkanad East"`
	Code          string         `json:"code" db:"code" example:"KKD-E"`
	Boundary      Polygon        `json:"boundary" db:"boundary"`
	Pincodes      []string       `json:"pincodes" db:"pincodes" example:"682030,682037"`
	Verticals     []string       `json:"verticals" db:"verticals" example:"daily_fresh,society_fresh"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	ServiceWindow *ServiceWindow `json:"service_window,omitempty"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// IsDead reports whether the zone has neither a boundary nor pincodes and so
// can never be matched
func (z *Zone) IsDead() bool {
	return len(z.Boundary) == 0 && len(z.Pincodes) == 0
}

// IsOpenAt reports whether the zone accepts orders at the given time of day
func (z *Zone) IsOpenAt(c ClockTime) bool {
	return z.ServiceWindow == nil || z.ServiceWindow.Contains(c)
}

// ServiceWindowRequest is the wire form of a service window
type ServiceWindowRequest struct {
	Start string `json:"start" binding:"required,clocktime" example:"06:00"`
	End   string `json:"end" binding:"required,clocktime" example:"22:00"`
}

// CreateZoneRequest represents the request to create a new zone
type CreateZoneRequest struct {
	Name          string                `json:"name" binding:"required,min=2,max=100,nospaces" example:"Kakkanad East"`
	Code          string                `json:"code" binding:"required,min=2,max=20,nospaces" example:"KKD-E"`
	Boundary      []GeoPoint            `json:"boundary" binding:"omitempty,dive"`
	Pincodes      []string              `json:"pincodes" binding:"omitempty,dive,pincode"`
	Verticals     []string              `json:"verticals" binding:"omitempty,dive,required,nospaces"`
	IsActive      *bool                 `json:"is_active"`
	ServiceWindow *ServiceWindowRequest `json:"service_window"`
}

// UpdateZoneRequest represents the request to update a zone. Updates replace
// every field.
type UpdateZoneRequest = CreateZoneRequest

// ToZone builds a zone from the request. IsActive defaults to true.
func (r *CreateZoneRequest) ToZone() (*Zone, error) {
	zone := &Zone{
		Name:      r.Name,
		Code:      r.Code,
		Boundary:  Polygon(r.Boundary),
		Pincodes:  r.Pincodes,
		Verticals: r.Verticals,
		IsActive:  true,
	}
	if zone.Boundary == nil {
		zone.Boundary = Polygon{}
	}
	if zone.Pincodes == nil {
		zone.Pincodes = []string{}
	}
	if zone.Verticals == nil {
		zone.Verticals = []string{}
	}
	if r.IsActive != nil {
		zone.IsActive = *r.IsActive
	}
	if r.ServiceWindow != nil {
		start, err := ParseClockTime(r.ServiceWindow.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseClockTime(r.ServiceWindow.End)
		if err != nil {
			return nil, err
		}
		zone.ServiceWindow = &ServiceWindow{Start: start, End: end}
	}
	return zone, nil
}

// ServiceabilityQuery is a location to check against the active zones.
// Coordinates are only used when both are present.
type ServiceabilityQuery struct {
	Pincode   string   `json:"pincode" form:"pincode" binding:"omitempty,pincode" example:"682030"`
	Latitude  *float64 `json:"lat" form:"lat" binding:"omitempty,latitude" example:"10.005"`
	Longitude *float64 `json:"lng" form:"lng" binding:"omitempty,longitude" example:"76.005"`
}

// Point returns the query coordinates if both are set
func (q ServiceabilityQuery) Point() (GeoPoint, bool) {
	if q.Latitude == nil || q.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: *q.Latitude, Longitude: *q.Longitude}, true
}

// ServiceabilityResponse is the result of a serviceability check
type ServiceabilityResponse struct {
	Serviceable bool     `json:"serviceable"`
	Zone        *Zone    `json:"zone,omitempty"`
	Verticals   []string `json:"verticals"`
}
