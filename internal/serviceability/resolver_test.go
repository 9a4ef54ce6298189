package serviceability_test

import (
	"milkroute/internal/models"
	"milkroute/internal/serviceability"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func square(lat, lng, size float64) models.Polygon {
	return models.Polygon{
		{Latitude: lat, Longitude: lng},
		{Latitude: lat + size, Longitude: lng},
		{Latitude: lat + size, Longitude: lng + size},
		{Latitude: lat, Longitude: lng + size},
	}
}

func zone(code string, boundary models.Polygon, pincodes ...string) models.Zone {
	return models.Zone{
		ID:        uuid.New(),
		Name:      code,
		Code:      code,
		Boundary:  boundary,
		Pincodes:  pincodes,
		Verticals: []string{"dairy"},
		IsActive:  true,
	}
}

func coords(lat, lng float64) models.ServiceabilityQuery {
	return models.ServiceabilityQuery{Latitude: &lat, Longitude: &lng}
}

func window(t *testing.T, start, end string) *models.ServiceWindow {
	s, err := models.ParseClockTime(start)
	require.NoError(t, err)
	e, err := models.ParseClockTime(end)
	require.NoError(t, err)
	return &models.ServiceWindow{Start: s, End: e}
}

func TestResolve_Boundary(t *testing.T) {
	zones := []models.Zone{zone("Z1", square(10.00, 76.00, 0.01))}

	got, err := serviceability.Resolve(coords(10.005, 76.005), zones, noon)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Z1", got.Code)

	got, err = serviceability.Resolve(coords(20.0, 80.0), zones, noon)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_Pincode(t *testing.T) {
	zones := []models.Zone{
		zone("Z1", nil, "682001", "682002"),
		zone("Z2", nil, "682030"),
	}

	tests := []struct {
		name    string
		pincode string
		want    string
	}{
		{name: "exact match", pincode: "682030", want: "Z2"},
		{name: "surrounding whitespace", pincode: "  682002 ", want: "Z1"},
		{name: "unknown pincode", pincode: "110001", want: ""},
		{name: "prefix is not a match", pincode: "68200", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serviceability.Resolve(models.ServiceabilityQuery{Pincode: tt.pincode}, zones, noon)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Code)
		})
	}
}

func TestResolve_BoundaryBeatsPincode(t *testing.T) {
	// the pincode zone is listed first but the boundary match still wins
	zones := []models.Zone{
		zone("PIN", nil, "682001"),
		zone("GEO", square(10.00, 76.00, 0.01)),
	}

	query := coords(10.005, 76.005)
	query.Pincode = "682001"

	got, err := serviceability.Resolve(query, zones, noon)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "GEO", got.Code)

	// outside every boundary the pincode is used
	query = coords(20.0, 80.0)
	query.Pincode = "682001"
	got, err = serviceability.Resolve(query, zones, noon)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "PIN", got.Code)
}

func TestResolve_OverlapFirstWins(t *testing.T) {
	zones := []models.Zone{
		zone("A", square(10.00, 76.00, 0.02)),
		zone("B", square(10.00, 76.00, 0.01)),
	}

	got, err := serviceability.Resolve(coords(10.005, 76.005), zones, noon)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Code)
}

func TestResolve_SkipsInactiveZones(t *testing.T) {
	inactive := zone("OFF", square(10.00, 76.00, 0.01), "682001")
	inactive.IsActive = false
	zones := []models.Zone{inactive}

	query := coords(10.005, 76.005)
	query.Pincode = "682001"

	got, err := serviceability.Resolve(query, zones, noon)
	require.NoError(t, err)
	assert.Nil(t, got)

	backup := zone("ON", nil, "682001")
	got, err = serviceability.Resolve(query, append(zones, backup), noon)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ON", got.Code)
}

func TestResolve_DegenerateBoundary(t *testing.T) {
	tests := []struct {
		name     string
		boundary models.Polygon
	}{
		{name: "empty", boundary: models.Polygon{}},
		{name: "single point", boundary: models.Polygon{{Latitude: 10.005, Longitude: 76.005}}},
		{name: "two points", boundary: models.Polygon{
			{Latitude: 10.0, Longitude: 76.0},
			{Latitude: 10.01, Longitude: 76.01},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zones := []models.Zone{zone("Z", tt.boundary)}
			got, err := serviceability.Resolve(coords(10.005, 76.005), zones, noon)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestResolve_ServiceWindow(t *testing.T) {
	tests := []struct {
		name   string
		window *models.ServiceWindow
		at     time.Time
		open   bool
	}{
		{name: "no window", window: nil, at: noon, open: true},
		{name: "inside", window: window(t, "06:00", "20:00"), at: noon, open: true},
		{name: "at start", window: window(t, "12:00", "20:00"), at: noon, open: true},
		{name: "at end", window: window(t, "06:00", "12:00"), at: noon, open: false},
		{name: "before start", window: window(t, "13:00", "20:00"), at: noon, open: false},
		{name: "overnight late", window: window(t, "22:00", "06:00"), at: noon.Add(11 * time.Hour), open: true},
		{name: "overnight early", window: window(t, "22:00", "06:00"), at: noon.Add(-8 * time.Hour), open: true},
		{name: "overnight midday", window: window(t, "22:00", "06:00"), at: noon, open: false},
		{name: "equal bounds is always open", window: window(t, "05:00", "05:00"), at: noon, open: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := zone("Z", nil, "682001")
			z.ServiceWindow = tt.window

			got, err := serviceability.Resolve(models.ServiceabilityQuery{Pincode: "682001"}, []models.Zone{z}, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.open, got != nil)
		})
	}
}

func TestResolve_InvalidQuery(t *testing.T) {
	lat := 10.0
	tests := []struct {
		name  string
		query models.ServiceabilityQuery
	}{
		{name: "empty", query: models.ServiceabilityQuery{}},
		{name: "blank pincode", query: models.ServiceabilityQuery{Pincode: "   "}},
		{name: "latitude only", query: models.ServiceabilityQuery{Latitude: &lat}},
		{name: "longitude only", query: models.ServiceabilityQuery{Longitude: &lat}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serviceability.Resolve(tt.query, []models.Zone{zone("Z", nil, "682001")}, noon)
			require.ErrorIs(t, err, serviceability.ErrInvalidQuery)
			assert.Nil(t, got)
		})
	}
}

func TestResolve_NoZones(t *testing.T) {
	got, err := serviceability.Resolve(models.ServiceabilityQuery{Pincode: "682001"}, nil, noon)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContains(t *testing.T) {
	// concave L shape with the notch in the upper right quadrant
	shape := []models.GeoPoint{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 2},
		{Latitude: 1, Longitude: 2},
		{Latitude: 1, Longitude: 1},
		{Latitude: 2, Longitude: 1},
		{Latitude: 2, Longitude: 0},
	}

	tests := []struct {
		name string
		p    models.GeoPoint
		want bool
	}{
		{name: "lower arm", p: models.GeoPoint{Latitude: 0.5, Longitude: 1.5}, want: true},
		{name: "upper arm", p: models.GeoPoint{Latitude: 1.5, Longitude: 0.5}, want: true},
		{name: "notch", p: models.GeoPoint{Latitude: 1.5, Longitude: 1.5}, want: false},
		{name: "far away", p: models.GeoPoint{Latitude: -1, Longitude: -1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serviceability.Contains(shape, tt.p))
		})
	}
}

func TestVerticalsFor(t *testing.T) {
	assert.Equal(t, []string{}, serviceability.VerticalsFor(nil))

	z := zone("Z", nil)
	z.Verticals = []string{"dairy", "grocery", "dairy"}
	assert.Equal(t, []string{"dairy", "grocery"}, serviceability.VerticalsFor(&z))
}
