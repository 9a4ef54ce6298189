package postgres_test

import (
	"context"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/repository/postgres/integration"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testSquare = models.Polygon{
	{Latitude: 10.0, Longitude: 76.0},
	{Latitude: 10.0, Longitude: 76.01},
	{Latitude: 10.01, Longitude: 76.01},
	{Latitude: 10.01, Longitude: 76.0},
}

func TestZoneRepository_Create(t *testing.T) {
	tc := integration.NewTestContext(t)

	tests := []struct {
		name    string
		input   models.Zone
		wantErr error
	}{
		{
			name: "Success - Create Zone",
			input: models.Zone{
				Name:          "Kakkanad East",
				Code:          "KKD-E",
				Boundary:      testSquare,
				Pincodes:      []string{"682030"},
				Verticals:     []string{"dairy"},
				IsActive:      true,
				ServiceWindow: &models.ServiceWindow{Start: 6 * 60, End: 22 * 60},
			},
		},
		{
			name: "Success - Pincode Only Zone",
			input: models.Zone{
				Name:      "Edappally",
				Code:      "EDP",
				Boundary:  models.Polygon{},
				Pincodes:  []string{"682024", "682025"},
				Verticals: []string{},
				IsActive:  true,
			},
		},
		{
			name: "Error - Duplicate Code",
			input: models.Zone{
				Name:      "Kakkanad East Again",
				Code:      "KKD-E",
				Boundary:  models.Polygon{},
				Pincodes:  []string{},
				Verticals: []string{},
			},
			wantErr: repository.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tc.ZoneRepo.Create(context.Background(), &tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Zero(t, tt.input.ID)
				return
			}

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, tt.input.ID)
			require.False(t, tt.input.CreatedAt.IsZero())

			// Round trip through the database
			stored, err := tc.ZoneRepo.GetByID(context.Background(), tt.input.ID)
			require.NoError(t, err)
			require.Equal(t, tt.input.Code, stored.Code)
			require.Equal(t, tt.input.Boundary, stored.Boundary)
			require.Equal(t, tt.input.Pincodes, stored.Pincodes)
			require.Equal(t, tt.input.Verticals, stored.Verticals)
			require.Equal(t, tt.input.ServiceWindow, stored.ServiceWindow)
		})
	}
}

func TestZoneRepository_Update(t *testing.T) {
	tc := integration.NewTestContext(t)

	zone := tc.CreateTestZone("ZN-1", testSquare, "682030")
	other := tc.CreateTestZone("ZN-2", nil, "682031")

	t.Run("Success", func(t *testing.T) {
		zone.Name = "Renamed"
		zone.Pincodes = []string{"682030", "682039"}
		zone.ServiceWindow = &models.ServiceWindow{Start: 22 * 60, End: 6 * 60}
		require.NoError(t, tc.ZoneRepo.Update(context.Background(), zone))

		stored, err := tc.ZoneRepo.GetByCode(context.Background(), "ZN-1")
		require.NoError(t, err)
		require.Equal(t, "Renamed", stored.Name)
		require.Equal(t, []string{"682030", "682039"}, stored.Pincodes)
		require.Equal(t, "22:00", stored.ServiceWindow.Start.String())
	})

	t.Run("Duplicate Code", func(t *testing.T) {
		other.Code = "ZN-1"
		err := tc.ZoneRepo.Update(context.Background(), other)
		require.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("Not Found", func(t *testing.T) {
		missing := *zone
		missing.ID = uuid.New()
		missing.Code = "ZN-404"
		err := tc.ZoneRepo.Update(context.Background(), &missing)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestZoneRepository_Delete(t *testing.T) {
	tc := integration.NewTestContext(t)

	free := tc.CreateTestZone("FREE", nil, "682001")
	used := tc.CreateTestZone("USED", nil, "682002")
	tc.CreateTestSubscription(&used.ID, models.NewDate(2024, 1, 1))

	require.NoError(t, tc.ZoneRepo.Delete(context.Background(), free.ID))
	_, err := tc.ZoneRepo.GetByID(context.Background(), free.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = tc.ZoneRepo.Delete(context.Background(), used.ID)
	require.ErrorIs(t, err, repository.ErrHasAssociatedRecords)

	err = tc.ZoneRepo.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestZoneRepository_List(t *testing.T) {
	tc := integration.NewTestContext(t)

	first := tc.CreateTestZone("LIST-A", testSquare)
	second := tc.CreateTestZone("LIST-B", nil, "682100")
	inactive := tc.CreateTestZone("LIST-C", nil, "682101")
	inactive.IsActive = false
	require.NoError(t, tc.ZoneRepo.Update(context.Background(), inactive))

	active := true
	search := "list-b"
	vertical := "dairy"
	missingVertical := "pharmacy"
	limit := 1
	offset := 1

	tests := []struct {
		name   string
		filter repository.ZoneFilter
		want   []string
	}{
		{name: "All", filter: repository.ZoneFilter{}, want: []string{"LIST-A", "LIST-B", "LIST-C"}},
		{name: "Active", filter: repository.ZoneFilter{IsActive: &active}, want: []string{"LIST-A", "LIST-B"}},
		{name: "Search", filter: repository.ZoneFilter{Search: &search}, want: []string{"LIST-B"}},
		{name: "Vertical", filter: repository.ZoneFilter{Vertical: &vertical}, want: []string{"LIST-A", "LIST-B", "LIST-C"}},
		{name: "Unknown Vertical", filter: repository.ZoneFilter{Vertical: &missingVertical}, want: []string{}},
		{name: "Paged", filter: repository.ZoneFilter{Limit: &limit, Offset: &offset}, want: []string{"LIST-B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zones, err := tc.ZoneRepo.List(context.Background(), tt.filter)
			require.NoError(t, err)

			codes := make([]string, 0, len(zones))
			for _, z := range zones {
				codes = append(codes, z.Code)
			}
			require.Equal(t, tt.want, codes)
		})
	}

	t.Run("ListActive keeps creation order", func(t *testing.T) {
		zones, err := tc.ZoneRepo.ListActive(context.Background())
		require.NoError(t, err)
		require.Len(t, zones, 2)
		require.Equal(t, first.ID, zones[0].ID)
		require.Equal(t, second.ID, zones[1].ID)
	})
}
