package serviceability_test

import (
	"context"
	"milkroute/internal/models"
	"milkroute/internal/serviceability"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	zones []models.Zone
	err   error
	calls int
}

func (s *countingSource) ListActive(_ context.Context) ([]models.Zone, error) {
	s.calls++
	return s.zones, s.err
}

func TestDirectory_CachesSnapshot(t *testing.T) {
	source := &countingSource{zones: []models.Zone{zone("Z1", nil, "682001")}}
	dir := serviceability.NewDirectory(source, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := dir.Check(ctx, models.ServiceabilityQuery{Pincode: "682001"}, noon)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Z1", got.Code)
	}
	assert.Equal(t, 1, source.calls)

	dir.Invalidate()
	source.zones = []models.Zone{zone("Z2", nil, "682001")}

	got, err := dir.Check(ctx, models.ServiceabilityQuery{Pincode: "682001"}, noon)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Z2", got.Code)
	assert.Equal(t, 2, source.calls)
}

func TestDirectory_SourceError(t *testing.T) {
	source := &countingSource{err: errors.New("connection refused")}
	dir := serviceability.NewDirectory(source, 0)

	_, err := dir.Check(context.Background(), models.ServiceabilityQuery{Pincode: "682001"}, noon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load active zones")

	// failures are not cached
	source.err = nil
	source.zones = []models.Zone{zone("Z1", nil, "682001")}
	got, err := dir.Check(context.Background(), models.ServiceabilityQuery{Pincode: "682001"}, noon)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 2, source.calls)
}
