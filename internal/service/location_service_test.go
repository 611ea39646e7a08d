package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wcmap/api/internal/models"
	"wcmap/api/internal/repository"
)

func newLocationFixture(t *testing.T) (*LocationService, *fakeLocationStore, *fakeCache) {
	t.Helper()
	locations := newFakeLocationStore()
	cacheStore := newFakeCache()
	svc := NewLocationService(locations, cacheStore, zerolog.Nop())
	return svc, locations, cacheStore
}

func TestListApprovedCachesResult(t *testing.T) {
	svc, locations, cacheStore := newLocationFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Jardim da Estrela", Lat: 38.713, Lng: -9.160})

	summaries, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Contains(t, cacheStore.values, approvedLocationsKey)

	// A second read is served from the cache, so a new row is invisible
	// until the entry is dropped or expires.
	locations.add(models.Location{ID: "loc-2", Name: "Parque da Cidade"})
	summaries, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestListApprovedDiscardsBadCacheEntry(t *testing.T) {
	svc, locations, cacheStore := newLocationFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Jardim da Estrela"})
	cacheStore.values[approvedLocationsKey] = "{not json"

	summaries, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestUpdateFields(t *testing.T) {
	svc, locations, cacheStore := newLocationFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Old", Description: strPtr("old desc")})
	cacheStore.values[approvedLocationsKey] = "[]"

	require.NoError(t, svc.UpdateFields(ctx, "loc-1", strPtr("  New Name "), nil))
	assert.Equal(t, "New Name", locations.summaries["loc-1"].Name)
	assert.Equal(t, "old desc", *locations.summaries["loc-1"].Description)
	assert.NotContains(t, cacheStore.values, approvedLocationsKey)

	require.NoError(t, svc.UpdateFields(ctx, "loc-1", nil, strPtr("new desc")))
	assert.Equal(t, "new desc", *locations.summaries["loc-1"].Description)
}

func TestUpdateFieldsValidation(t *testing.T) {
	svc, locations, _ := newLocationFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Keep"})

	err := svc.UpdateFields(ctx, "loc-1", strPtr("   "), nil)
	requireValidation(t, err, "Name must be 80 chars or less.")

	err = svc.UpdateFields(ctx, "loc-1", strPtr(strings.Repeat("n", 81)), nil)
	requireValidation(t, err, "Name must be 80 chars or less.")

	err = svc.UpdateFields(ctx, "loc-1", nil, strPtr(strings.Repeat("d", 241)))
	requireValidation(t, err, "Description must be 240 chars or less.")

	assert.Equal(t, "Keep", locations.summaries["loc-1"].Name)

	// An 80-character accented name is within the limit even though it
	// is 160 bytes.
	accented := strings.Repeat("ã", 80)
	require.NoError(t, svc.UpdateFields(ctx, "loc-1", &accented, nil))
	assert.Equal(t, accented, locations.summaries["loc-1"].Name)
}

func TestUpdateFieldsMissingLocation(t *testing.T) {
	svc, _, _ := newLocationFixture(t)

	err := svc.UpdateFields(context.Background(), "nope", strPtr("Name"), nil)
	assert.ErrorIs(t, err, repository.ErrLocationNotFound)
}

func TestDeleteLocation(t *testing.T) {
	svc, locations, cacheStore := newLocationFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Doomed"})
	cacheStore.values[approvedLocationsKey] = "[]"

	require.NoError(t, svc.Delete(ctx, "loc-1"))
	assert.NotContains(t, locations.summaries, "loc-1")
	assert.NotContains(t, cacheStore.values, approvedLocationsKey)

	assert.ErrorIs(t, svc.Delete(ctx, "loc-1"), repository.ErrLocationNotFound)
}
