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

func newRatingFixture(t *testing.T) (*RatingService, *fakeRatingStore, *fakeLocationStore, *fakeCache) {
	t.Helper()
	ratings := newFakeRatingStore()
	locations := newFakeLocationStore()
	cacheStore := newFakeCache()
	svc := NewRatingService(ratings, locations, cacheStore, zerolog.Nop())
	return svc, ratings, locations, cacheStore
}

func TestCreateRating(t *testing.T) {
	svc, ratings, locations, cacheStore := newRatingFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Mercado do Bolhão"})
	cacheStore.values[approvedLocationsKey] = "[]"

	rating, err := svc.Create(ctx, "loc-1", "acc-1", 4, strPtr("  clean and easy to find  "))
	require.NoError(t, err)

	assert.NotEmpty(t, rating.ID)
	assert.Equal(t, "loc-1", rating.LocationID)
	require.NotNil(t, rating.AccountID)
	assert.Equal(t, "acc-1", *rating.AccountID)
	assert.Equal(t, 4, rating.Score)
	assert.Equal(t, "clean and easy to find", *rating.Comment)
	assert.Contains(t, ratings.ratings, rating.ID)

	// Rating mutations drop the cached browse list.
	assert.NotContains(t, cacheStore.values, approvedLocationsKey)
}

func TestCreateRatingUnknownLocation(t *testing.T) {
	svc, _, _, _ := newRatingFixture(t)

	_, err := svc.Create(context.Background(), "nope", "acc-1", 3, nil)
	assert.ErrorIs(t, err, repository.ErrLocationNotFound)
}

func TestCreateRatingValidation(t *testing.T) {
	svc, _, locations, _ := newRatingFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1"})

	for _, score := range []int{0, -1, 6} {
		_, err := svc.Create(ctx, "loc-1", "acc-1", score, nil)
		requireValidation(t, err, "Score must be an integer between 1 and 5.")
	}

	_, err := svc.Create(ctx, "loc-1", "acc-1", 3, strPtr(strings.Repeat("c", 241)))
	requireValidation(t, err, "Comment must be 240 chars or less.")

	rating, err := svc.Create(ctx, "loc-1", "acc-1", 3, strPtr("   "))
	require.NoError(t, err)
	assert.Nil(t, rating.Comment)

	// Limits count characters, not bytes.
	accented := strings.Repeat("ç", 240)
	rating, err = svc.Create(ctx, "loc-1", "acc-1", 3, &accented)
	require.NoError(t, err)
	assert.Equal(t, accented, *rating.Comment)
}

func TestListForLocationOwnedFlag(t *testing.T) {
	svc, ratings, locations, _ := newRatingFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1"})

	mine, err := svc.Create(ctx, "loc-1", "acc-1", 5, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "loc-1", "acc-2", 2, nil)
	require.NoError(t, err)
	// Seed rows have no owner.
	require.NoError(t, ratings.Create(ctx, models.Rating{ID: "seed-1", LocationID: "loc-1", Score: 4}))

	viewer := &models.Identity{Account: models.Account{ID: "acc-1"}, Privilege: models.PrivilegeMember}
	views, err := svc.ListForLocation(ctx, "loc-1", viewer)
	require.NoError(t, err)
	require.Len(t, views, 3)

	ownedByID := make(map[string]bool)
	for _, view := range views {
		ownedByID[view.ID] = view.Owned
	}
	assert.True(t, ownedByID[mine.ID])
	for id, owned := range ownedByID {
		if id != mine.ID {
			assert.False(t, owned, "rating %s should not be owned", id)
		}
	}

	// Anonymous viewers own nothing.
	views, err = svc.ListForLocation(ctx, "loc-1", nil)
	require.NoError(t, err)
	for _, view := range views {
		assert.False(t, view.Owned)
	}
}

func TestUpdateRatingOwnership(t *testing.T) {
	svc, ratings, locations, _ := newRatingFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1"})

	rating, err := svc.Create(ctx, "loc-1", "acc-1", 3, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, rating.ID, "acc-1", 5, strPtr("better than I thought")))
	updated := ratings.ratings[rating.ID]
	assert.Equal(t, 5, updated.Score)
	assert.Equal(t, "better than I thought", *updated.Comment)

	// A different caller is refused, not treated as missing.
	err = svc.Update(ctx, rating.ID, "acc-2", 1, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 5, ratings.ratings[rating.ID].Score)

	// Ownerless seed rows cannot be edited by anyone.
	require.NoError(t, ratings.Create(ctx, models.Rating{ID: "seed-1", LocationID: "loc-1", Score: 4}))
	assert.ErrorIs(t, svc.Update(ctx, "seed-1", "acc-1", 2, nil), ErrForbidden)
}

func TestUpdateRatingMissing(t *testing.T) {
	svc, _, _, _ := newRatingFixture(t)

	err := svc.Update(context.Background(), "nope", "acc-1", 3, nil)
	assert.ErrorIs(t, err, repository.ErrRatingNotFound)
}

func TestAdminModeration(t *testing.T) {
	svc, ratings, locations, cacheStore := newRatingFixture(t)
	ctx := context.Background()
	locations.add(models.Location{ID: "loc-1", Name: "Mercado do Bolhão"})
	ratings.names["loc-1"] = "Mercado do Bolhão"

	rating, err := svc.Create(ctx, "loc-1", "acc-1", 3, nil)
	require.NoError(t, err)

	all, err := svc.AdminListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Mercado do Bolhão", all[0].LocationName)

	// Admins bypass the ownership check.
	require.NoError(t, svc.AdminUpdate(ctx, rating.ID, 1, strPtr("moderated")))
	assert.Equal(t, 1, ratings.ratings[rating.ID].Score)

	cacheStore.values[approvedLocationsKey] = "[]"
	require.NoError(t, svc.AdminDelete(ctx, rating.ID))
	assert.NotContains(t, ratings.ratings, rating.ID)
	assert.NotContains(t, cacheStore.values, approvedLocationsKey)

	assert.ErrorIs(t, svc.AdminDelete(ctx, rating.ID), repository.ErrRatingNotFound)
}
