package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"wcmap/api/internal/cache"
	"wcmap/api/internal/models"
)

const (
	nameMaxLen        = 80
	descriptionMaxLen = 240

	approvedLocationsKey = "wcmap:locations:approved"
	approvedLocationsTTL = time.Minute
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type LocationStore interface {
	ListApproved(ctx context.Context) ([]models.LocationSummary, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateFields(ctx context.Context, id string, name *string, description *string) error
	DeleteCascade(ctx context.Context, id string) error
}

// LocationService serves the public browse view and the admin edits over
// approved locations. The browse list is cached briefly since it is the
// hottest read and only changes on moderation.
type LocationService struct {
	locations LocationStore
	cache     Cache
	log       zerolog.Logger
}

func NewLocationService(locations LocationStore, cacheStore Cache, log zerolog.Logger) *LocationService {
	return &LocationService{
		locations: locations,
		cache:     cacheStore,
		log:       log,
	}
}

func (s *LocationService) ListApproved(ctx context.Context) ([]models.LocationSummary, error) {
	if cached, err := s.cache.Get(ctx, approvedLocationsKey); err == nil {
		var summaries []models.LocationSummary
		if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
			return summaries, nil
		}
		s.log.Warn().Msg("discarding undecodable cached location list")
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn().Err(err).Msg("location cache read failed")
	}

	summaries, err := s.locations.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(summaries); err == nil {
		if err := s.cache.Set(ctx, approvedLocationsKey, string(encoded), approvedLocationsTTL); err != nil {
			s.log.Warn().Err(err).Msg("location cache write failed")
		}
	}

	return summaries, nil
}

// UpdateFields edits name and/or description; nil fields are left
// untouched. Coordinates stay immutable after approval.
func (s *LocationService) UpdateFields(ctx context.Context, id string, name *string, description *string) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" || utf8.RuneCountInString(trimmed) > nameMaxLen {
			return validationError("Name must be 80 chars or less.")
		}
		name = &trimmed
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if utf8.RuneCountInString(trimmed) > descriptionMaxLen {
			return validationError("Description must be 240 chars or less.")
		}
		description = &trimmed
	}

	if err := s.locations.UpdateFields(ctx, id, name, description); err != nil {
		return err
	}

	s.invalidateList(ctx)
	return nil
}

// Delete removes the location and every rating attached to it.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := s.locations.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.invalidateList(ctx)
	return nil
}

func (s *LocationService) invalidateList(ctx context.Context) {
	if err := s.cache.Del(ctx, approvedLocationsKey); err != nil {
		s.log.Warn().Err(err).Msg("location cache invalidation failed")
	}
}
