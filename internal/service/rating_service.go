package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"wcmap/api/internal/ids"
	"wcmap/api/internal/models"
	"wcmap/api/internal/repository"
)

const commentMaxLen = 240

type RatingStore interface {
	Create(ctx context.Context, rating models.Rating) error
	GetByID(ctx context.Context, id string) (models.Rating, error)
	ListForLocation(ctx context.Context, locationID string) ([]models.Rating, error)
	ListAllWithLocation(ctx context.Context) ([]models.RatingWithLocation, error)
	Update(ctx context.Context, id string, score int, comment *string) error
	Delete(ctx context.Context, id string) error
}

type LocationChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RatingView annotates a rating with whether the viewer owns it, so a
// client can show edit controls only on the caller's own entries.
type RatingView struct {
	models.Rating
	Owned bool
}

type RatingService struct {
	ratings   RatingStore
	locations LocationChecker
	cache     Cache
	log       zerolog.Logger
}

func NewRatingService(ratings RatingStore, locations LocationChecker, cacheStore Cache, log zerolog.Logger) *RatingService {
	return &RatingService{
		ratings:   ratings,
		locations: locations,
		cache:     cacheStore,
		log:       log,
	}
}

func (s *RatingService) ListForLocation(ctx context.Context, locationID string, viewer *models.Identity) ([]RatingView, error) {
	ratings, err := s.ratings.ListForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	views := make([]RatingView, 0, len(ratings))
	for _, rating := range ratings {
		owned := viewer != nil && rating.AccountID != nil && *rating.AccountID == viewer.Account.ID
		views = append(views, RatingView{Rating: rating, Owned: owned})
	}
	return views, nil
}

func (s *RatingService) Create(ctx context.Context, locationID string, accountID string, score int, comment *string) (models.Rating, error) {
	comment, err := validateScoreAndComment(score, comment)
	if err != nil {
		return models.Rating{}, err
	}

	exists, err := s.locations.Exists(ctx, locationID)
	if err != nil {
		return models.Rating{}, err
	}
	if !exists {
		return models.Rating{}, repository.ErrLocationNotFound
	}

	rating := models.Rating{
		ID:         ids.New(),
		LocationID: locationID,
		AccountID:  &accountID,
		Score:      score,
		Comment:    comment,
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return models.Rating{}, err
	}

	s.invalidateAggregates(ctx)
	return rating, nil
}

// Update lets only the original owner edit a rating. The ownership check
// runs before the row is touched; moderation goes through AdminUpdate.
func (s *RatingService) Update(ctx context.Context, ratingID string, callerAccountID string, score int, comment *string) error {
	comment, err := validateScoreAndComment(score, comment)
	if err != nil {
		return err
	}

	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.AccountID == nil || *rating.AccountID != callerAccountID {
		return ErrForbidden
	}

	if err := s.ratings.Update(ctx, ratingID, score, comment); err != nil {
		return err
	}

	s.invalidateAggregates(ctx)
	return nil
}

func (s *RatingService) AdminListAll(ctx context.Context) ([]models.RatingWithLocation, error) {
	return s.ratings.ListAllWithLocation(ctx)
}

func (s *RatingService) AdminUpdate(ctx context.Context, ratingID string, score int, comment *string) error {
	comment, err := validateScoreAndComment(score, comment)
	if err != nil {
		return err
	}

	if err := s.ratings.Update(ctx, ratingID, score, comment); err != nil {
		return err
	}

	s.invalidateAggregates(ctx)
	return nil
}

func (s *RatingService) AdminDelete(ctx context.Context, ratingID string) error {
	if err := s.ratings.Delete(ctx, ratingID); err != nil {
		return err
	}

	s.invalidateAggregates(ctx)
	return nil
}

// invalidateAggregates drops the cached browse list, since it embeds the
// average and count this mutation just changed.
func (s *RatingService) invalidateAggregates(ctx context.Context) {
	if err := s.cache.Del(ctx, approvedLocationsKey); err != nil {
		s.log.Warn().Err(err).Msg("location cache invalidation failed")
	}
}

func validateScoreAndComment(score int, comment *string) (*string, error) {
	if score < 1 || score > 5 {
		return nil, validationError("Score must be an integer between 1 and 5.")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if utf8.RuneCountInString(trimmed) > commentMaxLen {
			return nil, validationError("Comment must be 240 chars or less.")
		}
		if trimmed == "" {
			return nil, nil
		}
		comment = &trimmed
	}
	return comment, nil
}
