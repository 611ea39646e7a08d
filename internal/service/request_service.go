package service

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"wcmap/api/internal/geo"
	"wcmap/api/internal/ids"
	"wcmap/api/internal/models"
)

type RequestStore interface {
	Create(ctx context.Context, request models.Request) error
	ListPending(ctx context.Context) ([]models.RequestWithRequester, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Request, error)
	GetPending(ctx context.Context, id string) (models.Request, error)
	UpdateOwnedPending(ctx context.Context, id string, accountID string, name string, description *string, lat, lng float64) error
	DeleteOwned(ctx context.Context, id string, accountID string) error
	Approve(ctx context.Context, requestID string, location models.Location) error
	Reject(ctx context.Context, id string) error
}

// RequestService owns the submission workflow: members submit candidate
// locations, admins approve or reject them. Approval is the only path
// that creates a location outside seed data.
type RequestService struct {
	requests RequestStore
	fence    geo.Fence
	cache    Cache
	log      zerolog.Logger
}

func NewRequestService(requests RequestStore, fence geo.Fence, cacheStore Cache, log zerolog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		fence:    fence,
		cache:    cacheStore,
		log:      log,
	}
}

type RequestInput struct {
	Name        string
	Description *string
	Lat         float64
	Lng         float64
}

func (s *RequestService) Submit(ctx context.Context, accountID string, input RequestInput) (models.Request, error) {
	input, err := s.validate(input)
	if err != nil {
		return models.Request{}, err
	}

	request := models.Request{
		ID:          ids.New(),
		AccountID:   accountID,
		Name:        input.Name,
		Description: input.Description,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Status:      models.RequestStatusPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return models.Request{}, err
	}
	return request, nil
}

func (s *RequestService) ListPending(ctx context.Context) ([]models.RequestWithRequester, error) {
	return s.requests.ListPending(ctx)
}

func (s *RequestService) ListMine(ctx context.Context, accountID string) ([]models.Request, error) {
	return s.requests.ListByAccount(ctx, accountID)
}

// EditMine updates a request the caller owns while it is still pending.
// Anything else, including someone else's row, reports not-found.
func (s *RequestService) EditMine(ctx context.Context, requestID string, accountID string, input RequestInput) error {
	input, err := s.validate(input)
	if err != nil {
		return err
	}

	return s.requests.UpdateOwnedPending(ctx, requestID, accountID, input.Name, input.Description, input.Lat, input.Lng)
}

// Withdraw hard-deletes a pending or rejected request the caller owns.
// Approved requests are permanent history.
func (s *RequestService) Withdraw(ctx context.Context, requestID string, accountID string) error {
	return s.requests.DeleteOwned(ctx, requestID, accountID)
}

// Approve copies the pending request into a new location and flips the
// request status, atomically. The geofence is re-checked against the
// stored row before anything is written.
func (s *RequestService) Approve(ctx context.Context, requestID string) (models.Location, error) {
	request, err := s.requests.GetPending(ctx, requestID)
	if err != nil {
		return models.Location{}, err
	}

	if !s.fence.Contains(request.Lat, request.Lng) {
		return models.Location{}, validationError("Request is outside the supported area.")
	}

	location := models.Location{
		ID:          ids.New(),
		Name:        request.Name,
		Description: request.Description,
		Lat:         request.Lat,
		Lng:         request.Lng,
	}

	if err := s.requests.Approve(ctx, requestID, location); err != nil {
		return models.Location{}, err
	}

	s.invalidateList(ctx)
	return location, nil
}

func (s *RequestService) Reject(ctx context.Context, requestID string) error {
	return s.requests.Reject(ctx, requestID)
}

// validate checks constraints in a fixed order, reporting the first
// violation: name, description, latitude range, longitude range,
// geofence.
func (s *RequestService) validate(input RequestInput) (RequestInput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > nameMaxLen {
		return input, validationError("Name is required (max 80 chars).")
	}
	input.Name = name

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if utf8.RuneCountInString(trimmed) > descriptionMaxLen {
			return input, validationError("Description must be 240 chars or less.")
		}
		if trimmed == "" {
			input.Description = nil
		} else {
			input.Description = &trimmed
		}
	}

	if math.IsNaN(input.Lat) || input.Lat < -90 || input.Lat > 90 {
		return input, validationError("Latitude must be between -90 and 90.")
	}
	if math.IsNaN(input.Lng) || input.Lng < -180 || input.Lng > 180 {
		return input, validationError("Longitude must be between -180 and 180.")
	}
	if !s.fence.Contains(input.Lat, input.Lng) {
		return input, validationError("Coordinates are outside the supported area.")
	}

	return input, nil
}

func (s *RequestService) invalidateList(ctx context.Context) {
	if err := s.cache.Del(ctx, approvedLocationsKey); err != nil {
		s.log.Warn().Err(err).Msg("location cache invalidation failed")
	}
}
