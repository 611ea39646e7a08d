package service

import (
	"context"
	"time"

	"wcmap/api/internal/cache"
	"wcmap/api/internal/models"
	"wcmap/api/internal/repository"
)

// In-memory stand-ins for the repository layer. They mimic the conditional
// write semantics of the real queries: a write that matches no row reports
// the same not-found sentinel the repositories use.

type fakeCache struct {
	values map[string]string
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := c.values[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	c.dels++
	return nil
}

type fakeAccountStore struct {
	accounts map[string]models.Account // keyed by ID
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]models.Account)}
}

func (s *fakeAccountStore) Create(ctx context.Context, account models.Account) error {
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	account.CreatedAt = time.Now()
	s.accounts[account.ID] = account
	return nil
}

func (s *fakeAccountStore) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *fakeAccountStore) GetByID(ctx context.Context, id string) (models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (s *fakeAccountStore) List(ctx context.Context) ([]models.Account, error) {
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *fakeAccountStore) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	s.accounts[id] = account
	return nil
}

func (s *fakeAccountStore) UpdateRole(ctx context.Context, id string, isAdmin bool) error {
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.IsAdmin = isAdmin
	s.accounts[id] = account
	return nil
}

func (s *fakeAccountStore) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := s.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]models.Session // keyed by token
	accounts *fakeAccountStore
}

func newFakeSessionStore(accounts *fakeAccountStore) *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]models.Session),
		accounts: accounts,
	}
}

func (s *fakeSessionStore) Create(ctx context.Context, session models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	s.sessions[session.Token] = session
	return nil
}

func (s *fakeSessionStore) FindAccountByToken(ctx context.Context, token string) (models.Account, models.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return models.Account{}, models.Session{}, repository.ErrSessionNotFound
	}
	account, ok := s.accounts.accounts[session.AccountID]
	if !ok {
		return models.Account{}, models.Session{}, repository.ErrSessionNotFound
	}
	return account, session, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type fakeLocationStore struct {
	summaries map[string]models.LocationSummary
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{summaries: make(map[string]models.LocationSummary)}
}

func (s *fakeLocationStore) add(location models.Location) {
	s.summaries[location.ID] = models.LocationSummary{Location: location}
}

func (s *fakeLocationStore) ListApproved(ctx context.Context) ([]models.LocationSummary, error) {
	summaries := make([]models.LocationSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *fakeLocationStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.summaries[id]
	return ok, nil
}

func (s *fakeLocationStore) UpdateFields(ctx context.Context, id string, name *string, description *string) error {
	summary, ok := s.summaries[id]
	if !ok {
		return repository.ErrLocationNotFound
	}
	if name != nil {
		summary.Name = *name
	}
	if description != nil {
		summary.Description = description
	}
	s.summaries[id] = summary
	return nil
}

func (s *fakeLocationStore) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := s.summaries[id]; !ok {
		return repository.ErrLocationNotFound
	}
	delete(s.summaries, id)
	return nil
}

type fakeRatingStore struct {
	ratings map[string]models.Rating
	order   []string
	names   map[string]string // location id -> name
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{
		ratings: make(map[string]models.Rating),
		names:   make(map[string]string),
	}
}

func (s *fakeRatingStore) Create(ctx context.Context, rating models.Rating) error {
	rating.CreatedAt = time.Now()
	s.ratings[rating.ID] = rating
	s.order = append(s.order, rating.ID)
	return nil
}

func (s *fakeRatingStore) GetByID(ctx context.Context, id string) (models.Rating, error) {
	rating, ok := s.ratings[id]
	if !ok {
		return models.Rating{}, repository.ErrRatingNotFound
	}
	return rating, nil
}

func (s *fakeRatingStore) ListForLocation(ctx context.Context, locationID string) ([]models.Rating, error) {
	var ratings []models.Rating
	for _, id := range s.order {
		if rating, ok := s.ratings[id]; ok && rating.LocationID == locationID {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

func (s *fakeRatingStore) ListAllWithLocation(ctx context.Context) ([]models.RatingWithLocation, error) {
	var ratings []models.RatingWithLocation
	for _, id := range s.order {
		if rating, ok := s.ratings[id]; ok {
			ratings = append(ratings, models.RatingWithLocation{
				Rating:       rating,
				LocationName: s.names[rating.LocationID],
			})
		}
	}
	return ratings, nil
}

func (s *fakeRatingStore) Update(ctx context.Context, id string, score int, comment *string) error {
	rating, ok := s.ratings[id]
	if !ok {
		return repository.ErrRatingNotFound
	}
	rating.Score = score
	rating.Comment = comment
	s.ratings[id] = rating
	return nil
}

func (s *fakeRatingStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.ratings[id]; !ok {
		return repository.ErrRatingNotFound
	}
	delete(s.ratings, id)
	return nil
}

type fakeRequestStore struct {
	requests  map[string]models.Request
	emails    map[string]string // account id -> email
	locations *fakeLocationStore
}

func newFakeRequestStore(locations *fakeLocationStore) *fakeRequestStore {
	return &fakeRequestStore{
		requests:  make(map[string]models.Request),
		emails:    make(map[string]string),
		locations: locations,
	}
}

func (s *fakeRequestStore) Create(ctx context.Context, request models.Request) error {
	request.CreatedAt = time.Now()
	s.requests[request.ID] = request
	return nil
}

func (s *fakeRequestStore) ListPending(ctx context.Context) ([]models.RequestWithRequester, error) {
	var pending []models.RequestWithRequester
	for _, request := range s.requests {
		if request.Status == models.RequestStatusPending {
			pending = append(pending, models.RequestWithRequester{
				Request:        request,
				RequesterEmail: s.emails[request.AccountID],
			})
		}
	}
	return pending, nil
}

func (s *fakeRequestStore) ListByAccount(ctx context.Context, accountID string) ([]models.Request, error) {
	var mine []models.Request
	for _, request := range s.requests {
		if request.AccountID == accountID {
			mine = append(mine, request)
		}
	}
	return mine, nil
}

func (s *fakeRequestStore) GetPending(ctx context.Context, id string) (models.Request, error) {
	request, ok := s.requests[id]
	if !ok || request.Status != models.RequestStatusPending {
		return models.Request{}, repository.ErrRequestNotFound
	}
	return request, nil
}

func (s *fakeRequestStore) UpdateOwnedPending(ctx context.Context, id string, accountID string, name string, description *string, lat, lng float64) error {
	request, ok := s.requests[id]
	if !ok || request.AccountID != accountID || request.Status != models.RequestStatusPending {
		return repository.ErrRequestNotFound
	}
	request.Name = name
	request.Description = description
	request.Lat = lat
	request.Lng = lng
	s.requests[id] = request
	return nil
}

func (s *fakeRequestStore) DeleteOwned(ctx context.Context, id string, accountID string) error {
	request, ok := s.requests[id]
	if !ok || request.AccountID != accountID || request.Status == models.RequestStatusApproved {
		return repository.ErrRequestNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *fakeRequestStore) Approve(ctx context.Context, requestID string, location models.Location) error {
	request, ok := s.requests[requestID]
	if !ok || request.Status != models.RequestStatusPending {
		return repository.ErrRequestNotFound
	}
	s.locations.add(location)
	request.Status = models.RequestStatusApproved
	s.requests[requestID] = request
	return nil
}

func (s *fakeRequestStore) Reject(ctx context.Context, id string) error {
	request, ok := s.requests[id]
	if !ok || request.Status != models.RequestStatusPending {
		return repository.ErrRequestNotFound
	}
	request.Status = models.RequestStatusRejected
	s.requests[id] = request
	return nil
}
