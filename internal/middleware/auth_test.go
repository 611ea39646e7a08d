package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wcmap/api/internal/models"
	"wcmap/api/internal/repository"
	"wcmap/api/internal/service"
)

type memAccountStore struct {
	byID map[string]models.Account
}

func (s *memAccountStore) Create(ctx context.Context, account models.Account) error {
	s.byID[account.ID] = account
	return nil
}

func (s *memAccountStore) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	for _, account := range s.byID {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

type memSessionStore struct {
	sessions map[string]models.Session
	accounts *memAccountStore
}

func (s *memSessionStore) Create(ctx context.Context, session models.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *memSessionStore) FindAccountByToken(ctx context.Context, token string) (models.Account, models.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return models.Account{}, models.Session{}, repository.ErrSessionNotFound
	}
	return s.accounts.byID[session.AccountID], session, nil
}

func (s *memSessionStore) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func newTestAuth(t *testing.T) *service.AuthService {
	t.Helper()
	accounts := &memAccountStore{byID: map[string]models.Account{
		"acc-member": {ID: "acc-member", Email: "member@example.com"},
		"acc-admin":  {ID: "acc-admin", Email: "admin@example.com", IsAdmin: true},
	}}
	sessions := &memSessionStore{
		sessions: map[string]models.Session{
			"member-token": {Token: "member-token", AccountID: "acc-member"},
			"admin-token":  {Token: "admin-token", AccountID: "acc-admin"},
		},
		accounts: accounts,
	}
	return service.NewAuthService(accounts, sessions, "", 0, zerolog.Nop())
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := newTestAuth(t)

	router := gin.New()
	router.GET("/private", RequireAuth(auth), func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.Account.ID, "token": SessionTokenFrom(c)})
	})
	router.GET("/admin", RequireAuth(auth), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/open", OptionalAuth(auth), func(c *gin.Context) {
		if identity, ok := IdentityFrom(c); ok {
			c.JSON(http.StatusOK, gin.H{"id": identity.Account.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": ""})
	})
	return router
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRequireAuth(t *testing.T) {
	router := newAuthTestRouter(t)

	resp := doRequest(router, "/private", "member-token")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"id":"acc-member","token":"member-token"}`, resp.Body.String())

	resp = doRequest(router, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"error":"Authentication required."}`, resp.Body.String())

	resp = doRequest(router, "/private", "bogus")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"error":"Invalid session."}`, resp.Body.String())
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Basic bWVtYmVy")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := newAuthTestRouter(t)

	resp := doRequest(router, "/admin", "admin-token")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(router, "/admin", "member-token")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.JSONEq(t, `{"error":"Admin authorization required."}`, resp.Body.String())

	resp = doRequest(router, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestOptionalAuth(t *testing.T) {
	router := newAuthTestRouter(t)

	resp := doRequest(router, "/open", "member-token")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"id":"acc-member"}`, resp.Body.String())

	// No token and a bad token both pass through anonymously.
	resp = doRequest(router, "/open", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"id":""}`, resp.Body.String())

	resp = doRequest(router, "/open", "bogus")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"id":""}`, resp.Body.String())
}
