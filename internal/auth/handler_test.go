package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getapp-hq/getapp/internal/session"
	"github.com/getapp-hq/getapp/internal/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	st := store.New(store.Config{LatencyScale: 0})
	return &Handler{
		Sessions:  session.NewManager(st, nil),
		JWTSecret: []byte("test-secret"),
	}
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec, c
}

func TestLoginSuccess(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"client@test.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "client@test.com", resp.User.Email)
	require.NotNil(t, resp.Toast)
	assert.Equal(t, session.SeveritySuccess, resp.Toast.Severity)

	// The serialized user must never carry the secret.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"client@test.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
}

func TestSignupThenConflict(t *testing.T) {
	h := newTestHandler(t)

	body := `{"name":"Eve Stone","email":"eve@test.com","password":"pw","role":"provider"}`
	rec, _ := doJSON(t, h.Signup, http.MethodPost, "/auth/signup", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "evestone", resp.User.Handle)

	rec, _ = doJSON(t, h.Signup, http.MethodPost, "/auth/signup", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h.Signup, http.MethodPost, "/auth/signup",
		`{"name":"X","email":"x@test.com","password":"pw","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeAndLogout(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"provider@test.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	uid := resp.User.ID

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	mrec := httptest.NewRecorder()
	c := e.NewContext(req, mrec)
	c.Set("user_id", uid)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "provider@test.com")

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	lrec := httptest.NewRecorder()
	c = e.NewContext(req, lrec)
	c.Set("user_id", uid)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, lrec.Code)

	// The session is gone afterwards.
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	mrec = httptest.NewRecorder()
	c = e.NewContext(req, mrec)
	c.Set("user_id", uid)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, mrec.Code)
}

func TestToggleRoleEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"provider@test.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, store.RoleProvider, resp.User.ActiveRole)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/profile/role/toggle", nil)
	trec := httptest.NewRecorder()
	c := e.NewContext(req, trec)
	c.Set("user_id", resp.User.ID)
	require.NoError(t, h.ToggleRole(c))
	require.Equal(t, http.StatusOK, trec.Code)

	var toggled struct {
		User *store.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(trec.Body.Bytes(), &toggled))
	assert.Equal(t, store.RoleClient, toggled.User.ActiveRole)
}
