package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitesmith/sitesmith/internal/cmssrv/config"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/memory"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUserEmail    = "amelia@example.com"
	testUserPassword = "correct-horse-battery"
)

// newTestServer builds a server over a fresh in-memory store with one
// seeded user. The same server instance is reused across requests so
// state persists within a test.
func newTestServer(t *testing.T) (*SiteServer, *memory.Store) {
	t.Helper()
	config.TestInit()

	store := memory.New()
	seedUser(t, store, testUserEmail, testUserPassword)

	s, err := CreateNewServer(store)
	require.NoError(t, err, "create new server")
	s.MountHandlers()
	t.Cleanup(s.Shutdown)
	return s, store
}

func seedUser(t *testing.T, store *memory.Store, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err, "hash password")
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	apperr := store.CreateUser(context.Background(), user)
	require.Nil(t, apperr, "seed user")
	return user
}

func executeTestRequest(t *testing.T, s *SiteServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

// loginTestUser logs the seeded user in and returns the session token.
func loginTestUser(t *testing.T, s *SiteServer) string {
	t.Helper()
	req, _ := http.NewRequest("POST", "/auth/login", nil)
	setRequestBodyAndHeader(t, req, map[string]string{
		"email":    testUserEmail,
		"password": testUserPassword,
	})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code, "login failed: %s", response.Body.String())
	token := gjson.Get(response.Body.String(), "token").String()
	require.NotEmpty(t, token, "no token in login response")
	return token
}

func checkHeader(t *testing.T, h http.Header) {
	t.Helper()
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
}

func compareJson(t *testing.T, expected any, actual string) {
	t.Helper()
	var j []byte
	var err error

	switch v := expected.(type) {
	case string:
		if json.Valid([]byte(v)) {
			j = []byte(v)
		} else {
			j, err = json.Marshal(v)
			assert.NoError(t, err, "json marshal")
		}
	case []byte:
		if json.Valid(v) {
			j = v
		} else {
			j, err = json.Marshal(string(v))
			assert.NoError(t, err, "json marshal")
		}
	default:
		j, err = json.Marshal(expected)
		assert.NoError(t, err, "json marshal")
	}

	assert.JSONEq(t, string(j), actual, "Expected: %v\nGot: %v\n", expected, actual)
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data any) {
	t.Helper()
	var jsonData []byte
	if s, ok := data.(string); ok {
		if json.Valid([]byte(s)) {
			jsonData = []byte(s)
		}
	} else if b, ok := data.([]byte); ok {
		if json.Valid(b) {
			jsonData = b
		}
	} else {
		var err error
		jsonData, err = json.Marshal(data)
		assert.NoError(t, err, "marshal request body")
	}

	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))
	req.Header.Set("Content-Type", "application/json")
}

// authorizedRequest builds a request carrying the bearer token.
func authorizedRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	if body != nil {
		setRequestBodyAndHeader(t, req, body)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
