package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"craftstore/internal/archive"
	"craftstore/internal/metrics"
	"craftstore/internal/payment"
	"craftstore/internal/storage"
)

type testEnv struct {
	t        *testing.T
	server   *httptest.Server
	storage  *storage.Storage
	payments *payment.Stub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sessionStore := sessions.NewCookieStore([]byte("test-session-key-0123456789abcdef"))
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Path = "/"
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.MaxAge = 86400

	db := storage.New(archive.Noop{})
	payments := payment.NewStub()

	mux := NewRouter(RouterOptions{
		Storage:  db,
		Sessions: sessionStore,
		Payments: payments,
		Metrics:  metrics.New(prometheus.NewRegistry()),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{t: t, server: server, storage: db, payments: payments}
}

// client returns an HTTP client with its own cookie jar, i.e. its own
// session.
func (e *testEnv) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &http.Client{Jar: jar}
}

func (e *testEnv) do(c *http.Client, method, path string, body any) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	require.NoError(e.t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func bodyMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeInto(t, resp, &body)
	return body.Message
}

// register creates a user and leaves the client's session logged in.
func (e *testEnv) register(c *http.Client, username string) {
	e.t.Helper()
	resp := e.do(c, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
}

// createStore makes a store for the client's current user and returns
// its ID.
func (e *testEnv) createStore(c *http.Client, name string) int {
	e.t.Helper()
	resp := e.do(c, http.MethodPost, "/api/stores", map[string]string{
		"name":        name,
		"description": "A perfectly ordinary test shop",
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
	var store struct {
		ID int `json:"id"`
	}
	decodeInto(e.t, resp, &store)
	return store.ID
}

// createPrivilege adds a privilege to the store and returns its ID.
func (e *testEnv) createPrivilege(c *http.Client, storeID int, body map[string]any) int {
	e.t.Helper()
	resp := e.do(c, http.MethodPost, fmt.Sprintf("/api/stores/%d/privileges", storeID), body)
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
	var priv struct {
		ID int `json:"id"`
	}
	decodeInto(e.t, resp, &priv)
	return priv.ID
}
