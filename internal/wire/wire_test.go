package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tempest-reviews/internal/data/repository/memory"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminCode = "open-sesame"

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type reviewData struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Quality int    `json:"quality"`
	Fun     int    `json:"fun"`
}

type movieData struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Reviews []reviewData `json:"reviews"`
	Stats   struct {
		ReviewCount int `json:"reviewCount"`
	} `json:"stats"`
}

func newTestApp(t *testing.T, opts ...func(*utils.Config)) http.Handler {
	t.Helper()
	config := &utils.Config{
		App: utils.AppConfig{Name: "tempest-reviews-test", Env: "test", Store: utils.StoreMemory},
		HTTP: utils.HTTPConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Auth: utils.AuthConfig{
			JWTSecret:   "wire-test-secret",
			AdminSecret: adminCode,
			SignupTTL:   24 * time.Hour,
			LoginTTL:    time.Hour,
			BcryptCost:  bcrypt.MinCost,
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	app, err := Wiring(memory.NewRepository(), config, zap.NewNop())
	require.NoError(t, err)
	return app.Router
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	return callWithHeaders(t, h, method, path, token, body, nil)
}

func callWithHeaders(t *testing.T, h http.Handler, method, path, token string, body any, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func signupHTTP(t *testing.T, h http.Handler, email, code string) authData {
	t.Helper()
	status, env := call(t, h, http.MethodPost, "/signup", "", map[string]any{
		"email":     email,
		"password":  "password123",
		"adminCode": code,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	return decode[authData](t, env.Data)
}

func TestEndToEndReviewFlow(t *testing.T) {
	h := newTestApp(t)

	admin := signupHTTP(t, h, "admin@example.com", adminCode)
	assert.Equal(t, "ADMIN", admin.User.Role)

	status, env := call(t, h, http.MethodPost, "/movies", admin.Token, map[string]any{
		"title":    "Inception",
		"synopsis": "A thief who steals corporate secrets through dream-sharing.",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	movie := decode[movieData](t, env.Data)

	reviewer := signupHTTP(t, h, "reviewer@example.com", "")
	assert.Equal(t, "USER", reviewer.User.Role)

	status, env = call(t, h, http.MethodPost, "/reviews", reviewer.Token, map[string]any{
		"content": "Mind-bending.",
		"movieId": movie.ID,
		"quality": 5,
		"fun":     4,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	review := decode[reviewData](t, env.Data)

	status, env = call(t, h, http.MethodPut, "/reviews/"+review.ID, reviewer.Token, map[string]any{
		"content": "Mind-bending, again.",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "Mind-bending, again.", decode[reviewData](t, env.Data).Content)

	status, _ = call(t, h, http.MethodDelete, "/reviews/"+review.ID, admin.Token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, env = call(t, h, http.MethodGet, "/movies/"+movie.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[movieData](t, env.Data)
	assert.Empty(t, got.Reviews)
	assert.Zero(t, got.Stats.ReviewCount)
}

func TestMovieMutations_AuthErrors(t *testing.T) {
	h := newTestApp(t)
	admin := signupHTTP(t, h, "admin@example.com", adminCode)
	user := signupHTTP(t, h, "user@example.com", "")

	status, _ := call(t, h, http.MethodPost, "/movies", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, h, http.MethodPost, "/movies", "not-a-token", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, h, http.MethodPost, "/movies", user.Token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, h, http.MethodDelete, "/movies/"+uuid.NewString(), user.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, h, http.MethodDelete, "/movies/"+uuid.NewString(), admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env := call(t, h, http.MethodPost, "/movies", admin.Token, map[string]any{"synopsis": "no title"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "title")
}

func TestReviewMutations_ForbiddenForStrangers(t *testing.T) {
	h := newTestApp(t)
	admin := signupHTTP(t, h, "admin@example.com", adminCode)
	owner := signupHTTP(t, h, "owner@example.com", "")
	stranger := signupHTTP(t, h, "stranger@example.com", "")

	_, env := call(t, h, http.MethodPost, "/movies", admin.Token, map[string]any{"title": "Heat"})
	movie := decode[movieData](t, env.Data)

	_, env = call(t, h, http.MethodPost, "/reviews", owner.Token, map[string]any{"content": "classic", "movieId": movie.ID})
	review := decode[reviewData](t, env.Data)
	assert.Equal(t, 3, review.Quality)
	assert.Equal(t, 3, review.Fun)

	status, _ := call(t, h, http.MethodPut, "/reviews/"+review.ID, stranger.Token, map[string]any{"content": "mine now"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, h, http.MethodDelete, "/reviews/"+review.ID, stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, h, http.MethodDelete, "/reviews/"+uuid.NewString(), stranger.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, h, http.MethodPost, "/reviews", owner.Token, map[string]any{"content": "?", "movieId": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, h, http.MethodPost, "/reviews", "", map[string]any{"content": "?", "movieId": movie.ID})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, h, http.MethodDelete, "/reviews/"+review.ID, owner.Token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAuthEndpoints(t *testing.T) {
	h := newTestApp(t)
	signupHTTP(t, h, "me@example.com", "")

	status, env := call(t, h, http.MethodPost, "/signup", "", map[string]any{"email": "me@example.com", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Status)

	status, _ = call(t, h, http.MethodPost, "/login", "", map[string]any{"email": "me@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, h, http.MethodPost, "/login", "", map[string]any{"email": "me@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, h, http.MethodPost, "/login", "", map[string]any{"email": "me@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	login := decode[authData](t, env.Data)

	status, env = call(t, h, http.MethodGet, "/me", login.Token, nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}](t, env.Data)
	assert.Equal(t, login.User.ID, profile.ID)
	assert.Equal(t, "me@example.com", profile.Email)

	status, _ = call(t, h, http.MethodGet, "/me/reviews", login.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, h, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPublicReads(t *testing.T) {
	h := newTestApp(t)

	status, env := call(t, h, http.MethodGet, "/movies", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(env.Data))

	status, _ = call(t, h, http.MethodGet, "/movies/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, h, http.MethodGet, "/movies/"+uuid.NewString()+"/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, h, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthRateLimit_IgnoresForwardedHeadersByDefault(t *testing.T) {
	h := newTestApp(t, func(c *utils.Config) { c.HTTP.AuthRateLimit = 2 })
	creds := map[string]any{"email": "nobody@example.com", "password": "password123"}

	statuses := make([]int, 3)
	for i := range statuses {
		spoofed := fmt.Sprintf("198.51.100.%d", i+1)
		statuses[i], _ = callWithHeaders(t, h, http.MethodPost, "/login", "", creds, map[string]string{
			"X-Forwarded-For": spoofed,
			"X-Real-IP":       spoofed,
		})
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, statuses)
}

func TestAuthRateLimit_TrustedProxyKeysOnForwardedIP(t *testing.T) {
	h := newTestApp(t, func(c *utils.Config) {
		c.HTTP.AuthRateLimit = 1
		c.HTTP.TrustProxy = true
	})
	creds := map[string]any{"email": "nobody@example.com", "password": "password123"}

	first, _ := callWithHeaders(t, h, http.MethodPost, "/login", "", creds, map[string]string{"X-Real-IP": "198.51.100.1"})
	second, _ := callWithHeaders(t, h, http.MethodPost, "/login", "", creds, map[string]string{"X-Real-IP": "198.51.100.2"})

	assert.Equal(t, http.StatusUnauthorized, first)
	assert.Equal(t, http.StatusUnauthorized, second)
}
