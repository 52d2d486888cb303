package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/podx/internal/models"
)

// RecordedRequest is one request seen by a [FakeBackend].
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

// BackendState is the canned data a [FakeBackend] serves.
type BackendState struct {
	AuthURL  string
	Session  models.AuthSession
	Status   *models.Status
	Episodes []models.Episode
	// Failures maps a request path to the status code it should fail with.
	Failures map[string]int
}

// FakeBackend is an httptest server implementing the agent backend endpoints.
//
// Authenticated endpoints require "Bearer <Session.Token>" and answer 401 otherwise.
type FakeBackend struct {
	server   *httptest.Server
	mu       sync.Mutex
	state    BackendState
	requests []RecordedRequest
}

// TestUser is the user returned by a fresh [FakeBackend].
func TestUser() *models.User {
	return &models.User{ID: "u1", DisplayName: "Test User", Email: "test@example.com"}
}

// NewFakeBackend starts a backend that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		state: BackendState{
			AuthURL: "https://accounts.spotify.com/authorize?client_id=test&state=xyz",
			Session: models.AuthSession{Token: "test-token", User: TestUser()},
			Status: &models.Status{
				LastRun:          "2 hours ago",
				EpisodesThisWeek: 12,
				QueueDuration:    "4h 25m",
			},
			Episodes: []models.Episode{
				{ID: "e1", Name: "Scaling Laws", ShowName: "Lex Fridman Podcast", Duration: "1h 12m", RelevanceScore: 0.92, AddedAt: "2h ago"},
				{ID: "e2", Name: "Sleep Toolkit", ShowName: "Huberman Lab", Duration: "48m", RelevanceScore: 0.81, AddedAt: "5h ago"},
			},
			Failures: map[string]int{},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/spotify/url", f.handleAuthURL)
	mux.HandleFunc("POST /api/auth/spotify/callback", f.handleCallback)
	mux.HandleFunc("GET /api/auth/me", f.authed(f.handleMe))
	mux.HandleFunc("POST /api/auth/logout", f.authed(f.handleEmpty))
	mux.HandleFunc("POST /api/web/preferences", f.authed(f.handleEmpty))
	mux.HandleFunc("GET /api/web/status", f.authed(f.handleStatus))
	mux.HandleFunc("GET /api/web/recent-episodes", f.authed(f.handleEpisodes))

	f.server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the backend's base URL.
func (f *FakeBackend) URL() string { return f.server.URL }

// Update mutates the served state under the backend's lock.
func (f *FakeBackend) Update(fn func(s *BackendState)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.state)
}

// Requests returns the recorded requests for path, or all requests when path is empty.
func (f *FakeBackend) Requests(path string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []RecordedRequest
	for _, r := range f.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		code, fail := f.state.Failures[r.URL.Path]
		f.mu.Unlock()

		if fail {
			http.Error(w, `{"error":"forced failure"}`, code)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (f *FakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		want := "Bearer " + f.state.Session.Token
		f.mu.Unlock()

		if r.Header.Get("Authorization") != want {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *FakeBackend) handleAuthURL(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, models.AuthURLResponse{AuthURL: f.state.AuthURL})
}

func (f *FakeBackend) handleCallback(w http.ResponseWriter, r *http.Request) {
	var req models.CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		http.Error(w, `{"error":"missing code"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.state.Session)
}

func (f *FakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, models.MeResponse{User: f.state.Session.User})
}

func (f *FakeBackend) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.state.Status)
}

func (f *FakeBackend) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	episodes := f.state.Episodes
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit < len(episodes) {
		episodes = episodes[:limit]
	}
	writeJSON(w, models.EpisodesResponse{Episodes: episodes})
}

func (f *FakeBackend) handleEmpty(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
