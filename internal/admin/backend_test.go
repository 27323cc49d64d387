package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/session"
)

// recorded is one request seen by the fake backend.
type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// fakeBackend serves canned envelopes through a chi router.
type fakeBackend struct {
	t      *testing.T
	router *chi.Mux
	server *httptest.Server

	mu       sync.Mutex
	requests []recorded
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, router: chi.NewRouter()}
	fb.router.Use(fb.record)
	fb.server = httptest.NewServer(fb.router)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
		if r.Header.Get("Content-Type") == "application/json" && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &rec.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, rec)
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// respond registers a handler that answers with status and body.
func (fb *fakeBackend) respond(method, pattern string, status int, body string) {
	fb.router.MethodFunc(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (fb *fakeBackend) last() recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.requests) == 0 {
		fb.t.Fatal("no request recorded")
	}
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

// client returns an admin client signed in with token tok.
func (fb *fakeBackend) client(tok string) (*Client, *session.Session) {
	sess := session.New(session.NewMemoryStore(), nil)
	if tok != "" {
		if err := sess.SetToken(tok); err != nil {
			fb.t.Fatal(err)
		}
	}
	return New(api.NewClient(fb.server.URL, sess)), sess
}
