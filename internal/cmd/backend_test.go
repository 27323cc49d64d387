package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/siagacs/siaga-admin/internal/config"
	"github.com/siagacs/siaga-admin/internal/session"
)

type request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// CommandSuite runs the real command tree against a chi fake backend with
// a temporary home directory.
type CommandSuite struct {
	suite.Suite
	home   string
	router *chi.Mux
	server *httptest.Server

	mu       sync.Mutex
	requests []request
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) SetupTest() {
	s.home = s.T().TempDir()
	s.T().Setenv(config.EnvPassphrase, "test-passphrase")
	s.T().Setenv(config.EnvBaseURL, "")
	s.T().Setenv(config.EnvTelemetry, "")
	s.T().Setenv(config.EnvMetricsTextfile, "")
	s.T().Setenv("CI", "true")

	s.requests = nil
	s.router = chi.NewRouter()
	s.router.Use(s.record)
	s.server = httptest.NewServer(s.router)
	s.T().Cleanup(s.server.Close)
}

func (s *CommandSuite) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &req.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *CommandSuite) respond(method, pattern string, status int, body string) {
	s.router.MethodFunc(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// me answers the profile endpoint with the given permission codes.
func (s *CommandSuite) me(perms ...string) {
	codes, _ := json.Marshal(perms)
	s.respond(http.MethodGet, "/v1/admin/me", http.StatusOK,
		`{"success":true,"data":{"id":1,"name":"Ops","email":"ops@siaga.test","role":"admin","permissions":`+string(codes)+`}}`)
}

// find returns the recorded requests matching method and path.
func (s *CommandSuite) find(method, path string) []request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []request
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *CommandSuite) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *CommandSuite) store() *session.FileStore {
	store, err := session.NewFileStore(config.CredentialsPath(s.home), config.Passphrase(s.home))
	s.Require().NoError(err)
	return store
}

func (s *CommandSuite) signIn(token string) {
	s.Require().NoError(s.store().Put(session.TokenKey, token))
}

func (s *CommandSuite) storedToken() (string, bool) {
	tok, err := s.store().Get(session.TokenKey)
	return tok, err == nil && tok != ""
}

// run executes the command tree and returns stdout.
func (s *CommandSuite) run(args ...string) (string, error) {
	out, _, err := s.runWithStderr(args...)
	return out, err
}

// runWithStderr is run that also returns what went to stderr, logs included.
func (s *CommandSuite) runWithStderr(args ...string) (string, string, error) {
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--home", s.home, "--base-url", s.server.URL, "--no-color"))
	err := execute(context.Background(), root)
	return out.String(), errOut.String(), err
}
