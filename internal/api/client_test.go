package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/siagacs/siaga-admin/internal/metrics"
	"github.com/siagacs/siaga-admin/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess := session.New(session.NewMemoryStore(), nil)
	return NewClient(server.URL, sess), sess
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type satpam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDo_SendsHeaders(t *testing.T) {
	var got http.Header
	var gotPath string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.RequestURI()
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})
	require.NoError(t, sess.SetToken("tok-123"))

	_, err := client.Do(context.Background(), Request{Path: "/v1/admin/satpam", Query: map[string][]string{"date": {"2026-01-02"}}})
	require.NoError(t, err)

	assert.Equal(t, "/v1/admin/satpam?date=2026-01-02", gotPath)
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get(RequestIDHeader))
	assert.Contains(t, got.Get("User-Agent"), "siaga-admin/")
}

func TestDo_NoAuthAndNoToken(t *testing.T) {
	var auth []string
	var mu sync.Mutex
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = append(auth, r.Header.Get("Authorization"))
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{"success":true,"data":{}}`)
	})

	_, err := client.Do(context.Background(), Request{Path: "/a"})
	require.NoError(t, err)

	require.NoError(t, sess.SetToken("tok"))
	_, err = client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v1/admin/auth/login", NoAuth: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"", ""}, auth)
}

func TestDo_NullDataBecomesEmptyList(t *testing.T) {
	bodies := []string{
		`{"success":true,"data":null}`,
		`{"success":true}`,
		`{"success":true,"data":[]}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			})

			items, err := GetList[satpam](context.Background(), client, "/v1/admin/satpam", nil)
			require.NoError(t, err)
			require.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestDo_NullObjectStaysNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":null}`)
	})

	obj, err := GetObject[satpam](context.Background(), client, "/v1/admin/satpam/1", nil)
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestDo_DecodesData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":1,"name":"Budi"},{"id":2,"name":"Sari"}]}`)
	})

	items, err := GetList[satpam](context.Background(), client, "/v1/admin/satpam", nil)
	require.NoError(t, err)
	assert.Equal(t, []satpam{{1, "Budi"}, {2, "Sari"}}, items)
}

func TestDo_AuthFailureClearsSession(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"401 with envelope", http.StatusUnauthorized, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"token expired"}}`},
		{"403 with envelope", http.StatusForbidden, `{"success":false,"error":{"message":"forbidden"}}`},
		{"401 with html", http.StatusUnauthorized, `<html>nope</html>`},
		{"403 with empty body", http.StatusForbidden, ``},
		{"403 claiming success", http.StatusForbidden, `{"success":true,"data":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			require.NoError(t, sess.SetToken("tok"))
			sess.SetUser(&session.User{ID: 1})

			var tokenSeenByHook bool
			client.OnAuthFailure(func(ctx context.Context, err *Error) {
				_, tokenSeenByHook = sess.Token()
			})

			_, err := client.Do(context.Background(), Request{Path: "/v1/admin/me"})
			require.Error(t, err)

			_, hasToken := sess.Token()
			assert.False(t, hasToken, "token must be cleared before the error is returned")
			assert.Nil(t, sess.User())
			assert.False(t, tokenSeenByHook, "hooks run after teardown")
			assert.True(t, IsAuthFailure(err))

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestDo_NoTeardownKeepsSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"message":"invalid credentials"}}`)
	})
	require.NoError(t, sess.SetToken("tok"))

	var hookCalled bool
	client.OnAuthFailure(func(ctx context.Context, err *Error) { hookCalled = true })

	_, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v1/admin/auth/login", NoAuth: true, NoTeardown: true})
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))

	token, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
	assert.False(t, hookCalled)
}

func TestDo_OtherFailuresKeepSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false,"error":{"message":"db down"}}`)
	})
	require.NoError(t, sess.SetToken("tok"))

	_, err := client.Do(context.Background(), Request{Path: "/v1/admin/satpam"})
	require.Error(t, err)
	assert.True(t, sess.IsAuthenticated())
	assert.False(t, IsAuthFailure(err))
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
		wantCode string
	}{
		{"backend message", 422, `{"success":false,"error":{"code":"VALIDATION","message":"email already used"}}`, KindHTTP, "email already used", "VALIDATION"},
		{"missing message", 400, `{"success":false,"error":{"code":"BAD"}}`, KindHTTP, MessageRequestFailed, "BAD"},
		{"missing error", 500, `{"success":false}`, KindHTTP, MessageRequestFailed, ""},
		{"success false on 200", 200, `{"success":false,"error":{"message":"not allowed today"}}`, KindEnvelope, "not allowed today", ""},
		{"empty message on 200", 200, `{"success":false,"error":{"message":""}}`, KindEnvelope, MessageRequestFailed, ""},
		{"non-json error", 502, `Bad Gateway`, KindParse, MessageRequestFailed, ""},
		{"non-json success", 200, `OK`, KindParse, MessageInvalidResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.Do(context.Background(), Request{Path: "/x"})
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.status, apiErr.HTTPStatus())
		})
	}
}

func TestDo_BadDataShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"not":"a list"}}`)
	})

	_, err := GetList[satpam](context.Background(), client, "/x", nil)
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindParse, apiErr.Kind)
	assert.Equal(t, MessageInvalidResponse, apiErr.Message)
}

func TestDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	sess := session.New(session.NewMemoryStore(), nil)
	require.NoError(t, sess.SetToken("tok"))
	client := NewClient(server.URL, sess)

	_, err := client.Do(context.Background(), Request{Path: "/x"})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.True(t, sess.IsAuthenticated(), "network errors never clear the session")
}

func TestDo_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Do(ctx, Request{Path: "/slow"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDo_ConcurrentForbiddenTearDownIndependently(t *testing.T) {
	var release sync.WaitGroup
	release.Add(1)
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		release.Wait()
		writeJSON(w, http.StatusForbidden, `{"success":false,"error":{"message":"forbidden"}}`)
	})
	require.NoError(t, sess.SetToken("tok"))

	var hookCalls atomic.Int32
	client.OnAuthFailure(func(ctx context.Context, err *Error) {
		hookCalls.Add(1)
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Do(context.Background(), Request{Path: "/v1/admin/satpam"})
		}(i)
	}
	release.Done()
	wg.Wait()

	for _, err := range errs {
		require.Error(t, err)
		assert.True(t, IsAuthFailure(err))
	}
	assert.Equal(t, int32(2), hookCalls.Load())
	assert.False(t, sess.IsAuthenticated())
}

func TestSendAndExec(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":9,"name":"Joko"}}`)
	})

	created, err := Send[satpam](context.Background(), client, http.MethodPost, "/v1/admin/satpam", map[string]string{"name": "Joko"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Joko", gotBody["name"])

	require.NoError(t, Exec(context.Background(), client, http.MethodDelete, "/v1/admin/satpam/9", nil))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient("https://api.example.test/", nil, WithTimeout(5*time.Second))
	assert.Equal(t, "https://api.example.test", c.BaseURL())
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestAll(t *testing.T) {
	var calls atomic.Int32
	err := All(context.Background(),
		func(ctx context.Context) error { calls.Add(1); return nil },
		func(ctx context.Context) error { calls.Add(1); return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	boom := errors.New("boom")
	err = All(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, boom)
}

func TestRoute(t *testing.T) {
	tests := map[string]string{
		"/v1/admin/me":                  "/v1/admin/me",
		"/v1/admin/satpam/42":           "/v1/admin/satpam/:id",
		"/v1/admin/satpam/42/face":      "/v1/admin/satpam/:id/face",
		"/v1/admin/shifts/import/excel": "/v1/admin/shifts/import/excel",
	}
	for in, want := range tests {
		assert.Equal(t, want, Route(in), in)
	}
}

func TestDo_RecordsMetricsAndSpans(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/admin/spots/7":
			writeJSON(w, http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"Spot not found"}}`)
		case "/v1/admin/shifts":
			writeJSON(w, http.StatusOK, `{"success":false,"error":{"message":"shift overlaps"}}`)
		case "/v1/admin/satpam":
			writeJSON(w, http.StatusOK, `<html>maintenance</html>`)
		default:
			writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
		}
	}))
	t.Cleanup(server.Close)

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	_, m := metrics.NewRegistry()

	c := NewClient(server.URL, session.New(session.NewMemoryStore(), nil),
		WithTracer(tp.Tracer("api")), WithMetrics(m))

	_, err := c.Do(context.Background(), Request{Path: "/v1/admin/spots"})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), Request{Path: "/v1/admin/spots/7"})
	require.Error(t, err)
	_, err = c.Do(context.Background(), Request{Path: "/v1/admin/shifts"})
	require.Error(t, err)
	_, err = c.Do(context.Background(), Request{Path: "/v1/admin/satpam"})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/v1/admin/spots", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/v1/admin/spots/:id", "404")))

	spans := exp.GetSpans()
	require.Len(t, spans, 4)
	assert.Equal(t, "GET /v1/admin/spots", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, "GET /v1/admin/spots/:id", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)

	// A 200 whose envelope says success=false, and a 200 that is not JSON,
	// both fail the span.
	assert.Equal(t, "GET /v1/admin/shifts", spans[2].Name)
	assert.Equal(t, codes.Error, spans[2].Status.Code)
	assert.Contains(t, spans[2].Status.Description, "shift overlaps")
	assert.Equal(t, "GET /v1/admin/satpam", spans[3].Name)
	assert.Equal(t, codes.Error, spans[3].Status.Code)
}
