package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/firmsfinder/internal/auth"
	"github.com/kalambet/firmsfinder/internal/config"
	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/pages"
	"github.com/kalambet/firmsfinder/internal/session"
	"github.com/kalambet/firmsfinder/internal/storage"
)

// fakeBackend is an httptest stand-in for the directory REST API.
type fakeBackend struct {
	mu           sync.Mutex
	searches     []string
	reviews      []map[string]string
	blogFetches  int
	faqsDown     bool
	servicesDown bool
}

func (b *fakeBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/services/paginated":
			b.searches = append(b.searches, r.URL.Query().Get("search"))
			if b.servicesDown {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			var list []string
			for i, n := range []string{"Mu", "Alpha", "Kappa", "Beta", "Iota", "Gamma", "Lambda", "Delta", "Theta", "Epsilon", "Eta", "Zeta", "Nu"} {
				list = append(list, `{"_id":"s`+string(rune('a'+i))+`","serviceName":"`+n+`","category":"Greek"}`)
			}
			w.Write([]byte(`{"services":[` + strings.Join(list, ",") + `]}`))
		case r.URL.Path == "/api/services/sa":
			w.Write([]byte(`{"_id":"sa","serviceName":"Mu","category":"Greek","description":"<p>x</p>"}`))
		case strings.HasPrefix(r.URL.Path, "/api/services/"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Service not found"}`))
		case r.URL.Path == "/api/blogs":
			b.blogFetches++
			w.Write([]byte(`[{"_id":"b1","text":"Tax season","description":"due dates","category":{"_id":"c1","name":"Tax"}},
				{"_id":"b2","text":"Hiring","description":"roles"}]`))
		case r.URL.Path == "/api/interviews":
			w.Write([]byte(`[{"_id":"i1","Name":"Ana","Position":"CEO","CompanyName":"Ruiz","Description":"<b>bold</b> move","Date":"2024-01-02"}]`))
		case r.URL.Path == "/api/faqs":
			if b.faqsDown {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`[{"_id":"f1","question":"Is it free?","answer":"Yes"}]`))
		case r.URL.Path == "/api/users/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Invalid credentials"}`))
				return
			}
			w.Write([]byte(`{"user":{"_id":"u1","name":"X","email":"x@x.com"},"token":"jwt"}`))
		case r.URL.Path == "/api/users/register":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"ok"}`))
		case r.URL.Path == "/api/reviews":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			b.reviews = append(b.reviews, body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		default:
			assert.Failf(t, "unexpected backend request", "%s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}
}

func (b *fakeBackend) searchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.searches)
}

func (b *fakeBackend) setServicesDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.servicesDown = down
}

func (b *fakeBackend) setFAQsDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faqsDown = down
}

func (b *fakeBackend) blogFetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blogFetches
}

func (b *fakeBackend) reviewBodies() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.reviews...)
}

type testEnv struct {
	handler  http.Handler
	deps     Deps
	sessions *session.Store
	backend  *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens := config.NewFileTokenStore(filepath.Join(t.TempDir(), "secrets.json"))
	client := directory.New(srv.URL, 5*time.Second, directory.WithTokenSource(tokens))
	sessions := session.New(store.Record(storage.SessionKey), nil)

	deps := Deps{
		Views: pages.NewViews(client, sessions, pages.Settings{
			FetchLimit: 1000, PageSize: 6, Window: 5, HomeServicesLimit: 12, GroupCap: 2,
		}),
		Sessions: sessions,
		Auth:     auth.NewService(client, sessions, tokens, nil),
	}
	return &testEnv{handler: NewHandler(deps), deps: deps, sessions: sessions, backend: backend}
}

func (e *testEnv) initialize(t *testing.T) {
	t.Helper()
	e.sessions.Initialize(context.Background())
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	e.initialize(t)
	require.NoError(t, e.sessions.Login(context.Background(), session.User{ID: "u1", Name: "X", Email: "x@x.com"}))
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), "body: %s", rr.Body.String())
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
