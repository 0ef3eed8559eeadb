package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/firmsfinder/internal/config"
	"github.com/kalambet/firmsfinder/internal/pages"
)

type testBackend struct {
	mu      sync.Mutex
	reviews []map[string]string
}

func newTestBackend(t *testing.T) (*testBackend, *httptest.Server) {
	t.Helper()
	b := &testBackend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/services/paginated":
			var list []string
			for i, n := range []string{"Mu", "Alpha", "Kappa", "Beta", "Iota", "Gamma", "Lambda", "Delta", "Theta", "Epsilon", "Eta", "Zeta", "Nu"} {
				list = append(list, `{"_id":"s`+string(rune('a'+i))+`","serviceName":"`+n+`","category":"Greek"}`)
			}
			w.Write([]byte(`{"services":[` + strings.Join(list, ",") + `]}`))
		case "/api/services/sa":
			w.Write([]byte(`{"_id":"sa","serviceName":"Mu","category":"Greek","description":"<p>Bookkeeping</p>"}`))
		case "/api/blogs":
			w.Write([]byte(`[{"_id":"b1","text":"Tax season","description":"due dates"},{"_id":"b2","text":"Hiring","description":"roles"}]`))
		case "/api/interviews":
			w.Write([]byte(`[{"_id":"i1","Name":"Ana","Position":"CEO","CompanyName":"Ruiz","Description":"<b>bold</b>","Date":"2024-01-02"}]`))
		case "/api/faqs":
			w.Write([]byte(`[{"_id":"f1","question":"Is it free?","answer":"Yes"}]`))
		case "/api/users/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Invalid credentials"}`))
				return
			}
			w.Write([]byte(`{"user":{"_id":"u1","name":"Xena","email":"x@x.com"},"token":"jwt"}`))
		case "/api/reviews":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			b.mu.Lock()
			b.reviews = append(b.reviews, body)
			b.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *testBackend) reviewBodies() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.reviews...)
}

type testWorkspace struct {
	cfg    config.Config
	tokens *config.TokenStore
}

func newWorkspace(t *testing.T, baseURL string) testWorkspace {
	t.Helper()
	noColor = true
	dir := t.TempDir()
	return testWorkspace{
		cfg: config.Config{
			API:      config.APIConfig{BaseURL: baseURL, Timeout: "5s"},
			Storage:  config.StorageConfig{DataDir: dir},
			Log:      config.LogConfig{Level: "info"},
			Search:   config.SearchConfig{Debounce: "300ms"},
			Pager:    config.PagerConfig{PageSize: 6, Window: 5},
			Services: config.ServicesConfig{FetchLimit: 1000},
			Home:     config.HomeConfig{ServicesLimit: 12, GroupCap: 2},
		},
		tokens: config.NewFileTokenStore(filepath.Join(dir, "secrets.json")),
	}
}

func (ws testWorkspace) open(t *testing.T) *app {
	t.Helper()
	a, err := buildApp(context.Background(), ws.cfg, ws.tokens)
	require.NoError(t, err, "buildApp")
	t.Cleanup(a.Close)
	return a
}

func (ws testWorkspace) signedIn(t *testing.T) *app {
	t.Helper()
	a := ws.open(t)
	require.NoError(t, runLogin(context.Background(), a, "x@x.com", "pw"), "runLogin")
	return a
}

var ctx = context.Background()

func TestServicesCommand_Paging(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).open(t)

	var out bytes.Buffer
	require.NoError(t, runServices(ctx, a, &out, "", 1))
	first := out.String()
	assert.Contains(t, first, "Alpha")
	assert.NotContains(t, first, "Iota", "page 1 holds Alpha..Gamma only")
	assert.Contains(t, first, "page 1 of 3")

	out.Reset()
	require.NoError(t, runServices(ctx, a, &out, "", 3))
	assert.Contains(t, out.String(), "Zeta")
	assert.NotContains(t, out.String(), "Alpha")

	assert.Error(t, runServices(ctx, a, &out, "", 4), "page past the end")
}

func TestServicesCommand_LoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	a := newWorkspace(t, srv.URL).open(t)

	err := runServices(ctx, a, &bytes.Buffer{}, "", 1)
	require.ErrorIs(t, err, errLoadFailed)
	assert.EqualError(t, err, pages.LoadFailedMessage)
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).open(t)

	assert.ErrorIs(t, runBlogs(ctx, a, &bytes.Buffer{}, ""), errLoginRequired)
	assert.ErrorIs(t, runInterviews(ctx, a, &bytes.Buffer{}, ""), errLoginRequired)
	assert.ErrorIs(t, runShow(ctx, a, &bytes.Buffer{}, "service", "sa"), errLoginRequired)
}

func TestBlogsCommand_Filters(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).signedIn(t)

	var out bytes.Buffer
	require.NoError(t, runBlogs(ctx, a, &out, "  TAX "))
	assert.Contains(t, out.String(), "Tax season")
	assert.NotContains(t, out.String(), "Hiring")
}

func TestInterviewsAndFAQs(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).signedIn(t)

	var out bytes.Buffer
	require.NoError(t, runInterviews(ctx, a, &out, ""))
	assert.Contains(t, out.String(), "Ana, CEO at Ruiz")
	assert.Contains(t, out.String(), "02/01/2024")

	out.Reset()
	require.NoError(t, runFAQs(ctx, a, &out, "nothing matches"))
	assert.Contains(t, out.String(), "No FAQs match your search.")
}

func TestShowCommand(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).signedIn(t)

	var out bytes.Buffer
	require.NoError(t, runShow(ctx, a, &out, "service", "sa"))
	assert.Contains(t, out.String(), "Mu")
	assert.Contains(t, out.String(), "Bookkeeping")

	out.Reset()
	require.NoError(t, runShow(ctx, a, &out, "service", "missing"))
	assert.Contains(t, out.String(), "Service Not Found")
	assert.Contains(t, out.String(), "/allservices")

	assert.Error(t, runShow(ctx, a, &out, "company", "x"), "unknown kind")
}

func TestLoginPersistsAcrossRuns(t *testing.T) {
	_, srv := newTestBackend(t)
	ws := newWorkspace(t, srv.URL)

	first, err := buildApp(ctx, ws.cfg, ws.tokens)
	require.NoError(t, err)
	require.NoError(t, runLogin(ctx, first, "x@x.com", "pw"))
	first.Close()

	second := ws.open(t)
	var out bytes.Buffer
	require.NoError(t, runWhoami(second, &out))
	assert.Contains(t, out.String(), "x@x.com", "persisted user")
	tok, _ := ws.tokens.Token()
	assert.Equal(t, "jwt", tok)

	assert.Error(t, runLogin(ctx, second, "x@x.com", "pw"), "logging in twice")
}

func TestLoginRejected(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).open(t)

	err := runLogin(ctx, a, "x@x.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	var out bytes.Buffer
	runWhoami(a, &out)
	assert.Contains(t, out.String(), "Not signed in.")
}

func TestReviewCommand(t *testing.T) {
	backend, srv := newTestBackend(t)
	ws := newWorkspace(t, srv.URL)

	anon := ws.open(t)
	require.EqualError(t, runReview(ctx, anon, pages.ReviewForm{Rating: pages.RatingGood}), "Please login to submit a review.")
	anon.Close()

	a := ws.signedIn(t)
	require.EqualError(t, runReview(ctx, a, pages.ReviewForm{}), "Please select a rating before submitting.")
	require.NoError(t, runReview(ctx, a, pages.ReviewForm{Rating: pages.RatingGood, Feedback: "great"}))

	bodies := backend.reviewBodies()
	require.Len(t, bodies, 1)
	assert.Equal(t, "Good", bodies[0]["rating"])
	assert.Equal(t, "u1", bodies[0]["user"])
	assert.Equal(t, "great", bodies[0]["feedback"])
}

func browse(t *testing.T, a *app, start string, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	script := strings.Join(lines, "\n") + "\n"
	require.NoError(t, runBrowse(ctx, a, strings.NewReader(script), &out, start))
	return out.String()
}

func TestBrowse_GuardsAndSearch(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).open(t)

	got := browse(t, a, "/",
		":go /blogs",
		":login x@x.com pw",
		":go /blogs",
		":find tax",
		":go /allservices",
		":page 3",
		":page 9",
		":back",
		":quit",
	)

	for _, want := range []string{
		"redirected / -> /login",
		"redirected /blogs -> /login",
		"redirected /login -> /",
		"Services by category",
		"Categories: Greek",
		"── /blogs?search=tax",
		"Zeta",
		"page 3 of 3",
		"out of range",
	} {
		assert.Contains(t, got, want)
	}
	filtered := got[strings.Index(got, "── /blogs?search=tax"):strings.Index(got, "── /allservices")]
	assert.NotContains(t, filtered, "Hiring", "filtered blogs still list Hiring")
}

func TestBrowse_TypedTextCommittedAtEndOfInput(t *testing.T) {
	_, srv := newTestBackend(t)
	ws := newWorkspace(t, srv.URL)
	ws.cfg.Search.Debounce = "1m"
	a := ws.signedIn(t)

	got := browse(t, a, "/blogs", "hiring")

	require.Contains(t, got, "── /blogs?search=hiring")
	after := got[strings.Index(got, "── /blogs?search=hiring"):]
	assert.Contains(t, after, "Hiring")
	assert.NotContains(t, after, "Tax season")
}

func TestBrowse_NavigationDiscardsTypedText(t *testing.T) {
	_, srv := newTestBackend(t)
	ws := newWorkspace(t, srv.URL)
	ws.cfg.Search.Debounce = "1m"
	a := ws.signedIn(t)

	got := browse(t, a, "/blogs", "tax", ":go /interviews")

	assert.Contains(t, got, "── /interviews")
	assert.NotContains(t, got, "search=tax", "typed text followed the navigation")
}

func TestBrowse_BackOnFirstEntry(t *testing.T) {
	_, srv := newTestBackend(t)
	a := newWorkspace(t, srv.URL).open(t)

	got := browse(t, a, "/login", ":back", ":quit")
	assert.Contains(t, got, "Nothing to go back to.")
}
