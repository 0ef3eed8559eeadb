// Package gateway serves the client routes over local HTTP and MCP.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalambet/firmsfinder/internal/auth"
	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/pages"
	"github.com/kalambet/firmsfinder/internal/pager"
	"github.com/kalambet/firmsfinder/internal/routes"
	"github.com/kalambet/firmsfinder/internal/session"
)

const maxRequestBodySize = 1 << 20 // 1MB

type Deps struct {
	Views    *pages.Views
	Sessions *session.Store
	Auth     *auth.Service
	Logger   *slog.Logger
}

// NewHandler returns the router for the client route surface. GET routes
// are guarded by the session; form posts are not.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(requestLogger(deps.Logger))

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(guard(deps.Sessions))

		r.Get("/", handleHome(deps))
		r.Get("/allservices", handleAllServices(deps))
		r.Get("/services/{id}", handleDetail(deps.Views.ServiceDetail))
		r.Get("/blogs", handleListing(deps.Logger, deps.Views.Blogs))
		r.Get("/blogs/{id}", handleDetail(deps.Views.BlogDetail))
		r.Get("/interviews", handleListing(deps.Logger, deps.Views.Interviews))
		r.Get("/interviews/{id}", handleDetail(deps.Views.InterviewDetail))
		r.Get("/login", handleForm("login", "email", "password"))
		r.Get("/signup", handleForm("signup", "name", "phone", "email", "password"))
	})

	r.Post("/login", handleLogin(deps))
	r.Post("/signup", handleSignup(deps))
	r.Post("/logout", handleLogout(deps))
	r.Post("/reviews", handleReview(deps))

	// Unknown paths go through the guard, which always redirects them.
	r.NotFound(guard(deps.Sessions)(http.NotFoundHandler()).ServeHTTP)

	return r
}

// guard applies the route table to the current session.
func guard(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := routes.Resolve(r.URL.Path, sessions.State().Status())
			switch d.Action {
			case routes.Pending:
				w.Header().Set("Retry-After", "1")
				httpError(w, http.StatusServiceUnavailable, "session_loading", "checking login status")
			case routes.Redirect:
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request",
				"method", r.Method, "path", r.URL.Path, "status", rec.status,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleHome(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		if err := deps.Views.Home.Load(r.Context(), search); err != nil {
			deps.Logger.Warn("loading home failed", "error", err)
		}
		writeJSON(w, http.StatusOK, deps.Views.Home.Snapshot())
	}
}

func handleAllServices(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		v := deps.Views.Services
		search := q.Get("search")

		if err := v.Ensure(r.Context(), search); err != nil {
			deps.Logger.Warn("searching services failed", "error", err)
		}

		if raw := q.Get("page"); raw != "" {
			page, err := strconv.Atoi(raw)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "page must be a number")
				return
			}
			if err := v.GoTo(page); err != nil {
				if errors.Is(err, pager.ErrOutOfRange) {
					httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
					return
				}
				httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
				return
			}
		}
		writeJSON(w, http.StatusOK, v.Snapshot())
	}
}

func handleListing[T any](logger *slog.Logger, l *pages.Listing[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := l.Load(r.Context()); err != nil {
			logger.Warn("loading listing failed", "path", r.URL.Path, "error", err)
		}
		l.SetQuery(r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, l.Snapshot())
	}
}

func handleDetail[T any](v *pages.DetailView[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := v.Load(r.Context(), chi.URLParam(r, "id"))
		switch {
		case d.NotFound:
			writeJSON(w, http.StatusNotFound, d)
		case d.Err != nil:
			httpError(w, http.StatusBadGateway, "api_error", pages.LoadFailedMessage)
		default:
			writeJSON(w, http.StatusOK, d)
		}
	}
}

func handleForm(route string, fields ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"route": route, "fields": fields})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func handleLogin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		user, err := deps.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			authError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

func handleSignup(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req directory.Registration
		if !decodeBody(w, r, &req) {
			return
		}
		if err := deps.Auth.Register(r.Context(), req); err != nil {
			authError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful! Please login."})
	}
}

func handleLogout(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Auth.Logout(r.Context()); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "logout failed: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReview(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form pages.ReviewForm
		if !decodeBody(w, r, &form) {
			return
		}
		err := deps.Views.Home.SubmitReview(r.Context(), form)
		msg := pages.ReviewMessage(err)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, map[string]string{"message": msg})
		case errors.Is(err, pages.ErrSessionLoading):
			httpError(w, http.StatusServiceUnavailable, "session_loading", "%s", msg)
		case errors.Is(err, pages.ErrLoginRequired):
			httpError(w, http.StatusUnauthorized, "authentication_error", "%s", msg)
		case errors.Is(err, pages.ErrRatingRequired), errors.Is(err, pages.ErrInvalidRating):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%s", msg)
		default:
			httpError(w, http.StatusBadGateway, "api_error", "%s", msg)
		}
	}
}

func authError(w http.ResponseWriter, err error) {
	var apiErr *directory.APIError
	switch {
	case errors.Is(err, auth.ErrMissingField):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case errors.As(err, &apiErr):
		code := apiErr.StatusCode
		if code < 400 || code > 499 {
			code = http.StatusBadGateway
		}
		httpError(w, code, "authentication_error", "%s", apiErr.Error())
	default:
		httpError(w, http.StatusBadGateway, "api_error", "%v", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
