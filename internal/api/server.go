// Package api exposes the decision field workflows as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielpatrickdp/decision-field/internal/apierror"
	"github.com/danielpatrickdp/decision-field/internal/auth"
	"github.com/danielpatrickdp/decision-field/internal/orchestrator"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// ProfileReader looks up the signed-in user's profile.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (store.Profile, error)
}

// Server routes HTTP requests to the auth service and the orchestrator.
type Server struct {
	orch     *orchestrator.Orchestrator
	auth     *auth.Service
	issuer   *auth.Issuer
	profiles ProfileReader
	limiter  *IPRateLimiter
	logger   *slog.Logger
}

// NewServer wires a server. limiter guards the sign-up and sign-in routes and may be nil.
func NewServer(orch *orchestrator.Orchestrator, svc *auth.Service, issuer *auth.Issuer,
	profiles ProfileReader, limiter *IPRateLimiter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		orch:     orch,
		auth:     svc,
		issuer:   issuer,
		profiles: profiles,
		limiter:  limiter,
		logger:   logger.With("component", "api"),
	}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	public := func(h http.HandlerFunc) http.Handler {
		if s.limiter == nil {
			return h
		}
		return s.limiter.Middleware(h)
	}
	private := func(h http.HandlerFunc) http.Handler {
		return auth.RequireUser(s.issuer)(h)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("POST /api/auth/signup", public(s.handleSignUp))
	mux.Handle("POST /api/auth/signin", public(s.handleSignIn))
	mux.Handle("GET /api/me", private(s.handleMe))

	mux.Handle("GET /api/fields", private(s.handleListFields))
	mux.Handle("POST /api/fields", private(s.handleCreateField))
	mux.Handle("GET /api/fields/{id}", private(s.handleGetField))
	mux.Handle("POST /api/fields/{id}/analyze", private(s.handleAnalyzeField))
	mux.Handle("POST /api/fields/{id}/collapse", private(s.handleCollapseField))
	mux.Handle("POST /api/fields/{id}/archive", private(s.handleArchiveField))

	mux.Handle("GET /api/journal", private(s.handleListJournal))
	mux.Handle("POST /api/journal", private(s.handleRecordJournal))
	mux.Handle("PATCH /api/journal/{id}", private(s.handleUpdateJournal))

	return withObservability(s.logger, mux)
}

// writeErr maps domain errors onto problem responses.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		apierror.WriteNotFound(w, "Resource not found")
	case errors.Is(err, store.ErrAlreadyCollapsed):
		apierror.WriteConflict(w, "Field has already been collapsed")
	case errors.Is(err, store.ErrEmailTaken):
		apierror.WriteConflict(w, "Email is already registered")
	case errors.Is(err, orchestrator.ErrInvalidState):
		apierror.WriteConflict(w, err.Error())
	case errors.Is(err, orchestrator.ErrInvalidInput), errors.Is(err, auth.ErrWeakInput):
		apierror.WriteBadRequest(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		apierror.WriteUnauthorized(w, "Invalid email or password")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		apierror.WriteError(w, http.StatusServiceUnavailable, "Service Unavailable", "Request was cancelled before it completed")
	default:
		apierror.WriteInternal(w, r, err)
	}
}
