package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adverot/emailfinder/internal/finder"
	"github.com/adverot/emailfinder/internal/platform/middleware"
	dErrors "github.com/adverot/emailfinder/pkg/domain-errors"
	"github.com/adverot/emailfinder/pkg/platform/httputil"
)

// Service defines the interface for lookup operations.
type Service interface {
	FindEmail(ctx context.Context, firstName, lastName, domain string) (*finder.Result, error)
	Candidates(ctx context.Context, firstName, lastName, domain string) ([]finder.Candidate, error)
}

// Handler handles lookup-related endpoints.
type Handler struct {
	logger  *slog.Logger
	finder  Service
	timeout time.Duration
}

// New creates a new lookup Handler. The timeout bounds a whole lookup
// request, which may span dozens of sequential probes.
func New(finderSvc Service, logger *slog.Logger, timeout time.Duration) *Handler {
	return &Handler{
		logger:  logger,
		finder:  finderSvc,
		timeout: timeout,
	}
}

// Register registers the lookup routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	lookupRouter := chi.NewRouter()
	lookupRouter.Use(middleware.Timeout(h.timeout))
	lookupRouter.Use(middleware.ContentTypeJSON)
	lookupRouter.Post("/lookups", h.handleLookup)
	lookupRouter.Post("/candidates", h.handleCandidates)

	r.Mount("/v1", lookupRouter)
}

// handleLookup runs a full find-email lookup.
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.finder.FindEmail(ctx, req.FirstName, req.LastName, req.Domain)
	if err != nil {
		h.logger.WarnContext(ctx, "lookup rejected",
			"request_id", requestID,
			"domain", req.Domain,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LookupResponse{
		Outcome: result.Outcome,
		Email:   result.Email,
		Probes:  result.Probes,
	})
}

// handleCandidates returns the scored candidate list without probing.
func (h *Handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	candidates, err := h.finder.Candidates(ctx, req.FirstName, req.LastName, req.Domain)
	if err != nil {
		h.logger.WarnContext(ctx, "candidate generation rejected",
			"request_id", requestID,
			"domain", req.Domain,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CandidatesResponse{
		Domain:     req.Domain,
		Candidates: candidates,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (LookupRequest, bool) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return req, false
	}
	return req, true
}
