package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikhailRaia/link-rewards/internal/logger"
	"github.com/MikhailRaia/link-rewards/internal/middleware"
	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type IdentityService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type LinkService interface {
	CreateLink(ctx context.Context, ownerID, originalURL string) (*model.Link, error)
	ShortURL(code string) string
	UserLinks(ctx context.Context, userID string) ([]model.UserLink, error)
}

type RewardService interface {
	Resolve(ctx context.Context, shortCode string) (string, error)
	RecordClick(ctx context.Context, shortCode string) error
}

type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, userID string) (*model.WithdrawalRequest, error)
	Approve(ctx context.Context, id string) (*model.WithdrawalRequest, error)
	Pending(ctx context.Context) ([]model.WithdrawalRequest, error)
}

// VisitQueue accepts visits for out-of-band reward crediting.
type VisitQueue interface {
	Submit(visit model.Visit) bool
}

type DBPinger interface {
	Ping(ctx context.Context) error
}

// Handler exposes the HTTP API.
type Handler struct {
	identity    IdentityService
	links       LinkService
	rewards     RewardService
	withdrawals WithdrawalService
	visits      VisitQueue
	dbPinger    DBPinger
}

// NewHandler constructs a Handler from the application services. dbPinger may
// be nil when the storage backend has no health check.
func NewHandler(identity IdentityService, links LinkService, rewards RewardService, withdrawals WithdrawalService, visits VisitQueue, dbPinger DBPinger) *Handler {
	return &Handler{
		identity:    identity,
		links:       links,
		rewards:     rewards,
		withdrawals: withdrawals,
		visits:      visits,
		dbPinger:    dbPinger,
	}
}

// RegisterRoutes wires all endpoints into a chi router.
func (h *Handler) RegisterRoutes(authMW *middleware.AuthMiddleware, adminMW *middleware.AdminMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	r.Get("/", h.handleRoot)
	r.Get("/ping", h.handlePing)

	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Get("/visit/{shortCode}", h.handleVisit)

	r.Group(func(r chi.Router) {
		r.Use(authMW.RequireAuth)
		r.Post("/create-link", h.handleCreateLink)
		r.Post("/withdraw", h.handleWithdraw)
		r.Get("/api/user/links", h.handleUserLinks)
		r.Get("/api/user/me", h.handleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminMW.RequireAdmin)
		r.Post("/admin/approve-withdrawal/{id}", h.handleApproveWithdrawal)
		r.Get("/admin/withdrawals", h.handlePendingWithdrawals)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("link-rewards service is running"))
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if h.dbPinger == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.dbPinger.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleVisit counts the click, hands the reward to the worker pool, and
// redirects. The click is recorded synchronously so every served redirect is
// a counted click; the redirect never waits on crediting, and neither a
// click-count nor a crediting failure is shown to the visitor.
func (h *Handler) handleVisit(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if shortCode == "" {
		writeMessage(w, http.StatusBadRequest, "short code is required")
		return
	}

	originalURL, err := h.rewards.Resolve(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, storage.ErrLinkNotFound) {
			writeMessage(w, http.StatusNotFound, "link not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "failed to resolve link")
		return
	}

	if err := h.rewards.RecordClick(r.Context(), shortCode); err != nil {
		log.Error().Err(err).Str("shortCode", shortCode).Msg("Failed to count click")
	}

	h.visits.Submit(model.Visit{
		ShortCode:  shortCode,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})

	http.Redirect(w, r, originalURL, http.StatusFound)
}
