// internal/membership/handler.go
package membership

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"memberhub/internal/payments"
	"memberhub/internal/session"
	"memberhub/pkg/eventlog"
)

type Handler struct {
	service  Service
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(service Service, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, logger: logger}
}

// HandleSignup creates a free member and opens a session for it.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.service.CreateFreeMember(r.Context(), req.Email)
	if err != nil {
		h.respondError(w, err)
		return
	}

	token := h.sessions.Start(member.ID)
	h.logger.Info("member signed up", "member_id", member.ID, "tier", member.Tier)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Member *Member `json:"member"`
		Token  string  `json:"token"`
	}{Member: member, Token: token})
}

// HandleCurrentMember resolves the caller's session to a member.
func (h *Handler) HandleCurrentMember(w http.ResponseWriter, r *http.Request) {
	member, ok := h.currentMember(r)
	if !ok {
		http.Error(w, "no active session", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(member)
}

// HandleLogout ends the caller's session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := r.Header.Get("X-Session-Token"); token != "" {
		h.sessions.End(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member ID", http.StatusBadRequest)
		return
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	json.NewEncoder(w).Encode(member)
}

func (h *Handler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member ID", http.StatusBadRequest)
		return
	}

	member, err := h.service.UpgradeToPremium(r.Context(), id)
	if err != nil {
		h.logger.Warn("upgrade failed", "member_id", id, "error", err)
		h.respondError(w, err)
		return
	}

	json.NewEncoder(w).Encode(member)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member ID", http.StatusBadRequest)
		return
	}

	member, err := h.service.CancelSubscription(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	json.NewEncoder(w).Encode(member)
}

// CurrentMember exposes session resolution to other handlers that gate
// on the caller's tier.
func (h *Handler) CurrentMember(r *http.Request) (*Member, bool) {
	return h.currentMember(r)
}

func (h *Handler) currentMember(r *http.Request) (*Member, bool) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		return nil, false
	}

	id, ok := h.sessions.MemberID(token)
	if !ok {
		return nil, false
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		return nil, false
	}
	return member, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, payments.ErrGatewayDeclined):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, eventlog.ErrConcurrencyConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
