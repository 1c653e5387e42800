// internal/forum/handler.go
package forum

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"memberhub/internal/access"
	"memberhub/internal/membership"
	"memberhub/pkg/eventlog"
)

type Handler struct {
	service Service
	members *membership.Handler
	logger  *slog.Logger
}

func NewHandler(service Service, members *membership.Handler, logger *slog.Logger) *Handler {
	return &Handler{service: service, members: members, logger: logger}
}

// RequirePremium gates the whole forum subsystem: only premium members
// may enter, there is no free tier of forum access.
func (h *Handler) RequirePremium(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member, ok := h.members.CurrentMember(r)
		if !ok || !access.CanEnterForum(member.Tier) {
			http.Error(w, "forum access is available for premium members only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) HandleListDiscussions(w http.ResponseWriter, r *http.Request) {
	var (
		discussions []Discussion
		err         error
	)

	if category := r.URL.Query().Get("category"); category != "" {
		discussions, err = h.service.ListDiscussionsByCategory(r.Context(), category)
	} else {
		discussions, err = h.service.ListDiscussions(r.Context())
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	if discussions == nil {
		discussions = []Discussion{}
	}
	json.NewEncoder(w).Encode(discussions)
}

func (h *Handler) HandleGetDiscussion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	discussion, err := h.service.GetDiscussion(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	json.NewEncoder(w).Encode(discussion)
}

func (h *Handler) HandleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
	var req NewDiscussion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if member, ok := h.members.CurrentMember(r); ok && req.Author == "" {
		req.Author = member.Email
	}

	discussion, err := h.service.CreateDiscussion(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("discussion created", "discussion_id", discussion.ID, "category", discussion.Category)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(discussion)
}

func (h *Handler) HandleUpdateDiscussion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var patch DiscussionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	discussion, err := h.service.UpdateDiscussion(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, err)
		return
	}

	json.NewEncoder(w).Encode(discussion)
}

func (h *Handler) HandleDeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDiscussion(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListReplies(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	replies, err := h.service.ListReplies(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if replies == nil {
		replies = []Reply{}
	}
	json.NewEncoder(w).Encode(replies)
}

func (h *Handler) HandleCreateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req NewReply
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if member, ok := h.members.CurrentMember(r); ok && req.Author == "" {
		req.Author = member.Email
	}

	reply, err := h.service.CreateReply(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reply)
}

func (h *Handler) HandleUpdateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.service.UpdateReply(r.Context(), id, req.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}

	json.NewEncoder(w).Encode(reply)
}

func (h *Handler) HandleDeleteReply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReply(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.Categories())
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDiscussionNotFound), errors.Is(err, ErrReplyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, eventlog.ErrConcurrencyConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
